package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Request selects a question batch from the provider. Empty or "any" filter
// values are omitted from the query.
type Request struct {
	Amount     int
	Category   string
	Difficulty string
	Type       string
}

// Question is the normalized, immutable form delivered to the game. Answers
// holds the correct and incorrect choices in a permutation fixed at fetch
// time; it is never reshuffled on resend.
type Question struct {
	Text          string
	CorrectAnswer string
	Category      string
	Difficulty    string
	Answers       []string
}

// Client fetches question batches from the Open Trivia DB (no API key).
// Safe for concurrent use: room creations for different rooms fetch in
// parallel, and rand.Rand is not.
type Client struct {
	baseURL    string
	httpClient *http.Client

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewClient builds a provider client. The timeout bounds every request so a
// stalled provider cannot hang room creation.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type providerQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type providerResponse struct {
	ResponseCode int                `json:"response_code"`
	Results      []providerQuestion `json:"results"`
}

// Fetch retrieves exactly req.Amount questions or a typed error from the
// failure taxonomy in errors.go.
func (c *Client) Fetch(ctx context.Context, req Request) ([]Question, error) {
	values := url.Values{}
	values.Set("amount", fmt.Sprint(req.Amount))
	if filter(req.Category) {
		values.Set("category", req.Category)
	}
	if filter(req.Difficulty) {
		values.Set("difficulty", strings.ToLower(req.Difficulty))
	}
	if filter(req.Type) {
		values.Set("type", strings.ToLower(req.Type))
	}

	payload := providerResponse{}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), &payload); err != nil {
		return nil, err
	}

	switch payload.ResponseCode {
	case 0:
	case 1:
		return nil, fmt.Errorf("%w: amount=%d", ErrNoResults, req.Amount)
	case 2:
		return nil, ErrInvalidParameters
	default:
		return nil, fmt.Errorf("%w: response code %d", ErrUnknown, payload.ResponseCode)
	}

	questions := make([]Question, len(payload.Results))
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	for i, q := range payload.Results {
		questions[i] = Question{
			Text:          q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Category:      q.Category,
			Difficulty:    q.Difficulty,
			Answers:       shuffleAnswers(c.rng, append(append([]string{}, q.IncorrectAnswers...), q.CorrectAnswer)),
		}
	}
	return questions, nil
}

// Categories proxies the provider's category listing verbatim.
func (c *Client) Categories(ctx context.Context) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := c.getJSON(ctx, c.baseURL+"/api_category.php", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnknown, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnknown, err)
	}
	return nil
}

func classifyTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func filter(v string) bool {
	return v != "" && !strings.EqualFold(v, "any")
}
