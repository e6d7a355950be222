package trivia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerPayload(code int, count int) string {
	type result struct {
		Category         string   `json:"category"`
		Type             string   `json:"type"`
		Difficulty       string   `json:"difficulty"`
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	}
	payload := struct {
		ResponseCode int      `json:"response_code"`
		Results      []result `json:"results"`
	}{ResponseCode: code}
	for i := 0; i < count; i++ {
		payload.Results = append(payload.Results, result{
			Category:         "Science",
			Type:             "multiple",
			Difficulty:       "easy",
			Question:         "What is the chemical symbol for gold?",
			CorrectAnswer:    "Au",
			IncorrectAnswers: []string{"Ag", "Fe", "Pb"},
		})
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(providerPayload(0, 3)))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	questions, err := client.Fetch(context.Background(), Request{Amount: 3})
	require.NoError(t, err)
	require.Len(t, questions, 3)

	q := questions[0]
	assert.Equal(t, "What is the chemical symbol for gold?", q.Text)
	assert.Equal(t, "Au", q.CorrectAnswer)
	assert.Equal(t, "Science", q.Category)
	assert.Equal(t, "easy", q.Difficulty)
	assert.Len(t, q.Answers, 4)
	assert.Contains(t, q.Answers, "Au")
	assert.ElementsMatch(t, []string{"Au", "Ag", "Fe", "Pb"}, q.Answers)
}

func TestFetchQueryParameters(t *testing.T) {
	var got map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(providerPayload(0, 1)))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Fetch(context.Background(), Request{
		Amount:     5,
		Category:   "any",
		Difficulty: "Easy",
		Type:       "Multiple",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"5"}, got["amount"])
	assert.NotContains(t, got, "category", `"any" filters are omitted`)
	assert.Equal(t, []string{"easy"}, got["difficulty"])
	assert.Equal(t, []string{"multiple"}, got["type"])
}

func TestFetchTypedErrors(t *testing.T) {
	cases := []struct {
		name         string
		responseCode int
		want         error
	}{
		{"no results", 1, ErrNoResults},
		{"invalid parameters", 2, ErrInvalidParameters},
		{"unknown code", 5, ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(providerPayload(tc.responseCode, 0)))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			_, err := client.Fetch(context.Background(), Request{Amount: 10})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Fetch(context.Background(), Request{Amount: 10})
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(providerPayload(0, 1)))
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)
	_, err := client.Fetch(context.Background(), Request{Amount: 1})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second)
	_, err := client.Fetch(context.Background(), Request{Amount: 1})
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCategoriesPassthrough(t *testing.T) {
	raw := `{"trivia_categories":[{"id":9,"name":"General Knowledge"}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api_category.php", r.URL.Path)
		w.Write([]byte(raw))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	payload, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(payload))
}

func TestUserMessageTaxonomy(t *testing.T) {
	assert.Equal(t, "No questions available for these settings. Try different options.", UserMessage(ErrNoResults))
	assert.Equal(t, "Invalid settings parameters.", UserMessage(ErrInvalidParameters))
	assert.Equal(t, "Connection timeout. The trivia server might be experiencing high traffic.", UserMessage(ErrTimeout))
	assert.Equal(t, "No response from trivia server. Please check your internet connection.", UserMessage(ErrUnreachable))
	assert.Equal(t, "Failed to fetch trivia questions. Please try again.", UserMessage(ErrUnknown))
}

func TestFetchConcurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(providerPayload(0, 5)))
	}))
	defer server.Close()

	// One client serves every room creation, so fetches overlap.
	client := NewClient(server.URL, time.Second)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	batches := make([][]Question, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batches[i], errs[i] = client.Fetch(context.Background(), Request{Amount: 5})
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		require.Len(t, batches[i], 5)
		for _, q := range batches[i] {
			assert.ElementsMatch(t, []string{"Au", "Ag", "Fe", "Pb"}, q.Answers)
		}
	}
}
