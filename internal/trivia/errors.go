package trivia

import "errors"

// Provider failure taxonomy. Fetch wraps one of these so callers can match
// with errors.Is and translate to a player-facing message.
var (
	ErrNoResults         = errors.New("trivia: no results for the requested settings")
	ErrInvalidParameters = errors.New("trivia: invalid request parameters")
	ErrTimeout           = errors.New("trivia: provider request timed out")
	ErrUnreachable       = errors.New("trivia: provider unreachable")
	ErrUnknown           = errors.New("trivia: unknown provider error")
)

// UserMessage maps a provider error to the message shown to the player.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoResults):
		return "No questions available for these settings. Try different options."
	case errors.Is(err, ErrInvalidParameters):
		return "Invalid settings parameters."
	case errors.Is(err, ErrTimeout):
		return "Connection timeout. The trivia server might be experiencing high traffic."
	case errors.Is(err, ErrUnreachable):
		return "No response from trivia server. Please check your internet connection."
	default:
		return "Failed to fetch trivia questions. Please try again."
	}
}
