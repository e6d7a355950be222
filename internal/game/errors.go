package game

import (
	"errors"

	"github.com/quizzlio/quizzlio-server/internal/trivia"
)

// Rejection taxonomy for room operations. Every violation maps to a game_error
// event for the originating connection and leaves room state untouched.
var (
	ErrRoomNotFound       = errors.New("game not found")
	ErrNotAdmin           = errors.New("requester is not the admin")
	ErrAlreadyInProgress  = errors.New("game already in progress")
	ErrNotInProgress      = errors.New("game is not in progress")
	ErrNotInResults       = errors.New("game is not showing results")
	ErrRoomFull           = errors.New("game is full")
	ErrNotAParticipant    = errors.New("player not found in this game")
	ErrAlreadyAnswered    = errors.New("question already answered")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique game code")
)

// ErrorMessage translates an operation error into the player-facing message
// sent with the game_error event.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Game not found. Check your game code and try again."
	case errors.Is(err, ErrNotAdmin):
		return "Only the admin can perform this action."
	case errors.Is(err, ErrAlreadyInProgress):
		return "Game already in progress. You cannot join at this time."
	case errors.Is(err, ErrNotInProgress):
		return "Game is not in progress."
	case errors.Is(err, ErrNotInResults):
		return "Cannot advance to next question at this time."
	case errors.Is(err, ErrRoomFull):
		return "Game is full. Please try another game or create your own."
	case errors.Is(err, ErrNotAParticipant):
		return "Player not found in this game."
	case errors.Is(err, ErrAlreadyAnswered):
		return "You have already answered this question."
	case errors.Is(err, ErrCodeSpaceExhausted):
		return "Could not create a game right now. Please try again."
	case errors.Is(err, trivia.ErrNoResults),
		errors.Is(err, trivia.ErrInvalidParameters),
		errors.Is(err, trivia.ErrTimeout),
		errors.Is(err, trivia.ErrUnreachable),
		errors.Is(err, trivia.ErrUnknown):
		return trivia.UserMessage(err)
	default:
		return "Something went wrong. Please try again."
	}
}
