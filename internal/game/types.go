package game

import (
	"sync"
	"time"

	"github.com/quizzlio/quizzlio-server/internal/trivia"
)

// Phase is a room's position in the game state machine.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseResults Phase = "results"
	PhaseEnded   Phase = "ended"
)

// Answer is one ledger slot: a player's submission for a single question.
type Answer struct {
	Answer        string
	IsCorrect     bool
	ScoreGained   int
	TimeRemaining float64
}

// Player is one connection joined to a room. ID is the transport connection
// identifier assigned by the gateway.
type Player struct {
	ID      string
	Name    string
	Score   int
	IsAdmin bool
	Answers []*Answer // sparse, indexed by question index
}

// Room is the authoritative state for one game session. All fields below mu
// are guarded by it; no two operations on the same room interleave.
type Room struct {
	mu sync.Mutex

	Code         string
	Phase        Phase
	AdminID      string
	Questions    []trivia.Question
	CurrentIndex int
	Players      []*Player
	TimeLimit    int // seconds per question

	timer  *time.Timer // at most one pending deadline
	closed bool        // set before the room leaves the registry
}

// findPlayer returns the roster index for a connection id, or -1.
// Caller holds r.mu.
func (r *Room) findPlayer(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// answerFor returns the ledger slot for a question, or nil. Caller holds r.mu.
func (p *Player) answerFor(index int) *Answer {
	if index < 0 || index >= len(p.Answers) {
		return nil
	}
	return p.Answers[index]
}

// recordAnswer sets the ledger slot for a question, growing the sparse
// sequence as needed. Caller holds r.mu.
func (p *Player) recordAnswer(index int, a *Answer) {
	for len(p.Answers) <= index {
		p.Answers = append(p.Answers, nil)
	}
	p.Answers[index] = a
}

// allAnswered reports whether every present player has a ledger entry for the
// current question. Caller holds r.mu.
func (r *Room) allAnswered() bool {
	for _, p := range r.Players {
		if p.answerFor(r.CurrentIndex) == nil {
			return false
		}
	}
	return true
}

// cancelDeadline stops any pending timer. Caller holds r.mu.
func (r *Room) cancelDeadline() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
