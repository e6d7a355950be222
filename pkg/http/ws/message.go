package ws

import "encoding/json"

// MessageType constants for the game WebSocket protocol.
const (
	// Client -> Server
	TypeCreateGame   = "create_game"
	TypeJoinGame     = "join_game"
	TypeStartGame    = "start_game"
	TypeSubmitAnswer = "submit_answer"
	TypeNextQuestion = "next_question"
	TypeLeaveGame    = "leave_game"

	// Server -> Client
	TypeGameCreated       = "game_created"
	TypeGameJoined        = "game_joined"
	TypePlayerListUpdated = "player_list_updated"
	TypeNewQuestion       = "new_question"
	TypeAnswerSubmitted   = "answer_submitted"
	TypeQuestionResults   = "question_results"
	TypeGameEnded         = "game_ended"
	TypeAdminAssigned     = "admin_assigned"
	TypeGameError         = "game_error"
)

// Message wraps all WebSocket payloads with an event type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a Message envelope. Marshal errors are
// impossible for the payload structs below, so they are swallowed.
func NewMessage(msgType string, payload any) Message {
	msg := Message{Type: msgType}
	if payload != nil {
		msg.Payload, _ = json.Marshal(payload)
	}
	return msg
}

// Client Messages (incoming)

type CreateGamePayload struct {
	Amount          int    `json:"amount"`
	Category        string `json:"category,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
	Type            string `json:"type,omitempty"`
	TimePerQuestion int    `json:"timePerQuestion,omitempty"`
	AdminName       string `json:"adminName,omitempty"`
}

type JoinGamePayload struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
}

type StartGamePayload struct {
	GameCode string `json:"gameCode"`
}

type SubmitAnswerPayload struct {
	GameCode      string  `json:"gameCode"`
	Answer        string  `json:"answer"`
	TimeRemaining float64 `json:"timeRemaining"`
}

type NextQuestionPayload struct {
	GameCode string `json:"gameCode"`
}

type LeaveGamePayload struct {
	GameCode string `json:"gameCode"`
}

// Server Messages (outgoing)

type GameCreatedPayload struct {
	GameCode      string `json:"gameCode"`
	IsAdmin       bool   `json:"isAdmin"`
	QuestionCount int    `json:"questionCount"`
}

type GameJoinedPayload struct {
	GameCode      string `json:"gameCode"`
	IsAdmin       bool   `json:"isAdmin"`
	QuestionCount int    `json:"questionCount"`
}

type PlayerListUpdatedPayload struct {
	Players []PlayerInfo `json:"players"`
}

type PlayerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	IsAdmin bool   `json:"isAdmin"`
}

type NewQuestionPayload struct {
	Question       string   `json:"question"`
	Answers        []string `json:"answers"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	QuestionNumber int      `json:"questionNumber"`
	TotalQuestions int      `json:"totalQuestions"`
	TimeLimit      int      `json:"timeLimit"`
}

type AnswerSubmittedPayload struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	ScoreGained   int    `json:"scoreGained"`
}

type QuestionResultsPayload struct {
	Question      string             `json:"question"`
	CorrectAnswer string             `json:"correctAnswer"`
	PlayerAnswers []PlayerAnswer     `json:"playerAnswers"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}

// PlayerAnswer reports one player's submission for the current question.
// Answer is null when the player never answered before the deadline.
type PlayerAnswer struct {
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	Answer      *string `json:"answer"`
	IsCorrect   bool    `json:"isCorrect"`
	ScoreGained int     `json:"scoreGained"`
	TotalScore  int     `json:"totalScore"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Name     string `json:"playerName"`
	Score    int    `json:"score"`
}

type GameEndedPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type GameErrorPayload struct {
	Message string `json:"message"`
}
