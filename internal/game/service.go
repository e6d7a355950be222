package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizzlio/quizzlio-server/internal/trivia"
	ws "github.com/quizzlio/quizzlio-server/pkg/http/ws"
)

// QuestionSource fetches a normalized question batch for a new room.
// Implemented by trivia.Client.
type QuestionSource interface {
	Fetch(ctx context.Context, req trivia.Request) ([]trivia.Question, error)
}

// Notifier is the outbound half of the session gateway: targeted sends and
// per-room broadcast groups. Implemented by ws.Hub; tests substitute a
// recording double so the state machine runs without a live transport.
type Notifier interface {
	SendTo(connID string, msg ws.Message) error
	BroadcastToRoom(code string, msg ws.Message) error
	JoinRoom(code, connID string)
	LeaveRoom(code, connID string)
	DropRoom(code string)
}

// Options groups gameplay defaults and limits.
type Options struct {
	MaxPlayers             int
	DefaultQuestionCount   int
	DefaultTimePerQuestion int // seconds
}

// Service drives the room state machine. Each operation validates room
// existence and phase/role preconditions before mutating; violations return a
// typed error and leave state untouched. Per-room serialization is the room
// mutex; broadcasts are emitted after the lock is released.
type Service struct {
	registry *Registry
	source   QuestionSource
	notifier Notifier
	opts     Options
	logger   zerolog.Logger
}

// NewService wires the state machine to its collaborators.
func NewService(registry *Registry, source QuestionSource, notifier Notifier, opts Options, logger zerolog.Logger) *Service {
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = 10
	}
	if opts.DefaultQuestionCount <= 0 {
		opts.DefaultQuestionCount = 10
	}
	if opts.DefaultTimePerQuestion <= 0 {
		opts.DefaultTimePerQuestion = 15
	}
	return &Service{
		registry: registry,
		source:   source,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// CreateGame fetches questions and registers a new room in the lobby phase
// with the requester as sole player and admin. On provider failure no room is
// registered and the provider's error is returned.
func (s *Service) CreateGame(ctx context.Context, connID string, req ws.CreateGamePayload) error {
	amount := req.Amount
	if amount <= 0 {
		amount = s.opts.DefaultQuestionCount
	}
	timeLimit := req.TimePerQuestion
	if timeLimit <= 0 {
		timeLimit = s.opts.DefaultTimePerQuestion
	}
	adminName := req.AdminName
	if adminName == "" {
		adminName = "Admin"
	}

	// The provider call runs before any lock is taken so a slow fetch cannot
	// block other rooms.
	questions, err := s.source.Fetch(ctx, trivia.Request{
		Amount:     amount,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Type:       req.Type,
	})
	if err != nil {
		return err
	}

	room, err := s.registry.Create(func(code string) *Room {
		return &Room{
			Code:         code,
			Phase:        PhaseLobby,
			AdminID:      connID,
			Questions:    questions,
			CurrentIndex: -1,
			TimeLimit:    timeLimit,
			Players: []*Player{{
				ID:      connID,
				Name:    adminName,
				IsAdmin: true,
			}},
		}
	})
	if err != nil {
		return err
	}

	metricGamesCreated.Inc()
	metricActiveRooms.Inc()
	s.logger.Info().
		Str("game_code", room.Code).
		Str("admin_id", connID).
		Int("question_count", len(questions)).
		Msg("game created")

	s.notifier.JoinRoom(room.Code, connID)
	s.notifier.SendTo(connID, ws.NewMessage(ws.TypeGameCreated, ws.GameCreatedPayload{
		GameCode:      room.Code,
		IsAdmin:       true,
		QuestionCount: len(questions),
	}))

	room.mu.Lock()
	roster := rosterLocked(room)
	room.mu.Unlock()
	s.notifier.BroadcastToRoom(room.Code, ws.NewMessage(ws.TypePlayerListUpdated, ws.PlayerListUpdatedPayload{Players: roster}))
	return nil
}

// JoinGame appends a non-admin player to a lobby-phase room.
func (s *Service) JoinGame(connID string, req ws.JoinGamePayload) error {
	room, ok := s.registry.Lookup(req.GameCode)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.Phase != PhaseLobby {
		room.mu.Unlock()
		return ErrAlreadyInProgress
	}
	if len(room.Players) >= s.opts.MaxPlayers {
		room.mu.Unlock()
		return ErrRoomFull
	}
	room.Players = append(room.Players, &Player{
		ID:   connID,
		Name: req.PlayerName,
	})
	questionCount := len(room.Questions)
	roster := rosterLocked(room)
	room.mu.Unlock()

	s.logger.Info().
		Str("game_code", room.Code).
		Str("player_id", connID).
		Str("player_name", req.PlayerName).
		Msg("player joined game")

	s.notifier.JoinRoom(room.Code, connID)
	s.notifier.SendTo(connID, ws.NewMessage(ws.TypeGameJoined, ws.GameJoinedPayload{
		GameCode:      room.Code,
		IsAdmin:       false,
		QuestionCount: questionCount,
	}))
	s.notifier.BroadcastToRoom(room.Code, ws.NewMessage(ws.TypePlayerListUpdated, ws.PlayerListUpdatedPayload{Players: roster}))
	return nil
}

// StartGame moves a lobby-phase room to playing and emits the first question.
// Admin only.
func (s *Service) StartGame(connID string, req ws.StartGamePayload) error {
	room, ok := s.registry.Lookup(req.GameCode)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.AdminID != connID {
		room.mu.Unlock()
		return ErrNotAdmin
	}
	if room.Phase != PhaseLobby {
		room.mu.Unlock()
		return ErrAlreadyInProgress
	}
	room.Phase = PhasePlaying
	room.CurrentIndex = 0
	questionMsg := s.emitQuestionLocked(room)
	room.mu.Unlock()

	s.logger.Info().Str("game_code", room.Code).Str("admin_id", connID).Msg("game started")
	s.notifier.BroadcastToRoom(room.Code, questionMsg)
	return nil
}

// SubmitAnswer records a player's answer for the current question, sends a
// personal acknowledgment, and transitions to results once every present
// player has answered. A second submission for the same question is rejected
// so the ledger stays exactly-once.
func (s *Service) SubmitAnswer(connID string, req ws.SubmitAnswerPayload) error {
	room, ok := s.registry.Lookup(req.GameCode)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.Phase != PhasePlaying {
		room.mu.Unlock()
		return ErrNotInProgress
	}
	idx := room.findPlayer(connID)
	if idx == -1 {
		room.mu.Unlock()
		return ErrNotAParticipant
	}
	player := room.Players[idx]
	if player.answerFor(room.CurrentIndex) != nil {
		room.mu.Unlock()
		return ErrAlreadyAnswered
	}

	question := room.Questions[room.CurrentIndex]
	isCorrect := req.Answer == question.CorrectAnswer
	gained := Score(isCorrect, req.TimeRemaining)
	player.Score += gained
	player.recordAnswer(room.CurrentIndex, &Answer{
		Answer:        req.Answer,
		IsCorrect:     isCorrect,
		ScoreGained:   gained,
		TimeRemaining: req.TimeRemaining,
	})

	ack := ws.NewMessage(ws.TypeAnswerSubmitted, ws.AnswerSubmittedPayload{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		ScoreGained:   gained,
	})

	// The all-answered check runs under the room lock, atomically with the
	// mutation above, so concurrent submissions cannot both miss it.
	var resultsMsg *ws.Message
	if room.allAnswered() {
		msg := s.finishQuestionLocked(room)
		resultsMsg = &msg
	}
	room.mu.Unlock()

	metricAnswersSubmitted.Inc()
	s.logger.Info().
		Str("game_code", room.Code).
		Str("player_id", connID).
		Bool("correct", isCorrect).
		Int("score_gained", gained).
		Msg("answer submitted")

	s.notifier.SendTo(connID, ack)
	if resultsMsg != nil {
		s.notifier.BroadcastToRoom(room.Code, *resultsMsg)
	}
	return nil
}

// NextQuestion advances past the results phase: either the next question is
// emitted or, when none remain, the game ends with the final leaderboard.
// Admin only.
func (s *Service) NextQuestion(connID string, req ws.NextQuestionPayload) error {
	room, ok := s.registry.Lookup(req.GameCode)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.AdminID != connID {
		room.mu.Unlock()
		return ErrNotAdmin
	}
	if room.Phase != PhaseResults {
		room.mu.Unlock()
		return ErrNotInResults
	}

	room.CurrentIndex++
	if room.CurrentIndex >= len(room.Questions) {
		room.Phase = PhaseEnded
		leaderboard := Leaderboard(room.Players)
		room.mu.Unlock()

		s.logger.Info().Str("game_code", room.Code).Msg("game ended")
		s.notifier.BroadcastToRoom(room.Code, ws.NewMessage(ws.TypeGameEnded, ws.GameEndedPayload{Leaderboard: leaderboard}))
		return nil
	}

	room.Phase = PhasePlaying
	questionMsg := s.emitQuestionLocked(room)
	number := room.CurrentIndex + 1
	total := len(room.Questions)
	room.mu.Unlock()

	s.logger.Info().
		Str("game_code", room.Code).
		Int("question_number", number).
		Int("total_questions", total).
		Msg("next question")
	s.notifier.BroadcastToRoom(room.Code, questionMsg)
	return nil
}

// LeaveGame removes the requester from a room.
func (s *Service) LeaveGame(connID string, req ws.LeaveGamePayload) error {
	room, ok := s.registry.Lookup(req.GameCode)
	if !ok {
		return ErrRoomNotFound
	}
	s.removePlayer(room, connID)
	return nil
}

// Disconnect handles a transport-level departure: the player is removed from
// any room they belong to. Not an error condition.
func (s *Service) Disconnect(connID string) {
	for _, room := range s.registry.Rooms() {
		s.removePlayer(room, connID)
	}
}

// removePlayer takes a player out of the roster, promoting a new admin or
// tearing the room down as needed. No-op if the player is not a member.
func (s *Service) removePlayer(room *Room, connID string) {
	room.mu.Lock()
	idx := room.findPlayer(connID)
	if idx == -1 {
		room.mu.Unlock()
		return
	}
	name := room.Players[idx].Name
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	wasAdmin := room.AdminID == connID

	if len(room.Players) == 0 {
		room.closed = true
		room.cancelDeadline()
		room.mu.Unlock()

		s.registry.Remove(room.Code)
		s.notifier.LeaveRoom(room.Code, connID)
		s.notifier.DropRoom(room.Code)
		metricActiveRooms.Dec()
		s.logger.Info().Str("game_code", room.Code).Msg("empty game removed")
		return
	}

	var promotedID string
	if wasAdmin {
		// Earliest-joined remaining player inherits the room.
		next := room.Players[0]
		next.IsAdmin = true
		room.AdminID = next.ID
		promotedID = next.ID
	}
	roster := rosterLocked(room)
	room.mu.Unlock()

	s.logger.Info().
		Str("game_code", room.Code).
		Str("player_id", connID).
		Str("player_name", name).
		Msg("player left game")

	s.notifier.LeaveRoom(room.Code, connID)
	if promotedID != "" {
		s.logger.Info().Str("game_code", room.Code).Str("admin_id", promotedID).Msg("new admin assigned")
		s.notifier.SendTo(promotedID, ws.NewMessage(ws.TypeAdminAssigned, nil))
	}
	s.notifier.BroadcastToRoom(room.Code, ws.NewMessage(ws.TypePlayerListUpdated, ws.PlayerListUpdatedPayload{Players: roster}))
}

// emitQuestionLocked builds the new_question broadcast for the current index
// and arms the question deadline. Caller holds room.mu and has set the phase
// to playing.
func (s *Service) emitQuestionLocked(room *Room) ws.Message {
	question := room.Questions[room.CurrentIndex]
	msg := ws.NewMessage(ws.TypeNewQuestion, ws.NewQuestionPayload{
		Question:       question.Text,
		Answers:        question.Answers,
		Category:       question.Category,
		Difficulty:     question.Difficulty,
		QuestionNumber: room.CurrentIndex + 1,
		TotalQuestions: len(room.Questions),
		TimeLimit:      room.TimeLimit,
	})

	room.cancelDeadline()
	index := room.CurrentIndex
	code := room.Code
	room.timer = time.AfterFunc(time.Duration(room.TimeLimit)*time.Second, func() {
		s.questionDeadline(code, index)
	})
	return msg
}

// questionDeadline fires when a question's time limit elapses. A stale fire,
// one arriving after the phase or index has moved on, is ignored.
func (s *Service) questionDeadline(code string, index int) {
	room, ok := s.registry.Lookup(code)
	if !ok {
		return
	}

	room.mu.Lock()
	if room.closed || room.Phase != PhasePlaying || room.CurrentIndex != index {
		room.mu.Unlock()
		return
	}
	msg := s.finishQuestionLocked(room)
	room.mu.Unlock()

	metricQuestionTimeouts.Inc()
	s.logger.Info().Str("game_code", code).Int("question_index", index).Msg("question deadline fired")
	s.notifier.BroadcastToRoom(code, msg)
}

// finishQuestionLocked cancels the pending deadline, moves the room to the
// results phase, and builds the question_results broadcast. Players without a
// ledger entry are reported as non-answers. Caller holds room.mu.
func (s *Service) finishQuestionLocked(room *Room) ws.Message {
	room.cancelDeadline()

	question := room.Questions[room.CurrentIndex]
	playerAnswers := make([]ws.PlayerAnswer, len(room.Players))
	for i, p := range room.Players {
		pa := ws.PlayerAnswer{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			TotalScore: p.Score,
		}
		if a := p.answerFor(room.CurrentIndex); a != nil {
			answer := a.Answer
			pa.Answer = &answer
			pa.IsCorrect = a.IsCorrect
			pa.ScoreGained = a.ScoreGained
		}
		playerAnswers[i] = pa
	}

	room.Phase = PhaseResults
	return ws.NewMessage(ws.TypeQuestionResults, ws.QuestionResultsPayload{
		Question:      question.Text,
		CorrectAnswer: question.CorrectAnswer,
		PlayerAnswers: playerAnswers,
		Leaderboard:   Leaderboard(room.Players),
	})
}

// rosterLocked snapshots the roster for player_list_updated. Caller holds
// room.mu.
func rosterLocked(room *Room) []ws.PlayerInfo {
	players := make([]ws.PlayerInfo, len(room.Players))
	for i, p := range room.Players {
		players[i] = ws.PlayerInfo{
			ID:      p.ID,
			Name:    p.Name,
			Score:   p.Score,
			IsAdmin: p.IsAdmin,
		}
	}
	return players
}
