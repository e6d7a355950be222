package game

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizzlio/quizzlio-server/internal/server"
	ws "github.com/quizzlio/quizzlio-server/pkg/http/ws"
)

// Handler is the session gateway: it owns the WebSocket boundary and binds
// inbound client actions to state machine operations.
type Handler struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewHandler creates the gateway over a service and hub.
func NewHandler(service *Service, hub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// HandleWebSocket upgrades the connection, assigns it an id, and pumps
// messages until the client goes away. Departure is a normal transition: the
// player is removed from any room they belong to.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	connID := uuid.NewString()
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.Register(connID, wsConn)

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(r.Context(), connID, msg)
	})

	h.service.Disconnect(connID)
	h.hub.Unregister(connID)
}

// handleMessage routes one inbound action. Any panic or rejection inside a
// single action is converted to a game_error for the sender; nothing here is
// fatal to the room or the process.
func (h *Handler) handleMessage(ctx context.Context, connID string, msg ws.Message) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().
				Str("conn_id", connID).
				Str("type", msg.Type).
				Interface("panic", rec).
				Msg("action handler panicked")
			h.sendError(connID, "Something went wrong. Please try again.")
			err = nil
		}
	}()

	switch msg.Type {
	case ws.TypeCreateGame:
		var req ws.CreateGamePayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, "Invalid create_game payload.")
		}
		return h.reject(connID, h.service.CreateGame(ctx, connID, req))
	case ws.TypeJoinGame:
		var req ws.JoinGamePayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, "Invalid join_game payload.")
		}
		return h.reject(connID, h.service.JoinGame(connID, req))
	case ws.TypeStartGame:
		var req ws.StartGamePayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, "Invalid start_game payload.")
		}
		return h.reject(connID, h.service.StartGame(connID, req))
	case ws.TypeSubmitAnswer:
		var req ws.SubmitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, "Invalid submit_answer payload.")
		}
		return h.reject(connID, h.service.SubmitAnswer(connID, req))
	case ws.TypeNextQuestion:
		var req ws.NextQuestionPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, "Invalid next_question payload.")
		}
		return h.reject(connID, h.service.NextQuestion(connID, req))
	case ws.TypeLeaveGame:
		var req ws.LeaveGamePayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, "Invalid leave_game payload.")
		}
		// Leaving an unknown room is silently ignored, as a disconnect would be.
		_ = h.service.LeaveGame(connID, req)
		return nil
	default:
		return h.sendError(connID, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// reject converts an operation error into a game_error event for the sender.
func (h *Handler) reject(connID string, err error) error {
	if err == nil {
		return nil
	}
	return h.sendError(connID, ErrorMessage(err))
}

func (h *Handler) sendError(connID, message string) error {
	return h.hub.SendTo(connID, ws.NewMessage(ws.TypeGameError, ws.GameErrorPayload{Message: message}))
}
