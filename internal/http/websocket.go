// FILE: internal/http/websocket.go
package http

import (
	"context"
	"encoding/json"
	"sync"

	"tilechess/internal/core"
	"tilechess/internal/processor"

	"github.com/gofiber/websocket/v2"
)

// Stream message types
const (
	MessageTypeGameState = "gameState"
	MessageTypeMove      = "move"
	MessageTypeError     = "error"
)

// Message is the envelope for every frame on the game stream
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newMessage(msgType string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(core.ErrorResponse{Error: err.Error(), Code: core.ErrInternalError})
		msgType = MessageTypeError
	}
	return &Message{Type: msgType, Payload: data}
}

// handleSocketMessage executes one client frame and returns the reply to
// send back, or nil when the resulting state reaches the client through
// the broadcast loop
func (h *HTTPHandler) handleSocketMessage(gameID string, data []byte) *Message {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return newMessage(MessageTypeError, core.ErrorResponse{
			Error:   "malformed message",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	switch msg.Type {
	case MessageTypeMove:
		var req core.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return newMessage(MessageTypeError, core.ErrorResponse{
				Error:   "malformed move payload",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return newMessage(MessageTypeError, core.ErrorResponse{
				Error:   "validation failed",
				Code:    core.ErrInvalidRequest,
				Details: describeValidation(err),
			})
		}

		resp := h.proc.Execute(processor.NewMakeMoveCommand(gameID, req))
		if !resp.Success {
			return newMessage(MessageTypeError, resp.Error)
		}
		return nil

	default:
		return newMessage(MessageTypeError, core.ErrorResponse{
			Error: "unknown message type: " + msg.Type,
			Code:  core.ErrInvalidRequest,
		})
	}
}

// GameStream pushes the game state to the client whenever the history
// changes and accepts moves on the same connection
func (h *HTTPHandler) GameStream(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	log := h.log.With().Str("game", gameID).Logger()
	log.Debug().Msg("stream opened")
	defer log.Debug().Msg("stream closed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeMu sync.Mutex
	send := func(msg *Message) bool {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := c.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("stream write failed")
			cancel()
			return false
		}
		return true
	}

	go func() {
		defer cancel()
		for {
			messageType, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			if reply := h.handleSocketMessage(gameID, data); reply != nil {
				if !send(reply) {
					return
				}
			}
		}
	}()

	lastSent := ""
	for {
		resp := h.proc.Execute(processor.NewGetGameCommand(gameID))
		if !resp.Success {
			send(newMessage(MessageTypeError, resp.Error))
			return
		}

		state := resp.Data.(core.GameResponse)
		if sig := state.History + "|" + state.State; sig != lastSent {
			if !send(newMessage(MessageTypeGameState, state)) {
				return
			}
			lastSent = sig
		}

		waitCtx, stop := context.WithCancel(ctx)
		notify := h.svc.RegisterWait(waitCtx, gameID, state.Ply)

		// A change between the read above and registration would be missed
		if recheck := h.proc.Execute(processor.NewGetGameCommand(gameID)); !recheck.Success ||
			recheck.Data.(core.GameResponse).History != state.History {
			stop()
			continue
		}

		select {
		case <-notify:
			stop()
		case <-ctx.Done():
			stop()
			return
		}
	}
}
