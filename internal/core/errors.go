// FILE: internal/core/errors.go
package core

import "errors"

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrGameOver          = "GAME_OVER"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidHistory    = "INVALID_HISTORY"
	ErrInvalidTile       = "INVALID_TILE"
	ErrInternalError     = "INTERNAL_ERROR"
)

// Sentinel errors returned by the game and service layers
var (
	ErrNotFound    = errors.New("game not found")
	ErrExists      = errors.New("game already exists")
	ErrIllegalMove = errors.New("illegal move")
	ErrNoPiece     = errors.New("no piece on tile")
	ErrWrongTurn   = errors.New("piece does not belong to the player to move")
	ErrFinished    = errors.New("game is over")
	ErrBadUndo     = errors.New("invalid undo count")
	ErrBadHistory  = errors.New("history contains an illegal move")
)

// CodeFor maps a sentinel error to its API error code
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrGameNotFound
	case errors.Is(err, ErrIllegalMove), errors.Is(err, ErrNoPiece):
		return ErrInvalidMove
	case errors.Is(err, ErrWrongTurn):
		return ErrNotYourTurn
	case errors.Is(err, ErrFinished):
		return ErrGameOver
	case errors.Is(err, ErrBadHistory):
		return ErrInvalidHistory
	case errors.Is(err, ErrBadUndo):
		return ErrInvalidRequest
	default:
		return ErrInternalError
	}
}
