// FILE: internal/engine/status.go
package engine

import (
	"tilechess/internal/board"
	"tilechess/internal/core"
)

// Status summarizes the position for the side to move
type Status struct {
	Player    core.Color
	Check     bool
	Checkmate bool
	Draw      bool
	Moves     []core.Move
}

// Evaluate derives the board from history and classifies it
func Evaluate(history []core.Move) Status {
	return EvaluateBoard(board.Derive(history), history)
}

// EvaluateBoard classifies b, which must be the board history derives to.
// Only exhaustion of legal moves ends a game.
func EvaluateBoard(b board.Board, history []core.Move) Status {
	player := core.CurrentPlayer(history)
	check := IsChecked(b, player, ControlMovesFor(b, core.OppositeColor(player)))
	moves := AllLegalMoves(b, player, history)

	return Status{
		Player:    player,
		Check:     check,
		Checkmate: check && len(moves) == 0,
		Draw:      !check && len(moves) == 0,
		Moves:     moves,
	}
}

// State maps the status to a game state
func (s Status) State() core.State {
	switch {
	case s.Checkmate:
		return core.WinFor(core.OppositeColor(s.Player))
	case s.Draw:
		return core.StateStalemate
	default:
		return core.StateOngoing
	}
}
