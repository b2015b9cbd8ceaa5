// FILE: internal/engine/replay.go
package engine

import (
	"tilechess/internal/board"
	"tilechess/internal/core"
)

// Replay plays moves from the starting position and stops at the first
// move that is out of turn or illegal. It returns the accepted prefix and
// the board that prefix reaches.
func Replay(moves []core.Move) ([]core.Move, board.Board) {
	b := board.Initial()
	history := make([]core.Move, 0, len(moves))
	for _, m := range moves {
		if m.Color() != core.CurrentPlayer(history) || !IsLegal(b, history, m) {
			break
		}
		b = board.With(b, history, m)
		history = append(history, m)
	}
	return history, b
}
