// FILE: internal/game/game.go
package game

import (
	"fmt"

	"tilechess/internal/board"
	"tilechess/internal/core"
	"tilechess/internal/notation"
)

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        core.Move
	PlayerColor core.Color
	GameState   core.State
	Check       bool
	Castle      bool
	EnPassant   bool
	Promotion   bool
	Capture     bool
}

// Game is an append-only move history with its players. Positions are
// derived from the history whenever they are needed.
type Game struct {
	history    []core.Move
	players    map[core.Color]*core.Player
	state      core.State
	lastResult *MoveResult
}

func New(whitePlayer, blackPlayer *core.Player) *Game {
	return &Game{
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
		state: core.StateOngoing,
	}
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// History returns a copy of the played moves
func (g *Game) History() []core.Move {
	history := make([]core.Move, len(g.history))
	copy(history, g.history)
	return history
}

// Moves returns the history as move tokens
func (g *Game) Moves() []string {
	moves := make([]string, len(g.history))
	for i, m := range g.history {
		moves[i] = notation.EncodeMove(m)
	}
	return moves
}

// Encoded returns the whole history in its compact form
func (g *Game) Encoded() string {
	return notation.Encode(g.history)
}

func (g *Game) Ply() int {
	return len(g.history)
}

func (g *Game) NextTurn() core.Color {
	return core.CurrentPlayer(g.history)
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurn()]
}

func (g *Game) Player(color core.Color) *core.Player {
	return g.players[color]
}

// Board derives the current position
func (g *Game) Board() board.Board {
	return board.Derive(g.history)
}

// Append records a move that has already been validated
func (g *Game) Append(move core.Move) {
	g.history = append(g.history, move)
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: %d", core.ErrBadUndo, count)
	}

	if len(g.history) < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d played", core.ErrBadUndo, count, len(g.history))
	}

	g.history = g.history[:len(g.history)-count]
	g.state = core.StateOngoing // Reset game state when undoing
	g.lastResult = nil
	return nil
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}
