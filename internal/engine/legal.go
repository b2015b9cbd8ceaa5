// FILE: internal/engine/legal.go
package engine

import (
	"slices"

	"tilechess/internal/board"
	"tilechess/internal/core"
	"tilechess/internal/tile"
)

// King home tiles
const (
	whiteKingHome tile.Tile = 60
	blackKingHome tile.Tile = 4
)

func kingHome(c core.Color) tile.Tile {
	if c == core.ColorWhite {
		return whiteKingHome
	}
	return blackKingHome
}

// LegalMoves returns every legal move for the piece on t. enemyControl is
// the opponent's control list on b and is only consulted for castling; the
// self-check filter recomputes control on each resulting board.
func LegalMoves(b board.Board, t tile.Tile, history []core.Move, enemyControl []core.Move) []core.Move {
	if !tile.Valid(t) || b[t].IsEmpty() {
		return nil
	}
	piece := b[t]

	var last *core.Move
	if len(history) > 0 {
		last = &history[len(history)-1]
	}

	var candidates []core.Move
	for _, m := range ControlMoves(b, t) {
		target := b[m.To]
		if piece.IsFriend(target) {
			continue
		}
		if piece.IsPawn() && !piece.IsEnemy(target) && (last == nil || !core.IsEnPassant(m, *last)) {
			continue
		}
		candidates = append(candidates, m)
	}

	if piece.IsPawn() {
		candidates = append(candidates, pawnPushes(b, t)...)
	}
	if piece.IsKing() {
		candidates = append(candidates, castles(b, t, history, enemyControl)...)
	}

	legal := candidates[:0]
	for _, m := range candidates {
		if !exposesKing(b, history, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

func pawnPushes(b board.Board, t tile.Tile) []core.Move {
	piece := b[t]
	forward, has := tile.Up, tile.HasUp
	if piece.Color() == core.ColorBlack {
		forward, has = tile.Down, tile.HasDown
	}
	if !has(t) {
		return nil
	}

	var moves []core.Move
	one := forward(t, 1)
	if !b[one].IsEmpty() {
		return nil
	}
	moves = append(moves, core.Move{Piece: piece, From: t, To: one})

	if tile.Row(t) == core.PawnStartRow(piece.Color()) {
		two := forward(t, 2)
		if b[two].IsEmpty() {
			moves = append(moves, core.Move{Piece: piece, From: t, To: two})
		}
	}
	return moves
}

// castleSide describes one castling direction relative to the king home
type castleSide struct {
	rook    int   // rook home offset
	between []int // tiles that must be empty
	pass    int   // tile the king crosses
	dest    int
}

var castleSides = []castleSide{
	{rook: 3, between: []int{1, 2}, pass: 1, dest: 2},
	{rook: -4, between: []int{-3, -2, -1}, pass: -1, dest: -2},
}

func castles(b board.Board, t tile.Tile, history []core.Move, enemyControl []core.Move) []core.Move {
	king := b[t]
	home := kingHome(king.Color())
	if t != home {
		return nil
	}
	if movedFrom(history, home) || IsAttacked(home, enemyControl) {
		return nil
	}

	rook := core.MakePiece(core.KindRook, king.Color())
	var moves []core.Move

sides:
	for _, side := range castleSides {
		rookHome := tile.Right(home, side.rook)
		if b[rookHome] != rook || movedFrom(history, rookHome) {
			continue
		}
		for _, off := range side.between {
			if !b[tile.Right(home, off)].IsEmpty() {
				continue sides
			}
		}
		if IsAttacked(tile.Right(home, side.pass), enemyControl) {
			continue
		}
		moves = append(moves, core.Move{Piece: king, From: home, To: tile.Right(home, side.dest)})
	}
	return moves
}

// movedFrom scans the whole history; a piece that returns home has still moved
func movedFrom(history []core.Move, t tile.Tile) bool {
	return slices.ContainsFunc(history, core.MovingFrom(t))
}

// exposesKing plays m and reports whether the mover's king is then attacked
func exposesKing(b board.Board, history []core.Move, m core.Move) bool {
	color := m.Color()
	next := board.With(b, history, m)
	return IsChecked(next, color, ControlMovesFor(next, core.OppositeColor(color)))
}

// IsChecked reports whether player's king stands on a tile in enemyControl.
// A board without that king is never in check.
func IsChecked(b board.Board, player core.Color, enemyControl []core.Move) bool {
	king := board.FindKing(b, player)
	if king == tile.None {
		return false
	}
	return IsAttacked(king, enemyControl)
}

// AllLegalMoves unions LegalMoves over every piece player owns on b
func AllLegalMoves(b board.Board, player core.Color, history []core.Move) []core.Move {
	enemy := ControlMovesFor(b, core.OppositeColor(player))

	var moves []core.Move
	for i, p := range b {
		if p.IsEmpty() || p.Color() != player {
			continue
		}
		moves = append(moves, LegalMoves(b, tile.Tile(i), history, enemy)...)
	}
	return moves
}

// IsLegal reports whether m is among the legal moves of the piece it names
func IsLegal(b board.Board, history []core.Move, m core.Move) bool {
	if !tile.Valid(m.From) || b[m.From] != m.Piece {
		return false
	}
	enemy := ControlMovesFor(b, core.OppositeColor(m.Color()))
	for _, candidate := range LegalMoves(b, m.From, history, enemy) {
		if candidate == m {
			return true
		}
	}
	return false
}
