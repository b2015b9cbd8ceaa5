// FILE: internal/board/board.go
// Package board derives concrete positions from a move history.
// A Board is never stored; it is replayed from the history on every query.
package board

import (
	"fmt"
	"strings"

	"tilechess/internal/core"
	"tilechess/internal/tile"
)

const initialLayout = "RNBQKBNR" +
	"PPPPPPPP" +
	"        " +
	"        " +
	"        " +
	"        " +
	"pppppppp" +
	"rnbqkbnr"

// Board is a value type; assignment copies all 64 tiles
type Board [tile.Count]core.Piece

// Initial returns the standard starting position
func Initial() Board {
	var b Board
	for i := range b {
		b[i] = core.Piece(initialLayout[i])
	}
	return b
}

// Derive replays history from the starting position
func Derive(history []core.Move) Board {
	b := Initial()
	for ply := range history {
		b = ApplyMove(b, ply, history)
	}
	return b
}

// ApplyMove returns the board after history[ply] is played on b.
// The previous move, when present, decides en passant.
func ApplyMove(b Board, ply int, history []core.Move) Board {
	move := history[ply]
	b.relocate(move.From, move.To)

	if core.IsCastle(move) {
		b.castleRook(move)
	}
	if core.IsPromotion(move) {
		b[move.To] = core.MakePiece(core.KindQueen, move.Color())
	}
	if ply > 0 {
		prev := history[ply-1]
		if core.IsEnPassant(move, prev) {
			b[prev.To] = core.Empty
		}
	}
	return b
}

// With returns b after move, treating move as the ply following history
func With(b Board, history []core.Move, move core.Move) Board {
	next := make([]core.Move, len(history), len(history)+1)
	copy(next, history)
	next = append(next, move)
	return ApplyMove(b, len(history), next)
}

func (b *Board) relocate(from, to tile.Tile) {
	if !tile.Valid(from) || !tile.Valid(to) {
		return
	}
	piece := b[from]
	b[from] = core.Empty
	b[to] = piece
}

// castleRook hops the rook over the king: h-file rook for king side,
// a-file rook for queen side
func (b *Board) castleRook(move core.Move) {
	if move.To == tile.Right(move.From, 2) {
		b.relocate(tile.Right(move.From, 3), tile.Right(move.From, 1))
	}
	if move.To == tile.Left(move.From, 2) {
		b.relocate(tile.Left(move.From, 4), tile.Left(move.From, 1))
	}
}

// At returns the piece on t, or Empty when t is off the board
func (b Board) At(t tile.Tile) core.Piece {
	if !tile.Valid(t) {
		return core.Empty
	}
	return b[t]
}

// FindKing returns the tile of color's king, or tile.None
func FindKing(b Board, color core.Color) tile.Tile {
	want := core.MakePiece(core.KindKing, color)
	for i, p := range b {
		if p == want {
			return tile.Tile(i)
		}
	}
	return tile.None
}

// Tiles returns the 64 symbols as strings, empty tiles as " "
func (b Board) Tiles() []string {
	tiles := make([]string, tile.Count)
	for i, p := range b {
		tiles[i] = p.String()
	}
	return tiles
}

// String creates an ASCII representation of the board
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < tile.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", tile.Size-r))
		for c := 0; c < tile.Size; c++ {
			piece := b[tile.At(r, c)]
			if piece.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", tile.Size-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
