// FILE: internal/core/move.go
package core

import (
	"fmt"

	"tilechess/internal/tile"
)

// Move is the only record kept in a game history. Castling, en passant and
// promotion are recognised from its shape whenever they matter.
type Move struct {
	Piece Piece     `json:"piece"`
	From  tile.Tile `json:"from"`
	To    tile.Tile `json:"to"`
}

func (m Move) Color() Color {
	return m.Piece.Color()
}

func (m Move) String() string {
	return fmt.Sprintf("%c%s%s", m.Piece, tile.Coordinate(m.From), tile.Coordinate(m.To))
}

func MovingTo(t tile.Tile) func(Move) bool {
	return func(m Move) bool { return m.To == t }
}

func MovingFrom(t tile.Tile) func(Move) bool {
	return func(m Move) bool { return m.From == t }
}

// Start and promotion rows per color
func PawnStartRow(c Color) int {
	if c == ColorWhite {
		return 6
	}
	return 1
}

func pawnDoubleRow(c Color) int {
	if c == ColorWhite {
		return 4
	}
	return 3
}

func PromotionRow(c Color) int {
	if c == ColorWhite {
		return 0
	}
	return 7
}

// IsDoublePawnPush reports a pawn advancing two rows from its start row
func IsDoublePawnPush(m Move) bool {
	return m.Piece.IsPawn() &&
		tile.Row(m.From) == PawnStartRow(m.Color()) &&
		tile.Row(m.To) == pawnDoubleRow(m.Color())
}

// IsEnPassant reports a diagonal pawn move capturing the enemy pawn that
// just double-pushed past it. prev must be the move played immediately before m.
func IsEnPassant(m, prev Move) bool {
	return m.Piece.IsPawn() &&
		m.Piece.IsEnemy(prev.Piece) &&
		IsDoublePawnPush(prev) &&
		tile.Column(m.From) != tile.Column(m.To) &&
		tile.Row(m.From) == tile.Row(prev.To) &&
		tile.Column(prev.To) == tile.Column(m.To)
}

// IsPromotion reports a pawn reaching the far row for its color
func IsPromotion(m Move) bool {
	return m.Piece.IsPawn() && tile.Row(m.To) == PromotionRow(m.Color())
}

// IsCastle reports a king moving two tiles sideways
func IsCastle(m Move) bool {
	return m.Piece.IsKing() && (m.From == tile.Left(m.To, 2) || m.From == tile.Right(m.To, 2))
}

// CurrentPlayer derives whose turn it is from history parity
func CurrentPlayer(history []Move) Color {
	if len(history)%2 == 0 {
		return ColorWhite
	}
	return ColorBlack
}
