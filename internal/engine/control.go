// FILE: internal/engine/control.go
// Package engine implements the rules of play over derived boards: which
// tiles each piece controls, which moves are legal, and whether the side to
// move is in check, mated or stalemated.
package engine

import (
	"slices"

	"tilechess/internal/board"
	"tilechess/internal/core"
	"tilechess/internal/tile"
)

// ControlledTiles lists every tile the piece on t geometrically threatens,
// regardless of whether moving there would be legal
func ControlledTiles(b board.Board, t tile.Tile) []tile.Tile {
	if !tile.Valid(t) {
		return nil
	}

	var tiles []tile.Tile
	p := b[t]

	switch p.Kind() {
	case core.KindRook:
		tiles = appendLines(tiles, b, t, tile.Orthogonal)
	case core.KindBishop:
		tiles = appendLines(tiles, b, t, tile.Diagonal)
	case core.KindQueen:
		tiles = appendLines(tiles, b, t, tile.Orthogonal)
		tiles = appendLines(tiles, b, t, tile.Diagonal)
	case core.KindKnight:
		tiles = appendKnight(tiles, t)
	case core.KindKing:
		tiles = appendKing(tiles, t)
	case core.KindPawn:
		// Pawns control only their forward diagonals; pushes are not control
		if p.Color() == core.ColorBlack {
			if tile.HasDownLeft(t) {
				tiles = append(tiles, tile.DownLeft(t))
			}
			if tile.HasDownRight(t) {
				tiles = append(tiles, tile.DownRight(t))
			}
		} else {
			if tile.HasUpLeft(t) {
				tiles = append(tiles, tile.UpLeft(t))
			}
			if tile.HasUpRight(t) {
				tiles = append(tiles, tile.UpRight(t))
			}
		}
	}

	return tiles
}

// appendLines walks each direction until the edge, stopping after the
// first occupied tile
func appendLines(tiles []tile.Tile, b board.Board, from tile.Tile, steps []tile.Step) []tile.Tile {
	for _, step := range steps {
		current := from
		for step.Has(current) {
			current = step.Next(current)
			tiles = append(tiles, current)
			if !b[current].IsEmpty() {
				break
			}
		}
	}
	return tiles
}

func appendKnight(tiles []tile.Tile, t tile.Tile) []tile.Tile {
	up, down := tile.Up(t, 1), tile.Down(t, 1)
	left, right := tile.Left(t, 1), tile.Right(t, 1)

	// Each jump checks the first orthogonal step, then the diagonal from there
	if tile.HasUp(t) && tile.HasUpLeft(up) {
		tiles = append(tiles, tile.UpLeft(up))
	}
	if tile.HasUp(t) && tile.HasUpRight(up) {
		tiles = append(tiles, tile.UpRight(up))
	}
	if tile.HasDown(t) && tile.HasDownLeft(down) {
		tiles = append(tiles, tile.DownLeft(down))
	}
	if tile.HasDown(t) && tile.HasDownRight(down) {
		tiles = append(tiles, tile.DownRight(down))
	}
	if tile.HasLeft(t) && tile.HasUpLeft(left) {
		tiles = append(tiles, tile.UpLeft(left))
	}
	if tile.HasLeft(t) && tile.HasDownLeft(left) {
		tiles = append(tiles, tile.DownLeft(left))
	}
	if tile.HasRight(t) && tile.HasUpRight(right) {
		tiles = append(tiles, tile.UpRight(right))
	}
	if tile.HasRight(t) && tile.HasDownRight(right) {
		tiles = append(tiles, tile.DownRight(right))
	}
	return tiles
}

func appendKing(tiles []tile.Tile, t tile.Tile) []tile.Tile {
	for _, step := range tile.Orthogonal {
		if step.Has(t) {
			tiles = append(tiles, step.Next(t))
		}
	}
	for _, step := range tile.Diagonal {
		if step.Has(t) {
			tiles = append(tiles, step.Next(t))
		}
	}
	return tiles
}

// ControlMoves pairs each controlled tile with its origin
func ControlMoves(b board.Board, t tile.Tile) []core.Move {
	tiles := ControlledTiles(b, t)
	moves := make([]core.Move, 0, len(tiles))
	for _, to := range tiles {
		moves = append(moves, core.Move{Piece: b[t], From: t, To: to})
	}
	return moves
}

// ControlMovesFor collects control moves for every piece of color in board
// scan order. Tiles attacked by several pieces appear once per attacker.
func ControlMovesFor(b board.Board, color core.Color) []core.Move {
	var moves []core.Move
	for i, p := range b {
		if p.IsEmpty() || p.Color() != color {
			continue
		}
		moves = append(moves, ControlMoves(b, tile.Tile(i))...)
	}
	return moves
}

// IsAttacked reports whether any control move targets t
func IsAttacked(t tile.Tile, control []core.Move) bool {
	return slices.ContainsFunc(control, core.MovingTo(t))
}

// AttackSet counts attackers per tile
type AttackSet [tile.Count]uint8

// NewAttackSet folds a control list into per-tile counts
func NewAttackSet(control []core.Move) AttackSet {
	var s AttackSet
	for _, m := range control {
		if tile.Valid(m.To) {
			s[m.To]++
		}
	}
	return s
}

func (s AttackSet) Contains(t tile.Tile) bool {
	return tile.Valid(t) && s[t] > 0
}

// Count returns how many pieces attack t
func (s AttackSet) Count(t tile.Tile) int {
	if !tile.Valid(t) {
		return 0
	}
	return int(s[t])
}

// Tiles returns the distinct attacked tiles in ascending order
func (s AttackSet) Tiles() []tile.Tile {
	var tiles []tile.Tile
	for i, n := range s {
		if n > 0 {
			tiles = append(tiles, tile.Tile(i))
		}
	}
	return tiles
}
