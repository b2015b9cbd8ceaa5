// FILE: internal/tile/tile.go
// Package tile implements arithmetic over the flat 64-cell board index.
// Tile 0 is a8, tile 63 is h1; row 0 is the far rank for the side that moves first.
package tile

import "fmt"

// Tile is a board index in 0..63
type Tile int

// None is returned when a lookup finds no tile
const None Tile = -1

const (
	Count = 64
	Size  = 8
)

const files = "abcdefgh"

// Row returns 0..7, top to bottom
func Row(t Tile) int { return int(t) / Size }

// Column returns 0..7, left to right
func Column(t Tile) int { return int(t) % Size }

// At returns the tile at row r, column c
func At(r, c int) Tile { return Tile(r*Size + c) }

func Valid(t Tile) bool { return t >= 0 && t < Count }

func Left(t Tile, n int) Tile  { return t - Tile(n) }
func Right(t Tile, n int) Tile { return t + Tile(n) }
func Up(t Tile, n int) Tile    { return t - Tile(Size*n) }
func Down(t Tile, n int) Tile  { return t + Tile(Size*n) }

func UpLeft(t Tile) Tile    { return Up(Left(t, 1), 1) }
func UpRight(t Tile) Tile   { return Up(Right(t, 1), 1) }
func DownLeft(t Tile) Tile  { return Down(Left(t, 1), 1) }
func DownRight(t Tile) Tile { return Down(Right(t, 1), 1) }

func HasLeft(t Tile) bool  { return Column(t) > 0 }
func HasRight(t Tile) bool { return Column(t) < Size-1 }
func HasUp(t Tile) bool    { return Row(t) > 0 }
func HasDown(t Tile) bool  { return Row(t) < Size-1 }

func HasUpLeft(t Tile) bool    { return HasUp(t) && HasLeft(t) }
func HasUpRight(t Tile) bool   { return HasUp(t) && HasRight(t) }
func HasDownLeft(t Tile) bool  { return HasDown(t) && HasLeft(t) }
func HasDownRight(t Tile) bool { return HasDown(t) && HasRight(t) }

// Step pairs a single-tile move with its bounds predicate
type Step struct {
	Next func(Tile) Tile
	Has  func(Tile) bool
}

// Orthogonal and Diagonal list the sliding directions in scan order
var (
	Orthogonal = []Step{
		{func(t Tile) Tile { return Up(t, 1) }, HasUp},
		{func(t Tile) Tile { return Down(t, 1) }, HasDown},
		{func(t Tile) Tile { return Left(t, 1) }, HasLeft},
		{func(t Tile) Tile { return Right(t, 1) }, HasRight},
	}
	Diagonal = []Step{
		{UpLeft, HasUpLeft},
		{UpRight, HasUpRight},
		{DownLeft, HasDownLeft},
		{DownRight, HasDownRight},
	}
)

// Coordinate returns the algebraic name of a tile, e.g. 0 => "a8"
func Coordinate(t Tile) string {
	if !Valid(t) {
		return "-"
	}
	return fmt.Sprintf("%c%d", files[Column(t)], Size-Row(t))
}

// Parse converts an algebraic coordinate back to a tile
func Parse(s string) (Tile, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return None, fmt.Errorf("invalid coordinate: %q", s)
	}
	c := int(s[0] - 'a')
	r := Size - int(s[1]-'0')
	return At(r, c), nil
}

// IsLight reports whether the tile is a light square
func IsLight(t Tile) bool {
	return (int(t)+Row(t))%2 == 0
}

func (t Tile) String() string {
	return Coordinate(t)
}
