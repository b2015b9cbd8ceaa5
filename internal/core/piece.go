// FILE: internal/core/piece.go
package core

import "fmt"

// Piece is a single board symbol. Uppercase symbols are black, lowercase white.
type Piece byte

const Empty Piece = ' '

type Kind byte

const (
	KindNone   Kind = 0
	KindPawn   Kind = 'p'
	KindKnight Kind = 'n'
	KindBishop Kind = 'b'
	KindRook   Kind = 'r'
	KindQueen  Kind = 'q'
	KindKing   Kind = 'k'
)

const (
	WhitePawn   Piece = 'p'
	WhiteKnight Piece = 'n'
	WhiteBishop Piece = 'b'
	WhiteRook   Piece = 'r'
	WhiteQueen  Piece = 'q'
	WhiteKing   Piece = 'k'
	BlackPawn   Piece = 'P'
	BlackKnight Piece = 'N'
	BlackBishop Piece = 'B'
	BlackRook   Piece = 'R'
	BlackQueen  Piece = 'Q'
	BlackKing   Piece = 'K'
)

// MakePiece builds the symbol for a kind and color
func MakePiece(k Kind, c Color) Piece {
	if k == KindNone || c == ColorNone {
		return Empty
	}
	if c == ColorBlack {
		return Piece(k - 'a' + 'A')
	}
	return Piece(k)
}

// ParsePiece accepts one of the twelve piece symbols
func ParsePiece(b byte) (Piece, error) {
	p := Piece(b)
	if p.Kind() == KindNone {
		return Empty, fmt.Errorf("invalid piece symbol: %q", b)
	}
	return p, nil
}

func (p Piece) Color() Color {
	switch {
	case p >= 'A' && p <= 'Z':
		return ColorBlack
	case p >= 'a' && p <= 'z':
		return ColorWhite
	default:
		return ColorNone
	}
}

func (p Piece) Kind() Kind {
	k := Kind(p)
	if p >= 'A' && p <= 'Z' {
		k = Kind(p - 'A' + 'a')
	}
	switch k {
	case KindPawn, KindKnight, KindBishop, KindRook, KindQueen, KindKing:
		return k
	default:
		return KindNone
	}
}

func (p Piece) IsEmpty() bool { return p == Empty }
func (p Piece) IsPawn() bool  { return p.Kind() == KindPawn }
func (p Piece) IsKing() bool  { return p.Kind() == KindKing }

// IsEnemy reports whether other is an occupied square of the opposite color
func (p Piece) IsEnemy(other Piece) bool {
	return !other.IsEmpty() && p.Color() != other.Color()
}

// IsFriend reports whether other shares p's color
func (p Piece) IsFriend(other Piece) bool {
	return !p.IsEmpty() && p.Color() == other.Color()
}

func (p Piece) String() string {
	return string(p)
}
