// FILE: internal/notation/notation.go
// Package notation converts move histories to and from the compact text
// form used in URLs, storage and the terminal, e.g. "pe2e4-Pe7e5".
package notation

import (
	"fmt"
	"regexp"
	"strings"

	"tilechess/internal/core"
	"tilechess/internal/tile"
)

const separator = "-"

var tokenPattern = regexp.MustCompile(`^([RNBQKPrnbqkp])([a-h][1-8])([a-h][1-8])$`)

// EncodeMove renders a single move token
func EncodeMove(m core.Move) string {
	return m.String()
}

// DecodeMove parses one token
func DecodeMove(token string) (core.Move, error) {
	match := tokenPattern.FindStringSubmatch(token)
	if match == nil {
		return core.Move{}, fmt.Errorf("malformed move token: %q", token)
	}
	from, err := tile.Parse(match[2])
	if err != nil {
		return core.Move{}, err
	}
	to, err := tile.Parse(match[3])
	if err != nil {
		return core.Move{}, err
	}
	return core.Move{Piece: core.Piece(match[1][0]), From: from, To: to}, nil
}

// Encode joins move tokens in play order
func Encode(moves []core.Move) string {
	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = EncodeMove(m)
	}
	return strings.Join(tokens, separator)
}

// Decode parses an encoded history. Tokens that do not parse are skipped,
// so a damaged history restores fewer moves instead of failing.
func Decode(s string) []core.Move {
	moves := make([]core.Move, 0)
	if s == "" {
		return moves
	}
	for _, token := range strings.Split(s, separator) {
		m, err := DecodeMove(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// ParseUCI reads coordinate move input such as "e2e4"
func ParseUCI(s string) (from, to tile.Tile, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 {
		return tile.None, tile.None, fmt.Errorf("move must be 4 characters: %q", s)
	}
	if from, err = tile.Parse(s[:2]); err != nil {
		return tile.None, tile.None, err
	}
	if to, err = tile.Parse(s[2:]); err != nil {
		return tile.None, tile.None, err
	}
	return from, to, nil
}

// UCI renders the from/to part of a move, e.g. "e2e4"
func UCI(m core.Move) string {
	return tile.Coordinate(m.From) + tile.Coordinate(m.To)
}
