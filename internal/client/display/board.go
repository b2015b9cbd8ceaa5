// FILE: internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"strings"

	"tilechess/internal/core"
	"tilechess/internal/tile"
)

// RenderBoard draws the 64 piece symbols from a board reply. White pieces
// are blue, black pieces red, and marked empty tiles show as '*'.
func RenderBoard(w io.Writer, tiles []string, marks map[string]bool) {
	var sb strings.Builder
	files := Cyan + "  a b c d e f g h" + Reset + "\n"

	sb.WriteString(files)
	for r := 0; r < tile.Size; r++ {
		fmt.Fprintf(&sb, "%s%d%s ", Cyan, tile.Size-r, Reset)
		for f := 0; f < tile.Size; f++ {
			t := tile.At(r, f)
			symbol := " "
			if int(t) < len(tiles) {
				symbol = tiles[t]
			}
			marked := marks[tile.Coordinate(t)]

			switch {
			case symbol == " " && marked:
				sb.WriteString(Yellow + "*" + Reset)
			case symbol == " ":
				sb.WriteString(".")
			case marked:
				sb.WriteString(Yellow + symbol + Reset)
			case core.Piece(symbol[0]).Color() == core.ColorWhite:
				sb.WriteString(Blue + symbol + Reset)
			default:
				sb.WriteString(Red + symbol + Reset)
			}
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s%d%s\n", Cyan, tile.Size-r, Reset)
	}
	sb.WriteString(files)

	fmt.Fprint(w, sb.String())
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
