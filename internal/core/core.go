// FILE: internal/core/core.go
package core

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateStalemate:
		return "stalemate"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether no further moves may be appended
func (s State) IsOver() bool {
	return s != StateOngoing
}

// WinFor returns the state in which the given color has delivered mate
func WinFor(c Color) State {
	if c == ColorWhite {
		return StateWhiteWins
	}
	return StateBlackWins
}

type Color byte

const (
	ColorNone Color = iota
	ColorWhite
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the long form used in terminal output
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white":
		return ColorWhite, true
	case "b", "black":
		return ColorBlack, true
	default:
		return ColorNone, false
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}
