// FILE: internal/cli/cli.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"tilechess/internal/core"
	"tilechess/internal/tile"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdMoves
	CmdControl
	CmdUndo
	CmdColor
	CmdBoard
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	markBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		markBg:  "\033[48;5;178m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		markBg:  "\033[48;5;178m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		markBg:  "\033[48;5;67m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// LineReader is the input side of the terminal; *readline.Instance satisfies it
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// scanReader reads plain lines when no terminal is attached
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func (s *scanReader) Readline() (string, error) {
	fmt.Fprint(s.out, s.prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanReader) SetPrompt(prompt string) { s.prompt = prompt }
func (s *scanReader) Close() error            { return nil }

// NewScanReader wraps a plain reader, echoing prompts to out
func NewScanReader(in io.Reader, out io.Writer) LineReader {
	return &scanReader{scanner: bufio.NewScanner(in), out: out}
}

// NewTerminalReader uses readline with a persistent history file when
// stdin is a terminal, and falls back to plain line scanning otherwise
func NewTerminalReader(historyFile string) (LineReader, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return NewScanReader(os.Stdin, os.Stdout), nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return rl, nil
}

// DefaultTheme picks a colored board only when stdout is a terminal
func DefaultTheme() ColorTheme {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return ThemeBrown
	}
	return ThemeOff
}

type CLI struct {
	input  LineReader
	output io.Writer
	theme  ColorTheme
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand reads one command; end of input reads as quit
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	if err == io.EOF {
		return &Command{Type: CmdQuit}, nil
	}
	if err == readline.ErrInterrupt {
		return &Command{Type: CmdNone}, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseCommand(line), nil
}

func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Args: args}
	case "control":
		return &Command{Type: CmdControl, Args: args}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "board":
		return &Command{Type: CmdBoard}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move
		return &Command{Type: CmdMove, Args: []string{parts[0]}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard renders the 64 piece symbols, highlighting marked coordinates
func (c *CLI) DisplayBoard(tiles []string, marks map[string]bool) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < tile.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", tile.Size-r))
		for f := 0; f < tile.Size; f++ {
			t := tile.At(r, f)
			symbol := " "
			if int(t) < len(tiles) {
				symbol = tiles[t]
			}
			marked := marks[tile.Coordinate(t)]

			if c.theme == ThemeOff {
				switch {
				case symbol != " ":
					sb.WriteString(symbol + " ")
				case marked:
					sb.WriteString("* ")
				default:
					sb.WriteString(". ")
				}
				continue
			}

			bg := theme.darkBg
			if tile.IsLight(t) {
				bg = theme.lightBg
			}
			if marked {
				bg = theme.markBg
			}

			if symbol == " " {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				fg := theme.black
				if core.Piece(symbol[0]).Color() == core.ColorWhite {
					fg = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%s %s", bg, fg, symbol, theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", tile.Size-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

// DisplayControl renders attack counts per tile
func (c *CLI) DisplayControl(color string, counts map[string]int, total int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\nControl for %s (%d moves)\n  a b c d e f g h\n", color, total))
	for r := 0; r < tile.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", tile.Size-r))
		for f := 0; f < tile.Size; f++ {
			n := counts[tile.Coordinate(tile.At(r, f))]
			switch {
			case n == 0:
				sb.WriteString(". ")
			case n > 9:
				sb.WriteString("+ ")
			default:
				sb.WriteString(fmt.Sprintf("%d ", n))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", tile.Size-r))
	}
	sb.WriteString("  a b c d e f g h\n")
	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game
  resume <history> - Resume from an encoded history (e.g. pe2e4-Pe7e5)
  <move>           - Make a move (e.g., e2e4, g1f3)
  moves <tile>     - Show legal destinations of the piece on a tile
  control [w|b]    - Show how many pieces attack each tile
  undo [count]     - Undo last move(s), default 1
  board            - Redraw the board
  color <theme>    - Set board color theme (off|brown|green|gray)
  history          - Show game move history
  quit/exit        - Exit the program
  help/?           - Show this help message

Lowercase pieces are white, uppercase black. White moves first.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <history>, <move>, moves <tile>, control, undo, history, help/?")
	c.ShowMessage("")
}

// ShowGameHistory prints the moves in pairs along with the encoded history
func (c *CLI) ShowGameHistory(moves []string, encoded, state string) {
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, moves[i], moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, moves[i]))
		}
	}
	c.ShowMessage(fmt.Sprintf("History: %s", encoded))
	c.ShowMessage(fmt.Sprintf("Game state: %s", state))
}

func (c *CLI) ShowMove(info *core.MoveInfo, check bool) {
	if info == nil {
		return
	}
	var notes []string
	if info.Capture {
		notes = append(notes, "capture")
	}
	if info.Castle {
		notes = append(notes, "castle")
	}
	if info.EnPassant {
		notes = append(notes, "en passant")
	}
	if info.Promotion {
		notes = append(notes, "promotion")
	}
	if check {
		notes = append(notes, "check")
	}

	msg := fmt.Sprintf("%s: %s", info.PlayerColor, info.Move)
	if len(notes) > 0 {
		msg += " (" + strings.Join(notes, ", ") + ")"
	}
	c.ShowMessage(msg)
}

func (c *CLI) ShowGameOver(state string) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", state))
	c.ShowMessage("Undo to continue, or start again with 'new' or 'resume'.")
}
