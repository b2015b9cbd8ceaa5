package cli

import (
	"bytes"
	"strings"
	"testing"

	"tilechess/internal/board"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"", Command{Type: CmdNone}},
		{"  new ", Command{Type: CmdNew, Args: []string{}}},
		{"resume pe2e4-Pe7e5", Command{Type: CmdResume, Args: []string{"pe2e4-Pe7e5"}, Raw: "resume pe2e4-Pe7e5"}},
		{"moves g1", Command{Type: CmdMoves, Args: []string{"g1"}}},
		{"control b", Command{Type: CmdControl, Args: []string{"b"}}},
		{"undo 2", Command{Type: CmdUndo, Args: []string{"2"}}},
		{"?", Command{Type: CmdHelp}},
		{"EXIT", Command{Type: CmdQuit}},
		{"e2e4", Command{Type: CmdMove, Args: []string{"e2e4"}, Raw: "e2e4"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(&tt.want, ParseCommand(tt.input)); diff != "" {
				t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestGetCommandEndOfInput(t *testing.T) {
	var out bytes.Buffer
	view := New(NewScanReader(strings.NewReader("e2e4\n"), &out), &out)

	cmd, err := view.GetCommand("[w]> ")
	if err != nil || cmd.Type != CmdMove {
		t.Fatalf("first command = %+v, %v", cmd, err)
	}
	if !strings.Contains(out.String(), "[w]> ") {
		t.Errorf("prompt not echoed: %q", out.String())
	}

	cmd, err = view.GetCommand("> ")
	if err != nil || cmd.Type != CmdQuit {
		t.Errorf("end of input = %+v, %v; want quit", cmd, err)
	}
}

func TestDisplayBoardPlain(t *testing.T) {
	var out bytes.Buffer
	view := New(NewScanReader(strings.NewReader(""), &out), &out)

	view.DisplayBoard(board.Initial().Tiles(), map[string]bool{"f3": true, "h3": true})

	lines := strings.Split(out.String(), "\n")
	want := map[int]string{
		2: "8 R N B Q K B N R  8",
		4: "6 . . . . . . . .  6",
		7: "3 . . . . . * . *  3",
		9: "1 r n b q k b n r  1",
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("line %d = %q; want %q", i, lines[i], line)
		}
	}
}

func TestSetTheme(t *testing.T) {
	view := New(NewScanReader(strings.NewReader(""), &bytes.Buffer{}), &bytes.Buffer{})
	if err := view.SetTheme("green"); err != nil || view.Theme() != ThemeGreen {
		t.Errorf("SetTheme(green) = %v, theme %s", err, view.Theme())
	}
	if err := view.SetTheme("pink"); err == nil {
		t.Error("SetTheme(pink) accepted an unknown theme")
	}
}
