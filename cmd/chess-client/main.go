// FILE: cmd/chess-client/main.go
// Package main implements an interactive client for a remote chess server.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tilechess/internal/cli"
	"tilechess/internal/client/api"
	"tilechess/internal/client/commands"
	"tilechess/internal/client/display"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "Chess server base URL")
	historyFile := flag.String("history-file", defaultHistoryFile(), "Readline history file")
	flag.Parse()

	s := &commands.Session{
		APIBaseURL: strings.TrimRight(*apiURL, "/"),
		Client:     api.New(*apiURL),
	}

	rl, err := cli.NewTerminalReader(*historyFile)
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s, os.Stdout)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		if !registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *commands.Session) string {
	prompt := "chess"
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		prompt += display.Yellow + " [" + display.White + id + display.Yellow + "]"
	}

	if g := s.GameState; g != nil {
		if g.State == "ongoing" {
			prompt += " - Turn:" + display.ColorForTurn(g.Turn)
		} else {
			prompt += " - " + display.Magenta + g.State + display.Reset
		}
	}

	return display.Prompt(prompt)
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chess_client_history"
	}
	return filepath.Join(home, ".chess_client_history")
}
