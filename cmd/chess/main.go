// FILE: cmd/chess/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"tilechess/internal/cli"
	"tilechess/internal/processor"
	"tilechess/internal/service"
	clitransport "tilechess/internal/transport/cli"

	"github.com/rs/zerolog"
)

func main() {
	historyFile := flag.String("history-file", defaultHistoryFile(), "Readline history file")
	theme := flag.String("theme", "", "Board theme (off|brown|green|gray), default depends on the terminal")
	debug := flag.Bool("debug", false, "Log engine activity to stderr")
	flag.Parse()

	log := zerolog.Nop()
	if *debug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	input, err := cli.NewTerminalReader(*historyFile)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer input.Close()

	svc := service.New(nil, log)
	proc := processor.New(svc, log)

	view := cli.New(input, os.Stdout)
	selected := cli.DefaultTheme()
	if *theme != "" {
		selected = cli.ColorTheme(*theme)
	}
	if err := view.SetTheme(selected); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	handler := clitransport.New(proc, view)

	view.ShowWelcome()
	handler.Run() // All game loop logic is in the handler
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chess_history"
	}
	return filepath.Join(home, ".chess_history")
}
