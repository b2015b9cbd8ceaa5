// FILE: cmd/chess-server/cli/cli.go
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"tilechess/internal/core"
	"tilechess/internal/engine"
	"tilechess/internal/notation"
	"tilechess/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Run is the entry point for the database mini-app
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	case "moves":
		return runMoves(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func openStore(path string) (*storage.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	return storage.NewStore(path, false, zerolog.Nop())
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	force := fs.Bool("force", false, "Skip the confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("database path required")
	}

	// Confirmation is only asked when a person can answer it
	if !*force && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(out, "Delete %s? [y/N]: ", *path)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	store, err := openStore(*path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	playerID := fs.String("playerId", "", "Player ID to filter (optional, * for all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *playerID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tWhite Player\tBlack Player\tMoves\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, g := range games {
		moves, err := store.LoadMoves(g.GameID)
		if err != nil {
			return fmt.Errorf("loading moves of %s: %w", g.GameID, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			g.GameID,
			short(g.WhitePlayerID),
			short(g.BlackPlayerID),
			len(moves),
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

// runMoves prints a stored game's moves and the position they lead to
func runMoves(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("moves", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.String("gameId", "", "Game ID (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	store, err := openStore(*path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	records, err := store.LoadMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	decoded := make([]core.Move, 0, len(records))
	for _, r := range records {
		move, err := notation.DecodeMove(r.MoveToken)
		if err != nil {
			break
		}
		decoded = append(decoded, move)
	}
	history, b := engine.Replay(decoded)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tColor\tMove\tTime")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.MoveNumber, r.PlayerColor, r.MoveToken, r.MoveTimeUTC.Format("15:04:05"))
	}
	w.Flush()

	if len(history) != len(records) {
		fmt.Fprintf(out, "\nWarning: only the first %d of %d moves replay legally\n", len(history), len(records))
	}

	fmt.Fprintf(out, "\n%s\nState: %s\n", b, engine.EvaluateBoard(b, history).State())
	return nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
