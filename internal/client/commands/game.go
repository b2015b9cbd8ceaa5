// FILE: internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"tilechess/internal/client/display"
	"tilechess/internal/core"
)

func (r *Registry) registerGameCommands() {
	for _, cmd := range []*Command{
		{Name: "new", ShortName: "n", Description: "Create a game, optionally from an encoded history", Usage: "new [history]", Handler: r.newGameHandler},
		{Name: "join", ShortName: "j", Description: "Join/set current game ID", Usage: "join <gameId>", Handler: r.joinGameHandler},
		{Name: "move", ShortName: "m", Description: "Make a move", Usage: "move <from><to>, e.g. move e2e4", Handler: r.moveHandler},
		{Name: "moves", ShortName: "t", Description: "Show legal destinations of the piece on a tile", Usage: "moves <tile>", Handler: r.tileMovesHandler},
		{Name: "control", ShortName: "c", Description: "Show how many pieces attack each tile", Usage: "control [w|b]", Handler: r.controlHandler},
		{Name: "undo", ShortName: "u", Description: "Undo moves", Usage: "undo [count]", Handler: r.undoHandler},
		{Name: "show", ShortName: "h", Description: "Show board and game state", Usage: "show", Handler: r.showBoardHandler},
		{Name: "state", ShortName: "s", Description: "Show raw game JSON", Usage: "state", Handler: r.gameStateHandler},
		{Name: "delete", ShortName: "d", Description: "Delete a game", Usage: "delete [gameId]", Handler: r.deleteGameHandler},
		{Name: "poll", ShortName: "p", Description: "Long-poll for game updates", Usage: "poll", Handler: r.pollHandler},
	} {
		cmd.Group = groupGame
		r.Register(cmd)
	}
}

func requireGame(s *Session) (string, error) {
	if s.CurrentGame == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return s.CurrentGame, nil
}

func (r *Registry) newGameHandler(s *Session, args []string) error {
	resp, err := s.Client.CreateGame(strings.Join(args, ""))
	if err != nil {
		return err
	}
	s.track(resp)

	fmt.Fprintf(r.out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	if resp.Ply > 0 {
		fmt.Fprintf(r.out, "Resumed at ply %d | Turn: %s | State: %s\n", resp.Ply, display.ColorForTurn(resp.Turn), resp.State)
	}
	return nil
}

func (r *Registry) joinGameHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	s.track(resp)

	fmt.Fprintf(r.out, "%sJoined game: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(r.out, "Turn: %s | State: %s | Moves: %d\n", display.ColorForTurn(resp.Turn), resp.State, resp.Ply)
	return nil
}

func (r *Registry) moveHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <from><to>")
	}
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(gameID, strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	s.track(resp)

	fmt.Fprintf(r.out, "%sMove accepted%s\n", display.Green, display.Reset)
	if resp.Check && resp.State == core.StateOngoing.String() {
		fmt.Fprintf(r.out, "%sCheck%s\n", display.Magenta, display.Reset)
	}
	if resp.State != core.StateOngoing.String() {
		fmt.Fprintf(r.out, "%sGame over: %s%s\n", display.Magenta, resp.State, display.Reset)
	}
	return nil
}

func (r *Registry) tileMovesHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: moves <tile>")
	}
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	tm, err := s.Client.TileMoves(gameID, args[0])
	if err != nil {
		return err
	}
	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}

	marks := make(map[string]bool, len(tm.Moves))
	for _, m := range tm.Moves {
		marks[m] = true
	}
	fmt.Fprintln(r.out)
	display.RenderBoard(r.out, board.Tiles, marks)

	switch {
	case tm.Piece == "":
		fmt.Fprintf(r.out, "%s is empty\n", tm.Tile)
	case len(tm.Moves) == 0:
		fmt.Fprintf(r.out, "%s %s has no legal moves\n", tm.Piece, tm.Tile)
	default:
		fmt.Fprintf(r.out, "%s %s: %s\n", tm.Piece, tm.Tile, strings.Join(tm.Moves, " "))
	}
	return nil
}

func (r *Registry) controlHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	color := ""
	switch {
	case len(args) > 0:
		color = strings.ToLower(args[0])
	case s.GameState != nil:
		color = s.GameState.Turn
	}

	ctl, err := s.Client.Control(gameID, color)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "\nControl for %s (%d moves)\n", display.ColorForTurn(ctl.Color), ctl.Total)
	fmt.Fprintf(r.out, "%s  a b c d e f g h%s\n", display.Cyan, display.Reset)
	for rank := 8; rank >= 1; rank-- {
		fmt.Fprintf(r.out, "%s%d%s ", display.Cyan, rank, display.Reset)
		for file := 'a'; file <= 'h'; file++ {
			n := ctl.Counts[fmt.Sprintf("%c%d", file, rank)]
			switch {
			case n == 0:
				fmt.Fprint(r.out, ". ")
			case n > 9:
				fmt.Fprint(r.out, "+ ")
			default:
				fmt.Fprintf(r.out, "%d ", n)
			}
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *Registry) undoHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		count, err = strconv.Atoi(args[0])
		if err != nil || count < 1 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.Client.UndoMoves(gameID, count)
	if err != nil {
		return err
	}
	s.track(resp)

	fmt.Fprintf(r.out, "%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func (r *Registry) showBoardHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	game, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}
	s.track(game)

	fmt.Fprintln(r.out)
	display.RenderBoard(r.out, board.Tiles, nil)

	fmt.Fprintf(r.out, "\nTurn: %s | State: %s | Moves: %d | Legal: %d\n",
		display.ColorForTurn(game.Turn), game.State, game.Ply, game.Available)

	if len(game.Moves) > 0 {
		fmt.Fprint(r.out, "History: ")
		for i, move := range game.Moves {
			if i > 0 {
				fmt.Fprint(r.out, " ")
			}
			if i%2 == 0 {
				fmt.Fprintf(r.out, "%d.", i/2+1)
			}
			fmt.Fprint(r.out, move)
		}
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Encoded: %s\n", game.History)
	}

	if game.LastMove != nil {
		color := "White"
		if game.LastMove.PlayerColor == "b" {
			color = "Black"
		}
		fmt.Fprintf(r.out, "Last move: %s by %s\n", game.LastMove.Move, color)
	}
	return nil
}

func (r *Registry) gameStateHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	s.track(resp)

	fmt.Fprintf(r.out, "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(r.out, resp)
	return nil
}

func (r *Registry) deleteGameHandler(s *Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == s.CurrentGame {
		s.clear()
	}

	fmt.Fprintf(r.out, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func (r *Registry) pollHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	moveCount := s.LastMoveCount
	fmt.Fprintf(r.out, "%sLong-polling for updates (move count: %d)...%s\n", display.Cyan, moveCount, display.Reset)

	resp, err := s.Client.GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}
	s.track(resp)

	if resp.Ply != moveCount {
		fmt.Fprintf(r.out, "%sGame updated! Move count now %d%s\n", display.Green, resp.Ply, display.Reset)
		if resp.LastMove != nil {
			fmt.Fprintf(r.out, "Last move: %s\n", resp.LastMove.Move)
		}
	} else {
		fmt.Fprintf(r.out, "%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}
	return nil
}
