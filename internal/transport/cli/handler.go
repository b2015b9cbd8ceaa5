// FILE: internal/transport/cli/handler.go
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"tilechess/internal/cli"
	"tilechess/internal/core"
	"tilechess/internal/processor"
)

type CLIHandler struct {
	proc   *processor.Processor
	view   *cli.CLI
	gameID string
}

func New(proc *processor.Processor, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		proc: proc,
		view: view,
	}
}

// Run reads and processes commands until quit or end of input
func (h *CLIHandler) Run() {
	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			h.view.ShowError(err)
			break
		}

		// Process command - returns false to exit
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// GameID returns the active game, if any
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// getPrompt shows whose turn it is while a game is running
func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	g, ok := h.current()
	if !ok || g.State != core.StateOngoing.String() {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", g.Turn)
}

func (h *CLIHandler) current() (core.GameResponse, bool) {
	resp := h.proc.Execute(processor.NewGetGameCommand(h.gameID))
	if !resp.Success {
		return core.GameResponse{}, false
	}
	return resp.Data.(core.GameResponse), true
}

// Handles user commands - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		h.startGame("")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <history>")
			return true
		}
		h.startGame(strings.Join(cmd.Args, ""))

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}

		resp := h.proc.Execute(processor.NewMakeMoveCommand(h.gameID, core.MoveRequest{Move: cmd.Args[0]}))
		if !resp.Success {
			h.showFailure(resp)
			return true
		}

		g := resp.Data.(core.GameResponse)
		h.view.ShowMove(g.LastMove, g.Check)
		h.showBoard(nil)
		if g.State != core.StateOngoing.String() {
			h.view.ShowGameOver(g.State)
		}

	case cli.CmdMoves:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: moves <tile>")
			return true
		}

		resp := h.proc.Execute(processor.NewTileMovesCommand(h.gameID, cmd.Args[0]))
		if !resp.Success {
			h.showFailure(resp)
			return true
		}

		tm := resp.Data.(core.TileMovesResponse)
		marks := make(map[string]bool, len(tm.Moves))
		for _, m := range tm.Moves {
			marks[m] = true
		}
		h.showBoard(marks)
		switch {
		case tm.Piece == "":
			h.view.ShowMessage(fmt.Sprintf("%s is empty", tm.Tile))
		case len(tm.Moves) == 0:
			h.view.ShowMessage(fmt.Sprintf("%s %s has no legal moves", tm.Piece, tm.Tile))
		default:
			h.view.ShowMessage(fmt.Sprintf("%s %s: %s", tm.Piece, tm.Tile, strings.Join(tm.Moves, " ")))
		}

	case cli.CmdControl:
		if !h.requireGame() {
			return true
		}

		color := core.ColorNone
		if len(cmd.Args) > 0 {
			c, ok := core.ParseColor(strings.ToLower(cmd.Args[0]))
			if !ok {
				h.view.ShowMessage("Usage: control [w|b]")
				return true
			}
			color = c
		} else if g, ok := h.current(); ok {
			color, _ = core.ParseColor(g.Turn)
		}

		resp := h.proc.Execute(processor.NewControlCommand(h.gameID, color))
		if !resp.Success {
			h.showFailure(resp)
			return true
		}
		ctl := resp.Data.(core.ControlResponse)
		h.view.DisplayControl(ctl.Color, ctl.Counts, ctl.Total)

	case cli.CmdUndo:
		if !h.requireGame() {
			return true
		}

		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}

		resp := h.proc.Execute(processor.NewUndoMoveCommand(h.gameID, core.UndoRequest{Count: count}))
		if !resp.Success {
			h.showFailure(resp)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.showBoard(nil)

	case cli.CmdBoard:
		if h.requireGame() {
			h.showBoard(nil)
		}

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(strings.ToLower(cmd.Args[0]))
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			h.showBoard(nil)
		}

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		if g, ok := h.current(); ok {
			h.view.ShowGameHistory(g.Moves, g.History, g.State)
		}

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <history>'.")
		return false
	}
	return true
}

// startGame creates a game, replacing the active one
func (h *CLIHandler) startGame(history string) {
	resp := h.proc.Execute(processor.NewCreateGameCommand(core.CreateGameRequest{History: history}))
	if !resp.Success {
		h.showFailure(resp)
		return
	}

	if h.gameID != "" {
		h.proc.Execute(processor.NewDeleteGameCommand(h.gameID))
	}

	g := resp.Data.(core.GameResponse)
	h.gameID = g.GameID
	h.view.ShowMessage("Game started.")
	h.showBoard(nil)
	if g.State != core.StateOngoing.String() {
		h.view.ShowGameOver(g.State)
	}
}

func (h *CLIHandler) showBoard(marks map[string]bool) {
	resp := h.proc.Execute(processor.NewGetBoardCommand(h.gameID))
	if !resp.Success {
		h.showFailure(resp)
		return
	}
	h.view.DisplayBoard(resp.Data.(core.BoardResponse).Tiles, marks)
}

func (h *CLIHandler) showFailure(resp processor.ProcessorResponse) {
	if resp.Error == nil {
		h.view.ShowMessage("Error: unknown failure")
		return
	}
	msg := resp.Error.Error
	if resp.Error.Details != "" {
		msg += " (" + resp.Error.Details + ")"
	}
	h.view.ShowMessage("Error: " + msg)
}
