// FILE: internal/processor/command.go
package processor

import (
	"tilechess/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdTileMoves
	CmdControl
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

// NewTileMovesCommand asks for the legal destinations of the piece on coord
func NewTileMovesCommand(gameID, coord string) Command {
	return Command{
		Type:   CmdTileMoves,
		GameID: gameID,
		Args:   coord,
	}
}

// NewControlCommand asks for per-tile attack counts of one color
func NewControlCommand(gameID string, color core.Color) Command {
	return Command{
		Type:   CmdControl,
		GameID: gameID,
		Args:   color,
	}
}
