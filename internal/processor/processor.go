// FILE: internal/processor/processor.go
package processor

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"tilechess/internal/board"
	"tilechess/internal/core"
	"tilechess/internal/engine"
	"tilechess/internal/game"
	"tilechess/internal/notation"
	"tilechess/internal/service"
	"tilechess/internal/tile"

	"github.com/rs/zerolog"
)

// Processor handles command execution and coordinates between the service
// and the rules engine. Commands on the same processor are serialized for
// writes so that validation and append see the same history.
type Processor struct {
	svc *service.Service
	log zerolog.Logger
	mu  sync.RWMutex
}

func New(svc *service.Service, log zerolog.Logger) *Processor {
	return &Processor{
		svc: svc,
		log: log.With().Str("component", "processor").Logger(),
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame, CmdMakeMove, CmdUndoMove, CmdDeleteGame:
		p.mu.Lock()
		defer p.mu.Unlock()
	default:
		p.mu.RLock()
		defer p.mu.RUnlock()
	}

	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdTileMoves:
		return p.handleTileMoves(cmd)
	case CmdControl:
		return p.handleControl(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isMoveSafe rejects control characters and anything not shaped like "e2e4"
func (p *Processor) isMoveSafe(move string) bool {
	for _, r := range move {
		if unicode.IsControl(r) {
			return false
		}
	}
	return len(move) == 4
}

// handleCreateGame creates a game, optionally resuming from an encoded history
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	moves := notation.Decode(args.History)
	history, _ := engine.Replay(moves)
	if len(history) != len(moves) {
		bad := moves[len(history)]
		err := fmt.Errorf("%w: move %d", core.ErrBadHistory, len(history)+1)
		return p.errorResponseDetails(err.Error(), core.CodeFor(err), notation.EncodeMove(bad))
	}

	gameID := p.svc.GenerateGameID()
	whitePlayer := core.NewPlayer(core.ColorWhite)
	blackPlayer := core.NewPlayer(core.ColorBlack)

	if err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer, history); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	// A resumed history may already be finished
	status := engine.Evaluate(history)
	if err := p.svc.UpdateGameState(gameID, status.State()); err != nil {
		return p.errorResponse(err.Error(), core.CodeFor(err))
	}

	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return p.errorResponse("game creation failed", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(gameID, g, status),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g, engine.Evaluate(g.History())),
	}
}

// handleMakeMove validates a coordinate move against the legal moves of
// the piece standing on its origin tile
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State().IsOver() {
		err := fmt.Errorf("%w: %s", core.ErrFinished, g.State())
		return p.errorResponse(err.Error(), core.CodeFor(err))
	}

	input := strings.ToLower(strings.TrimSpace(args.Move))
	if !p.isMoveSafe(input) {
		return p.errorResponse("invalid move format", core.ErrInvalidMove)
	}
	from, to, err := notation.ParseUCI(input)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}

	history := g.History()
	b := board.Derive(history)
	turn := core.CurrentPlayer(history)

	piece := b[from]
	if piece.IsEmpty() {
		return p.errorResponse(core.ErrNoPiece.Error(), core.ErrInvalidMove)
	}
	if piece.Color() != turn {
		return p.errorResponse(core.ErrWrongTurn.Error(), core.ErrNotYourTurn)
	}

	move := core.Move{Piece: piece, From: from, To: to}
	if !engine.IsLegal(b, history, move) {
		return p.errorResponse(core.ErrIllegalMove.Error(), core.ErrInvalidMove)
	}

	result := &game.MoveResult{
		Move:        move,
		PlayerColor: turn,
		Castle:      core.IsCastle(move),
		Promotion:   core.IsPromotion(move),
		Capture:     !b[to].IsEmpty(),
	}
	if len(history) > 0 && core.IsEnPassant(move, history[len(history)-1]) {
		result.EnPassant = true
		result.Capture = true
	}

	next := board.With(b, history, move)
	history = append(history, move)
	status := engine.EvaluateBoard(next, history)
	result.GameState = status.State()
	result.Check = status.Check

	// State and result land with the append so waiters see the final position
	if err = p.svc.CommitMove(cmd.GameID, move, result, status.State()); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to apply move: %v", err), core.CodeFor(err))
	}

	if status.State().IsOver() {
		p.log.Info().Str("game", cmd.GameID).Str("state", status.State().String()).Msg("game finished")
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g, status),
	}
}

// handleUndoMove truncates the history
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if cmd.Args != nil {
		if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count != 0 {
			args = req
		}
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		return p.errorResponse(err.Error(), core.CodeFor(err))
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	status := engine.Evaluate(g.History())
	if err = p.svc.UpdateGameState(cmd.GameID, status.State()); err != nil {
		return p.errorResponse(err.Error(), core.CodeFor(err))
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g, status),
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	b := g.Board()
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Board: b.String(),
			Tiles: b.Tiles(),
		},
	}
}

// handleTileMoves lists legal destinations for the piece on a tile,
// whichever side it belongs to
func (p *Processor) handleTileMoves(cmd Command) ProcessorResponse {
	coord, _ := cmd.Args.(string)
	t, err := tile.Parse(strings.ToLower(coord))
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidTile)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	history := g.History()
	b := board.Derive(history)
	piece := b[t]

	resp := core.TileMovesResponse{
		Tile:  tile.Coordinate(t),
		Piece: strings.TrimSpace(piece.String()),
		Moves: []string{},
	}
	if !piece.IsEmpty() {
		enemy := engine.ControlMovesFor(b, core.OppositeColor(piece.Color()))
		for _, m := range engine.LegalMoves(b, t, history, enemy) {
			resp.Moves = append(resp.Moves, tile.Coordinate(m.To))
		}
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleControl reports how many pieces of a color attack each tile
func (p *Processor) handleControl(cmd Command) ProcessorResponse {
	color, _ := cmd.Args.(core.Color)
	if color != core.ColorWhite && color != core.ColorBlack {
		return p.errorResponse("color must be w or b", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	control := engine.ControlMovesFor(g.Board(), color)
	set := engine.NewAttackSet(control)

	counts := make(map[string]int)
	for _, t := range set.Tiles() {
		counts[tile.Coordinate(t)] = set.Count(t)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.ControlResponse{
			Color:  color.String(),
			Counts: counts,
			Total:  len(control),
		},
	}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, g *game.Game, status engine.Status) core.GameResponse {
	resp := core.GameResponse{
		GameID:    gameID,
		Turn:      g.NextTurn().String(),
		State:     g.State().String(),
		Ply:       g.Ply(),
		Check:     status.Check,
		Moves:     g.Moves(),
		History:   g.Encoded(),
		Available: len(status.Moves),
		Players: core.PlayersResponse{
			White: g.Player(core.ColorWhite),
			Black: g.Player(core.ColorBlack),
		},
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        notation.UCI(result.Move),
			PlayerColor: result.PlayerColor.String(),
			Castle:      result.Castle,
			EnPassant:   result.EnPassant,
			Promotion:   result.Promotion,
			Capture:     result.Capture,
		}
	}

	return resp
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return p.errorResponseDetails(message, code, "")
}

func (p *Processor) errorResponseDetails(message, code, details string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: details,
		},
	}
}
