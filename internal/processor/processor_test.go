package processor

import (
	"testing"

	"tilechess/internal/core"
	"tilechess/internal/service"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func newProcessor() *Processor {
	return New(service.New(nil, zerolog.Nop()), zerolog.Nop())
}

func mustCreate(t *testing.T, p *Processor, history string) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{History: history}))
	if !resp.Success {
		t.Fatalf("create failed: %+v", resp.Error)
	}
	return resp.Data.(core.GameResponse)
}

func play(t *testing.T, p *Processor, gameID string, moves ...string) core.GameResponse {
	t.Helper()
	var last core.GameResponse
	for _, m := range moves {
		resp := p.Execute(NewMakeMoveCommand(gameID, core.MoveRequest{Move: m}))
		if !resp.Success {
			t.Fatalf("move %s failed: %+v", m, resp.Error)
		}
		last = resp.Data.(core.GameResponse)
	}
	return last
}

func errorCode(resp ProcessorResponse) string {
	if resp.Error == nil {
		return ""
	}
	return resp.Error.Code
}

func TestCreateGame(t *testing.T) {
	p := newProcessor()
	g := mustCreate(t, p, "")

	if g.Turn != "w" || g.Ply != 0 || g.State != "ongoing" {
		t.Errorf("unexpected new game: %+v", g)
	}
	if g.Available != 20 {
		t.Errorf("Available = %d; want 20", g.Available)
	}
	if g.Players.White == nil || g.Players.Black == nil || g.Players.White.ID == g.Players.Black.ID {
		t.Errorf("players not assigned: %+v", g.Players)
	}
}

func TestCreateGameFromHistory(t *testing.T) {
	p := newProcessor()
	g := mustCreate(t, p, "pe2e4-Pe7e5-ng1f3")
	if g.Ply != 3 || g.Turn != "b" {
		t.Errorf("resumed game ply=%d turn=%s", g.Ply, g.Turn)
	}
	if g.History != "pe2e4-Pe7e5-ng1f3" {
		t.Errorf("History = %q", g.History)
	}

	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{History: "pe2e4-pd2d4"}))
	if errorCode(resp) != core.ErrInvalidHistory {
		t.Errorf("out of turn history code = %q; want %s", errorCode(resp), core.ErrInvalidHistory)
	}
	if resp.Error.Details != "pd2d4" {
		t.Errorf("Details = %q; want offending token", resp.Error.Details)
	}

	// Finished histories are restored as finished
	mate := mustCreate(t, p, "pf2f3-Pe7e5-pg2g4-Qd8h4")
	if mate.State != "black wins" || !mate.Check || mate.Available != 0 {
		t.Errorf("fool's mate resumed as %+v", mate)
	}
}

func TestMakeMove(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "").GameID

	g := play(t, p, id, "e2e4")
	if g.Turn != "b" || g.Ply != 1 {
		t.Errorf("after e2e4: turn=%s ply=%d", g.Turn, g.Ply)
	}
	if diff := cmp.Diff([]string{"pe2e4"}, g.Moves); diff != "" {
		t.Errorf("Moves (-want +got):\n%s", diff)
	}
	if g.LastMove == nil || g.LastMove.Move != "e2e4" || g.LastMove.PlayerColor != "w" {
		t.Errorf("LastMove = %+v", g.LastMove)
	}

	tests := []struct {
		name string
		move string
		code string
	}{
		{"wrong side", "d2d4", core.ErrNotYourTurn},
		{"empty tile", "e3e4", core.ErrInvalidMove},
		{"illegal geometry", "e7e4", core.ErrInvalidMove},
		{"garbage", "zz99", core.ErrInvalidMove},
		{"too long", "e7e5q", core.ErrInvalidMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := p.Execute(NewMakeMoveCommand(id, core.MoveRequest{Move: tt.move}))
			if resp.Success || errorCode(resp) != tt.code {
				t.Errorf("code = %q; want %s", errorCode(resp), tt.code)
			}
		})
	}

	resp := p.Execute(NewMakeMoveCommand("missing", core.MoveRequest{Move: "e2e4"}))
	if errorCode(resp) != core.ErrGameNotFound {
		t.Errorf("missing game code = %q", errorCode(resp))
	}
}

func TestMoveFlags(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "pe2e4-Pa7a6-pe4e5-Pd7d5").GameID

	g := play(t, p, id, "e5d6")
	if g.LastMove == nil || !g.LastMove.EnPassant || !g.LastMove.Capture {
		t.Errorf("en passant not flagged: %+v", g.LastMove)
	}

	id = mustCreate(t, p, "pe2e4-Pe7e5-ng1f3-Nb8c6-bf1c4-Ng8f6").GameID
	g = play(t, p, id, "e1g1")
	if g.LastMove == nil || !g.LastMove.Castle {
		t.Errorf("castle not flagged: %+v", g.LastMove)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "").GameID

	g := play(t, p, id, "f2f3", "e7e5", "g2g4", "d8h4")
	if g.State != "black wins" || !g.Check {
		t.Errorf("after fool's mate: state=%s check=%v", g.State, g.Check)
	}

	resp := p.Execute(NewMakeMoveCommand(id, core.MoveRequest{Move: "a2a3"}))
	if errorCode(resp) != core.ErrGameOver {
		t.Errorf("move after mate code = %q; want %s", errorCode(resp), core.ErrGameOver)
	}

	// Undo reopens the game
	resp = p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1}))
	if !resp.Success {
		t.Fatalf("undo failed: %+v", resp.Error)
	}
	g = resp.Data.(core.GameResponse)
	if g.State != "ongoing" || g.Ply != 3 {
		t.Errorf("after undo: state=%s ply=%d", g.State, g.Ply)
	}
}

func TestUndoErrors(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "").GameID

	resp := p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1}))
	if errorCode(resp) != core.ErrInvalidRequest {
		t.Errorf("undo on empty history code = %q", errorCode(resp))
	}
	resp = p.Execute(NewUndoMoveCommand("missing", core.UndoRequest{Count: 1}))
	if errorCode(resp) != core.ErrGameNotFound {
		t.Errorf("undo on missing game code = %q", errorCode(resp))
	}
}

func TestBoardTileMovesControl(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "").GameID

	resp := p.Execute(NewGetBoardCommand(id))
	board := resp.Data.(core.BoardResponse)
	if len(board.Tiles) != 64 || board.Tiles[0] != "R" || board.Tiles[63] != "r" {
		t.Errorf("unexpected tiles: %v", board.Tiles)
	}

	resp = p.Execute(NewTileMovesCommand(id, "G1"))
	moves := resp.Data.(core.TileMovesResponse)
	if diff := cmp.Diff([]string{"f3", "h3"}, moves.Moves); diff != "" {
		t.Errorf("g1 moves (-want +got):\n%s", diff)
	}
	if moves.Piece != "n" {
		t.Errorf("Piece = %q; want n", moves.Piece)
	}

	resp = p.Execute(NewTileMovesCommand(id, "e4"))
	if moves := resp.Data.(core.TileMovesResponse); len(moves.Moves) != 0 || moves.Piece != "" {
		t.Errorf("empty tile response = %+v", moves)
	}

	resp = p.Execute(NewTileMovesCommand(id, "i9"))
	if errorCode(resp) != core.ErrInvalidTile {
		t.Errorf("bad tile code = %q", errorCode(resp))
	}

	resp = p.Execute(NewControlCommand(id, core.ColorWhite))
	control := resp.Data.(core.ControlResponse)
	if control.Total != 38 || control.Counts["f3"] != 3 {
		t.Errorf("control = total %d, f3 %d; want 38, 3", control.Total, control.Counts["f3"])
	}

	resp = p.Execute(NewControlCommand(id, core.ColorNone))
	if errorCode(resp) != core.ErrInvalidRequest {
		t.Errorf("bad color code = %q", errorCode(resp))
	}
}

func TestDeleteGame(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "").GameID

	if resp := p.Execute(NewDeleteGameCommand(id)); !resp.Success {
		t.Fatalf("delete failed: %+v", resp.Error)
	}
	if resp := p.Execute(NewGetGameCommand(id)); errorCode(resp) != core.ErrGameNotFound {
		t.Errorf("get after delete code = %q", errorCode(resp))
	}
}

func TestUndoStoresReopenedState(t *testing.T) {
	p := newProcessor()
	id := mustCreate(t, p, "pf2f3-Pe7e5-pg2g4-Qd8h4").GameID

	if resp := p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 2})); !resp.Success {
		t.Fatalf("undo failed: %+v", resp.Error)
	}

	// The stored state, not only the undo response, must be ongoing again
	resp := p.Execute(NewGetGameCommand(id))
	if g := resp.Data.(core.GameResponse); g.State != "ongoing" || g.Ply != 2 {
		t.Errorf("after undo get: state=%s ply=%d", g.State, g.Ply)
	}
	g := play(t, p, id, "a2a3")
	if g.State != "ongoing" || g.Turn != "b" {
		t.Errorf("move after undo: state=%s turn=%s", g.State, g.Turn)
	}

	resp = p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 4}))
	if errorCode(resp) != core.ErrInvalidRequest {
		t.Errorf("undo past start code = %q", errorCode(resp))
	}
}
