package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tilechess/internal/core"
	"tilechess/internal/game"
	"tilechess/internal/storage"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func players() (*core.Player, *core.Player) {
	return core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack)
}

var opening = []core.Move{
	{Piece: core.WhitePawn, From: 52, To: 36},
	{Piece: core.BlackPawn, From: 12, To: 28},
}

func TestCreateAndGet(t *testing.T) {
	svc := New(nil, zerolog.Nop())
	w, b := players()
	id := svc.GenerateGameID()

	if err := svc.CreateGame(id, w, b, opening); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := svc.CreateGame(id, w, b, nil); !errors.Is(err, core.ErrExists) {
		t.Errorf("duplicate CreateGame error = %v; want ErrExists", err)
	}

	g, err := svc.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g.Ply() != 2 {
		t.Errorf("Ply() = %d; want 2", g.Ply())
	}
	if _, err := svc.GetGame("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetGame(missing) error = %v; want ErrNotFound", err)
	}
	if svc.GetStorageHealth() != "disabled" {
		t.Errorf("storage health = %q; want disabled", svc.GetStorageHealth())
	}
}

func TestMutationsOnMissingGame(t *testing.T) {
	svc := New(nil, zerolog.Nop())
	checks := map[string]error{
		"ApplyMove":         svc.ApplyMove("x", opening[0]),
		"CommitMove":        svc.CommitMove("x", opening[0], &game.MoveResult{}, core.StateWhiteWins),
		"UpdateGameState":   svc.UpdateGameState("x", core.StateStalemate),
		"SetLastMoveResult": svc.SetLastMoveResult("x", &game.MoveResult{}),
		"UndoMoves":         svc.UndoMoves("x", 1),
		"DeleteGame":        svc.DeleteGame("x"),
	}
	for name, err := range checks {
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("%s error = %v; want ErrNotFound", name, err)
		}
	}
}

func TestApplyUndoDelete(t *testing.T) {
	svc := New(nil, zerolog.Nop())
	w, b := players()
	id := svc.GenerateGameID()
	if err := svc.CreateGame(id, w, b, nil); err != nil {
		t.Fatal(err)
	}

	for _, m := range opening {
		if err := svc.ApplyMove(id, m); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
	}
	if err := svc.UndoMoves(id, 3); !errors.Is(err, core.ErrBadUndo) {
		t.Errorf("UndoMoves(3) error = %v; want ErrBadUndo", err)
	}
	if err := svc.UndoMoves(id, 1); err != nil {
		t.Fatalf("UndoMoves(1): %v", err)
	}
	g, _ := svc.GetGame(id)
	if diff := cmp.Diff(opening[:1], g.History()); diff != "" {
		t.Errorf("history after undo (-want +got):\n%s", diff)
	}

	if err := svc.DeleteGame(id); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if svc.GameCount() != 0 {
		t.Errorf("GameCount() = %d; want 0", svc.GameCount())
	}
}

func TestCommitMoveIsAllOrNothing(t *testing.T) {
	svc := New(nil, zerolog.Nop())
	w, b := players()
	id := svc.GenerateGameID()
	if err := svc.CreateGame(id, w, b, nil); err != nil {
		t.Fatal(err)
	}
	g, _ := svc.GetGame(id)

	// The game disappears between validation and commit
	if err := svc.DeleteGame(id); err != nil {
		t.Fatal(err)
	}
	result := &game.MoveResult{Move: opening[0], GameState: core.StateWhiteWins}
	if err := svc.CommitMove(id, opening[0], result, core.StateWhiteWins); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("CommitMove error = %v; want ErrNotFound", err)
	}
	if g.State() != core.StateOngoing || g.LastResult() != nil || g.Ply() != 0 {
		t.Errorf("failed commit left state=%s result=%+v ply=%d", g.State(), g.LastResult(), g.Ply())
	}

	id = svc.GenerateGameID()
	svc.CreateGame(id, w, b, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notify := svc.RegisterWait(ctx, id, 0)

	if err := svc.CommitMove(id, opening[0], result, core.StateWhiteWins); err != nil {
		t.Fatalf("CommitMove: %v", err)
	}
	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not notified after commit")
	}
	g, _ = svc.GetGame(id)
	if g.State() != core.StateWhiteWins || g.LastResult() != result || g.Ply() != 1 {
		t.Errorf("after commit state=%s result=%+v ply=%d", g.State(), g.LastResult(), g.Ply())
	}
}

func TestRegisterWaitWakesOnMove(t *testing.T) {
	svc := New(nil, zerolog.Nop())
	w, b := players()
	id := svc.GenerateGameID()
	svc.CreateGame(id, w, b, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notify := svc.RegisterWait(ctx, id, 0)

	if err := svc.ApplyMove(id, opening[0]); err != nil {
		t.Fatal(err)
	}

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not notified after move")
	}
}

func TestWaitRegistry(t *testing.T) {
	w := NewWaitRegistry(50 * time.Millisecond)
	defer w.Shutdown(time.Second)

	ctx := context.Background()

	t.Run("same count does not wake", func(t *testing.T) {
		long := NewWaitRegistry(time.Minute)
		defer long.Shutdown(time.Second)
		ch := long.RegisterWait(ctx, "g", 3)
		long.NotifyGame("g", 3)
		select {
		case <-ch:
			t.Fatal("woken without a change")
		case <-time.After(20 * time.Millisecond):
		}
		long.NotifyGame("g", 4)
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("not woken after change")
		}
	})

	t.Run("timeout wakes", func(t *testing.T) {
		ch := w.RegisterWait(ctx, "t", 0)
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("timeout did not wake waiter")
		}
	})

	t.Run("remove game wakes", func(t *testing.T) {
		long := NewWaitRegistry(time.Minute)
		defer long.Shutdown(time.Second)
		ch := long.RegisterWait(ctx, "r", 0)
		long.RemoveGame("r")
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("RemoveGame did not wake waiter")
		}
		if long.Waiting("r") != 0 {
			t.Errorf("Waiting() = %d after removal", long.Waiting("r"))
		}
	})

	t.Run("cancel wakes and cleans up", func(t *testing.T) {
		long := NewWaitRegistry(time.Minute)
		defer long.Shutdown(time.Second)
		cctx, cancel := context.WithCancel(ctx)
		ch := long.RegisterWait(cctx, "c", 0)
		cancel()
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("cancel did not wake waiter")
		}
		deadline := time.Now().Add(time.Second)
		for long.Waiting("c") != 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if long.Waiting("c") != 0 {
			t.Error("waiter not removed after cancel")
		}
	})
}

func newStore(t *testing.T, path string) *storage.Store {
	t.Helper()
	st, err := storage.NewStore(path, false, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := st.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return st
}

func TestRestoreGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")

	first := New(newStore(t, path), zerolog.Nop())
	w, b := players()
	id := first.GenerateGameID()
	if err := first.CreateGame(id, w, b, opening); err != nil {
		t.Fatal(err)
	}
	if err := first.ApplyMove(id, core.Move{Piece: core.WhiteKnight, From: 62, To: 45}); err != nil {
		t.Fatal(err)
	}
	if err := first.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	second := New(newStore(t, path), zerolog.Nop())
	defer second.Shutdown(time.Second)

	n, err := second.RestoreGames(context.Background(), 2)
	if err != nil {
		t.Fatalf("RestoreGames: %v", err)
	}
	if n != 1 {
		t.Fatalf("restored %d games; want 1", n)
	}

	g, err := second.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame after restore: %v", err)
	}
	if g.Encoded() != "pe2e4-Pe7e5-ng1f3" {
		t.Errorf("restored history = %q", g.Encoded())
	}
	if g.Player(core.ColorWhite).ID != w.ID {
		t.Errorf("white player id = %s; want %s", g.Player(core.ColorWhite).ID, w.ID)
	}
	if g.State() != core.StateOngoing {
		t.Errorf("restored state = %v", g.State())
	}
}
