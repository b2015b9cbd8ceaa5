package engine

import (
	"sort"
	"testing"

	"tilechess/internal/board"
	"tilechess/internal/core"
	"tilechess/internal/tile"

	"github.com/google/go-cmp/cmp"
)

func sq(coord string) tile.Tile {
	t, err := tile.Parse(coord)
	if err != nil {
		panic(err)
	}
	return t
}

func mv(p core.Piece, from, to string) core.Move {
	return core.Move{Piece: p, From: sq(from), To: sq(to)}
}

func emptyBoard() board.Board {
	var b board.Board
	for i := range b {
		b[i] = core.Empty
	}
	return b
}

func destinations(moves []core.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, tile.Coordinate(m.To))
	}
	sort.Strings(out)
	return out
}

func legalFrom(history []core.Move, coord string) []core.Move {
	b := board.Derive(history)
	from := sq(coord)
	enemy := ControlMovesFor(b, core.OppositeColor(b[from].Color()))
	return LegalMoves(b, from, history, enemy)
}

func TestInitialControl(t *testing.T) {
	b := board.Initial()
	if got := len(ControlMovesFor(b, core.ColorWhite)); got != 38 {
		t.Errorf("white control moves = %d; want 38", got)
	}
	if got := len(ControlMovesFor(b, core.ColorBlack)); got != 38 {
		t.Errorf("black control moves = %d; want 38", got)
	}
}

func TestControlledTiles(t *testing.T) {
	tests := []struct {
		name  string
		piece core.Piece
		at    string
		block map[string]core.Piece
		want  []string
	}{
		{
			name:  "knight in corner",
			piece: core.WhiteKnight,
			at:    "a1",
			want:  []string{"b3", "c2"},
		},
		{
			name:  "knight on edge",
			piece: core.BlackKnight,
			at:    "h5",
			want:  []string{"f4", "f6", "g3", "g7"},
		},
		{
			name:  "king in corner",
			piece: core.WhiteKing,
			at:    "h8",
			want:  []string{"g7", "g8", "h7"},
		},
		{
			name:  "rook stops on first occupied tile",
			piece: core.WhiteRook,
			at:    "a1",
			block: map[string]core.Piece{"a3": core.BlackPawn, "c1": core.WhitePawn},
			want:  []string{"a2", "a3", "b1", "c1"},
		},
		{
			name:  "white pawn controls up diagonals",
			piece: core.WhitePawn,
			at:    "a2",
			want:  []string{"b3"},
		},
		{
			name:  "black pawn controls down diagonals",
			piece: core.BlackPawn,
			at:    "e7",
			want:  []string{"d6", "f6"},
		},
		{
			name:  "bishop long diagonal",
			piece: core.BlackBishop,
			at:    "c1",
			block: map[string]core.Piece{"f4": core.WhiteQueen},
			want:  []string{"a3", "b2", "d2", "e3", "f4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := emptyBoard()
			b[sq(tt.at)] = tt.piece
			for c, p := range tt.block {
				b[sq(c)] = p
			}
			got := make([]string, 0)
			for _, c := range ControlledTiles(b, sq(tt.at)) {
				got = append(got, tile.Coordinate(c))
			}
			sort.Strings(got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ControlledTiles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAttackSetCounts(t *testing.T) {
	s := NewAttackSet(ControlMovesFor(board.Initial(), core.ColorWhite))

	tests := []struct {
		coord string
		want  int
	}{
		{"f3", 3}, // e2, g2, g1
		{"c3", 3}, // b2, d2, b1
		{"d3", 2},
		{"e3", 2},
		{"e4", 0},
		{"d2", 4}, // c1, e1, d1, b1
	}

	for _, tt := range tests {
		if got := s.Count(sq(tt.coord)); got != tt.want {
			t.Errorf("Count(%s) = %d; want %d", tt.coord, got, tt.want)
		}
		if got := s.Contains(sq(tt.coord)); got != (tt.want > 0) {
			t.Errorf("Contains(%s) = %v", tt.coord, got)
		}
	}
	if s.Count(tile.None) != 0 {
		t.Error("Count(None) should be 0")
	}
	if len(s.Tiles()) == 0 {
		t.Error("Tiles() returned nothing for the initial position")
	}
}

func TestInitialLegalMoves(t *testing.T) {
	b := board.Initial()
	if got := len(AllLegalMoves(b, core.ColorWhite, nil)); got != 20 {
		t.Errorf("white legal moves = %d; want 20", got)
	}
	if diff := cmp.Diff([]string{"e3", "e4"}, destinations(legalFrom(nil, "e2"))); diff != "" {
		t.Errorf("e2 pawn (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f3", "h3"}, destinations(legalFrom(nil, "g1"))); diff != "" {
		t.Errorf("g1 knight (-want +got):\n%s", diff)
	}
	if got := legalFrom(nil, "e4"); got != nil {
		t.Errorf("empty tile yielded moves: %v", got)
	}
}

func TestPinnedPieceStaysOnLine(t *testing.T) {
	b := emptyBoard()
	b[sq("e1")] = core.WhiteKing
	b[sq("e2")] = core.WhiteRook
	b[sq("e8")] = core.BlackRook
	b[sq("a8")] = core.BlackKing

	enemy := ControlMovesFor(b, core.ColorBlack)
	got := destinations(LegalMoves(b, sq("e2"), nil, enemy))
	want := []string{"e3", "e4", "e5", "e6", "e7", "e8"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pinned rook (-want +got):\n%s", diff)
	}
}

func TestKingCannotStepIntoControl(t *testing.T) {
	b := emptyBoard()
	b[sq("e1")] = core.WhiteKing
	b[sq("d8")] = core.BlackRook
	b[sq("f8")] = core.BlackRook
	b[sq("a8")] = core.BlackKing

	enemy := ControlMovesFor(b, core.ColorBlack)
	got := destinations(LegalMoves(b, sq("e1"), nil, enemy))
	if diff := cmp.Diff([]string{"e2"}, got); diff != "" {
		t.Errorf("king moves (-want +got):\n%s", diff)
	}
}

func TestEnPassantWindow(t *testing.T) {
	history := []core.Move{
		mv(core.WhitePawn, "e2", "e4"), mv(core.BlackPawn, "a7", "a6"),
		mv(core.WhitePawn, "e4", "e5"), mv(core.BlackPawn, "d7", "d5"),
	}
	if diff := cmp.Diff([]string{"d6", "e6"}, destinations(legalFrom(history, "e5"))); diff != "" {
		t.Errorf("immediately after double push (-want +got):\n%s", diff)
	}

	later := append(history[:len(history):len(history)],
		mv(core.WhitePawn, "h2", "h3"), mv(core.BlackPawn, "a6", "a5"))
	if diff := cmp.Diff([]string{"e6"}, destinations(legalFrom(later, "e5"))); diff != "" {
		t.Errorf("one move later (-want +got):\n%s", diff)
	}
}

func TestNoEnPassantOfOwnPawn(t *testing.T) {
	history := []core.Move{
		mv(core.WhitePawn, "d2", "d4"), mv(core.BlackPawn, "a7", "a6"),
		mv(core.WhitePawn, "e2", "e4"),
	}
	if diff := cmp.Diff([]string{"d5"}, destinations(legalFrom(history, "d4"))); diff != "" {
		t.Errorf("waiting side pawn next to its own double push (-want +got):\n%s", diff)
	}

	b := board.With(board.Derive(history), history, mv(core.WhitePawn, "d4", "e5"))
	if b[sq("e4")] != core.WhitePawn {
		t.Errorf("diagonal step removed the friendly pawn on e4: %q", b[sq("e4")])
	}
}

func TestPawnPushBlocked(t *testing.T) {
	history := []core.Move{
		mv(core.WhitePawn, "e2", "e4"), mv(core.BlackPawn, "e7", "e5"),
	}
	if got := legalFrom(history, "e4"); len(got) != 0 {
		t.Errorf("blocked pawn has moves: %v", destinations(got))
	}
}

func TestPawnBehindKnight(t *testing.T) {
	history := []core.Move{
		mv(core.WhiteKnight, "g1", "f3"), mv(core.BlackPawn, "a7", "a6"),
	}
	if got := legalFrom(history, "f2"); len(got) != 0 {
		t.Errorf("pawn behind knight has moves: %v", destinations(got))
	}
}

var castleOpening = []core.Move{
	mv(core.WhitePawn, "e2", "e4"), mv(core.BlackPawn, "e7", "e5"),
	mv(core.WhiteKnight, "g1", "f3"), mv(core.BlackKnight, "b8", "c6"),
	mv(core.WhiteBishop, "f1", "c4"), mv(core.BlackKnight, "g8", "f6"),
}

func hasMove(moves []core.Move, want core.Move) bool {
	for _, m := range moves {
		if m == want {
			return true
		}
	}
	return false
}

func TestCastlingRights(t *testing.T) {
	castle := mv(core.WhiteKing, "e1", "g1")

	with := func(extra ...core.Move) []core.Move {
		h := make([]core.Move, len(castleOpening), len(castleOpening)+len(extra))
		copy(h, castleOpening)
		return append(h, extra...)
	}

	tests := []struct {
		name    string
		history []core.Move
		want    bool
	}{
		{"untouched", with(), true},
		{
			name: "king moved and returned",
			history: with(
				mv(core.WhiteKing, "e1", "e2"), mv(core.BlackBishop, "f8", "e7"),
				mv(core.WhiteKing, "e2", "e1"), mv(core.BlackBishop, "e7", "f8"),
			),
			want: false,
		},
		{
			name: "rook moved and returned",
			history: with(
				mv(core.WhiteRook, "h1", "g1"), mv(core.BlackBishop, "f8", "e7"),
				mv(core.WhiteRook, "g1", "h1"), mv(core.BlackBishop, "e7", "f8"),
			),
			want: false,
		},
		{
			name: "queen side rook moved does not matter",
			history: with(
				mv(core.WhitePawn, "a2", "a4"), mv(core.BlackPawn, "a7", "a6"),
				mv(core.WhiteRook, "a1", "a3"), mv(core.BlackPawn, "a6", "a5"),
			),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hasMove(legalFrom(tt.history, "e1"), castle)
			if got != tt.want {
				t.Errorf("castle available = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCastleThroughControl(t *testing.T) {
	b := emptyBoard()
	b[sq("e1")] = core.WhiteKing
	b[sq("h1")] = core.WhiteRook
	b[sq("a1")] = core.WhiteRook
	b[sq("a8")] = core.BlackKing
	b[sq("f8")] = core.BlackRook

	enemy := ControlMovesFor(b, core.ColorBlack)
	moves := LegalMoves(b, sq("e1"), nil, enemy)
	if hasMove(moves, mv(core.WhiteKing, "e1", "g1")) {
		t.Error("castled king side through a controlled tile")
	}
	if !hasMove(moves, mv(core.WhiteKing, "e1", "c1")) {
		t.Error("queen side castle missing")
	}

	// Castling out of check is never allowed
	b[sq("f8")] = core.Empty
	b[sq("e8")] = core.BlackRook
	enemy = ControlMovesFor(b, core.ColorBlack)
	for _, m := range LegalMoves(b, sq("e1"), nil, enemy) {
		if core.IsCastle(m) {
			t.Errorf("castled while in check: %v", m)
		}
	}
}

func TestFoolsMate(t *testing.T) {
	history := []core.Move{
		mv(core.WhitePawn, "f2", "f3"), mv(core.BlackPawn, "e7", "e5"),
		mv(core.WhitePawn, "g2", "g4"), mv(core.BlackQueen, "d8", "h4"),
	}
	b := board.Derive(history)

	if !IsChecked(b, core.ColorWhite, ControlMovesFor(b, core.ColorBlack)) {
		t.Fatal("white should be in check")
	}
	if moves := AllLegalMoves(b, core.ColorWhite, history); len(moves) != 0 {
		t.Errorf("mated side has moves: %v", moves)
	}

	s := Evaluate(history)
	if !s.Checkmate || s.Draw || s.Player != core.ColorWhite {
		t.Errorf("unexpected status: %+v", s)
	}
	if s.State() != core.StateBlackWins {
		t.Errorf("State() = %v; want black wins", s.State())
	}
}

func TestStalemate(t *testing.T) {
	b := emptyBoard()
	b[sq("a1")] = core.WhiteKing
	b[sq("c2")] = core.BlackQueen
	b[sq("e8")] = core.BlackKing

	s := EvaluateBoard(b, nil)
	if s.Check {
		t.Error("stalemated king reported in check")
	}
	if !s.Draw || s.Checkmate {
		t.Errorf("unexpected status: %+v", s)
	}
	if s.State() != core.StateStalemate {
		t.Errorf("State() = %v; want stalemate", s.State())
	}
}

func TestKinglessBoard(t *testing.T) {
	b := emptyBoard()
	b[sq("e8")] = core.BlackRook
	b[sq("e1")] = core.WhiteRook
	if IsChecked(b, core.ColorWhite, ControlMovesFor(b, core.ColorBlack)) {
		t.Error("kingless side reported in check")
	}
	if got := len(LegalMoves(b, sq("e1"), nil, nil)); got == 0 {
		t.Error("rook on kingless board should still move")
	}
}

func TestIsLegal(t *testing.T) {
	b := board.Initial()
	if !IsLegal(b, nil, mv(core.WhitePawn, "e2", "e4")) {
		t.Error("e2e4 should be legal")
	}
	if IsLegal(b, nil, mv(core.WhitePawn, "e2", "e5")) {
		t.Error("e2e5 should be illegal")
	}
	if IsLegal(b, nil, mv(core.WhiteQueen, "e2", "e4")) {
		t.Error("wrong piece symbol accepted")
	}
	if IsLegal(b, nil, core.Move{Piece: core.WhitePawn, From: tile.None, To: 0}) {
		t.Error("off-board origin accepted")
	}
}

func TestOngoingState(t *testing.T) {
	s := Evaluate(nil)
	if s.State() != core.StateOngoing || len(s.Moves) != 20 {
		t.Errorf("initial status: %v with %d moves", s.State(), len(s.Moves))
	}
}

func TestReplay(t *testing.T) {
	moves := []core.Move{
		mv(core.WhitePawn, "e2", "e4"), mv(core.BlackPawn, "e7", "e5"),
		mv(core.WhitePawn, "e4", "e5"), // blocked
		mv(core.BlackPawn, "d7", "d5"),
	}
	history, b := Replay(moves)
	if len(history) != 2 {
		t.Fatalf("accepted %d moves; want 2", len(history))
	}
	if diff := cmp.Diff(board.Derive(history), b); diff != "" {
		t.Errorf("replayed board differs from derived (-want +got):\n%s", diff)
	}

	// Black may not move first
	if history, _ := Replay([]core.Move{mv(core.BlackPawn, "e7", "e5")}); len(history) != 0 {
		t.Errorf("out of turn move accepted")
	}
}
