package engine

import (
	"math/rand"
	"sort"
	"testing"

	"tilechess/internal/board"
	"tilechess/internal/core"
	"tilechess/internal/tile"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// fromSquare maps a notnil square (a1 = 0) onto a tile (a8 = 0)
func fromSquare(s chess.Square) tile.Tile {
	return tile.At(7-int(s.Rank()), int(s.File()))
}

type pair struct {
	From, To tile.Tile
}

func pairs(moves []core.Move) []pair {
	seen := make(map[pair]bool)
	var out []pair
	for _, m := range moves {
		p := pair{m.From, m.To}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sortPairs(out)
	return out
}

func oraclePairs(moves []*chess.Move) []pair {
	seen := make(map[pair]bool)
	var out []pair
	for _, m := range moves {
		p := pair{fromSquare(m.S1()), fromSquare(m.S2())}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sortPairs(out)
	return out
}

func sortPairs(ps []pair) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].From != ps[j].From {
			return ps[i].From < ps[j].From
		}
		return ps[i].To < ps[j].To
	})
}

// Random games cross-checked against an independent move generator
func TestRandomGamesMatchOracle(t *testing.T) {
	const (
		games   = 12
		maxPlys = 120
	)
	rng := rand.New(rand.NewSource(7))

	for g := 0; g < games; g++ {
		game := chess.NewGame()
		var history []core.Move

		for ply := 0; ply < maxPlys && game.Outcome() == chess.NoOutcome; ply++ {
			b := board.Derive(history)
			player := core.CurrentPlayer(history)

			want := oraclePairs(game.ValidMoves())
			got := pairs(AllLegalMoves(b, player, history))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("game %d ply %d history %v: legal moves differ (-oracle +engine):\n%s\n%s",
					g, ply, history, diff, b)
			}

			var candidates []*chess.Move
			for _, m := range game.ValidMoves() {
				if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
					candidates = append(candidates, m)
				}
			}
			if len(candidates) == 0 {
				break
			}
			pick := candidates[rng.Intn(len(candidates))]
			if err := game.Move(pick); err != nil {
				t.Fatalf("oracle rejected its own move %v: %v", pick, err)
			}

			from := fromSquare(pick.S1())
			history = append(history, core.Move{Piece: b[from], From: from, To: fromSquare(pick.S2())})
		}

		s := Evaluate(history)
		switch game.Method() {
		case chess.Checkmate:
			if !s.Checkmate {
				t.Errorf("game %d: oracle checkmate not detected", g)
			}
		case chess.Stalemate:
			if !s.Draw {
				t.Errorf("game %d: oracle stalemate not detected", g)
			}
		}
	}
}
