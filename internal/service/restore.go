// FILE: internal/service/restore.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tilechess/internal/core"
	"tilechess/internal/engine"
	"tilechess/internal/game"
	"tilechess/internal/notation"
	"tilechess/internal/storage"
)

// DefaultRestoreWorkers is used when RestoreGames is given no worker count
const DefaultRestoreWorkers = 4

// RestoreGames loads persisted games into memory, replaying each history
// through the rules engine. A history is cut at its first illegal move.
func (s *Service) RestoreGames(ctx context.Context, workers int) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	if workers < 1 {
		workers = DefaultRestoreWorkers
	}

	records, err := s.store.QueryGames("*", "*")
	if err != nil {
		return 0, fmt.Errorf("failed to list games: %w", err)
	}

	tasks := make(chan storage.GameRecord, len(records))
	for _, r := range records {
		tasks <- r
	}
	close(tasks)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []error
		restored int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range tasks {
				if ctx.Err() != nil {
					return
				}
				if err := s.restoreGame(record); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("game %s: %w", record.GameID, err))
					mu.Unlock()
					continue
				}
				mu.Lock()
				restored++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	s.log.Info().Int("restored", restored).Int("stored", len(records)).Msg("games restored")
	return restored, errors.Join(errs...)
}

func (s *Service) restoreGame(record storage.GameRecord) error {
	moves, err := s.store.LoadMoves(record.GameID)
	if err != nil {
		return err
	}

	decoded := make([]core.Move, 0, len(moves))
	for _, m := range moves {
		move, err := notation.DecodeMove(m.MoveToken)
		if err != nil {
			break
		}
		decoded = append(decoded, move)
	}

	history, b := engine.Replay(decoded)
	if len(history) < len(moves) {
		s.log.Warn().Str("game", record.GameID).
			Int("stored", len(moves)).Int("kept", len(history)).
			Msg("stored history truncated at first illegal move")
		s.store.DeleteUndoneMoves(record.GameID, len(history))
	}

	g := game.New(
		&core.Player{ID: record.WhitePlayerID, Color: core.ColorWhite},
		&core.Player{ID: record.BlackPlayerID, Color: core.ColorBlack},
	)
	for _, m := range history {
		g.Append(m)
	}
	g.SetState(engine.EvaluateBoard(b, history).State())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[record.GameID]; exists {
		return core.ErrExists
	}
	s.games[record.GameID] = g
	return nil
}
