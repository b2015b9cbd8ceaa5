// FILE: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tilechess/internal/core"
	"tilechess/internal/game"
	"tilechess/internal/notation"
	"tilechess/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service is the state manager for games with optional persistence
type Service struct {
	games  map[string]*game.Game
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
	log    zerolog.Logger
}

// New creates a new service instance with optional storage
func New(store *storage.Store, log zerolog.Logger) *Service {
	return &Service{
		games:  make(map[string]*game.Game),
		store:  store,
		waiter: NewWaitRegistry(WaitTimeout),
		log:    log.With().Str("component", "service").Logger(),
	}
}

// CreateGame registers a new game. history must already be validated.
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player, history []core.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("%w: %s", core.ErrExists, id)
	}

	g := game.New(whitePlayer, blackPlayer)
	for _, m := range history {
		g.Append(m)
	}
	s.games[id] = g

	if s.store != nil {
		now := time.Now().UTC()
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			WhitePlayerID: whitePlayer.ID,
			BlackPlayerID: blackPlayer.ID,
			StartTimeUTC:  now,
		})
		for i, m := range history {
			s.recordMove(id, i+1, m, now)
		}
	}

	s.log.Info().Str("game", id).Int("ply", len(history)).Msg("game created")
	return nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, gameID)
	}
	return g, nil
}

// GameCount returns the number of games held in memory
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove appends a validated move to the game history
func (s *Service) ApplyMove(gameID string, move core.Move) error {
	return s.commit(gameID, move, func(*game.Game) {})
}

// CommitMove sets the resulting state and move result and appends the move
// in one step, so a failed lookup leaves the game untouched. Waiters are
// woken only once all three are visible.
func (s *Service) CommitMove(gameID string, move core.Move, result *game.MoveResult, state core.State) error {
	return s.commit(gameID, move, func(g *game.Game) {
		g.SetState(state)
		g.SetLastResult(result)
	})
}

func (s *Service) commit(gameID string, move core.Move, update func(*game.Game)) error {
	s.mu.Lock()
	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, gameID)
	}
	update(g)
	g.Append(move)
	ply := g.Ply()

	if s.store != nil {
		s.recordMove(gameID, ply, move, time.Now().UTC())
	}
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, ply)
	return nil
}

func (s *Service) recordMove(gameID string, number int, move core.Move, at time.Time) {
	s.store.RecordMove(storage.MoveRecord{
		GameID:      gameID,
		MoveNumber:  number,
		MoveToken:   notation.EncodeMove(move),
		PlayerColor: move.Color().String(),
		MoveTimeUTC: at,
	})
}

// UpdateGameState sets the game's end state (checkmate, stalemate, etc)
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, gameID)
	}

	g.SetState(state)
	return nil
}

// SetLastMoveResult stores metadata about the last move
func (s *Service) SetLastMoveResult(gameID string, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, gameID)
	}

	g.SetLastResult(result)
	return nil
}

// UndoMoves truncates the game history by count moves
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, gameID)
	}

	if err := g.UndoMoves(count); err != nil {
		s.mu.Unlock()
		return err
	}
	ply := g.Ply()

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, ply)
	}
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, ply)
	return nil
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	if _, ok := s.games[gameID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, gameID)
	}
	delete(s.games, gameID)
	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	s.mu.Unlock()

	s.waiter.RemoveGame(gameID)
	s.log.Info().Str("game", gameID).Msg("game deleted")
	return nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// Waiting reports how many clients are blocked on a game
func (s *Service) Waiting(gameID string) int {
	return s.waiter.Waiting(gameID)
}

// Shutdown releases waiters, drops in-memory games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
