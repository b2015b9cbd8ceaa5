// FILE: internal/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const (
	writeQueueSize = 1000
	drainTimeout   = 2 * time.Second
)

// writeOp is a queued write; ops with done set only mark a queue position
type writeOp struct {
	name string
	fn   func(*sql.Tx) error
	done chan struct{}
}

// Store handles SQLite persistence. Writes are queued to a single writer
// goroutine; a failed write marks the store degraded and later writes are dropped.
type Store struct {
	db           *sql.DB
	path         string
	log          zerolog.Logger
	writeChan    chan writeOp
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closeErr     error
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string, devMode bool, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode in development for better concurrency
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Pragmas are per connection; a single connection keeps them in effect
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		log:       log.With().Str("component", "storage").Logger(),
		writeChan: make(chan writeOp, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy returns true if the storage is operational
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// writerLoop processes async write operations in submission order
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain remaining writes with timeout
			deadline := time.After(drainTimeout)
			for {
				select {
				case op := <-s.writeChan:
					s.run(op)
				case <-deadline:
					return
				default:
					return
				}
			}

		case op := <-s.writeChan:
			s.run(op)
		}
	}
}

func (s *Store) run(op writeOp) {
	if op.done != nil {
		close(op.done)
		return
	}
	if !s.healthStatus.Load() {
		return
	}
	s.executeWrite(op)
}

// executeWrite runs a transactional write operation
func (s *Store) executeWrite(op writeOp) {
	tx, err := s.db.Begin()
	if err != nil {
		s.log.Error().Err(err).Str("op", op.name).Msg("storage degraded: failed to begin transaction")
		s.healthStatus.Store(false)
		return
	}

	if err := op.fn(tx); err != nil {
		tx.Rollback()
		s.log.Error().Err(err).Str("op", op.name).Msg("storage degraded: write operation failed")
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Str("op", op.name).Msg("storage degraded: failed to commit")
		s.healthStatus.Store(false)
	}
}

// enqueue submits a write, dropping it when degraded or when the queue is full
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}

	select {
	case s.writeChan <- writeOp{name: what, fn: fn}:
	default:
		s.log.Warn().Str("op", what).Msg("storage write queue full, dropping write")
	}
}

// Flush blocks until every write queued before the call has been executed
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case s.writeChan <- writeOp{name: "flush", done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer and closes the database connection
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(drainTimeout):
			s.log.Warn().Msg("storage writer shutdown timeout, some writes may be lost")
		}

		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// DESTRUCTIVE: removes database file
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}
