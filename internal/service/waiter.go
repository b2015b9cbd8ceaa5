// FILE: internal/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the maximum time a client can wait for notifications
const WaitTimeout = 25 * time.Second

// WaitRegistry manages clients waiting for a game's history to change
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	GameID    string
	MoveCount int           // Last ply count known to the client
	Notify    chan struct{} // Closed once on change, timeout or removal
	Timer     *time.Timer
	once      sync.Once
}

func (r *WaitRequest) fire() {
	r.once.Do(func() { close(r.Notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel closed when the game's ply count moves away
// from moveCount, the game is removed, the timeout passes or ctx ends
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &WaitRequest{
		GameID:    gameID,
		MoveCount: moveCount,
		Notify:    make(chan struct{}),
	}
	req.Timer = time.AfterFunc(w.timeout, req.fire)

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			req.fire()
		case <-req.Notify:
		case <-w.shutdown:
			req.fire()
		}
		req.Timer.Stop()
		w.removeWaiter(gameID, req)
	}()

	return req.Notify
}

// NotifyGame wakes every waiter whose known ply count differs from the current one
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.RUnlock()

	for _, req := range waitList {
		if req.MoveCount != currentMoveCount {
			req.fire()
		}
	}
}

// RemoveGame wakes and drops all waiters for a game (called on deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Waiting returns the number of registered waiters for a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for cleanup goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
