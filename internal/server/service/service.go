package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkers/internal/server/game"
	"checkers/internal/server/storage"
)

const MaxGames = 1000

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrTooManyGames     = errors.New("game limit reached")
	ErrComputerThinking = errors.New("computer step in progress")
	ErrGameStuck        = errors.New("game is stuck")
	ErrStaleStep        = errors.New("computer step no longer applies")
)

// session is a game plus the bookkeeping needed to cancel its deferred
// computer steps
type session struct {
	game   *game.Game
	seed   uint64
	cancel context.CancelFunc
}

// Service owns all running games. Every game is only touched while mu is
// held, so game logic itself stays single threaded.
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	store  *storage.Store
	waiter *WaitRegistry
}

// New creates a service with optional storage
func New(store *storage.Store) *Service {
	return &Service{
		games:  make(map[string]*session),
		store:  store,
		waiter: NewWaitRegistry(),
	}
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

// GameCount returns the number of games in memory
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// RegisterWait registers a client to wait for a game version change
func (s *Service) RegisterWait(ctx context.Context, gameID string, version int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, version)
}

// ReleaseWaiters ends every long-poll in flight and makes later ones return
// immediately, so the HTTP server can drain without waiting out their timeouts
func (s *Service) ReleaseWaiters(timeout time.Duration) error {
	return s.waiter.Shutdown(timeout)
}

// Shutdown cancels pending computer steps, releases waiters and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.games {
		if sess.cancel != nil {
			sess.cancel()
		}
	}
	s.games = make(map[string]*session)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
