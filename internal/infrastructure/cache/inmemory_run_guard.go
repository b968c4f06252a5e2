package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dormbill/backend/internal/domain/shared"
)

type guardEntry struct {
	expiresAt time.Time
}

// InMemoryRunGuardStore implements RunGuardStore using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryRunGuardStore struct {
	mu        sync.RWMutex
	entries   map[string]guardEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRunGuardStore creates a new in-memory run guard store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryRunGuardStore() *InMemoryRunGuardStore {
	store := &InMemoryRunGuardStore{
		entries:  make(map[string]guardEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkProcessed claims a run key with a TTL.
// Returns true if the key was newly claimed, false if already claimed.
func (s *InMemoryRunGuardStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	s.entries[key] = guardEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// IsProcessed checks whether a run key is currently claimed
func (s *InMemoryRunGuardStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the cleanup goroutine
func (s *InMemoryRunGuardStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryRunGuardStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *InMemoryRunGuardStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

var _ shared.RunGuardStore = (*InMemoryRunGuardStore)(nil)
