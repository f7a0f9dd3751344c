// Package revocation tracks access tokens that were logged out before they
// expired. Entries only need to outlive the token itself.
package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/logger"
)

type Store interface {
	Revoke(ctx context.Context, tokenId string, until time.Time) error
	IsRevoked(ctx context.Context, tokenId string) (bool, error)
}

// MemoryStore is the single-instance Store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenId string, until time.Time) error {
	if tokenId == "" || !until.After(s.now()) {
		return nil
	}
	s.mu.Lock()
	s.revoked[tokenId] = until
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenId string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.revoked[tokenId]
	return ok && until.After(s.now()), nil
}

// Sweep drops entries whose tokens have expired anyway.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
			removed++
		}
	}
	return removed
}

// StartBackgroundSweep runs Sweep every interval until ctx is done.
func (s *MemoryStore) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	log := logger.Component("revocation")
	log.Info("started revocation sweep", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("stopped revocation sweep")
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Debug("swept expired revocations", "removed", n)
				}
			}
		}
	}()
}
