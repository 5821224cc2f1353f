package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/thriftedhq/thrifted/internal/common"
)

type memoryEntry struct {
	snap      Snapshot
	expiresAt time.Time
}

// MemoryStore is an in-process session store for single-node deployments
// and tests. Expired entries are dropped lazily on Get and swept by a
// background janitor.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	ttl      time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.janitor()
	return s
}

func (s *MemoryStore) Create(ctx context.Context, snap Snapshot) (string, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[token] = memoryEntry{snap: snap, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*Snapshot, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNoSession
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return nil, common.ErrorNoSession
	}

	snap := entry.snap
	return &snap, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	close(s.stopChan)
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) janitor() {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
