package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store is a process-local TTL cache. Expired entries are evicted lazily on
// Get and in bulk by a background sweep. There is no size bound; expiry is
// the only eviction policy.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	stop chan struct{}
	once sync.Once
}

// NewStore starts the sweep goroutine; callers must Stop it on shutdown.
func NewStore(sweepInterval time.Duration) *Store {
	s := &Store{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}
	go s.sweep(sweepInterval)
	return s
}

func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get returns the cached value, or a miss when the key is absent or expired.
// An expired entry is evicted on the spot.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.data, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len counts live entries, for the admin stats endpoint.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for k, e := range s.data {
				if now.After(e.expiresAt) {
					delete(s.data, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
