package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore хранит ключи в памяти процесса. Подходит для одного инстанса и тестов.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		keys: make(map[string]time.Time),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go s.cleanup(5 * time.Minute)

	return s
}

// Reserve возвращает true, если ключ свободен или его срок истёк.
func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, exists := s.keys[key]; exists && now.Before(expiresAt) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}

// Release освобождает ключ, например если сценарий упал до записи.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

// cleanup периодически удаляет истёкшие ключи.
func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purge()
		}
	}
}

func (s *MemoryStore) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, expiresAt := range s.keys {
		if !now.Before(expiresAt) {
			delete(s.keys, key)
		}
	}
}
