package idempotency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
)

const keyPrefix = "freelaav:idem:"

// Key собирает ключ из actor, маршрута и заголовка Idempotency-Key.
func Key(actorID uuid.UUID, route, header string) string {
	return keyPrefix + actorID.String() + ":" + route + ":" + strings.TrimSpace(header)
}

// Releaser освобождает ключ после неуспешного сценария, чтобы повтор прошёл.
type Releaser interface {
	Release(ctx context.Context, key string) error
}

// RedisStore резервирует ключи через SET NX, общий для всех инстансов.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency: redis setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("idempotency: redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Store реализует repository.IdempotencyStore и Releaser.
type Store interface {
	repository.IdempotencyStore
	Releaser
}

// Open подключается к Redis по addr; при пустом адресе или недоступном Redis отдаёт MemoryStore.
func Open(ctx context.Context, addr, password string) (Store, func()) {
	log := logger.WithComponent("idempotency")
	if addr == "" {
		log.Info("REDIS_ADDR не задан, ключи идемпотентности хранятся в памяти")
		mem := NewMemoryStore()
		return mem, mem.Close
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithFields(logrus.Fields{"addr": addr}).WithError(err).Warn("Redis недоступен, ключи идемпотентности хранятся в памяти")
		_ = client.Close()
		mem := NewMemoryStore()
		return mem, mem.Close
	}

	return NewRedisStore(client), func() { _ = client.Close() }
}
