package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"games_library/internal/config"
	"games_library/internal/storage"

	goredis "github.com/redis/go-redis/v9"
)

// Storage keeps each blob under "<namespace>:<key>".
type Storage struct {
	Client    *goredis.Client
	namespace string
}

func New(cfg config.Redis, namespace string) *Storage {
	return NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), namespace)
}

func NewWithClient(client *goredis.Client, namespace string) *Storage {
	return &Storage{Client: client, namespace: namespace}
}

func (s *Storage) key(k string) string {
	return s.namespace + ":" + k
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.redis.Get"

	b, err := s.Client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return b, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.redis.Set"

	if err := s.Client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.redis.Delete"

	if err := s.Client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// Clear removes every key under the namespace prefix.
func (s *Storage) Clear(ctx context.Context) error {
	const op = "storage.redis.Clear"

	iter := s.Client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	if len(keys) == 0 {
		return nil
	}

	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

func (s *Storage) Close() error {
	return s.Client.Close()
}

// mapError turns a maxmemory rejection into storage.ErrQuotaExceeded.
func mapError(err error) error {
	if strings.HasPrefix(err.Error(), "OOM ") {
		return fmt.Errorf("%w: %s", storage.ErrQuotaExceeded, err.Error())
	}
	return err
}
