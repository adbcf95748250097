// Package backend opens the key-value storage selected in the config.
package backend

import (
	"fmt"

	"games_library/internal/config"
	"games_library/internal/storage"
	"games_library/internal/storage/mariadb"
	"games_library/internal/storage/memory"
	"games_library/internal/storage/redis"
	"games_library/internal/storage/sqlite"
)

// Open returns nil storage for config.DriverNone.
func Open(cfg config.Storage) (storage.KV, error) {
	const op = "storage.backend.Open"

	switch cfg.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverMemory:
		return memory.New(cfg.Memory.Quota), nil
	case config.DriverSQLite:
		s, err := sqlite.New(cfg.SQLite.Path, cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case config.DriverMariaDB:
		s, err := mariadb.New(cfg.Database, cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.Migrate(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case config.DriverRedis:
		return redis.New(cfg.Redis, cfg.Namespace), nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}
