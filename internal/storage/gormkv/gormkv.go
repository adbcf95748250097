// Package gormkv implements storage.KV on top of a single gorm table, so any
// gorm dialect (mysql, sqlite) can hold the library blobs.
package gormkv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"games_library/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one namespaced blob row.
type Entry struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:64"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

type Option func(*Storage)

// WithErrorMapper translates driver errors (e.g. "table full") into storage errors.
func WithErrorMapper(fn func(error) error) Option {
	return func(s *Storage) {
		s.mapErr = fn
	}
}

type Storage struct {
	DB        *gorm.DB
	namespace string
	mapErr    func(error) error
}

func New(db *gorm.DB, namespace string, opts ...Option) *Storage {
	s := &Storage{
		DB:        db,
		namespace: namespace,
		mapErr:    func(err error) error { return err },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Migrate() error {
	const op = "storage.gormkv.Migrate"

	if err := s.DB.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.gormkv.Get"

	var e Entry
	err := s.DB.WithContext(ctx).
		Where(&Entry{Namespace: s.namespace, Key: key}).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapErr(err))
	}

	return e.Value, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.gormkv.Set"

	e := Entry{Namespace: s.namespace, Key: key, Value: value}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, s.mapErr(err))
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.gormkv.Delete"

	err := s.DB.WithContext(ctx).
		Where(&Entry{Namespace: s.namespace, Key: key}).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, s.mapErr(err))
	}

	return nil
}

func (s *Storage) Clear(ctx context.Context) error {
	const op = "storage.gormkv.Clear"

	err := s.DB.WithContext(ctx).
		Where(&Entry{Namespace: s.namespace}).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, s.mapErr(err))
	}

	return nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
