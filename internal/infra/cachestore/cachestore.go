// Package cachestore persists collection snapshots in redis so a restart
// can display data before the first network refresh lands. The store is an
// optimization only: failed writes are logged and swallowed, a cache miss
// is an empty collection.
package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"venue-booking/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "cache:"
	refreshedAtKey = "cache:refreshed_at"
)

type Store struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewStore(rdb *redis.Client, logger *slog.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

func (s *Store) Save(ctx context.Context, collection string, items any) error {
	b, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("cache save skipped", "collection", collection, "error", err)
		return nil
	}
	if err := s.rdb.Set(ctx, keyPrefix+collection, b, 0).Err(); err != nil {
		s.logger.Warn("cache save failed", "collection", collection, "error", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, collection string, items any) (bool, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errs.MarkTransport(err)
	}
	if err := json.Unmarshal(b, items); err != nil {
		return false, errs.Wrap(err, "decode cached "+collection)
	}
	return true, nil
}

func (s *Store) SaveRefreshedAt(ctx context.Context, t time.Time) error {
	if err := s.rdb.Set(ctx, refreshedAtKey, t.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		s.logger.Warn("refresh timestamp save failed", "error", err)
	}
	return nil
}

func (s *Store) LoadRefreshedAt(ctx context.Context) (time.Time, bool, error) {
	v, err := s.rdb.Get(ctx, refreshedAtKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errs.MarkTransport(err)
	}
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		// A corrupt stamp counts as never refreshed.
		return time.Time{}, false, nil
	}
	return ts, true, nil
}

// SetValue and GetValue expose plain keyed storage for small records that
// live alongside the snapshots, like the persisted session.
func (s *Store) SetValue(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return errs.MarkTransport(err)
	}
	return nil
}

func (s *Store) GetValue(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.MarkTransport(err)
	}
	return v, true, nil
}

func (s *Store) DeleteValue(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errs.MarkTransport(err)
	}
	return nil
}
