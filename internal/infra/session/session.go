// Package session persists the signed actor identity across restarts, so
// the engine can scope its first refresh before the user interacts.
package session

import (
	"context"
	"log/slog"
	"time"

	"venue-booking/internal/domain/actor"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/jwt"
)

const sessionKey = "session"

// KV is the keyed slice of the cache store the session lives in.
type KV interface {
	SetValue(ctx context.Context, key, value string) error
	GetValue(ctx context.Context, key string) (string, bool, error)
	DeleteValue(ctx context.Context, key string) error
}

type Store struct {
	kv     KV
	tokens *jwt.Service
	clock  clock.Clock
	logger *slog.Logger
}

func NewStore(kv KV, secret string, ttl time.Duration, clk clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		tokens: jwt.NewService(secret, ttl),
		clock:  clk,
		logger: logger,
	}
}

func (s *Store) Save(ctx context.Context, a actor.Actor) error {
	token, err := s.tokens.GenerateToken(a, s.clock.Now())
	if err != nil {
		return err
	}
	return s.kv.SetValue(ctx, sessionKey, token)
}

// Load returns the persisted actor, or nil when no valid session exists.
// A corrupt or expired token is discarded, never fatal: the process simply
// starts anonymous.
func (s *Store) Load(ctx context.Context) *actor.Actor {
	token, ok, err := s.kv.GetValue(ctx, sessionKey)
	if err != nil {
		s.logger.Warn("session load failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	a, err := s.tokens.ValidateToken(token)
	if err != nil {
		s.logger.Warn("discarding invalid session", "error", err)
		if delErr := s.kv.DeleteValue(ctx, sessionKey); delErr != nil {
			s.logger.Warn("session cleanup failed", "error", delErr)
		}
		return nil
	}
	return a
}

func (s *Store) Clear(ctx context.Context) error {
	return s.kv.DeleteValue(ctx, sessionKey)
}
