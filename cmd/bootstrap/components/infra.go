package components

import (
	"log/slog"

	"venue-booking/internal/infra/cachestore"
	"venue-booking/internal/infra/email"
	"venue-booking/internal/infra/realtime"
	"venue-booking/internal/infra/session"
	"venue-booking/internal/infra/transport"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		clock.NewRealClock,
		NewTransportClient,
		NewCacheStore,
		NewRealtimeSubscriber,
		NewSessionStore,
		NewPassSender,
	),
)

func NewTransportClient(cfg config.Config) *transport.Client {
	return transport.NewClient(cfg.Transport)
}

func NewCacheStore(rdb *redis.Client, logger *slog.Logger) *cachestore.Store {
	return cachestore.NewStore(rdb, logger)
}

func NewRealtimeSubscriber(rdb *redis.Client, logger *slog.Logger) *realtime.Subscriber {
	return realtime.NewSubscriber(rdb, logger)
}

func NewSessionStore(store *cachestore.Store, cfg config.Config, clk clock.Clock, logger *slog.Logger) *session.Store {
	return session.NewStore(store, cfg.Session.Secret, cfg.Session.TTL, clk, logger)
}

func NewPassSender(cfg config.Config, client *transport.Client, logger *slog.Logger) *email.PassSender {
	return email.NewPassSender(cfg.SMTP, client, logger)
}
