package components

import (
	"log/slog"

	"venue-booking/internal/engine"
	"venue-booking/internal/infra/cachestore"
	"venue-booking/internal/infra/transport"
	"venue-booking/internal/notify"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/reconcile"

	"go.uber.org/fx"
)

var EngineModule = fx.Module("engine",
	fx.Provide(
		NewEngine,
		NewNotifyFactory,
		NewReconcileJob,
	),
)

func NewEngine(client *transport.Client, store *cachestore.Store, clk clock.Clock, logger *slog.Logger, cfg config.Config) *engine.Engine {
	return engine.New(client, store, clk, logger, cfg.Sync.FreshWindow)
}

func NewNotifyFactory(client *transport.Client, eng *engine.Engine, clk clock.Clock, logger *slog.Logger) *notify.Factory {
	return notify.NewFactory(client, eng, clk, logger)
}

func NewReconcileJob(client *transport.Client, eng *engine.Engine, clk clock.Clock, logger *slog.Logger, cfg config.Config) *reconcile.Job {
	return reconcile.NewJob(client, eng, clk, logger, cfg.Reconcile.Interval)
}
