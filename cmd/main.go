package main

import (
	"context"
	"log/slog"
	"os"

	"venue-booking/cmd/bootstrap"
	"venue-booking/internal/engine"
	"venue-booking/internal/infra/realtime"
	"venue-booking/internal/infra/session"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/reconcile"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// startEngine wires the sync lifecycle: restore the persisted session,
// hydrate from cache for instant display, start draining the realtime
// feed, then kick a silent background refresh. The inbox collections are
// skipped on the cold refresh; the first authenticated interaction pulls
// them.
func startEngine(
	lc fx.Lifecycle,
	eng *engine.Engine,
	subscriber *realtime.Subscriber,
	sessions *session.Store,
	job *reconcile.Job,
	cfg config.Config,
	logger *slog.Logger,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if act := sessions.Load(ctx); act != nil {
				eng.SetActor(act)
				logger.Info("session restored", "actor_id", act.ID, "role", act.Role)
			}
			eng.Hydrate(ctx)

			feed := subscriber.Feed(runCtx)
			go eng.Run(runCtx, feed)
			go eng.Refresh(runCtx, engine.RefreshOptions{Silent: true, SkipInbox: true})

			if cfg.Reconcile.Enabled {
				if err := job.Start(runCtx); err != nil {
					return err
				}
			}
			logger.Info("engine started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			if err := job.Stop(); err != nil {
				logger.Warn("reconcile shutdown failed", "error", err)
			}
			logger.Info("engine stopped")
			return nil
		},
	})
}

func main() {
	// Local development reads .env; a missing file is fine in production.
	_ = godotenv.Load()

	app := fx.New(
		bootstrap.Module,
		fx.Invoke(
			startEngine,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("application start failed", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("application stop failed", "error", err)
	}

	slog.Info("application stopped")
}
