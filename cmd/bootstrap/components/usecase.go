package components

import (
	"log/slog"

	"venue-booking/internal/engine"
	"venue-booking/internal/infra/email"
	"venue-booking/internal/infra/transport"
	"venue-booking/internal/notify"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		NewReservationCommands,
		NewEventCommands,
		NewSpaceCommands,
		NewMessageCommands,
		NewNotificationCommands,
	),
)

func NewReservationCommands(
	client *transport.Client,
	eng *engine.Engine,
	notifier *notify.Factory,
	mailer *email.PassSender,
	clk clock.Clock,
	logger *slog.Logger,
) commands.ReservationCommands {
	return commands.NewReservationCommands(client, eng, notifier, mailer, clk, logger)
}

func NewEventCommands(
	client *transport.Client,
	eng *engine.Engine,
	clk clock.Clock,
	logger *slog.Logger,
) commands.EventCommands {
	return commands.NewEventCommands(client, client, eng, clk, logger)
}

func NewSpaceCommands(client *transport.Client, eng *engine.Engine) commands.SpaceCommands {
	return commands.NewSpaceCommands(client, eng)
}

func NewMessageCommands(
	client *transport.Client,
	eng *engine.Engine,
	notifier *notify.Factory,
	clk clock.Clock,
) commands.MessageCommands {
	return commands.NewMessageCommands(client, eng, notifier, clk)
}

func NewNotificationCommands(client *transport.Client, eng *engine.Engine) commands.NotificationCommands {
	return commands.NewNotificationCommands(client, eng)
}
