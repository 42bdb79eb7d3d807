// Package notify builds and dispatches user notifications. Commands decide
// when to notify; this package only assembles the record, persists it and
// mirrors it into the local collections.
package notify

import (
	"context"
	"log/slog"
	"time"

	"venue-booking/internal/domain/notification"
	"venue-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Writer interface {
	CreateNotification(ctx context.Context, n notification.Notification) error
}

// Recorder mirrors the confirmed record into the in-memory collections so
// the inbox updates ahead of the next refresh.
type Recorder interface {
	UpsertNotification(n notification.Notification)
}

type Factory struct {
	writer   Writer
	recorder Recorder
	clock    clock.Clock
	logger   *slog.Logger
}

func NewFactory(writer Writer, recorder Recorder, clk clock.Clock, logger *slog.Logger) *Factory {
	return &Factory{writer: writer, recorder: recorder, clock: clk, logger: logger}
}

// Push persists a notification for userID. Notifications are best-effort
// side effects: a persistence failure is logged and never fails the
// triggering command.
func (f *Factory) Push(ctx context.Context, userID, title, body string, kind notification.Kind, link string) {
	n := notification.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Message: body,
		Date:    f.clock.Now().UTC().Format(time.RFC3339),
		Type:    kind,
		Link:    link,
	}
	if err := f.writer.CreateNotification(ctx, n); err != nil {
		f.logger.Warn("notification dropped", "title", title, "user_id", userID, "error", err)
		return
	}
	f.recorder.UpsertNotification(n)
}
