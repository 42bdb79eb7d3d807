package commands

import (
	"context"

	"venue-booking/internal/domain/notification"
	"venue-booking/internal/engine"
	"venue-booking/internal/pkg/errs"
)

type NotificationCommands interface {
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

type notificationCommandsImpl struct {
	writer NotificationWriter
	engine *engine.Engine
}

func NewNotificationCommands(writer NotificationWriter, eng *engine.Engine) NotificationCommands {
	return &notificationCommandsImpl{writer: writer, engine: eng}
}

func (c *notificationCommandsImpl) MarkRead(ctx context.Context, id string) error {
	n, ok := c.find(id)
	if !ok {
		return errs.NewNotFound("notification " + id)
	}
	if n.Read {
		return nil
	}
	if err := c.writer.PatchNotificationRead(ctx, id, true); err != nil {
		return errs.Wrap(err, "mark notification read")
	}
	n.Read = true
	c.engine.UpsertNotification(n)
	return nil
}

func (c *notificationCommandsImpl) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range c.engine.Notifications() {
		if n.UserID != userID || n.Read {
			continue
		}
		if err := c.writer.PatchNotificationRead(ctx, n.ID, true); err != nil {
			return errs.Wrap(err, "mark notification read")
		}
		n.Read = true
		c.engine.UpsertNotification(n)
	}
	return nil
}

func (c *notificationCommandsImpl) Delete(ctx context.Context, id string) error {
	if _, ok := c.find(id); !ok {
		return errs.NewNotFound("notification " + id)
	}
	if err := c.writer.DeleteNotification(ctx, id); err != nil {
		return errs.Wrap(err, "delete notification")
	}
	c.engine.RemoveNotification(id)
	return nil
}

func (c *notificationCommandsImpl) find(id string) (notification.Notification, bool) {
	for _, n := range c.engine.Notifications() {
		if n.ID == id {
			return n, true
		}
	}
	return notification.Notification{}, false
}
