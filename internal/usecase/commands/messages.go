package commands

import (
	"context"
	"time"

	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/engine"
	"venue-booking/internal/notify"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/pkg/ptr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type SendMessageInput struct {
	Name           string `json:"name"`
	Email          string `json:"email" validate:"required,email"`
	Subject        string `json:"subject"`
	Content        string `json:"content" validate:"required"`
	Attachment     string `json:"attachment"`
	AttachmentName string `json:"attachmentName"`
	// RecipientUserID routes the "new message" notification when an admin
	// replies to a client.
	RecipientUserID string `json:"recipientUserId"`
}

type MessageCommands interface {
	Send(ctx context.Context, in SendMessageInput) (message.Message, error)
	Edit(ctx context.Context, id, content string) error
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) error
	React(ctx context.Context, id, emoji string) error
	MarkRead(ctx context.Context, email string) error
}

type messageCommandsImpl struct {
	writer   MessageWriter
	engine   *engine.Engine
	notifier *notify.Factory
	clock    clock.Clock
	validate *validator.Validate
}

func NewMessageCommands(
	writer MessageWriter,
	eng *engine.Engine,
	notifier *notify.Factory,
	clk clock.Clock,
) MessageCommands {
	return &messageCommandsImpl{
		writer:   writer,
		engine:   eng,
		notifier: notifier,
		clock:    clk,
		validate: newValidator(),
	}
}

func (c *messageCommandsImpl) Send(ctx context.Context, in SendMessageInput) (message.Message, error) {
	if err := checkInput(c.validate, in); err != nil {
		return message.Message{}, err
	}

	m := message.Message{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		Subject:        in.Subject,
		Content:        in.Content,
		Date:           c.clock.Now().UTC().Format(time.RFC3339),
		Attachment:     in.Attachment,
		AttachmentName: in.AttachmentName,
	}
	act := c.engine.Actor()
	if act != nil {
		m.SenderRole = act.Role
	}

	created, err := c.writer.CreateMessage(ctx, m)
	if err != nil {
		return message.Message{}, errs.Wrap(err, "send message")
	}
	c.engine.UpsertMessage(created)

	if act.IsAdmin() && in.RecipientUserID != "" {
		c.notifier.Push(ctx, in.RecipientUserID, "Nouveau Message",
			"Vous avez reçu un nouveau message.",
			notification.KindInfo, "/messages")
	}

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return created, nil
}

func (c *messageCommandsImpl) Edit(ctx context.Context, id, content string) error {
	if content == "" {
		return errs.NewValidation("content")
	}
	if _, ok := c.engine.FindMessage(id); !ok {
		return errs.NewNotFound("message " + id)
	}
	if err := c.patch(ctx, id, message.Patch{
		Content:  ptr.To(content),
		EditedAt: ptr.To(c.clock.Now().UTC().Format(time.RFC3339)),
	}); err != nil {
		return err
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// SoftDelete blanks the content behind a placeholder but keeps the record,
// so ids and conversation ordering survive for reply references.
func (c *messageCommandsImpl) SoftDelete(ctx context.Context, id string) error {
	if _, ok := c.engine.FindMessage(id); !ok {
		return errs.NewNotFound("message " + id)
	}
	if err := c.patch(ctx, id, message.Patch{
		Content:        ptr.To(message.DeletedPlaceholder),
		IsDeleted:      ptr.To(true),
		Attachment:     ptr.To(""),
		AttachmentName: ptr.To(""),
	}); err != nil {
		return err
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

func (c *messageCommandsImpl) HardDelete(ctx context.Context, id string) error {
	if _, ok := c.engine.FindMessage(id); !ok {
		return errs.NewNotFound("message " + id)
	}
	if err := c.writer.DeleteMessage(ctx, id); err != nil {
		return errs.Wrap(err, "delete message")
	}
	c.engine.RemoveMessage(id)
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

func (c *messageCommandsImpl) TogglePin(ctx context.Context, id string) error {
	m, ok := c.engine.FindMessage(id)
	if !ok {
		return errs.NewNotFound("message " + id)
	}
	if err := c.patch(ctx, id, message.Patch{Pinned: ptr.To(!m.Pinned)}); err != nil {
		return err
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// React sets, replaces or clears the current actor's emoji on the message.
func (c *messageCommandsImpl) React(ctx context.Context, id, emoji string) error {
	m, ok := c.engine.FindMessage(id)
	if !ok {
		return errs.NewNotFound("message " + id)
	}
	act := c.engine.Actor()
	if act == nil {
		return errs.NewValidation("actor")
	}
	reactions := m.ToggleReaction(act.ID, emoji)
	if err := c.patch(ctx, id, message.Patch{Reactions: &reactions}); err != nil {
		return err
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// MarkRead stamps every unread message in the conversation identified by
// the participant email.
func (c *messageCommandsImpl) MarkRead(ctx context.Context, email string) error {
	if email == "" {
		return errs.NewValidation("email")
	}
	readAt := c.clock.Now().UTC().Format(time.RFC3339)
	for _, m := range c.engine.Messages() {
		if m.Email != email || m.Read {
			continue
		}
		if err := c.patch(ctx, m.ID, message.Patch{
			Read:   ptr.To(true),
			ReadAt: ptr.To(readAt),
		}); err != nil {
			return err
		}
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// patch applies one partial update and mirrors the result locally. Callers
// own the trailing refresh so batch operations refresh once.
func (c *messageCommandsImpl) patch(ctx context.Context, id string, p message.Patch) error {
	updated, err := c.writer.PatchMessage(ctx, id, p)
	if err != nil {
		return errs.Wrap(err, "patch message")
	}
	c.engine.UpsertMessage(updated)
	return nil
}
