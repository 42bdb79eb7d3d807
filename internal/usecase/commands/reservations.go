package commands

import (
	"context"
	"log/slog"
	"time"

	"venue-booking/internal/availability"
	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/engine"
	"venue-booking/internal/notify"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

type CreateReservationInput struct {
	SpaceID         string `json:"spaceId" validate:"required"`
	UserID          string `json:"userId" validate:"required"`
	Date            string `json:"date" validate:"required"`
	EndDate         string `json:"endDate"`
	Slot            string `json:"slot"`
	CustomTimeLabel string `json:"customTimeLabel"`
	IsQuoteRequest  bool   `json:"isQuoteRequest"`
}

type ReservationCommands interface {
	Create(ctx context.Context, in CreateReservationInput) (booking.Reservation, error)
	Validate(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Move(ctx context.Context, id, date, endDate string) error
	CheckIn(ctx context.Context, id string) (booking.Reservation, error)
}

type reservationCommandsImpl struct {
	writer   ReservationWriter
	engine   *engine.Engine
	notifier *notify.Factory
	mailer   Mailer
	clock    clock.Clock
	logger   *slog.Logger
	validate *validator.Validate
}

func NewReservationCommands(
	writer ReservationWriter,
	eng *engine.Engine,
	notifier *notify.Factory,
	mailer Mailer,
	clk clock.Clock,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		writer:   writer,
		engine:   eng,
		notifier: notifier,
		mailer:   mailer,
		clock:    clk,
		logger:   logger,
		validate: newValidator(),
	}
}

// Create books a slot. The initial status comes from the space's approval
// rule; the confirmed record is applied locally ahead of the trailing
// refresh so the calendar updates immediately.
func (c *reservationCommandsImpl) Create(ctx context.Context, in CreateReservationInput) (booking.Reservation, error) {
	if err := checkInput(c.validate, in); err != nil {
		return booking.Reservation{}, err
	}
	if err := booking.ValidateRange(in.Date, in.EndDate); err != nil {
		return booking.Reservation{}, err
	}
	sp, ok := c.engine.FindSpace(in.SpaceID)
	if !ok {
		return booking.Reservation{}, errs.NewNotFound("space " + in.SpaceID)
	}

	now := c.clock.Now()
	r := booking.Reservation{
		ID:              booking.NewID(now),
		SpaceID:         in.SpaceID,
		UserID:          in.UserID,
		Date:            in.Date,
		EndDate:         in.EndDate,
		Slot:            booking.Slot(in.Slot),
		CustomTimeLabel: in.CustomTimeLabel,
		Status:          availability.DecideInitialStatus(sp, in.IsQuoteRequest),
		CreatedAt:       now.UTC().Format(time.RFC3339),
		IsQuoteRequest:  in.IsQuoteRequest,
	}

	created, err := c.writer.CreateReservation(ctx, r)
	if err != nil {
		return booking.Reservation{}, errs.Wrap(err, "create reservation")
	}
	c.engine.UpsertReservation(created)

	if created.Status == booking.StatusConfirmed {
		c.notifier.Push(ctx, created.UserID, "Réservation Confirmée",
			"Votre réservation pour "+sp.Name+" le "+created.Date+" est confirmée.",
			notification.KindSuccess, "/reservations")
	} else {
		c.notifier.Push(ctx, created.UserID, "Demande reçue",
			"Votre demande pour "+sp.Name+" le "+created.Date+" est en attente de validation.",
			notification.KindInfo, "/reservations")
	}

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return created, nil
}

// Validate approves a pending reservation and dispatches the entry pass.
// The email is a side effect: its failure is logged by the mailer and never
// rolls back the status change.
func (c *reservationCommandsImpl) Validate(ctx context.Context, id string) error {
	r, ok := c.engine.FindReservation(id)
	if !ok {
		return errs.NewNotFound("reservation " + id)
	}
	if !r.Status.CanTransitionTo(booking.StatusConfirmed) {
		return errs.NewInvalidState(r.Status.String())
	}
	if err := c.writer.UpdateStatus(ctx, id, booking.StatusConfirmed); err != nil {
		return errs.Wrap(err, "validate reservation")
	}
	r.Status = booking.StatusConfirmed
	c.engine.UpsertReservation(r)

	c.notifier.Push(ctx, r.UserID, "Réservation Validée",
		"Votre réservation du "+r.Date+" a été validée.",
		notification.KindSuccess, "/reservations")

	if sp, ok := c.engine.FindSpace(r.SpaceID); ok {
		c.mailer.SendPass(r, sp)
	} else {
		c.logger.Warn("pass email skipped, space unknown", "reservation_id", id, "space_id", r.SpaceID)
	}

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// Cancel is idempotent: cancelling an already-cancelled reservation is a
// no-op success and emits no second notification.
func (c *reservationCommandsImpl) Cancel(ctx context.Context, id string) error {
	r, ok := c.engine.FindReservation(id)
	if !ok {
		return errs.NewNotFound("reservation " + id)
	}
	if r.Status == booking.StatusCancelled {
		return nil
	}
	if err := c.writer.UpdateStatus(ctx, id, booking.StatusCancelled); err != nil {
		return errs.Wrap(err, "cancel reservation")
	}
	r.Status = booking.StatusCancelled
	c.engine.UpsertReservation(r)

	c.notifier.Push(ctx, r.UserID, "Réservation Annulée/Refusée",
		"Votre réservation du "+r.Date+" a été annulée.",
		notification.KindWarning, "/reservations")

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// Move reschedules in place. An administrative scheduling action, not a
// lifecycle event: status is untouched and no notification goes out.
func (c *reservationCommandsImpl) Move(ctx context.Context, id, date, endDate string) error {
	r, ok := c.engine.FindReservation(id)
	if !ok {
		return errs.NewNotFound("reservation " + id)
	}
	if r.Status.IsTerminal() {
		return errs.NewInvalidState(r.Status.String())
	}
	if err := booking.ValidateRange(date, endDate); err != nil {
		return err
	}
	if err := c.writer.UpdateDate(ctx, id, date, endDate); err != nil {
		return errs.Wrap(err, "move reservation")
	}
	r.Date = date
	r.EndDate = endDate
	c.engine.UpsertReservation(r)

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// CheckIn stamps the arrival exactly once. A re-scan of an already
// checked-in reservation succeeds without a second stamp or notification,
// so the scanning flow tolerates duplicate reads.
func (c *reservationCommandsImpl) CheckIn(ctx context.Context, id string) (booking.Reservation, error) {
	r, ok := c.engine.FindReservation(id)
	if !ok {
		return booking.Reservation{}, errs.NewNotFound("reservation " + id)
	}
	if r.Status != booking.StatusConfirmed {
		return booking.Reservation{}, errs.NewInvalidState(r.Status.String())
	}
	if r.CheckedInAt != "" {
		return r, nil
	}

	at := c.clock.Now().UTC().Format(time.RFC3339)
	if err := c.writer.CheckIn(ctx, id, at); err != nil {
		return booking.Reservation{}, errs.Wrap(err, "check in reservation")
	}
	r.CheckedInAt = at
	c.engine.UpsertReservation(r)

	c.notifier.Push(ctx, r.UserID, "Bienvenue !",
		"Bon séjour parmi nous.",
		notification.KindSuccess, "")

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return r, nil
}
