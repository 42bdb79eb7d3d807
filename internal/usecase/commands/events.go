package commands

import (
	"context"
	"fmt"
	"log/slog"

	"venue-booking/internal/availability"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/engine"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

type EventInput struct {
	ID               string   `json:"id"`
	EventName        string   `json:"eventName" validate:"required"`
	Date             string   `json:"date" validate:"required"`
	EndDate          string   `json:"endDate"`
	CustomTimeLabel  string   `json:"customTimeLabel"`
	EventImage       string   `json:"eventImage"`
	EventDescription string   `json:"eventDescription"`
	Location         string   `json:"location"`
	SpaceIDs         []string `json:"spaceIds"`
}

type EventCommands interface {
	Create(ctx context.Context, in EventInput) (event.Event, error)
	Update(ctx context.Context, in EventInput) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventCommandsImpl struct {
	events       EventWriter
	reservations ReservationWriter
	engine       *engine.Engine
	clock        clock.Clock
	logger       *slog.Logger
	validate     *validator.Validate
}

func NewEventCommands(
	events EventWriter,
	reservations ReservationWriter,
	eng *engine.Engine,
	clk clock.Clock,
	logger *slog.Logger,
) EventCommands {
	return &eventCommandsImpl{
		events:       events,
		reservations: reservations,
		engine:       eng,
		clock:        clk,
		logger:       logger,
		validate:     newValidator(),
	}
}

func (c *eventCommandsImpl) Create(ctx context.Context, in EventInput) (event.Event, error) {
	if err := checkInput(c.validate, in); err != nil {
		return event.Event{}, err
	}
	ev := c.toEvent(in)
	if ev.ID == "" {
		ev.ID = fmt.Sprintf("evt-%d", c.clock.Now().UnixMilli())
	}

	created, err := c.events.CreateEvent(ctx, ev)
	if err != nil {
		return event.Event{}, errs.Wrap(err, "create event")
	}
	c.engine.UpsertEvent(created)

	if err := c.syncClosures(ctx, created); err != nil {
		return event.Event{}, err
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return created, nil
}

func (c *eventCommandsImpl) Update(ctx context.Context, in EventInput) (event.Event, error) {
	if in.ID == "" {
		return event.Event{}, errs.NewValidation("id")
	}
	if err := checkInput(c.validate, in); err != nil {
		return event.Event{}, err
	}
	if _, ok := c.engine.FindEvent(in.ID); !ok {
		return event.Event{}, errs.NewNotFound("event " + in.ID)
	}

	updated, err := c.events.UpdateEvent(ctx, c.toEvent(in))
	if err != nil {
		return event.Event{}, errs.Wrap(err, "update event")
	}
	c.engine.UpsertEvent(updated)

	if err := c.syncClosures(ctx, updated); err != nil {
		return event.Event{}, err
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return updated, nil
}

func (c *eventCommandsImpl) Delete(ctx context.Context, id string) error {
	if _, ok := c.engine.FindEvent(id); !ok {
		return errs.NewNotFound("event " + id)
	}
	if err := c.events.DeleteEvent(ctx, id); err != nil {
		return errs.Wrap(err, "delete event")
	}
	c.engine.RemoveEvent(id)

	for _, cid := range c.closureIDs(id) {
		if err := c.reservations.DeleteReservation(ctx, cid); err != nil {
			return errs.Wrap(err, "delete event closure")
		}
		c.engine.RemoveReservation(cid)
	}
	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return nil
}

// syncClosures brings the event's blocking reservations in line with its
// current definition using the replace-all strategy: every existing closure
// goes, the full desired set comes back.
func (c *eventCommandsImpl) syncClosures(ctx context.Context, ev event.Event) error {
	desired, err := availability.ExpandEventToClosures(ev, c.clock.Now())
	if err != nil {
		return err
	}
	diff := availability.DiffClosures(c.closureIDs(ev.ID), desired)

	for _, cid := range diff.ToDelete {
		if err := c.reservations.DeleteReservation(ctx, cid); err != nil {
			return errs.Wrap(err, "delete event closure")
		}
		c.engine.RemoveReservation(cid)
	}
	for _, closure := range diff.ToCreate {
		created, err := c.reservations.CreateReservation(ctx, closure)
		if err != nil {
			return errs.Wrap(err, "create event closure")
		}
		c.engine.UpsertReservation(created)
	}
	return nil
}

func (c *eventCommandsImpl) closureIDs(eventID string) []string {
	var ids []string
	for _, r := range c.engine.Reservations() {
		if r.BelongsToEvent(eventID) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func (c *eventCommandsImpl) toEvent(in EventInput) event.Event {
	return event.Event{
		ID:               in.ID,
		EventName:        in.EventName,
		Date:             in.Date,
		EndDate:          in.EndDate,
		CustomTimeLabel:  in.CustomTimeLabel,
		EventImage:       in.EventImage,
		EventDescription: in.EventDescription,
		Location:         in.Location,
		SpaceIDs:         in.SpaceIDs,
	}
}
