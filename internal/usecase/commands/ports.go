package commands

import (
	"context"
	"reflect"
	"strings"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/space"
	"venue-booking/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// Write-side transport ports, declared here where they are consumed. All
// calls are idempotent at the identity level: re-issuing a create with the
// same explicit id must not duplicate.

type ReservationWriter interface {
	CreateReservation(ctx context.Context, r booking.Reservation) (booking.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status booking.Status) error
	UpdateDate(ctx context.Context, id, date, endDate string) error
	CheckIn(ctx context.Context, id, checkedInAt string) error
	DeleteReservation(ctx context.Context, id string) error
}

type EventWriter interface {
	CreateEvent(ctx context.Context, ev event.Event) (event.Event, error)
	UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type SpaceWriter interface {
	UpdateSpace(ctx context.Context, sp space.Space) (space.Space, error)
}

type MessageWriter interface {
	CreateMessage(ctx context.Context, m message.Message) (message.Message, error)
	PatchMessage(ctx context.Context, id string, p message.Patch) (message.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

type NotificationWriter interface {
	PatchNotificationRead(ctx context.Context, id string, read bool) error
	DeleteNotification(ctx context.Context, id string) error
}

// Mailer dispatches the entry pass after validation. Fire-and-forget:
// implementations send asynchronously and only log failures.
type Mailer interface {
	SendPass(r booking.Reservation, sp space.Space)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkInput maps validator failures to the field-naming validation error
// callers surface verbatim.
func checkInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return errs.NewValidation(verrs[0].Field())
	}
	return errs.Wrap(err, "input validation")
}
