// Package booking holds the reservation record, its status machine and the
// closure id scheme shared by the availability engine and the commands.
package booking

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"venue-booking/internal/pkg/errs"
)

var ErrEndBeforeStart = errors.New("end date precedes start date")

// DateLayout is the date-only wire format for reservation and event ranges.
const DateLayout = "2006-01-02"

// closurePrefix starts every reservation generated from an event. The id
// doubles as the join key used to find and delete closures when the event
// changes.
const closurePrefix = "r_evt_"

type Reservation struct {
	ID              string `json:"id"`
	SpaceID         string `json:"spaceId"`
	UserID          string `json:"userId,omitempty"` // empty for system-generated closures
	Date            string `json:"date"`
	EndDate         string `json:"endDate,omitempty"`
	Slot            Slot   `json:"slot,omitempty"`
	CustomTimeLabel string `json:"customTimeLabel,omitempty"`
	Status          Status `json:"status"`
	CreatedAt       string `json:"createdAt"`
	CheckedInAt     string `json:"checkedInAt,omitempty"`

	// Present when the reservation is a closure generated from an event.
	EventName        string `json:"eventName,omitempty"`
	EventDescription string `json:"eventDescription,omitempty"`
	EventImage       string `json:"eventImage,omitempty"`

	IsGlobalClosure bool `json:"isGlobalClosure,omitempty"`
	IsQuoteRequest  bool `json:"isQuoteRequest,omitempty"`
}

// NewID mints a client-generated reservation id in the `r-<millis><suffix>`
// shape the backing store expects. Creates are idempotent at the id level,
// so the id is fixed before the write.
func NewID(now time.Time) string {
	return fmt.Sprintf("r-%d%03d", now.UnixMilli(), rand.Intn(1000))
}

// ClosureID derives the one reservation id a (event, space) pair may own.
func ClosureID(eventID, spaceID string) string {
	return closurePrefix + eventID + "_" + spaceID
}

// ClosureIDPrefix matches every closure belonging to eventID.
func ClosureIDPrefix(eventID string) string {
	return closurePrefix + eventID + "_"
}

func (r Reservation) IsClosure() bool {
	return strings.HasPrefix(r.ID, closurePrefix)
}

func (r Reservation) BelongsToEvent(eventID string) bool {
	return strings.HasPrefix(r.ID, ClosureIDPrefix(eventID))
}

// EffectiveEndDate is EndDate, defaulting to the start for single-day
// reservations.
func (r Reservation) EffectiveEndDate() string {
	if r.EndDate != "" {
		return r.EndDate
	}
	return r.Date
}

// IsActive reports whether the reservation still blocks its space.
func (r Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// DisplayStatus presents a past CONFIRMED reservation as DONE without
// rewriting the stored status.
func (r Reservation) DisplayStatus(now time.Time) Status {
	if r.Status != StatusConfirmed {
		return r.Status
	}
	end, err := time.Parse(DateLayout, r.EffectiveEndDate())
	if err != nil {
		return r.Status
	}
	if end.Before(now.Truncate(24 * time.Hour)) {
		return StatusDone
	}
	return r.Status
}

// ValidateRange enforces the construction invariant endDate >= date.
func ValidateRange(date, endDate string) error {
	if date == "" {
		return errs.NewValidation("date")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return errs.NewValidation("date")
	}
	if endDate == "" {
		return nil
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return errs.NewValidation("endDate")
	}
	start, _ := time.Parse(DateLayout, date)
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}
