// Package availability holds the pure booking rules: date-range overlap,
// per-space busy checks, the auto-approve decision and the event→closure
// expansion. No I/O happens here; callers own fetching and persistence.
package availability

import (
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/space"
	"venue-booking/internal/pkg/errs"
)

// day truncates t to midnight. All range comparisons happen on whole days so
// time-of-day and timezone drift cannot produce off-by-one availability.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay reads a date-only wire value. RFC 3339 timestamps are accepted
// and truncated; legacy event rows store full timestamps.
func ParseDay(s string) (time.Time, bool) {
	if t, err := time.Parse(booking.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return day(t), true
	}
	return time.Time{}, false
}

// RangesOverlap is the inclusive-date overlap test: two ranges touch if
// neither ends before the other starts, after normalizing to midnight.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	as, ae := day(aStart), day(aEnd)
	bs, be := day(bStart), day(bEnd)
	return !as.After(be) && !bs.After(ae)
}

// IsSpaceBusyOn reports whether any active reservation for spaceID covers
// date. Every non-CANCELLED reservation blocks, PENDING included: the
// conservative rule, so a pending request is never double-booked away.
func IsSpaceBusyOn(reservations []booking.Reservation, spaceID string, date time.Time) bool {
	for _, r := range reservations {
		if r.SpaceID != spaceID || !r.IsActive() {
			continue
		}
		start, ok := ParseDay(r.Date)
		if !ok {
			continue
		}
		end, ok := ParseDay(r.EffectiveEndDate())
		if !ok {
			end = start
		}
		if RangesOverlap(start, end, date, date) {
			return true
		}
	}
	return false
}

// DecideInitialStatus applies the unconditional approval rule: CONFIRMED
// only when the space auto-approves AND the request is not a quote. Quote
// requests always go through manual validation.
func DecideInitialStatus(sp space.Space, isQuoteRequest bool) booking.Status {
	if sp.AutoApprove && !isQuoteRequest {
		return booking.StatusConfirmed
	}
	return booking.StatusPending
}

// ExpandEventToClosures derives the blocking reservation set for an event:
// one full-day CONFIRMED closure per blocked space, spanning the event's
// date range, carrying the event display fields.
func ExpandEventToClosures(ev event.Event, now time.Time) ([]booking.Reservation, error) {
	if ev.ID == "" {
		return nil, errs.NewValidation("id")
	}
	start, ok := ParseDay(ev.Date)
	if !ok {
		return nil, errs.NewValidation("date")
	}
	end, ok := ParseDay(ev.EffectiveEndDate())
	if !ok {
		end = start
	}

	spaceIDs := ev.BlockedSpaceIDs()
	closures := make([]booking.Reservation, 0, len(spaceIDs))
	for _, spaceID := range spaceIDs {
		closures = append(closures, booking.Reservation{
			ID:               booking.ClosureID(ev.ID, spaceID),
			SpaceID:          spaceID,
			Date:             start.Format(booking.DateLayout),
			EndDate:          end.Format(booking.DateLayout),
			Slot:             booking.SlotFullDay,
			Status:           booking.StatusConfirmed,
			CreatedAt:        now.UTC().Format(time.RFC3339),
			EventName:        ev.EventName,
			EventDescription: ev.EventDescription,
			EventImage:       ev.EventImage,
			IsGlobalClosure:  true,
		})
	}
	return closures, nil
}

// ClosureDiff is the change set produced when an event's closures are
// brought in line with its current definition.
type ClosureDiff struct {
	ToDelete []string
	ToCreate []booking.Reservation
}

// DiffClosures implements the replace-all strategy: every existing closure
// for the event is deleted and the full desired set recreated. Closures
// carry no independent state worth preserving, and a partial diff would
// leave stale blocking records behind on a date change.
func DiffClosures(existingIDs []string, desired []booking.Reservation) ClosureDiff {
	d := ClosureDiff{
		ToDelete: make([]string, len(existingIDs)),
		ToCreate: make([]booking.Reservation, len(desired)),
	}
	copy(d.ToDelete, existingIDs)
	copy(d.ToCreate, desired)
	return d
}
