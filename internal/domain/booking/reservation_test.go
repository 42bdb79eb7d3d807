//go:build unit

package booking_test

import (
	"testing"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to booking.Status
		allowed  bool
	}{
		{booking.StatusPending, booking.StatusConfirmed, true},
		{booking.StatusPending, booking.StatusCancelled, true},
		{booking.StatusConfirmed, booking.StatusCancelled, true},
		{booking.StatusConfirmed, booking.StatusPending, false},
		{booking.StatusCancelled, booking.StatusConfirmed, false},
		{booking.StatusCancelled, booking.StatusPending, false},
		{booking.StatusDone, booking.StatusCancelled, false},
		{booking.StatusPending, booking.StatusDone, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestValidateRange(t *testing.T) {
	t.Run("accepts open end", func(t *testing.T) {
		require.NoError(t, booking.ValidateRange("2024-05-01", ""))
	})
	t.Run("accepts ordered range", func(t *testing.T) {
		require.NoError(t, booking.ValidateRange("2024-05-01", "2024-05-03"))
		require.NoError(t, booking.ValidateRange("2024-05-01", "2024-05-01"))
	})
	t.Run("rejects inverted range", func(t *testing.T) {
		err := booking.ValidateRange("2024-05-03", "2024-05-01")
		require.ErrorIs(t, err, booking.ErrEndBeforeStart)
	})
	t.Run("rejects missing or malformed date", func(t *testing.T) {
		require.True(t, errs.IsValidation(booking.ValidateRange("", "")))
		require.True(t, errs.IsValidation(booking.ValidateRange("01/05/2024", "")))
		require.True(t, errs.IsValidation(booking.ValidateRange("2024-05-01", "next week")))
	})
}

func TestDisplayStatus(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	past := booking.Reservation{Date: "2024-05-01", EndDate: "2024-05-03", Status: booking.StatusConfirmed}
	assert.Equal(t, booking.StatusDone, past.DisplayStatus(now))

	ongoing := booking.Reservation{Date: "2024-05-09", EndDate: "2024-05-12", Status: booking.StatusConfirmed}
	assert.Equal(t, booking.StatusConfirmed, ongoing.DisplayStatus(now))

	// Only CONFIRMED reservations age into DONE.
	pastPending := booking.Reservation{Date: "2024-05-01", Status: booking.StatusPending}
	assert.Equal(t, booking.StatusPending, pastPending.DisplayStatus(now))

	cancelled := booking.Reservation{Date: "2024-05-01", Status: booking.StatusCancelled}
	assert.Equal(t, booking.StatusCancelled, cancelled.DisplayStatus(now))
}

func TestClosureIDs(t *testing.T) {
	id := booking.ClosureID("evt9", "k1")
	assert.Equal(t, "r_evt_evt9_k1", id)

	r := booking.Reservation{ID: id}
	assert.True(t, r.IsClosure())
	assert.True(t, r.BelongsToEvent("evt9"))
	assert.False(t, r.BelongsToEvent("evt"))

	plain := booking.Reservation{ID: "r-17000001"}
	assert.False(t, plain.IsClosure())
}
