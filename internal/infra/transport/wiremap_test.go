//go:build unit

package transport

import (
	"encoding/json"
	"strings"
	"testing"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/domain/space"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Round-trips a fully populated record through the wire encoding for every
// entity. A field missing from its mapping table surfaces here as a value
// lost in translation.
func TestWireRoundTripEveryField(t *testing.T) {
	fullReservation := booking.Reservation{
		ID:               "r-1",
		SpaceID:          "k1",
		UserID:           "u1",
		Date:             "2024-05-01",
		EndDate:          "2024-05-02",
		Slot:             booking.SlotMorning,
		CustomTimeLabel:  "9h-11h",
		Status:           booking.StatusConfirmed,
		CreatedAt:        "2024-04-20T10:00:00Z",
		CheckedInAt:      "2024-05-01T08:05:00Z",
		EventName:        "Vernissage",
		EventDescription: "desc",
		EventImage:       "/img.png",
		IsGlobalClosure:  true,
		IsQuoteRequest:   true,
	}
	fullSpace := space.Space{
		ID:          "k1",
		Name:        "Atelier",
		Description: "desc",
		Category:    space.CategoryCreative,
		Capacity:    12,
		Image:       "/img.png",
		Pricing: space.Pricing{
			HalfDay: 40, Day: 70, Month: 900, Hour: 12, IsQuote: true, Currency: "EUR",
		},
		MinDuration:    1,
		MaxDuration:    30,
		Features:       []string{"wifi"},
		AvailableSlots: []booking.Slot{booking.SlotMorning, booking.SlotAfternoon},
		ShowInCalendar: true,
		AutoApprove:    true,
	}
	fullEvent := event.Event{
		ID:               "evt1",
		EventName:        "Vernissage",
		Date:             "2024-05-01",
		EndDate:          "2024-05-03",
		CustomTimeLabel:  "18h-22h",
		EventImage:       "/img.png",
		EventDescription: "desc",
		Location:         "Hall",
		SpaceID:          "k1",
		SpaceIDs:         []string{"k1", "k2"},
	}
	fullMessage := message.Message{
		ID:             "m-1",
		Name:           "Client",
		Email:          "client@example.com",
		Subject:        "Question",
		Content:        "Bonjour",
		Date:           "2024-05-01T10:00:00Z",
		Read:           true,
		ReadAt:         "2024-05-01T11:00:00Z",
		SenderRole:     "USER",
		Attachment:     "data:...",
		AttachmentName: "doc.pdf",
		Reactions:      map[string]string{"u1": "👍"},
		Pinned:         true,
		IsDeleted:      true,
		EditedAt:       "2024-05-01T12:00:00Z",
	}
	fullNotification := notification.Notification{
		ID:      "n-1",
		UserID:  "u1",
		Title:   "Réservation Confirmée",
		Message: "msg",
		Date:    "2024-05-01T10:00:00Z",
		Read:    true,
		Type:    notification.KindSuccess,
		Link:    "/reservations",
	}

	roundTrip(t, "reservation", fullReservation, reservationFields)
	roundTrip(t, "space", fullSpace, spaceFields)
	roundTrip(t, "event", fullEvent, eventFields)
	roundTrip(t, "message", fullMessage, messageFields)
	roundTrip(t, "notification", fullNotification, notificationFields)
}

func roundTrip[T any](t *testing.T, name string, in T, f FieldMap) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		wire, err := encodeWire(in, f)
		require.NoError(t, err)

		// Every key on the wire is all-lowercase.
		var obj map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(wire, &obj))
		for k := range obj {
			assert.Equal(t, strings.ToLower(k), k, "wire key %q not lowercase", k)
		}

		var out T
		require.NoError(t, decodeWire(wire, f, &out))
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("round trip mismatch (-in +out):\n%s", diff)
		}
	})
}

func TestDecodeWireListTranslatesKeys(t *testing.T) {
	payload := `[{"id":"r-1","spaceid":"k1","enddate":"2024-05-02","isglobalclosure":true,"status":"CONFIRMED","date":"2024-05-01"}]`
	items, err := decodeWireList[booking.Reservation]([]byte(payload), reservationFields)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "k1", items[0].SpaceID)
	assert.Equal(t, "2024-05-02", items[0].EndDate)
	assert.True(t, items[0].IsGlobalClosure)
}
