//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/domain/space"
	"venue-booking/internal/engine"
	"venue-booking/internal/notify"
	"venue-booking/internal/pkg/clock"
)

// stubReader serves empty collections; commands under test seed the engine
// directly and the trailing silent refreshes are gated off by a fresh
// timestamp in stubCache.
type stubReader struct{ calls int }

func (r *stubReader) FetchSpaces(context.Context) ([]space.Space, error) {
	r.calls++
	return nil, nil
}

func (r *stubReader) FetchEvents(context.Context) ([]event.Event, error) {
	r.calls++
	return nil, nil
}

func (r *stubReader) FetchReservations(context.Context, bool) ([]booking.Reservation, error) {
	r.calls++
	return nil, nil
}

func (r *stubReader) FetchMessages(context.Context) ([]message.Message, error) {
	r.calls++
	return nil, nil
}

func (r *stubReader) FetchNotifications(context.Context) ([]notification.Notification, error) {
	r.calls++
	return nil, nil
}

// stubCache always reports a just-now refresh so the trailing silent
// refreshes inside commands stay gated regardless of clock movement.
type stubCache struct{ clk *clock.MockClock }

func (c *stubCache) Save(context.Context, string, any) error          { return nil }
func (c *stubCache) Load(context.Context, string, any) (bool, error)  { return false, nil }
func (c *stubCache) SaveRefreshedAt(context.Context, time.Time) error { return nil }
func (c *stubCache) LoadRefreshedAt(context.Context) (time.Time, bool, error) {
	return c.clk.Now(), true, nil
}

type fakeReservationWriter struct {
	created       []booking.Reservation
	statusUpdates map[string]booking.Status
	dateUpdates   map[string][2]string
	checkIns      map[string]string
	deleted       []string
	err           error
}

func newFakeReservationWriter() *fakeReservationWriter {
	return &fakeReservationWriter{
		statusUpdates: map[string]booking.Status{},
		dateUpdates:   map[string][2]string{},
		checkIns:      map[string]string{},
	}
}

func (w *fakeReservationWriter) CreateReservation(_ context.Context, r booking.Reservation) (booking.Reservation, error) {
	if w.err != nil {
		return booking.Reservation{}, w.err
	}
	w.created = append(w.created, r)
	return r, nil
}

func (w *fakeReservationWriter) UpdateStatus(_ context.Context, id string, status booking.Status) error {
	if w.err != nil {
		return w.err
	}
	w.statusUpdates[id] = status
	return nil
}

func (w *fakeReservationWriter) UpdateDate(_ context.Context, id, date, endDate string) error {
	if w.err != nil {
		return w.err
	}
	w.dateUpdates[id] = [2]string{date, endDate}
	return nil
}

func (w *fakeReservationWriter) CheckIn(_ context.Context, id, checkedInAt string) error {
	if w.err != nil {
		return w.err
	}
	w.checkIns[id] = checkedInAt
	return nil
}

func (w *fakeReservationWriter) DeleteReservation(_ context.Context, id string) error {
	if w.err != nil {
		return w.err
	}
	w.deleted = append(w.deleted, id)
	return nil
}

type fakeEventWriter struct {
	events  []event.Event
	deleted []string
}

func (w *fakeEventWriter) CreateEvent(_ context.Context, ev event.Event) (event.Event, error) {
	w.events = append(w.events, ev)
	return ev, nil
}

func (w *fakeEventWriter) UpdateEvent(_ context.Context, ev event.Event) (event.Event, error) {
	w.events = append(w.events, ev)
	return ev, nil
}

func (w *fakeEventWriter) DeleteEvent(_ context.Context, id string) error {
	w.deleted = append(w.deleted, id)
	return nil
}

type fakeMessageWriter struct {
	created []message.Message
	patches map[string][]message.Patch
	deleted []string
	store   map[string]message.Message
}

func newFakeMessageWriter() *fakeMessageWriter {
	return &fakeMessageWriter{patches: map[string][]message.Patch{}, store: map[string]message.Message{}}
}

func (w *fakeMessageWriter) CreateMessage(_ context.Context, m message.Message) (message.Message, error) {
	w.created = append(w.created, m)
	w.store[m.ID] = m
	return m, nil
}

// PatchMessage overlays non-nil fields the way the backing store does.
func (w *fakeMessageWriter) PatchMessage(_ context.Context, id string, p message.Patch) (message.Message, error) {
	w.patches[id] = append(w.patches[id], p)
	m := w.store[id]
	b, _ := json.Marshal(p)
	_ = json.Unmarshal(b, &m)
	m.ID = id
	w.store[id] = m
	return m, nil
}

func (w *fakeMessageWriter) DeleteMessage(_ context.Context, id string) error {
	w.deleted = append(w.deleted, id)
	delete(w.store, id)
	return nil
}

type fakeNotificationWriter struct {
	created []notification.Notification
	read    []string
	deleted []string
}

func (w *fakeNotificationWriter) CreateNotification(_ context.Context, n notification.Notification) error {
	w.created = append(w.created, n)
	return nil
}

func (w *fakeNotificationWriter) PatchNotificationRead(_ context.Context, id string, _ bool) error {
	w.read = append(w.read, id)
	return nil
}

func (w *fakeNotificationWriter) DeleteNotification(_ context.Context, id string) error {
	w.deleted = append(w.deleted, id)
	return nil
}

type fakeMailer struct {
	sent []booking.Reservation
}

func (m *fakeMailer) SendPass(r booking.Reservation, _ space.Space) {
	m.sent = append(m.sent, r)
}

type harness struct {
	engine        *engine.Engine
	clock         *clock.MockClock
	reader        *stubReader
	reservations  *fakeReservationWriter
	events        *fakeEventWriter
	messages      *fakeMessageWriter
	notifications *fakeNotificationWriter
	mailer        *fakeMailer
	notifier      *notify.Factory
}

func newHarness() *harness {
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	reader := &stubReader{}
	logger := slog.New(slog.NewTextHandler(nullWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
	eng := engine.New(reader, &stubCache{clk: clk}, clk, logger, engine.DefaultFreshWindow)

	h := &harness{
		engine:        eng,
		clock:         clk,
		reader:        reader,
		reservations:  newFakeReservationWriter(),
		events:        &fakeEventWriter{},
		messages:      newFakeMessageWriter(),
		notifications: &fakeNotificationWriter{},
		mailer:        &fakeMailer{},
	}
	h.notifier = notify.NewFactory(h.notifications, eng, clk, logger)
	return h
}

func (h *harness) notificationTitles() []string {
	var titles []string
	for _, n := range h.notifications.created {
		titles = append(titles, n.Title)
	}
	return titles
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }
