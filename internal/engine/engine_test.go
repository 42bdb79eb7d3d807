//go:build unit

package engine_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"venue-booking/internal/domain/actor"
	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/space"
	"venue-booking/internal/engine"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/errs"

	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu    sync.Mutex
	calls int
	fail  bool

	spaces        []space.Space
	events        []event.Event
	reservations  []booking.Reservation
	messages      []message.Message
	notifications []notification.Notification
}

func (f *fakeReader) bump() error {
	f.mu.Lock()
	f.calls++
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errs.MarkTransport(errs.New("boom"))
	}
	return nil
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeReader) FetchSpaces(context.Context) ([]space.Space, error) {
	if err := f.bump(); err != nil {
		return nil, err
	}
	return f.spaces, nil
}

func (f *fakeReader) FetchEvents(context.Context) ([]event.Event, error) {
	if err := f.bump(); err != nil {
		return nil, err
	}
	return f.events, nil
}

func (f *fakeReader) FetchReservations(_ context.Context, _ bool) ([]booking.Reservation, error) {
	if err := f.bump(); err != nil {
		return nil, err
	}
	return f.reservations, nil
}

func (f *fakeReader) FetchMessages(context.Context) ([]message.Message, error) {
	if err := f.bump(); err != nil {
		return nil, err
	}
	return f.messages, nil
}

func (f *fakeReader) FetchNotifications(context.Context) ([]notification.Notification, error) {
	if err := f.bump(); err != nil {
		return nil, err
	}
	return f.notifications, nil
}

type fakeCache struct {
	mu          sync.Mutex
	snapshots   map[string][]byte
	refreshedAt time.Time
	hasStamp    bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{snapshots: map[string][]byte{}}
}

func (c *fakeCache) Save(_ context.Context, collection string, items any) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.snapshots[collection] = b
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Load(_ context.Context, collection string, items any) (bool, error) {
	c.mu.Lock()
	b, ok := c.snapshots[collection]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, items)
}

func (c *fakeCache) SaveRefreshedAt(_ context.Context, t time.Time) error {
	c.mu.Lock()
	c.refreshedAt = t
	c.hasStamp = true
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) LoadRefreshedAt(context.Context) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshedAt, c.hasStamp, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestEngine(reader *fakeReader, cache *fakeCache, clk *clock.MockClock) *engine.Engine {
	return engine.New(reader, cache, clk, testLogger(), engine.DefaultFreshWindow)
}

func TestRefreshHydrateCycle(t *testing.T) {
	reader := &fakeReader{
		spaces:       []space.Space{{ID: "k1", Name: "Atelier 1"}},
		reservations: []booking.Reservation{{ID: "r-1", SpaceID: "k1", Date: "2024-05-01", Status: booking.StatusConfirmed}},
	}
	cache := newFakeCache()
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	e := newTestEngine(reader, cache, clk)

	e.Refresh(context.Background(), engine.RefreshOptions{})
	require.Len(t, e.Spaces(), 1)
	require.Len(t, e.Reservations(), 1)

	// A second engine hydrates from the cache without any network call.
	before := reader.callCount()
	e2 := newTestEngine(reader, cache, clk)
	e2.Hydrate(context.Background())
	assert.Equal(t, before, reader.callCount())
	assert.Equal(t, e.Spaces(), e2.Spaces())
	assert.Equal(t, e.Reservations(), e2.Reservations())
}

func TestSilentRefreshRespectsFreshnessWindow(t *testing.T) {
	reader := &fakeReader{spaces: []space.Space{{ID: "k1"}}}
	cache := newFakeCache()
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	e := newTestEngine(reader, cache, clk)

	e.Refresh(context.Background(), engine.RefreshOptions{})
	calls := reader.callCount()
	stateBefore := e.Snapshot()

	// Two seconds later a silent refresh is inside the window: no network,
	// no state change.
	clk.Advance(2 * time.Second)
	e.Refresh(context.Background(), engine.RefreshOptions{Silent: true})
	assert.Equal(t, calls, reader.callCount())
	assert.Equal(t, stateBefore, e.Snapshot())

	// Past the window the silent refresh goes through.
	clk.Advance(7 * time.Second)
	e.Refresh(context.Background(), engine.RefreshOptions{Silent: true})
	assert.Greater(t, reader.callCount(), calls)

	// A loud refresh ignores the window entirely.
	calls = reader.callCount()
	e.Refresh(context.Background(), engine.RefreshOptions{})
	assert.Greater(t, reader.callCount(), calls)
}

func TestRefreshScopesReservationsToActor(t *testing.T) {
	reader := &fakeReader{reservations: []booking.Reservation{
		{ID: "r-1", UserID: "u1", Date: "2024-05-01", Status: booking.StatusConfirmed},
		{ID: "r-2", UserID: "u2", Date: "2024-05-02", Status: booking.StatusPending},
	}}
	cache := newFakeCache()
	clk := clock.NewMockClock(time.Now())

	t.Run("plain user sees only their own", func(t *testing.T) {
		e := newTestEngine(reader, newFakeCache(), clk)
		e.SetActor(&actor.Actor{ID: "u1", Role: actor.RoleUser})
		e.Refresh(context.Background(), engine.RefreshOptions{})
		rs := e.Reservations()
		require.Len(t, rs, 1)
		assert.Equal(t, "r-1", rs[0].ID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		e := newTestEngine(reader, cache, clk)
		e.SetActor(&actor.Actor{ID: "a1", Role: actor.RoleAdmin})
		e.Refresh(context.Background(), engine.RefreshOptions{})
		assert.Len(t, e.Reservations(), 2)
	})

	t.Run("anonymous public view is unfiltered", func(t *testing.T) {
		e := newTestEngine(reader, newFakeCache(), clk)
		e.Refresh(context.Background(), engine.RefreshOptions{})
		assert.Len(t, e.Reservations(), 2)
	})
}

func TestRefreshFailureKeepsPreviousState(t *testing.T) {
	reader := &fakeReader{spaces: []space.Space{{ID: "k1"}}}
	cache := newFakeCache()
	clk := clock.NewMockClock(time.Now())
	e := newTestEngine(reader, cache, clk)

	e.Refresh(context.Background(), engine.RefreshOptions{})
	stateBefore := e.Snapshot()

	reader.fail = true
	clk.Advance(time.Minute)
	e.Refresh(context.Background(), engine.RefreshOptions{})
	assert.Equal(t, stateBefore, e.Snapshot())
}

func TestApplyInsertIsIdempotent(t *testing.T) {
	e := newTestEngine(&fakeReader{}, newFakeCache(), clock.NewMockClock(time.Now()))

	raw := json.RawMessage(`{"id":"r-9","spaceId":"k1","date":"2024-05-01","status":"PENDING"}`)
	ch := engine.Change{Table: engine.CollectionReservations, Type: engine.ChangeInsert, New: raw}

	e.Apply(ch)
	e.Apply(ch)
	rs := e.Reservations()
	require.Len(t, rs, 1)
	assert.Equal(t, "r-9", rs[0].ID)
}

func TestApplyUpdateMergesPartialFields(t *testing.T) {
	e := newTestEngine(&fakeReader{}, newFakeCache(), clock.NewMockClock(time.Now()))
	e.UpsertReservation(booking.Reservation{
		ID:      "r-9",
		SpaceID: "k1",
		Date:    "2024-05-01",
		Slot:    booking.SlotFullDay,
		Status:  booking.StatusPending,
	})

	e.Apply(engine.Change{
		Table: engine.CollectionReservations,
		Type:  engine.ChangeUpdate,
		New:   json.RawMessage(`{"id":"r-9","status":"CONFIRMED"}`),
	})

	rs := e.Reservations()
	require.Len(t, rs, 1)
	assert.Equal(t, booking.StatusConfirmed, rs[0].Status)
	// Fields absent from the partial payload survive the merge.
	assert.Equal(t, "k1", rs[0].SpaceID)
	assert.Equal(t, booking.SlotFullDay, rs[0].Slot)
}

func TestApplyUpdateUnknownIDIsNoop(t *testing.T) {
	e := newTestEngine(&fakeReader{}, newFakeCache(), clock.NewMockClock(time.Now()))
	e.Apply(engine.Change{
		Table: engine.CollectionReservations,
		Type:  engine.ChangeUpdate,
		New:   json.RawMessage(`{"id":"ghost","status":"CONFIRMED"}`),
	})
	assert.Empty(t, e.Reservations())
}

func TestApplyDeleteIsIdempotent(t *testing.T) {
	e := newTestEngine(&fakeReader{}, newFakeCache(), clock.NewMockClock(time.Now()))
	e.UpsertNotification(notification.Notification{ID: "n-1", UserID: "u1"})

	del := engine.Change{
		Table: engine.CollectionNotifications,
		Type:  engine.ChangeDelete,
		Old:   json.RawMessage(`{"id":"n-1"}`),
	}
	e.Apply(del)
	assert.Empty(t, e.Notifications())
	// Deleting an id that is already gone is a safe no-op.
	e.Apply(del)
	assert.Empty(t, e.Notifications())
}

func TestApplyIgnoresUnknownTable(t *testing.T) {
	e := newTestEngine(&fakeReader{}, newFakeCache(), clock.NewMockClock(time.Now()))
	e.Apply(engine.Change{
		Table: "audit_log",
		Type:  engine.ChangeInsert,
		New:   json.RawMessage(`{"id":"x"}`),
	})
	assert.Equal(t, engine.Collections{}, stripNils(e.Snapshot()))
}

// stripNils normalizes empty-vs-nil slices for comparison.
func stripNils(c engine.Collections) engine.Collections {
	if len(c.Spaces) == 0 {
		c.Spaces = nil
	}
	if len(c.Events) == 0 {
		c.Events = nil
	}
	if len(c.Reservations) == 0 {
		c.Reservations = nil
	}
	if len(c.Messages) == 0 {
		c.Messages = nil
	}
	if len(c.Notifications) == 0 {
		c.Notifications = nil
	}
	return c
}

func TestRunDrainsFeedUntilContextEnds(t *testing.T) {
	e := newTestEngine(&fakeReader{}, newFakeCache(), clock.NewMockClock(time.Now()))
	feed := make(chan engine.Change, 2)
	feed <- engine.Change{
		Table: engine.CollectionMessages,
		Type:  engine.ChangeInsert,
		New:   json.RawMessage(`{"id":"m-1","email":"a@b.c","content":"salut"}`),
	}
	feed <- engine.Change{
		Table: engine.CollectionMessages,
		Type:  engine.ChangeUpdate,
		New:   json.RawMessage(`{"id":"m-1","pinned":true}`),
	}
	close(feed)

	e.Run(context.Background(), feed)

	ms := e.Messages()
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Pinned)
	assert.Equal(t, "salut", ms[0].Content)
}
