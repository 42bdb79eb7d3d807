// Package engine owns the canonical in-memory collections and keeps them
// consistent across three competing update sources: the persisted cache at
// cold start, explicit command mutations, and the realtime change feed.
// Consistency is eventual: within a collection the last applied change wins
// for a given id, and the freshness-gated full refresh is the correctness
// backstop when the realtime feed drops.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"venue-booking/internal/domain/actor"
	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/domain/space"

	"github.com/jinzhu/copier"
)

// Collection names, shared by the cache keys and the realtime table names.
const (
	CollectionSpaces        = "spaces"
	CollectionEvents        = "events"
	CollectionReservations  = "reservations"
	CollectionMessages      = "messages"
	CollectionNotifications = "notifications"
)

// DefaultFreshWindow is the minimum elapsed time since the last full refresh
// before a silent refresh is allowed to hit the network again.
const DefaultFreshWindow = 8 * time.Second

// Collections is a read snapshot of the engine state. Callers receive deep
// copies and must route every mutation through commands.
type Collections struct {
	Spaces        []space.Space
	Events        []event.Event
	Reservations  []booking.Reservation
	Messages      []message.Message
	Notifications []notification.Notification
}

// Reader is the fetch half of the transport. scoped requests the
// authenticated view of reservations; the public view is anonymized.
type Reader interface {
	FetchSpaces(ctx context.Context) ([]space.Space, error)
	FetchEvents(ctx context.Context) ([]event.Event, error)
	FetchReservations(ctx context.Context, scoped bool) ([]booking.Reservation, error)
	FetchMessages(ctx context.Context) ([]message.Message, error)
	FetchNotifications(ctx context.Context) ([]notification.Notification, error)
}

// Cache is the persistent snapshot store. Implementations are best-effort:
// a failed save must not surface, the cache is an optimization.
type Cache interface {
	Save(ctx context.Context, collection string, items any) error
	Load(ctx context.Context, collection string, items any) (bool, error)
	SaveRefreshedAt(ctx context.Context, t time.Time) error
	LoadRefreshedAt(ctx context.Context) (time.Time, bool, error)
}

type Clock interface {
	Now() time.Time
}

type Engine struct {
	mu   sync.RWMutex
	act  *actor.Actor
	data Collections

	reader      Reader
	cache       Cache
	clock       Clock
	logger      *slog.Logger
	freshWindow time.Duration
}

func New(reader Reader, cache Cache, clk Clock, logger *slog.Logger, freshWindow time.Duration) *Engine {
	if freshWindow <= 0 {
		freshWindow = DefaultFreshWindow
	}
	return &Engine{
		reader:      reader,
		cache:       cache,
		clock:       clk,
		logger:      logger,
		freshWindow: freshWindow,
	}
}

// SetActor switches the session identity the refresh scope derives from.
func (e *Engine) SetActor(a *actor.Actor) {
	e.mu.Lock()
	e.act = a
	e.mu.Unlock()
}

func (e *Engine) Actor() *actor.Actor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.act
}

// Hydrate fills the collections from the persistent cache for instant
// display. It never touches the network and treats every cache miss or
// decode failure as an empty collection.
func (e *Engine) Hydrate(ctx context.Context) {
	var next Collections
	loads := []struct {
		name string
		dst  any
	}{
		{CollectionSpaces, &next.Spaces},
		{CollectionEvents, &next.Events},
		{CollectionReservations, &next.Reservations},
		{CollectionMessages, &next.Messages},
		{CollectionNotifications, &next.Notifications},
	}
	for _, l := range loads {
		if _, err := e.cache.Load(ctx, l.name, l.dst); err != nil {
			e.logger.Warn("cache hydration skipped", "collection", l.name, "error", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if next.Spaces != nil {
		e.data.Spaces = next.Spaces
	}
	if next.Events != nil {
		e.data.Events = next.Events
	}
	if next.Reservations != nil {
		e.data.Reservations = next.Reservations
	}
	if next.Messages != nil {
		e.data.Messages = next.Messages
	}
	if next.Notifications != nil {
		e.data.Notifications = next.Notifications
	}
}

// RefreshOptions tunes a single refresh pass.
type RefreshOptions struct {
	// Silent refreshes respect the freshness window and are skipped entirely
	// when the last full refresh is recent enough.
	Silent bool
	// SkipInbox leaves messages and notifications untouched; used at cold
	// start and for the front-desk role.
	SkipInbox bool
	// Actor overrides the session actor for scoping when OverrideActor is
	// set. Login and logout refresh against the new identity before the
	// session switch is observable.
	Actor         *actor.Actor
	OverrideActor bool
}

// Refresh fetches all collections and replaces the in-memory state
// wholesale. Transport failures are logged and swallowed: the previous
// state stays (stale-but-consistent over empty-but-fresh), and the next
// trigger retries.
func (e *Engine) Refresh(ctx context.Context, opts RefreshOptions) {
	if opts.Silent {
		if ts, ok, err := e.cache.LoadRefreshedAt(ctx); err == nil && ok {
			if e.clock.Now().Sub(ts) < e.freshWindow {
				return
			}
		}
	}

	act := e.Actor()
	if opts.OverrideActor {
		act = opts.Actor
	}
	includeInbox := !opts.SkipInbox && !act.IsFrontDesk()

	var (
		wg            sync.WaitGroup
		spaces        []space.Space
		events        []event.Event
		reservations  []booking.Reservation
		messages      []message.Message
		notifications []notification.Notification
		errMu         sync.Mutex
		firstErr      error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	fetch := func(f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil {
				fail(err)
			}
		}()
	}

	fetch(func() (err error) { spaces, err = e.reader.FetchSpaces(ctx); return })
	fetch(func() (err error) { events, err = e.reader.FetchEvents(ctx); return })
	fetch(func() (err error) { reservations, err = e.reader.FetchReservations(ctx, act != nil); return })
	if includeInbox {
		fetch(func() (err error) { messages, err = e.reader.FetchMessages(ctx); return })
		fetch(func() (err error) { notifications, err = e.reader.FetchNotifications(ctx); return })
	}
	wg.Wait()

	if firstErr != nil {
		e.logger.Warn("refresh failed, keeping previous state", "error", firstErr)
		return
	}

	if act != nil && !act.IsAdmin() {
		owned := reservations[:0]
		for _, r := range reservations {
			if r.UserID == act.ID {
				owned = append(owned, r)
			}
		}
		reservations = owned
	}

	e.mu.Lock()
	e.data.Spaces = spaces
	e.data.Events = events
	e.data.Reservations = reservations
	if includeInbox {
		e.data.Messages = messages
		e.data.Notifications = notifications
	}
	snapshot := e.data
	e.mu.Unlock()

	// Persist for the next cold start; failures stay inside the cache.
	_ = e.cache.Save(ctx, CollectionSpaces, snapshot.Spaces)
	_ = e.cache.Save(ctx, CollectionEvents, snapshot.Events)
	_ = e.cache.Save(ctx, CollectionReservations, snapshot.Reservations)
	if includeInbox {
		_ = e.cache.Save(ctx, CollectionMessages, snapshot.Messages)
		_ = e.cache.Save(ctx, CollectionNotifications, snapshot.Notifications)
	}
	_ = e.cache.SaveRefreshedAt(ctx, e.clock.Now())
}

// Snapshot deep-copies the full state for readers.
func (e *Engine) Snapshot() Collections {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out Collections
	if err := copier.CopyWithOption(&out, &e.data, copier.Option{DeepCopy: true}); err != nil {
		e.logger.Error("snapshot copy failed", "error", err)
	}
	return out
}

func (e *Engine) Spaces() []space.Space {
	return e.Snapshot().Spaces
}

func (e *Engine) Events() []event.Event {
	return e.Snapshot().Events
}

func (e *Engine) Reservations() []booking.Reservation {
	return e.Snapshot().Reservations
}

func (e *Engine) Messages() []message.Message {
	return e.Snapshot().Messages
}

func (e *Engine) Notifications() []notification.Notification {
	return e.Snapshot().Notifications
}

func (e *Engine) FindSpace(id string) (space.Space, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.data.Spaces {
		if s.ID == id {
			return s, true
		}
	}
	return space.Space{}, false
}

func (e *Engine) FindReservation(id string) (booking.Reservation, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, r := range e.data.Reservations {
		if r.ID == id {
			return r, true
		}
	}
	return booking.Reservation{}, false
}

func (e *Engine) FindEvent(id string) (event.Event, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, ev := range e.data.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return event.Event{}, false
}

func (e *Engine) FindMessage(id string) (message.Message, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, m := range e.data.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return message.Message{}, false
}
