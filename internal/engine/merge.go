package engine

import (
	"context"
	"encoding/json"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/domain/space"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Change is one inbound realtime notification. New carries the inserted or
// updated record (possibly partial), Old carries at least the id of a
// deleted one.
type Change struct {
	Table string          `json:"table"`
	Type  ChangeType      `json:"eventType"`
	New   json.RawMessage `json:"new,omitempty"`
	Old   json.RawMessage `json:"old,omitempty"`
}

// Run drains the realtime feed with a single consumer, so merges never
// re-enter while a refresh is writing the same collections. It returns when
// the context ends or the feed closes.
func (e *Engine) Run(ctx context.Context, feed <-chan Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-feed:
			if !ok {
				return
			}
			e.Apply(ch)
		}
	}
}

// Apply merges one change into the collections. The rules are commutative
// and idempotent under reordering: a duplicate INSERT is a no-op, an UPDATE
// for an unknown id is a no-op, a DELETE is a no-op once the id is gone.
// Unknown tables are ignored. Realtime changes are never suppressed by the
// freshness window; only full refetches are.
func (e *Engine) Apply(ch Change) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ch.Table {
	case CollectionReservations:
		e.data.Reservations = applyChange(ch, e.data.Reservations, func(r booking.Reservation) string { return r.ID })
	case CollectionMessages:
		e.data.Messages = applyChange(ch, e.data.Messages, func(m message.Message) string { return m.ID })
	case CollectionNotifications:
		e.data.Notifications = applyChange(ch, e.data.Notifications, func(n notification.Notification) string { return n.ID })
	case CollectionEvents:
		e.data.Events = applyChange(ch, e.data.Events, func(ev event.Event) string { return ev.ID })
	case CollectionSpaces:
		e.data.Spaces = applyChange(ch, e.data.Spaces, func(s space.Space) string { return s.ID })
	default:
		e.logger.Debug("ignoring change for unknown table", "table", ch.Table)
	}
}

func applyChange[T any](ch Change, items []T, id func(T) string) []T {
	switch ch.Type {
	case ChangeInsert:
		return mergeInsert(items, ch.New, id)
	case ChangeUpdate:
		return mergeUpdate(items, ch.New, id)
	case ChangeDelete:
		return mergeDelete(items, ch.Old, id)
	default:
		return items
	}
}

// mergeInsert appends the record unless the id is already present, which
// de-duplicates against optimistic local inserts racing their own realtime
// echo.
func mergeInsert[T any](items []T, raw json.RawMessage, id func(T) string) []T {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return items
	}
	key := id(item)
	if key == "" {
		return items
	}
	for _, existing := range items {
		if id(existing) == key {
			return items
		}
	}
	return append(items, item)
}

// mergeUpdate overlays the (possibly partial) record onto the entry with the
// same id. Unmarshalling into a copy of the existing value merges only the
// fields present in the payload, preserving local-only ones.
func mergeUpdate[T any](items []T, raw json.RawMessage, id func(T) string) []T {
	key := rawID(raw)
	if key == "" {
		return items
	}
	for i, existing := range items {
		if id(existing) != key {
			continue
		}
		merged := existing
		if err := json.Unmarshal(raw, &merged); err != nil {
			return items
		}
		items[i] = merged
		return items
	}
	return items
}

func mergeDelete[T any](items []T, raw json.RawMessage, id func(T) string) []T {
	key := rawID(raw)
	if key == "" {
		return items
	}
	kept := items[:0]
	for _, existing := range items {
		if id(existing) != key {
			kept = append(kept, existing)
		}
	}
	return kept
}

func rawID(raw json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ID
}

// upsert replaces the entry with the same id or appends. It backs the
// optimistic command updates, which apply the server-confirmed record ahead
// of the next reconciliation refresh.
func upsert[T any](items []T, item T, id func(T) string) []T {
	key := id(item)
	for i, existing := range items {
		if id(existing) == key {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func removeByID[T any](items []T, key string, id func(T) string) []T {
	kept := items[:0]
	for _, existing := range items {
		if id(existing) != key {
			kept = append(kept, existing)
		}
	}
	return kept
}

func (e *Engine) UpsertReservation(r booking.Reservation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Reservations = upsert(e.data.Reservations, r, func(r booking.Reservation) string { return r.ID })
}

func (e *Engine) RemoveReservation(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Reservations = removeByID(e.data.Reservations, id, func(r booking.Reservation) string { return r.ID })
}

func (e *Engine) UpsertSpace(s space.Space) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Spaces = upsert(e.data.Spaces, s, func(s space.Space) string { return s.ID })
}

func (e *Engine) UpsertEvent(ev event.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Events = upsert(e.data.Events, ev, func(ev event.Event) string { return ev.ID })
}

func (e *Engine) RemoveEvent(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Events = removeByID(e.data.Events, id, func(ev event.Event) string { return ev.ID })
}

func (e *Engine) UpsertMessage(m message.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Messages = upsert(e.data.Messages, m, func(m message.Message) string { return m.ID })
}

func (e *Engine) RemoveMessage(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Messages = removeByID(e.data.Messages, id, func(m message.Message) string { return m.ID })
}

func (e *Engine) UpsertNotification(n notification.Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Notifications = upsert(e.data.Notifications, n, func(n notification.Notification) string { return n.ID })
}

func (e *Engine) RemoveNotification(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Notifications = removeByID(e.data.Notifications, id, func(n notification.Notification) string { return n.ID })
}
