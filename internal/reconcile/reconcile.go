// Package reconcile is the periodic closure repair job. The realtime feed
// and the command path normally keep event closures in line, but a crashed
// command or a missed change can leave drift: closures for deleted events,
// missing closures for blocked spaces, or closures with stale dates. The
// job re-derives the desired set for every event and applies the same
// replace-all strategy the commands use.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"venue-booking/internal/availability"
	"venue-booking/internal/domain/booking"
	"venue-booking/internal/engine"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/errs"

	"github.com/go-co-op/gocron/v2"
)

type ReservationWriter interface {
	CreateReservation(ctx context.Context, r booking.Reservation) (booking.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

type Job struct {
	writer ReservationWriter
	engine *engine.Engine
	clock  clock.Clock
	logger *slog.Logger

	scheduler gocron.Scheduler
	interval  time.Duration
}

func NewJob(writer ReservationWriter, eng *engine.Engine, clk clock.Clock, logger *slog.Logger, interval time.Duration) *Job {
	return &Job{
		writer:   writer,
		engine:   eng,
		clock:    clk,
		logger:   logger,
		interval: interval,
	}
}

// Start schedules the repair loop. Returns an error only on scheduler
// construction; individual runs log their own failures and keep going.
func (j *Job) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return errs.Wrap(err, "reconcile scheduler")
	}
	j.scheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() {
			runCtx, cancel := context.WithTimeout(ctx, j.interval)
			defer cancel()
			if err := j.Run(runCtx); err != nil {
				j.logger.Warn("closure reconciliation failed", "error", err)
			}
		}),
	)
	if err != nil {
		return errs.Wrap(err, "reconcile job")
	}

	s.Start()
	j.logger.Info("closure reconciliation started", "interval", j.interval)
	return nil
}

func (j *Job) Stop() error {
	if j.scheduler == nil {
		return nil
	}
	return j.scheduler.Shutdown()
}

// Run executes one reconciliation pass over the current collections.
func (j *Job) Run(ctx context.Context) error {
	j.engine.Refresh(ctx, engine.RefreshOptions{SkipInbox: true})

	snapshot := j.engine.Snapshot()
	events := snapshot.Events
	eventIDs := make(map[string]bool, len(events))
	for _, ev := range events {
		eventIDs[ev.ID] = true
	}

	// Orphans: closures whose event no longer exists.
	var repaired, removed int
	for _, r := range snapshot.Reservations {
		if !r.IsClosure() {
			continue
		}
		if j.ownedByKnownEvent(r, eventIDs) {
			continue
		}
		if err := j.writer.DeleteReservation(ctx, r.ID); err != nil {
			return errs.Wrap(err, "delete orphan closure")
		}
		j.engine.RemoveReservation(r.ID)
		removed++
	}

	for _, ev := range events {
		desired, err := availability.ExpandEventToClosures(ev, j.clock.Now())
		if err != nil {
			j.logger.Warn("skipping malformed event", "event_id", ev.ID, "error", err)
			continue
		}
		if j.closuresMatch(ev.ID, desired) {
			continue
		}

		diff := availability.DiffClosures(j.existingClosureIDs(ev.ID), desired)
		for _, id := range diff.ToDelete {
			if err := j.writer.DeleteReservation(ctx, id); err != nil {
				return errs.Wrap(err, "delete stale closure")
			}
			j.engine.RemoveReservation(id)
		}
		for _, closure := range diff.ToCreate {
			created, err := j.writer.CreateReservation(ctx, closure)
			if err != nil {
				return errs.Wrap(err, "recreate closure")
			}
			j.engine.UpsertReservation(created)
		}
		repaired++
	}

	if repaired > 0 || removed > 0 {
		j.logger.Info("closure drift repaired", "events_repaired", repaired, "orphans_removed", removed)
	}
	return nil
}

func (j *Job) ownedByKnownEvent(r booking.Reservation, eventIDs map[string]bool) bool {
	for id := range eventIDs {
		if r.BelongsToEvent(id) {
			return true
		}
	}
	return false
}

func (j *Job) existingClosureIDs(eventID string) []string {
	var ids []string
	for _, r := range j.engine.Reservations() {
		if r.BelongsToEvent(eventID) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// closuresMatch reports whether the stored closures already equal the
// desired set, comparing id, range, slot and status. Matching sets skip
// the churn of a replace-all rewrite.
func (j *Job) closuresMatch(eventID string, desired []booking.Reservation) bool {
	existing := map[string]booking.Reservation{}
	for _, r := range j.engine.Reservations() {
		if r.BelongsToEvent(eventID) {
			existing[r.ID] = r
		}
	}
	if len(existing) != len(desired) {
		return false
	}
	for _, want := range desired {
		got, ok := existing[want.ID]
		if !ok {
			return false
		}
		if got.Date != want.Date || got.EndDate != want.EndDate ||
			got.Slot != want.Slot || got.Status != want.Status ||
			!got.IsGlobalClosure {
			return false
		}
	}
	return true
}
