package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/odorlab/odormap/internal/domain"
	"github.com/odorlab/odormap/internal/observability"
)

// SnapshotSink receives every snapshot the coordinator publishes.
// Delivery is best effort: a sink error is logged and counted, never
// surfaced to the caller that changed the selection.
type SnapshotSink interface {
	Publish(ctx context.Context, snap Snapshot) error
}

// Coordinator owns the selection state and serves snapshots derived
// from it. All aggregation is pure, so snapshots for previously seen
// states come from an LRU cache instead of a recompute.
type Coordinator struct {
	data   *domain.Dataset
	levels domain.LevelScale

	mu      sync.Mutex
	state   State
	current Snapshot
	cache   *snapshotCache

	sink    SnapshotSink
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Coordinator over an immutable dataset. The initial
// state is the all-days accumulated view with the hour cursor at
// defaultHour; callers apply their own initial selection on top.
func New(data *domain.Dataset, levels domain.LevelScale, logger *slog.Logger, metrics *observability.Metrics, cacheSize, defaultHour int) *Coordinator {
	c := &Coordinator{
		data:   data,
		levels: levels,
		state: State{
			Mode:    domain.ModeAll,
			Hour:    defaultHour,
			MapView: MapAccumulated,
		},
		cache:   newSnapshotCache(cacheSize),
		logger:  logger,
		metrics: metrics,
	}
	c.current = c.snapshotLocked(c.state, "init")
	return c
}

// SetSink attaches a snapshot sink. Safe to call while traffic is
// being served; snapshots published after it returns go to the sink.
func (c *Coordinator) SetSink(sink SnapshotSink) {
	c.mu.Lock()
	c.sink = sink
	c.mu.Unlock()
}

// Dataset exposes the underlying readings for the calendar and summary
// endpoints.
func (c *Coordinator) Dataset() *domain.Dataset {
	return c.data
}

// Levels returns the classification scale shared by every snapshot.
func (c *Coordinator) Levels() domain.LevelScale {
	return c.levels
}

// Apply validates an event, advances the selection, and returns the
// snapshot for the new state.
func (c *Coordinator) Apply(ctx context.Context, ev Event) (Snapshot, error) {
	if err := c.validate(ev); err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	next := Reduce(c.state, ev)
	snap := c.snapshotLocked(next, ev.name())
	c.state = next
	c.current = snap
	c.mu.Unlock()

	c.ready.Store(true)
	c.publish(ctx, snap)
	return snap, nil
}

// Current returns the snapshot for the present selection.
func (c *Coordinator) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CheckReadiness returns nil once the first selection has been applied,
// or an error describing why the service is not yet ready.
func (c *Coordinator) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("no selection applied yet")
	}
	return nil
}

func (c *Coordinator) validate(ev Event) error {
	switch e := ev.(type) {
	case SelectDay:
		if !c.data.Month.Contains(e.Date) {
			return fmt.Errorf("date %s is outside the target month", e.Date)
		}
	case SelectWeek:
		if e.Index < 1 || e.Index > 5 {
			return fmt.Errorf("week index %d out of range 1..5", e.Index)
		}
	case SetHour:
		if e.Hour < 0 || e.Hour > 23 {
			return fmt.Errorf("hour %d out of range 0..23", e.Hour)
		}
	case SetMapView:
		if e.View != MapAccumulated && e.View != MapHourlySlice {
			return fmt.Errorf("unknown map view %q", e.View)
		}
	}
	return nil
}

// snapshotLocked returns the snapshot for st, consulting the cache
// first. Callers hold c.mu (or, in New, have exclusive access).
func (c *Coordinator) snapshotLocked(st State, trigger string) Snapshot {
	if snap, ok := c.cache.get(st); ok {
		c.metrics.SnapshotCache.WithLabelValues("hit").Inc()
		return snap
	}
	c.metrics.SnapshotCache.WithLabelValues("miss").Inc()

	start := time.Now()
	snap := buildSnapshot(c.data, c.levels, st)
	c.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	c.metrics.SnapshotRecomputes.WithLabelValues(trigger).Inc()

	c.cache.put(st, snap)
	return snap
}

func (c *Coordinator) publish(ctx context.Context, snap Snapshot) {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()

	if sink == nil {
		return
	}
	if err := sink.Publish(ctx, snap); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Warn("snapshot publish failed", "error", err, "mode", snap.State.Mode)
		return
	}
	c.metrics.SnapshotsPublished.Inc()
}
