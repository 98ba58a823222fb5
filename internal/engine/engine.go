// Package engine runs the refresh cycle: fetch sources, normalize,
// observe into memory, score, select. It also owns the periodic
// snooze sweep. Uses context cancellation as the ONLY stop mechanism.
package engine

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/tend/internal/logging"
	"github.com/abelbrown/tend/internal/memory"
	"github.com/abelbrown/tend/internal/model"
	"github.com/abelbrown/tend/internal/normalize"
	"github.com/abelbrown/tend/internal/providers"
	"github.com/abelbrown/tend/internal/scoring"
	"github.com/abelbrown/tend/internal/stream"
	"github.com/abelbrown/tend/internal/ui"
)

// refreshInterval is the time between refresh cycles.
const refreshInterval = 2 * time.Minute

// sweepSpec fires the snooze sweep every 60 seconds.
const sweepSpec = "@every 60s"

// fetchTimeout bounds each cycle's source fetches.
const fetchTimeout = 10 * time.Second

// Engine wires the pipeline together. Construct once, Start once.
type Engine struct {
	sources   providers.Set
	tracker   *memory.Tracker
	scorer    *scoring.Scorer
	store     *memory.Store // optional: nil for session-only memory
	streamCfg stream.Config
	clock     func() time.Time
	cron      *cron.Cron
	wg        sync.WaitGroup
}

// Option tweaks an Engine at construction.
type Option func(*Engine)

// WithStore attaches a memory snapshot store; the tracker is seeded
// from it and snapshots are written after every cycle.
func WithStore(s *memory.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithStreamConfig overrides the stream selection config.
func WithStreamConfig(cfg stream.Config) Option {
	return func(e *Engine) { e.streamCfg = cfg }
}

// WithClock injects a time source (testing).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// New creates an Engine over the given sources.
func New(sources providers.Set, tracker *memory.Tracker, scorer *scoring.Scorer, opts ...Option) *Engine {
	e := &Engine{
		sources: sources,
		tracker: tracker,
		scorer:  scorer,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store != nil {
		records, err := e.store.LoadRecords()
		if err != nil {
			logging.Warn("engine: could not load memory snapshot", "err", err)
		} else if len(records) > 0 {
			e.tracker.Restore(records)
		}
	}
	return e
}

// Cycle is one refresh cycle's output.
type Cycle struct {
	Selection   stream.Selection
	NextMeeting *model.Meeting
}

// Refresh runs one full cycle synchronously. Source errors degrade to
// an empty collection for that source; the cycle itself only fails on
// context cancellation.
func (e *Engine) Refresh(ctx context.Context) (Cycle, error) {
	now := e.clock()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var src normalize.Sources
	g, fetchCtx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		var err error
		if src.Alerts, err = e.sources.Alerts.Alerts(fetchCtx); err != nil {
			logging.Warn("engine: alert source failed", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.Commitments, err = e.sources.Commitments.Commitments(fetchCtx); err != nil {
			logging.Warn("engine: commitment source failed", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.Meetings, err = e.sources.Meetings.Meetings(fetchCtx); err != nil {
			logging.Warn("engine: meeting source failed", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.Relationships, err = e.sources.Relationships.Relationships(fetchCtx); err != nil {
			logging.Warn("engine: relationship source failed", "err", err)
		}
		return nil
	})
	_ = g.Wait() // goroutines never fail the group; errors logged per source

	if err := ctx.Err(); err != nil {
		return Cycle{}, err
	}

	next := nextMeeting(src.Meetings, now)
	var excludeID string
	if next != nil {
		excludeID = next.MeetingID
	}

	items := normalize.Normalize(src, normalize.Options{ExcludeMeetingID: excludeID})

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID()
	}
	e.tracker.Observe(ids, now)

	items = e.decorate(items)
	sel := stream.Select(items, e.tracker.View(), now, e.scorer, e.streamCfg)

	if e.store != nil {
		if err := e.store.SaveRecords(e.tracker.Records()); err != nil {
			logging.Warn("engine: could not save memory snapshot", "err", err)
		}
	}

	return Cycle{Selection: sel, NextMeeting: next}, nil
}

// RunSweep expires overdue snoozes now. The cron timer is a thin
// wrapper around this, so tests advance time without waiting on a
// wall clock.
func (e *Engine) RunSweep(now time.Time) int {
	return e.tracker.Sweep(now)
}

// Start begins background refresh and the sweep timer. Call with a
// cancellable context; Wait blocks until everything has stopped.
func (e *Engine) Start(ctx context.Context, program *tea.Program) {
	e.cron = cron.New()
	if _, err := e.cron.AddFunc(sweepSpec, func() {
		if expired := e.RunSweep(e.clock()); expired > 0 && program != nil {
			program.Send(ui.SweepDone{Expired: expired})
		}
	}); err != nil {
		logging.Error("engine: could not schedule sweep", "err", err)
	}
	e.cron.Start()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		e.refreshAndSend(ctx, program)

		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.refreshAndSend(ctx, program)
			}
		}
	}()
}

// Wait blocks until the background goroutine and the sweep timer exit.
// Call after canceling the context passed to Start.
func (e *Engine) Wait() {
	if e.cron != nil {
		<-e.cron.Stop().Done()
	}
	e.wg.Wait()
}

func (e *Engine) refreshAndSend(ctx context.Context, program *tea.Program) {
	cycle, err := e.Refresh(ctx)
	if program != nil {
		program.Send(ui.CycleComplete{
			Selection:   cycle.Selection,
			NextMeeting: cycle.NextMeeting,
			Err:         err,
		})
	}
}

// decorate stamps memory-derived flags onto the cycle's items so the
// view can emphasize them. Scoring ignores these on purpose.
func (e *Engine) decorate(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i, item := range items {
		isNew := e.tracker.IsNew(item.ID())
		var appeared bool
		if rec, ok := e.tracker.Record(item.ID()); ok {
			appeared = rec.HasAppearedBefore
		}

		switch v := item.(type) {
		case model.Alert:
			v.Meta.IsNew = isNew
			v.Meta.IsEscalated = v.Meta.IsEscalated || appeared
			out[i] = v
		case model.Commitment:
			v.Meta.IsNew = isNew
			v.Meta.IsEscalated = v.Meta.IsEscalated || appeared
			out[i] = v
		case model.Meeting:
			v.Meta.IsNew = isNew
			out[i] = v
		case model.Relationship:
			v.Meta.IsNew = isNew
			out[i] = v
		default:
			out[i] = item
		}
	}
	return out
}

// nextMeeting picks the earliest upcoming scheduled meeting for the
// banner. Nil when nothing is ahead.
func nextMeeting(meetings []model.Meeting, now time.Time) *model.Meeting {
	var next *model.Meeting
	for i := range meetings {
		m := meetings[i]
		if m.Status != model.MeetingScheduled || m.Time.Before(now) {
			continue
		}
		if next == nil || m.Time.Before(next.Time) {
			next = &m
		}
	}
	return next
}
