// Package simulation drives a Game of Life store through time.
//
// A Simulation is either Stopped, where callers may edit cells, or Running,
// where a single background goroutine replaces the current generation on a
// fixed period. The current store is published through an atomic pointer, so
// Snapshot always returns a fully computed generation.
package simulation

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

// DefaultTicksPerSecond is used when no rate is configured
const DefaultTicksPerSecond = 15

// TickFunc observes each generation after it has been published
type TickFunc func(generation uint64, cells *model.CellMap)

// Simulation owns the current generation and the ticker that advances it
type Simulation struct {
	mu    sync.Mutex
	state State
	rate  float64
	limit uint64

	// current generation and its number, replaced as a unit
	current atomic.Pointer[frame]

	logger *slog.Logger
	onTick TickFunc

	// set while Running
	cancel context.CancelFunc
	done   chan struct{}
	rateCh chan time.Duration
}

type frame struct {
	generation uint64
	cells      *model.CellMap
}

// Option configures a Simulation
type Option func(*Simulation)

// WithSeed starts the simulation with the given living cells
func WithSeed(cells ...model.Coordinate) Option {
	return func(s *Simulation) {
		s.current.Store(&frame{cells: model.NewCellMap(cells...)})
	}
}

// WithRate sets the tick rate in generations per second. Invalid rates are
// rejected by New.
func WithRate(tps float64) Option {
	return func(s *Simulation) {
		s.rate = tps
	}
}

// WithGenerationLimit stops the ticker once generation n has been published.
// Zero means no limit. Step is not affected.
func WithGenerationLimit(n uint64) Option {
	return func(s *Simulation) {
		s.limit = n
	}
}

// WithLogger sets the logger, slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithTickHook registers fn to run on the ticker goroutine after every generation.
// fn must not call Start, Stop, Reset or SetRate.
func WithTickHook(fn TickFunc) Option {
	return func(s *Simulation) {
		s.onTick = fn
	}
}

// New creates a stopped simulation
func New(opts ...Option) (*Simulation, error) {
	s := &Simulation{
		state: Stopped,
		rate:  DefaultTicksPerSecond,
	}
	s.current.Store(&frame{cells: model.NewCellMap()})
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if _, err := interval(s.rate); err != nil {
		return nil, errors.Wrap(err, "[New]")
	}
	return s, nil
}

// interval converts a tick rate into a ticker period
func interval(tps float64) (time.Duration, error) {
	if math.IsNaN(tps) || math.IsInf(tps, 0) || tps <= 0 {
		return 0, errors.Wrapf(ErrInvalidRate, "%v ticks per second", tps)
	}
	period := float64(time.Second) / tps
	if period >= math.MaxInt64 {
		return 0, errors.Wrapf(ErrInvalidRate, "%v ticks per second is too slow", tps)
	}
	d := time.Duration(period)
	if d <= 0 {
		return 0, errors.Wrapf(ErrInvalidRate, "%v ticks per second is too fast", tps)
	}
	return d, nil
}

// Start begins ticking. Cancelling ctx halts ticking as Stop would.
func (s *Simulation) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapLocked()
	if s.state == Running {
		return errors.Wrap(ErrAlreadyRunning, "[Start]")
	}

	d, err := interval(s.rate)
	if err != nil {
		return errors.Wrap(err, "[Start]")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.rateCh = make(chan time.Duration)
	s.state = Running

	go s.loop(ctx, d, s.rateCh, s.done)

	transitionsTotal.WithLabelValues("start").Inc()
	s.logger.Info("simulation started",
		slog.Float64("tps", s.rate),
		slog.Uint64("generation", s.Generation()))
	return nil
}

// Stop halts ticking and keeps the last generation. No tick fires after Stop returns.
func (s *Simulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapLocked()
	if s.state != Running {
		return errors.Wrap(ErrNotRunning, "[Stop]")
	}
	s.haltLocked()

	transitionsTotal.WithLabelValues("stop").Inc()
	s.logger.Info("simulation stopped", slog.Uint64("generation", s.Generation()))
	return nil
}

// Reset halts ticking if needed, empties the store and zeroes the generation counter
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		s.haltLocked()
	}
	s.current.Store(&frame{cells: model.NewCellMap()})
	population.Set(0)

	transitionsTotal.WithLabelValues("reset").Inc()
	s.logger.Info("simulation reset")
}

// SetRate changes the tick rate. A running ticker is rescheduled in place.
func (s *Simulation) SetRate(tps float64) error {
	d, err := interval(tps)
	if err != nil {
		return errors.Wrap(err, "[SetRate]")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapLocked()
	s.rate = tps
	if s.state == Running {
		select {
		case s.rateCh <- d:
		case <-s.done:
		}
	}
	s.logger.Debug("tick rate changed", slog.Float64("tps", tps), slog.String("state", s.state.String()))
	return nil
}

// Step computes a single generation while stopped
func (s *Simulation) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapLocked()
	if s.state == Running {
		return errors.Wrap(ErrRunning, "[Step]")
	}
	s.tick()
	return nil
}

// SetCell records the state of one cell
func (s *Simulation) SetCell(c model.Coordinate, alive bool) error {
	return s.edit("[SetCell]", func(m *model.CellMap) {
		m.Set(c, alive)
	})
}

// ToggleCell flips one cell between alive and dead
func (s *Simulation) ToggleCell(c model.Coordinate) error {
	return s.edit("[ToggleCell]", func(m *model.CellMap) {
		m.Toggle(c)
	})
}

// Fill marks every given cell alive
func (s *Simulation) Fill(cells []model.Coordinate) error {
	return s.edit("[Fill]", func(m *model.CellMap) {
		for _, c := range cells {
			m.Set(c, true)
		}
	})
}

// Clear kills every cell without touching the generation counter
func (s *Simulation) Clear() error {
	return s.edit("[Clear]", func(m *model.CellMap) {
		m.ForEach(func(_ bool, c model.Coordinate) {
			m.Set(c, false)
		})
	})
}

// edit applies fn to a copy of the current store and publishes it.
// Snapshots taken earlier are never modified.
func (s *Simulation) edit(op string, fn func(m *model.CellMap)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapLocked()
	if s.state == Running {
		return errors.Wrap(ErrRunning, op)
	}
	cur := s.current.Load()
	next := cur.cells.Clone()
	fn(next)
	s.current.Store(&frame{generation: cur.generation, cells: next})
	population.Set(float64(next.Population()))
	return nil
}

// Snapshot returns the current generation. Callers must treat it as read-only.
func (s *Simulation) Snapshot() *model.CellMap {
	return s.current.Load().cells
}

// Generation returns the number of generations computed since the last Reset
func (s *Simulation) Generation() uint64 {
	return s.current.Load().generation
}

// Frame returns the current generation number together with its store
func (s *Simulation) Frame() (uint64, *model.CellMap) {
	f := s.current.Load()
	return f.generation, f.cells
}

// Rate returns the configured ticks per second
func (s *Simulation) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// State returns Running or Stopped
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reapLocked()
	return s.state
}

// IsRunning reports whether the ticker is active
func (s *Simulation) IsRunning() bool {
	return s.State() == Running
}

// haltLocked cancels the ticker goroutine and waits for it to exit
func (s *Simulation) haltLocked() {
	s.cancel()
	<-s.done
	s.cancel, s.done, s.rateCh = nil, nil, nil
	s.state = Stopped
}

// reapLocked moves to Stopped when the ticker exited on its own, because its
// parent context ended or the generation limit was reached
func (s *Simulation) reapLocked() {
	if s.state != Running {
		return
	}
	select {
	case <-s.done:
		s.cancel()
		s.cancel, s.done, s.rateCh = nil, nil, nil
		s.state = Stopped
		transitionsTotal.WithLabelValues("cancel").Inc()
		s.logger.Info("simulation stopped by ticker exit", slog.Uint64("generation", s.Generation()))
	default:
	}
}

func (s *Simulation) loop(ctx context.Context, d time.Duration, rateCh <-chan time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		if s.limitReached(s.Generation()) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case d := <-rateCh:
			ticker.Reset(d)
		case <-ticker.C:
			// a pending tick loses to a concurrent Stop
			if ctx.Err() != nil {
				return
			}
			s.tick()
		}
	}
}

func (s *Simulation) limitReached(generation uint64) bool {
	return s.limit > 0 && generation >= s.limit
}

// tick replaces the current generation with its successor
func (s *Simulation) tick() {
	start := time.Now()
	cur := s.current.Load()
	next := model.NextGeneration(cur.cells)
	gen := cur.generation + 1
	s.current.Store(&frame{generation: gen, cells: next})

	pop := next.Population()
	tickDuration.Observe(time.Since(start).Seconds())
	generationsTotal.Inc()
	population.Set(float64(pop))
	s.logger.Debug("generation computed", slog.Uint64("generation", gen), slog.Int("population", pop))

	if s.onTick != nil {
		s.onTick(gen, next)
	}
}
