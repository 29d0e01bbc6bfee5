package simulation

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-life/model"
)

var blinker = []model.Coordinate{model.C(1, 0), model.C(1, 1), model.C(1, 2)}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSimulation(t *testing.T, opts ...Option) *Simulation {
	t.Helper()
	s, err := New(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(s.Reset)
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newTestSimulation(t)

	assert.Equal(t, Stopped, s.State())
	assert.False(t, s.IsRunning())
	assert.Equal(t, float64(DefaultTicksPerSecond), s.Rate())
	assert.Equal(t, uint64(0), s.Generation())
	assert.Equal(t, 0, s.Snapshot().Len())
}

func TestNew_InvalidRate(t *testing.T) {
	_, err := New(WithRate(0))
	assert.True(t, errors.Is(err, ErrInvalidRate))

	// a period beyond time.Duration's range
	_, err = New(WithRate(1e-12))
	assert.True(t, errors.Is(err, ErrInvalidRate))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "unknown", State(7).String())
}

func TestStartStop(t *testing.T) {
	s := newTestSimulation(t, WithSeed(blinker...), WithRate(1))

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, Running, s.State())

	err := s.Start(context.Background())
	assert.True(t, errors.Is(err, ErrAlreadyRunning), "double start must fail")
	assert.Equal(t, Running, s.State())

	require.NoError(t, s.Stop())
	assert.Equal(t, Stopped, s.State())

	err = s.Stop()
	assert.True(t, errors.Is(err, ErrNotRunning), "double stop must fail")

	assert.Equal(t, blinker, s.Snapshot().Alive(), "store survives start/stop")
}

func TestRunning_Ticks(t *testing.T) {
	ticks := make(chan uint64, 100)
	s := newTestSimulation(t,
		WithSeed(blinker...),
		WithRate(500),
		WithTickHook(func(gen uint64, _ *model.CellMap) {
			select {
			case ticks <- gen:
			default:
			}
		}),
	)

	require.NoError(t, s.Start(context.Background()))
	for want := uint64(1); want <= 4; want++ {
		select {
		case gen := <-ticks:
			assert.Equal(t, want, gen)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for generation %d", want)
		}
	}
	require.NoError(t, s.Stop())

	gen := s.Generation()
	want := blinker
	if gen%2 == 1 {
		want = []model.Coordinate{model.C(0, 1), model.C(1, 1), model.C(2, 1)}
	}
	assert.Equal(t, want, s.Snapshot().Alive())
}

func TestStop_NoTickAfterReturn(t *testing.T) {
	var ticks atomic.Int64
	s := newTestSimulation(t,
		WithSeed(blinker...),
		WithRate(2000),
		WithTickHook(func(uint64, *model.CellMap) { ticks.Add(1) }),
	)

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return ticks.Load() > 3 }, 2*time.Second, time.Millisecond)
	require.NoError(t, s.Stop())

	stoppedAt := ticks.Load()
	gen := s.Generation()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, stoppedAt, ticks.Load())
	assert.Equal(t, gen, s.Generation())
	assert.Equal(t, uint64(stoppedAt), gen)
}

func TestEdits_RejectedWhileRunning(t *testing.T) {
	s := newTestSimulation(t, WithSeed(blinker...), WithRate(0.001))
	require.NoError(t, s.Start(context.Background()))

	edits := map[string]func() error{
		"SetCell":    func() error { return s.SetCell(model.C(9, 9), true) },
		"ToggleCell": func() error { return s.ToggleCell(model.C(9, 9)) },
		"Fill":       func() error { return s.Fill([]model.Coordinate{model.C(9, 9)}) },
		"Clear":      s.Clear,
		"Step":       s.Step,
	}
	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(edit(), ErrRunning))
		})
	}

	assert.Equal(t, blinker, s.Snapshot().Alive())
	require.NoError(t, s.Stop())
}

func TestEdits_WhileStopped(t *testing.T) {
	s := newTestSimulation(t)

	require.NoError(t, s.Fill(blinker))
	assert.Equal(t, blinker, s.Snapshot().Alive())

	before := s.Snapshot()
	require.NoError(t, s.ToggleCell(model.C(1, 1)))
	require.NoError(t, s.SetCell(model.C(-4, -4), true))

	assert.Equal(t, blinker, before.Alive(), "earlier snapshots are not modified")
	assert.Equal(t, []model.Coordinate{model.C(-4, -4), model.C(1, 0), model.C(1, 2)}, s.Snapshot().Alive())

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Snapshot().Population())
}

func TestStep(t *testing.T) {
	s := newTestSimulation(t, WithSeed(blinker...))

	require.NoError(t, s.Step())
	assert.Equal(t, uint64(1), s.Generation())
	assert.Equal(t, []model.Coordinate{model.C(0, 1), model.C(1, 1), model.C(2, 1)}, s.Snapshot().Alive())

	require.NoError(t, s.Step())
	assert.Equal(t, blinker, s.Snapshot().Alive())
}

func TestReset(t *testing.T) {
	var ticks atomic.Int64
	s := newTestSimulation(t,
		WithSeed(blinker...),
		WithRate(1000),
		WithTickHook(func(uint64, *model.CellMap) { ticks.Add(1) }),
	)

	// from Stopped
	require.NoError(t, s.Step())
	s.Reset()
	assert.Equal(t, uint64(0), s.Generation())
	assert.Equal(t, 0, s.Snapshot().Len())

	// from Running
	require.NoError(t, s.Fill(blinker))
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return ticks.Load() > 2 }, 2*time.Second, time.Millisecond)

	s.Reset()
	assert.Equal(t, Stopped, s.State())
	assert.Equal(t, uint64(0), s.Generation())

	stoppedAt := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stoppedAt, ticks.Load())
	assert.Equal(t, 0, s.Snapshot().Len())

	assert.True(t, errors.Is(s.Stop(), ErrNotRunning))
}

func TestSetRate_Invalid(t *testing.T) {
	s := newTestSimulation(t)

	for _, tps := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1), 1e300, 1e-12, math.SmallestNonzeroFloat64} {
		assert.True(t, errors.Is(s.SetRate(tps), ErrInvalidRate), "tps=%v", tps)
	}
	assert.Equal(t, float64(DefaultTicksPerSecond), s.Rate())
}

func TestSetRate_WhileRunning(t *testing.T) {
	var ticks atomic.Int64
	s := newTestSimulation(t,
		WithSeed(blinker...),
		WithRate(0.001),
		WithTickHook(func(uint64, *model.CellMap) { ticks.Add(1) }),
	)

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(10 * time.Millisecond)
	require.Zero(t, ticks.Load(), "a 1000s period should not have ticked yet")

	require.NoError(t, s.SetRate(1000))
	assert.Equal(t, float64(1000), s.Rate())
	require.Eventually(t, func() bool { return ticks.Load() > 3 }, 2*time.Second, time.Millisecond)

	require.NoError(t, s.Stop())
	assert.Equal(t, uint64(ticks.Load()), s.Generation(), "every tick produced exactly one generation")
}

func TestSetRate_WhileStopped(t *testing.T) {
	s := newTestSimulation(t)
	require.NoError(t, s.SetRate(60))
	assert.Equal(t, float64(60), s.Rate())
	assert.Equal(t, Stopped, s.State())
}

func TestStart_ContextCancel(t *testing.T) {
	s := newTestSimulation(t, WithSeed(blinker...), WithRate(100))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	require.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, time.Millisecond)
	require.NoError(t, s.SetCell(model.C(5, 5), true))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
}

func TestFrame(t *testing.T) {
	s := newTestSimulation(t, WithSeed(blinker...))
	require.NoError(t, s.Step())

	gen, cells := s.Frame()
	assert.Equal(t, uint64(1), gen)
	assert.Same(t, s.Snapshot(), cells)

	require.NoError(t, s.SetCell(model.C(8, 8), true))
	gen, _ = s.Frame()
	assert.Equal(t, uint64(1), gen, "edits keep the generation number")
}

func TestGenerationLimit(t *testing.T) {
	var ticks atomic.Int64
	s := newTestSimulation(t,
		WithSeed(blinker...),
		WithRate(1000),
		WithGenerationLimit(3),
		WithTickHook(func(uint64, *model.CellMap) { ticks.Add(1) }),
	)

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, uint64(3), s.Generation())
	assert.Equal(t, int64(3), ticks.Load())
	assert.Equal(t, []model.Coordinate{model.C(0, 1), model.C(1, 1), model.C(2, 1)}, s.Snapshot().Alive())
	assert.True(t, errors.Is(s.Stop(), ErrNotRunning))

	// starting at the cap exits straight away
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, time.Millisecond)
	assert.Equal(t, uint64(3), s.Generation())

	// manual steps ignore the cap
	require.NoError(t, s.Step())
	assert.Equal(t, uint64(4), s.Generation())
}

func TestStop_AfterTickerExited(t *testing.T) {
	s := newTestSimulation(t, WithSeed(blinker...), WithRate(100))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	assert.True(t, errors.Is(s.Stop(), ErrNotRunning))
	assert.Equal(t, Stopped, s.State())
}
