package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/simulation"
	"github.com/sheikhrachel/go-life/utils"
)

const (
	patternRandom = "random"

	defaultRenderInterval = time.Second / 30
)

// seedCells builds the initial living cells from the config: literal cells
// first, then a named pattern centred in the viewport, or random life
func seedCells(config utils.Config, r *rand.Rand) ([]model.Coordinate, error) {
	if strings.TrimSpace(config.Cells) != "" {
		return model.ParseCoordinates(config.Cells)
	}
	if strings.EqualFold(config.Pattern, patternRandom) {
		return model.RandomCells(r, config.Width, config.Height, config.RandomDensity), nil
	}

	cells, err := model.Pattern(config.Pattern)
	if err != nil {
		return nil, err
	}
	b, ok := model.NewCellMap(cells...).Bounds()
	if !ok {
		return cells, nil
	}
	return model.Offset(cells, config.Width/2-b.Width()/2-b.MinX, config.Height/2-b.Height()/2-b.MinY), nil
}

// stepCells advances seed n generations with the configured representation
func stepCells(seed []model.Coordinate, n int, config utils.Config) []model.Coordinate {
	if config.UseDenseGrid {
		var pool *model.GridPool
		if config.UseMemoryPool {
			pool = model.NewGridPool()
		}
		grid := model.GridFromCellMap(model.NewCellMap(seed...), config.Width, config.Height)
		for range n {
			next := grid.NextGeneration(config.UseBoundedGrid, pool)
			pool.Release(grid)
			grid = next
		}
		return grid.ToCellMap().Alive()
	}

	cells := model.NewCellMap(seed...)
	for range n {
		cells = model.NextGeneration(cells)
	}
	return cells.Alive()
}

// printCells writes one "x,y" line per living cell
func printCells(w io.Writer, generation int, cells []model.Coordinate) {
	fmt.Fprintf(w, "# generation %d, %d living cells\n", generation, len(cells))
	for _, c := range cells {
		fmt.Fprintln(w, c)
	}
}

// serveMetrics exposes the Prometheus registry until ctx is done
func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", slog.String("addr", addr), slog.Any("error", err))
	}
}

// gameStatus classifies the current generation and records it in history
func gameStatus(history *model.History, cells *model.CellMap, population int) (string, bool) {
	isStagnant := history.IsStagnant(cells)
	history.Record(cells)

	switch {
	case population == 0:
		return "Extinct", isStagnant
	case isStagnant:
		return "Stagnant", true
	default:
		return "Active", false
	}
}

// displayGameStatus shows the current game status
func displayGameStatus(w io.Writer, generation uint64, status string, stats *utils.Stats, lastRestartGen uint64) {
	fmt.Fprintf(w, "Gen: %d | Living: %d | Status: %s | Bounding box: %d cells\n",
		generation, stats.Population, status, stats.BoundingBoxSize)
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
	if generation > lastRestartGen && lastRestartGen > 0 {
		fmt.Fprintf(w, "Generations since restart: %d\n", generation-lastRestartGen)
	}
	fmt.Fprintln(w)
}

// displayFinalStats summarises the session on shutdown
func displayFinalStats(w io.Writer, stats *utils.Stats) {
	fmt.Fprintln(w, "\n🛑 Shutting down gracefully...")
	fmt.Fprintf(w, "Final stats: %d generations in %.1f seconds\n",
		stats.TotalGenerations, stats.Runtime().Seconds())
	fmt.Fprintf(w, "Average: %.1f gen/sec, %.1f avg population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation)
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

func reachedMaxGenerations(generation uint64, config utils.Config) bool {
	return config.MaxGenerations > 0 && generation >= uint64(config.MaxGenerations)
}

func renderInterval(config utils.Config) time.Duration {
	if d := config.RenderInterval(); d > 0 {
		return d
	}
	return defaultRenderInterval
}

// runSparse runs the unbounded simulation, redrawing on its own cadence
func runSparse(ctx context.Context, out io.Writer, config utils.Config, r *rand.Rand, logger *slog.Logger) error {
	seed, err := seedCells(config, r)
	if err != nil {
		return err
	}
	sim, err := simulation.New(
		simulation.WithSeed(seed...),
		simulation.WithRate(config.TicksPerSecond),
		simulation.WithGenerationLimit(uint64(config.MaxGenerations)),
		simulation.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	renderer := model.NewTerminalRenderer(config.Width, config.Height)
	renderer.Out = out
	if b, ok := sim.Snapshot().Bounds(); ok {
		renderer.Center(b)
	}
	stats := utils.NewStats()
	history := model.NewHistory(0)

	if err = sim.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if sim.IsRunning() {
			_ = sim.Stop()
		}
	}()

	frames := time.NewTicker(renderInterval(config))
	defer frames.Stop()

	var (
		lastGen       uint64
		stagnantCount int
		status        = "Active"
	)
	for {
		select {
		case <-ctx.Done():
			displayFinalStats(out, stats)
			return nil
		case <-frames.C:
		}

		gen, cells := sim.Frame()
		population := cells.Population()
		stats.Update(gen, population, time.Now())
		if b, ok := cells.Bounds(); ok {
			stats.BoundingBoxSize = b.Width() * b.Height()
		} else {
			stats.BoundingBoxSize = 0
		}

		if gen != lastGen {
			var isStagnant bool
			status, isStagnant = gameStatus(history, cells, population)
			if isStagnant {
				stagnantCount++
			} else {
				stagnantCount = 0
			}
			lastGen = gen
		}

		renderer.Clear()
		// generation numbers restart from zero after Reset
		displayGameStatus(out, gen, status, stats, 0)
		renderer.Display(cells)

		// the ticker stops itself at the cap, so this frame shows exactly the cap
		if reachedMaxGenerations(gen, config) {
			fmt.Fprintf(out, "\n🏁 Reached maximum generations limit (%d)\n", config.MaxGenerations)
			return nil
		}

		shouldRestart, reason := checkRestartConditions(population, stagnantCount, config)
		if !shouldRestart || !config.AutoRestart {
			continue
		}

		logger.Info("restarting simulation", slog.String("reason", reason), slog.Uint64("generation", gen))
		if err = restartSparse(ctx, sim, config, r); err != nil {
			return err
		}
		history.Reset()
		stagnantCount = 0
		lastGen = 0
		status = "Active"
	}
}

// restartSparse reseeds a running simulation
func restartSparse(ctx context.Context, sim *simulation.Simulation, config utils.Config, r *rand.Rand) error {
	seed, err := seedCells(config, r)
	if err != nil {
		return err
	}
	sim.Reset()
	if err = sim.Fill(seed); err != nil {
		return err
	}
	return sim.Start(ctx)
}

// runDense runs the bounded grid loop, one frame per generation
func runDense(ctx context.Context, out io.Writer, config utils.Config, r *rand.Rand, logger *slog.Logger) error {
	seed, err := seedCells(config, r)
	if err != nil {
		return err
	}
	interval := config.TickInterval()
	if interval <= 0 {
		return errors.Errorf("[runDense] ticks_per_second must be positive, got %v", config.TicksPerSecond)
	}

	var pool *model.GridPool
	if config.UseMemoryPool {
		pool = model.NewGridPool()
	}
	grid := model.GridFromCellMap(model.NewCellMap(seed...), config.Width, config.Height)
	renderer := model.NewTerminalRenderer(config.Width, config.Height)
	renderer.Out = out
	stats := utils.NewStats()
	history := model.NewHistory(0)

	logger.Info("dense grid started",
		slog.Int("width", config.Width),
		slog.Int("height", config.Height),
		slog.Bool("bounded", config.UseBoundedGrid),
		slog.Bool("memory_pool", config.UseMemoryPool))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		generation     uint64
		lastRestartGen uint64
		stagnantCount  int
	)
	for {
		cells := grid.ToCellMap()
		population := cells.Population()
		stats.Update(generation, population, time.Now())
		stats.BoundingBoxSize = grid.GetBoundingBoxSize()

		status, isStagnant := gameStatus(history, cells, population)
		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		renderer.Clear()
		displayGameStatus(out, generation, status, stats, lastRestartGen)
		renderer.Display(grid)

		if reachedMaxGenerations(generation, config) {
			fmt.Fprintf(out, "\n🏁 Reached maximum generations limit (%d)\n", config.MaxGenerations)
			pool.Release(grid)
			return nil
		}

		if shouldRestart, reason := checkRestartConditions(population, stagnantCount, config); shouldRestart && config.AutoRestart {
			logger.Info("restarting dense grid", slog.String("reason", reason), slog.Uint64("generation", generation))
			if seed, err = seedCells(config, r); err != nil {
				return err
			}
			pool.Release(grid)
			grid = model.GridFromCellMap(model.NewCellMap(seed...), config.Width, config.Height)
			history.Reset()
			lastRestartGen = generation
			stagnantCount = 0
		}

		select {
		case <-ctx.Done():
			displayFinalStats(out, stats)
			pool.Release(grid)
			return nil
		case <-ticker.C:
		}

		next := grid.NextGeneration(config.UseBoundedGrid, pool)
		pool.Release(grid)
		grid = next
		generation++
	}
}
