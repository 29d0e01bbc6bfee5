package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

var defaultConfigFiles = []string{"config.json", "config.yaml", "config.yml"}

// cliFlags holds flag values shared by the commands
type cliFlags struct {
	configPath  string
	pattern     string
	cells       string
	tps         float64
	generations int
	width       int
	height      int
	dense       bool
	metricsAddr string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:          "golife",
		Short:        "Conway's Game of Life on an unbounded plane",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "JSON or YAML config file (default: config.json/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flags.pattern, "pattern", "", "built-in seed pattern, or \"random\"")
	rootCmd.PersistentFlags().StringVar(&flags.cells, "cells", "", "literal seed cells, e.g. \"1,0 1,1 1,2\"")
	rootCmd.PersistentFlags().BoolVar(&flags.dense, "dense", false, "use the bounded dense grid instead of the unbounded store")
	rootCmd.PersistentFlags().IntVar(&flags.width, "width", 0, "viewport (and dense grid) width in cells")
	rootCmd.PersistentFlags().IntVar(&flags.height, "height", 0, "viewport (and dense grid) height in cells")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the simulation in the terminal until Ctrl+C",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger := newLogger(config, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if config.MetricsAddr != "" {
				go serveMetrics(ctx, config.MetricsAddr, logger)
			}

			r := rand.New(rand.NewSource(time.Now().UnixNano()))
			if config.UseDenseGrid {
				return runDense(ctx, cmd.OutOrStdout(), config, r, logger)
			}
			return runSparse(ctx, cmd.OutOrStdout(), config, r, logger)
		},
	}
	runCmd.Flags().Float64Var(&flags.tps, "tps", 0, "generations per second")
	runCmd.Flags().IntVar(&flags.generations, "generations", 0, "stop after this many generations (0 = unlimited)")
	runCmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "Advance the seed a number of generations and print the living cells",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("count")
			if n < 0 {
				return errors.Errorf("[step] count must not be negative, got %d", n)
			}

			r := rand.New(rand.NewSource(time.Now().UnixNano()))
			seed, err := seedCells(config, r)
			if err != nil {
				return err
			}

			cells := stepCells(seed, n, config)
			printCells(cmd.OutOrStdout(), n, cells)
			return nil
		},
	}
	stepCmd.Flags().IntP("count", "n", 1, "number of generations to compute")

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in seed patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range model.PatternNames() {
				cells, err := model.Pattern(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %d cells\n", name, len(cells))
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, stepCmd, patternsCmd)
	rootCmd.SetContext(context.Background())
	return rootCmd
}

// resolveConfig loads the config file and applies flag overrides
func resolveConfig(cmd *cobra.Command, flags *cliFlags) (utils.Config, error) {
	config, err := loadConfig(cmd, flags.configPath)
	if err != nil {
		return config, err
	}

	changed := cmd.Flags().Changed
	if changed("pattern") {
		config.Pattern = flags.pattern
		config.Cells = ""
	}
	if changed("cells") {
		config.Cells = flags.cells
	}
	if changed("dense") {
		config.UseDenseGrid = flags.dense
	}
	if changed("width") {
		config.Width = flags.width
	}
	if changed("height") {
		config.Height = flags.height
	}
	if changed("log-level") {
		config.LogLevel = flags.logLevel
	}
	if changed("tps") {
		config.TicksPerSecond = flags.tps
	}
	if changed("generations") {
		config.MaxGenerations = flags.generations
	}
	if changed("metrics-addr") {
		config.MetricsAddr = flags.metricsAddr
	}
	return config, config.Validate()
}

// loadConfig reads an explicit config file, or the first default file that exists
func loadConfig(cmd *cobra.Command, path string) (utils.Config, error) {
	if path != "" {
		return utils.LoadConfig(path)
	}
	for _, candidate := range defaultConfigFiles {
		if _, err := os.Stat(candidate); err == nil {
			return utils.LoadConfig(candidate)
		}
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using default configuration (config.json not found)")
	return utils.DefaultConfig(), nil
}

// newLogger builds the text logger used by the simulation
func newLogger(config utils.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.SlogLevel()}))
}
