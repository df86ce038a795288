// controller is the experimenter-facing dashboard. It attaches to a
// running game's shared memory region, streams command frames from the
// keyboard, and displays live telemetry.
//
// Usage:
//
//	controller [--name <region>] [--fps <rate>] [--config <path>]
//	           [--trials <path>] [--db <path>]
//	           [--retries <n>] [--retry-interval <dur>]
//
// Controls:
//
//	Left/Right  - Rotate pyramid
//	Up/Down     - Zoom camera
//	Space       - Check alignment
//	B           - Blank screen
//	P / O       - Pause / resume rendering
//	R           - Next trial
//	Q/Ctrl+C    - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vstrozzi/monkeyshm/internal/config"
	"github.com/vstrozzi/monkeyshm/internal/storage"
	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
	"github.com/vstrozzi/monkeyshm/internal/trials"
	"github.com/vstrozzi/monkeyshm/internal/tui"
)

var (
	flagName          string
	flagFPS           int
	flagConfig        string
	flagTrials        string
	flagDB            string
	flagRetries       int
	flagRetryInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "controller",
	Short: "Drive a running stimulus game over shared memory",
	Long: `controller attaches to the shared memory region created by the game
process and runs an interactive dashboard: held arrow keys rotate and
zoom, space checks door alignment, and r advances the trial schedule.
Trial outcomes are recorded to SQLite unless --db is set to "".

Start the game process first; the controller retries the attach for a
while before giving up.`,
	RunE: runController,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Region name (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate in Hz (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config")
	rootCmd.PersistentFlags().StringVar(&flagTrials, "trials", "", "Path to trials.jsonl schedule")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetries, "retries", 0, "Connect attempts (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&flagRetryInterval, "retry-interval", 0, "Delay between connect attempts")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runController(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagName != "" {
		cfg.Region = flagName
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if flagTrials != "" {
		cfg.TrialsPath = flagTrials
	}
	if cmd.Flags().Changed("db") {
		cfg.ResultsDB = flagDB
	}
	if flagRetries > 0 {
		cfg.ConnectAttempts = flagRetries
	}
	if flagRetryInterval > 0 {
		cfg.ConnectInterval = flagRetryInterval
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "controller",
	})

	schedule, source := trials.LoadOrDefault(cfg.TrialsPath, "trials.jsonl", "../trials.jsonl")
	if source != "" {
		logger.Info("trial schedule loaded", "path", source, "trials", len(schedule))
	} else {
		logger.Info("no trial schedule found, using the built-in default trial")
	}

	ctrl, err := shm.ConnectWithRetry(context.Background(), cfg.Region,
		cfg.ConnectAttempts, cfg.ConnectInterval)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	logger.Info("attached to region", "name", cfg.Region)

	var store *storage.Store
	if cfg.ResultsDB != "" {
		store, err = storage.Open(cfg.ResultsDB)
		if err != nil {
			logger.Warn("could not open results database, recording disabled", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	return tui.Run(ctrl, store, schedule, cfg.Region, cfg.TickRate)
}
