// game runs the headless stimulus game process. It creates the shared
// memory region, then serves command and telemetry traffic at the
// configured tick rate until interrupted.
//
// Usage:
//
//	game [--name <region>] [--fps <rate>] [--config <path>]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vstrozzi/monkeyshm/internal/config"
	"github.com/vstrozzi/monkeyshm/internal/sim"
	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
)

var (
	flagName   string
	flagFPS    int
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "Headless stimulus game over shared memory",
	Long: `game creates the shared memory region and runs the stimulus
simulation, publishing telemetry every tick and reacting to controller
commands. Stop it with Ctrl+C; the region's backing file survives for
post-mortem inspection.`,
	RunE: runGame,
}

func init() {
	rootCmd.Flags().StringVar(&flagName, "name", "", "Region name (overrides config)")
	rootCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate in Hz (overrides config)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGame(cmd *cobra.Command, args []string) error {
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

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "game",
	})

	game, err := shm.CreateGame(cfg.Region)
	if err != nil {
		return fmt.Errorf("cannot create region %q: %w", cfg.Region, err)
	}
	defer game.Close()

	logger.Info("region created",
		"name", cfg.Region,
		"path", game.Region().Path(),
		"tick_rate", cfg.TickRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sim.NewRunner(game, cfg.TickRate, logger).Run(ctx)
}
