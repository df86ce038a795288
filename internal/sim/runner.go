package sim

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
)

// Runner owns the game-side tick loop: poll the command mailbox, apply
// any pending reset, step the simulation, publish telemetry.
type Runner struct {
	game   *shm.Game
	sim    *Simulation
	logger *log.Logger
	tick   time.Duration
}

// NewRunner wires a runner to an existing game endpoint at tickRate Hz.
func NewRunner(game *shm.Game, tickRate int, logger *log.Logger) *Runner {
	return &Runner{
		game:   game,
		sim:    New(tickRate),
		logger: logger,
		tick:   time.Second / time.Duration(tickRate),
	}
}

// Simulation exposes the driven simulation, mainly for tests.
func (r *Runner) Simulation() *Simulation {
	return r.sim
}

// Run drives the loop until the context is cancelled. The final
// telemetry stays visible in the region after return; closing the
// endpoint is the caller's job.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("game loop stopped")
			return nil
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step runs a single tick. Drained commands step the outgoing round
// first; a pending reset is applied after, so triggers raised ahead of
// a reset never leak into the incoming round and the first telemetry
// published after a reset is the fresh round's.
func (r *Runner) Step() {
	frame := r.game.PollCommands()

	wasPaused := r.sim.Paused()
	hadWon := r.sim.Won()

	r.sim.Step(frame)

	if paused := r.sim.Paused(); paused != wasPaused {
		if paused {
			r.logger.Info("rendering paused")
		} else {
			r.logger.Info("rendering resumed")
		}
	}
	if r.sim.Won() && !hadWon {
		tel := r.sim.Telemetry()
		r.logger.Info("round won",
			"attempts", tel.Attempts,
			"elapsed_secs", tel.ElapsedSecs)
	}

	if cfg, ok := r.game.PollReset(); ok {
		r.sim.Apply(cfg)
		r.logger.Info("reset applied",
			"seed", cfg.Seed,
			"pyramid_type", cfg.PyramidType,
			"target_door", cfg.TargetDoor)
	}

	r.game.PublishTelemetry(r.sim.Telemetry())
}
