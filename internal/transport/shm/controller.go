/*
 * Copyright 2025 The monkeyshm Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default connect retry policy, matching the reference controller.
const (
	DefaultConnectAttempts = 10
	DefaultConnectInterval = time.Second
)

// Controller is the Controller-process endpoint of the transport. It
// writes the command mailbox and config fields and reads telemetry.
type Controller struct {
	region *Region
}

// Connect attaches to an existing region. Returns ErrRegionNotFound if
// the Game process has not created it yet; use ConnectWithRetry to wait.
func Connect(name string) (*Controller, error) {
	region, err := OpenRegion(name)
	if err != nil {
		return nil, err
	}
	return &Controller{region: region}, nil
}

// ConnectWithRetry attaches to the region, retrying ErrRegionNotFound up
// to attempts times at the given interval. Any other error, or the context
// ending, aborts immediately. Exhausting the attempts is fatal to the
// caller: there is no degraded mode without the transport.
func ConnectWithRetry(ctx context.Context, name string, attempts int, interval time.Duration) (*Controller, error) {
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}
	if interval <= 0 {
		interval = DefaultConnectInterval
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}

		c, err := Connect(name)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrRegionNotFound) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("shm: could not connect after %d attempts (is the game process running?): %w", attempts, lastErr)
}

// WriteCommands publishes one tick of input. Continuous flags are stored
// unconditionally, including false, so a released key never sticks.
// Trigger flags are only ever raised here; the Game clears them. The
// Controller owns its own debounce: a trigger must correspond to a fresh
// rising edge of the physical input.
func (c *Controller) WriteCommands(f CommandFrame) {
	cmd := c.region.Commands()

	cmd.SetRotateLeft(f.RotateLeft)
	cmd.SetRotateRight(f.RotateRight)
	cmd.SetZoomIn(f.ZoomIn)
	cmd.SetZoomOut(f.ZoomOut)

	if f.CheckAlignment {
		cmd.RaiseCheckAlignment()
	}
	if f.BlankScreen {
		cmd.RaiseBlankScreen()
	}
	if f.StopRendering {
		cmd.RaiseStopRendering()
	}
	if f.ResumeRendering {
		cmd.RaiseResumeRendering()
	}
	if f.Reset {
		cmd.RaiseReset()
	}
}

// WriteConfig stores the config fields without raising the reset flag.
// Returns ErrInvalidShape, leaving the region untouched, if the color
// matrix is not exactly 3x4.
func (c *Controller) WriteConfig(cfg Config) error {
	if err := validateColors(cfg.Colors); err != nil {
		return err
	}
	storeConfig(c.region.State(), cfg)
	return nil
}

// TriggerReset writes the config fields and then raises the reset flag
// with release ordering, so a Game that observes the flag observes the
// whole config. Raising reset again before the Game consumed the previous
// one is last-write-wins on the config; resets are not queued.
func (c *Controller) TriggerReset(cfg Config) error {
	if err := c.WriteConfig(cfg); err != nil {
		return err
	}
	c.region.Commands().RaiseReset()
	return nil
}

// ResetPending reports whether the Game has yet to consume a reset.
func (c *Controller) ResetPending() bool {
	return c.region.Commands().ResetRaised()
}

// ReadTelemetry returns the latest state published by the Game, with
// sentinel floats decoded to nil.
func (c *Controller) ReadTelemetry() Telemetry {
	return loadTelemetry(c.region.State())
}

// ReadConfig returns the config fields currently in the region.
func (c *Controller) ReadConfig() Config {
	return loadConfig(c.region.State())
}

// Region exposes the underlying region, mainly for tests.
func (c *Controller) Region() *Region {
	return c.region
}

// Close unmaps the region. The backing file is left for the Game process.
func (c *Controller) Close() error {
	return c.region.Close()
}
