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

// Game is the Game-process endpoint of the transport. It creates the
// region, polls the command mailbox and reset handshake each tick, and
// publishes telemetry.
type Game struct {
	region *Region
}

// CreateGame creates the named region and returns the Game endpoint. The
// Game cannot function without the transport, so callers should treat an
// error as fatal.
func CreateGame(name string) (*Game, error) {
	region, err := CreateRegion(name)
	if err != nil {
		return nil, err
	}
	return &Game{region: region}, nil
}

// PollCommands reads one tick of input. Continuous flags are plain loads;
// writes are lost only if the Controller never re-sends them, which it
// does every tick. One-shot triggers are consumed with an atomic swap so
// exactly one tick observes each, regardless of tick rate differences
// between the two processes. The reset flag is left untouched; it belongs
// to PollReset.
func (g *Game) PollCommands() CommandFrame {
	cmd := g.region.Commands()
	return CommandFrame{
		RotateLeft:      cmd.RotateLeft(),
		RotateRight:     cmd.RotateRight(),
		ZoomIn:          cmd.ZoomIn(),
		ZoomOut:         cmd.ZoomOut(),
		CheckAlignment:  cmd.ConsumeCheckAlignment(),
		BlankScreen:     cmd.ConsumeBlankScreen(),
		StopRendering:   cmd.ConsumeStopRendering(),
		ResumeRendering: cmd.ConsumeResumeRendering(),
	}
}

// PollReset checks the reset handshake. If a reset is pending it reads
// the config (visible in full, thanks to the acquire load pairing with
// the Controller's release store), clears the flag with release ordering,
// and returns the config with ok=true. Otherwise returns ok=false.
func (g *Game) PollReset() (Config, bool) {
	cmd := g.region.Commands()
	if !cmd.ResetRaised() {
		return Config{}, false
	}
	cfg := loadConfig(g.region.State())
	cmd.ClearReset()
	return cfg, true
}

// PublishTelemetry writes the per-tick state fields, encoding nil
// Alignment and WinTime as their sentinels.
func (g *Game) PublishTelemetry(t Telemetry) {
	storeTelemetry(g.region.State(), t)
}

// Region exposes the underlying region, mainly for tests.
func (g *Game) Region() *Region {
	return g.region
}

// Close unmaps the region, leaving the backing file in place for
// postmortem inspection or a late-attaching Controller.
func (g *Game) Close() error {
	return g.region.Close()
}
