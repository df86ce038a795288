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
	"errors"
	"math"
	"testing"
)

func TestOneShotClearedOnRead(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "oneshot")

	ctrl.WriteCommands(CommandFrame{CheckAlignment: true})

	first := game.PollCommands()
	if !first.CheckAlignment {
		t.Fatal("first poll did not observe check_alignment")
	}

	// Second poll with no intervening write observes it cleared.
	second := game.PollCommands()
	if second.CheckAlignment {
		t.Error("second poll re-observed check_alignment")
	}
}

func TestAllOneShotsConsumeIndependently(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "triggers")

	ctrl.WriteCommands(CommandFrame{
		CheckAlignment:  true,
		BlankScreen:     true,
		StopRendering:   true,
		ResumeRendering: true,
	})

	f := game.PollCommands()
	if !f.CheckAlignment || !f.BlankScreen || !f.StopRendering || !f.ResumeRendering {
		t.Fatalf("triggers lost: %+v", f)
	}

	f = game.PollCommands()
	if f.CheckAlignment || f.BlankScreen || f.StopRendering || f.ResumeRendering {
		t.Errorf("triggers re-observed: %+v", f)
	}
}

func TestContinuousNotSticky(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "continuous")

	ctrl.WriteCommands(CommandFrame{RotateLeft: true})
	if f := game.PollCommands(); !f.RotateLeft {
		t.Fatal("rotate_left not observed while held")
	}

	// Polling does not clear continuous flags.
	if f := game.PollCommands(); !f.RotateLeft {
		t.Error("rotate_left cleared by poll")
	}

	// An explicit false write releases it.
	ctrl.WriteCommands(CommandFrame{RotateLeft: false})
	if f := game.PollCommands(); f.RotateLeft {
		t.Error("rotate_left stuck after release")
	}
}

func TestWriteConfigInvalidShape(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "shape")

	bad := []Config{
		{Colors: nil},
		{Colors: [][]float32{{1, 1, 1, 1}, {1, 1, 1, 1}}},
		{Colors: [][]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1}}},
		{Colors: [][]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}}},
	}

	for i, cfg := range bad {
		cfg.Seed = 99
		if err := ctrl.WriteConfig(cfg); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("case %d: err = %v, want ErrInvalidShape", i, err)
		}
	}

	// The region stays untouched by rejected writes.
	if got := game.Region().State().Seed(); got != 0 {
		t.Errorf("seed = %d after rejected writes, want 0", got)
	}

	if err := ctrl.TriggerReset(Config{Colors: [][]float32{{1}}}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("TriggerReset with bad shape: err = %v, want ErrInvalidShape", err)
	}
	if ctrl.ResetPending() {
		t.Error("reset raised despite rejected config")
	}
}

func TestResetHandshakeRoundTrip(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "handshake")

	want := testConfig()
	if err := ctrl.TriggerReset(want); err != nil {
		t.Fatalf("TriggerReset failed: %v", err)
	}
	if !ctrl.ResetPending() {
		t.Fatal("reset not pending after TriggerReset")
	}

	got, ok := game.PollReset()
	if !ok {
		t.Fatal("PollReset did not observe the reset")
	}

	if got.Seed != want.Seed ||
		got.PyramidType != want.PyramidType ||
		got.BaseRadius != want.BaseRadius ||
		got.Height != want.Height ||
		got.StartOrient != want.StartOrient ||
		got.TargetDoor != want.TargetDoor {
		t.Errorf("config mismatch: got %+v, want %+v", got, want)
	}
	for face := 0; face < NumFaces; face++ {
		for ch := 0; ch < NumColorChannels; ch++ {
			// Floats must round-trip bit-for-bit.
			if math.Float32bits(got.Colors[face][ch]) != math.Float32bits(want.Colors[face][ch]) {
				t.Errorf("colors[%d][%d] = %v, want %v", face, ch, got.Colors[face][ch], want.Colors[face][ch])
			}
		}
	}

	// Game cleared the flag; the controller observes it.
	if ctrl.ResetPending() {
		t.Error("reset still pending after consumption")
	}
	if _, ok := game.PollReset(); ok {
		t.Error("second PollReset observed a reset")
	}
}

func TestResetLastWriteWins(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "lastwins")

	first := testConfig()
	first.Seed = 1
	if err := ctrl.TriggerReset(first); err != nil {
		t.Fatalf("first TriggerReset failed: %v", err)
	}

	second := testConfig()
	second.Seed = 2
	second.TargetDoor = 1
	if err := ctrl.TriggerReset(second); err != nil {
		t.Fatalf("second TriggerReset failed: %v", err)
	}

	// Exactly one application, carrying the last config.
	got, ok := game.PollReset()
	if !ok {
		t.Fatal("no reset observed")
	}
	if got.Seed != 2 || got.TargetDoor != 1 {
		t.Errorf("got seed=%d door=%d, want the second config", got.Seed, got.TargetDoor)
	}
	if _, ok := game.PollReset(); ok {
		t.Error("double-raise produced two applications")
	}
}

func TestIdempotentClear(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "idemclear")

	// Clearing with nothing pending is a no-op.
	cmd := game.Region().Commands()
	cmd.ClearReset()
	if ctrl.ResetPending() {
		t.Error("clear on cleared flag raised it")
	}

	if err := ctrl.TriggerReset(testConfig()); err != nil {
		t.Fatalf("TriggerReset failed: %v", err)
	}
	if _, ok := game.PollReset(); !ok {
		t.Fatal("reset not observed")
	}
	cmd.ClearReset()
	if ctrl.ResetPending() {
		t.Error("redundant clear had an effect")
	}
}

func TestTelemetryRoundTrip(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "telemetry")

	align := float32(0.87)
	winT := float32(12.5)
	want := Telemetry{
		Phase:        PhaseWon,
		FrameNumber:  4242,
		ElapsedSecs:  33.5,
		CameraRadius: 8.0,
		CameraX:      1.5,
		CameraY:      0.5,
		CameraZ:      7.8,
		PyramidYaw:   -1.25,
		Attempts:     3,
		Alignment:    &align,
		IsAnimating:  true,
		HasWon:       true,
		WinTime:      &winT,
	}

	game.PublishTelemetry(want)
	got := ctrl.ReadTelemetry()

	if got.Phase != want.Phase || got.FrameNumber != want.FrameNumber ||
		got.ElapsedSecs != want.ElapsedSecs || got.CameraRadius != want.CameraRadius ||
		got.CameraX != want.CameraX || got.CameraY != want.CameraY || got.CameraZ != want.CameraZ ||
		got.PyramidYaw != want.PyramidYaw || got.Attempts != want.Attempts ||
		got.IsAnimating != want.IsAnimating || got.HasWon != want.HasWon {
		t.Errorf("telemetry mismatch: got %+v, want %+v", got, want)
	}
	if got.Alignment == nil || *got.Alignment != align {
		t.Error("alignment lost in transport")
	}
	if got.WinTime == nil || *got.WinTime != winT {
		t.Error("win time lost in transport")
	}
}

func TestTelemetrySentinelsDecodeToNil(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "sentinels")

	game.PublishTelemetry(Telemetry{
		Phase:       PhasePlaying,
		FrameNumber: 1,
	})

	got := ctrl.ReadTelemetry()
	if got.Alignment != nil {
		t.Errorf("alignment = %v before any check, want nil", *got.Alignment)
	}
	if got.WinTime != nil {
		t.Errorf("win time = %v before winning, want nil", *got.WinTime)
	}
}

// TestControllerScenario runs the reference end-to-end exchange: config
// write, reset raise, game-side consumption, clear observation.
func TestControllerScenario(t *testing.T) {
	game, ctrl := createTestEndpoints(t, "scenario")

	cfg := testConfig()
	if err := ctrl.TriggerReset(cfg); err != nil {
		t.Fatalf("TriggerReset failed: %v", err)
	}

	got, ok := game.PollReset()
	if !ok {
		t.Fatal("game did not observe reset")
	}
	if got.Seed != 69 || got.PyramidType != PyramidType1 ||
		got.BaseRadius != 2.5 || got.Height != 4.0 || got.StartOrient != 0.0 ||
		got.TargetDoor != 5 {
		t.Errorf("decoded config = %+v", got)
	}
	if got.Colors[0][0] != 1.0 || got.Colors[1][2] != 1.0 || got.Colors[2][1] != 1.0 {
		t.Errorf("decoded colors = %v", got.Colors)
	}

	if ctrl.ResetPending() {
		t.Error("controller still observes reset after game cleared it")
	}
}
