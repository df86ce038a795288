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

import "math"

// PyramidType enumerates the pyramid shapes.
type PyramidType uint32

const (
	PyramidType1 PyramidType = 0
	PyramidType2 PyramidType = 1
)

// Phase enumerates the game phases visible over the transport.
type Phase uint32

const (
	PhasePlaying Phase = 0
	PhaseWon     Phase = 1
)

// NumFaces and NumColorChannels fix the shape of a config color matrix.
const (
	NumFaces         = 3
	NumColorChannels = 4
)

// CommandFrame is one tick's worth of Controller input. Continuous flags
// mirror the currently-held inputs; trigger flags are rising edges the
// Controller detected this tick. On the Game side, PollCommands returns a
// frame whose trigger flags have already been consumed.
type CommandFrame struct {
	// Continuous (level triggered, re-sent every tick).
	RotateLeft  bool
	RotateRight bool
	ZoomIn      bool
	ZoomOut     bool

	// One-shot triggers (edge triggered, consumed by the Game).
	CheckAlignment  bool
	BlankScreen     bool
	StopRendering   bool
	ResumeRendering bool

	// Reset handshake flag. Prefer Controller.TriggerReset, which orders
	// the flag after the config writes.
	Reset bool
}

// Config is a trial configuration transferred through the reset handshake.
type Config struct {
	Seed        uint64
	PyramidType PyramidType
	BaseRadius  float32
	Height      float32
	StartOrient float32
	TargetDoor  uint32
	// Colors is face-major RGBA and must be exactly 3 rows of 4 values.
	Colors [][]float32
}

// Telemetry is the per-tick state published by the Game. Alignment is nil
// until the first check of a round; WinTime is nil until the player wins.
type Telemetry struct {
	Phase        Phase
	FrameNumber  uint64
	ElapsedSecs  float32
	CameraRadius float32
	CameraX      float32
	CameraY      float32
	CameraZ      float32
	PyramidYaw   float32
	Attempts     uint32
	Alignment    *float32
	IsAnimating  bool
	HasWon       bool
	WinTime      *float32
}

// validateColors checks the 3x4 shape of a config color matrix.
func validateColors(colors [][]float32) error {
	if len(colors) != NumFaces {
		return ErrInvalidShape
	}
	for _, face := range colors {
		if len(face) != NumColorChannels {
			return ErrInvalidShape
		}
	}
	return nil
}

// storeConfig writes every config field with relaxed ordering. The caller
// is responsible for publishing them via the reset flag's release store.
func storeConfig(gs *GameState, cfg Config) {
	gs.SetSeed(cfg.Seed)
	gs.SetPyramidType(uint32(cfg.PyramidType))
	gs.SetBaseRadius(cfg.BaseRadius)
	gs.SetHeight(cfg.Height)
	gs.SetStartOrient(cfg.StartOrient)
	gs.SetTargetDoor(cfg.TargetDoor)
	for face := 0; face < NumFaces; face++ {
		for ch := 0; ch < NumColorChannels; ch++ {
			gs.SetColor(face*NumColorChannels+ch, cfg.Colors[face][ch])
		}
	}
}

// loadConfig reads the config fields back into a Config.
func loadConfig(gs *GameState) Config {
	cfg := Config{
		Seed:        gs.Seed(),
		PyramidType: PyramidType(gs.PyramidType()),
		BaseRadius:  gs.BaseRadius(),
		Height:      gs.Height(),
		StartOrient: gs.StartOrient(),
		TargetDoor:  gs.TargetDoor(),
		Colors:      make([][]float32, NumFaces),
	}
	for face := 0; face < NumFaces; face++ {
		cfg.Colors[face] = make([]float32, NumColorChannels)
		for ch := 0; ch < NumColorChannels; ch++ {
			cfg.Colors[face][ch] = gs.Color(face*NumColorChannels + ch)
		}
	}
	return cfg
}

// storeTelemetry writes every state field with relaxed ordering.
func storeTelemetry(gs *GameState, t Telemetry) {
	gs.SetPhase(uint32(t.Phase))
	gs.SetFrameNumber(t.FrameNumber)
	gs.SetElapsedSecs(t.ElapsedSecs)
	gs.SetCameraRadius(t.CameraRadius)
	gs.SetCameraX(t.CameraX)
	gs.SetCameraY(t.CameraY)
	gs.SetCameraZ(t.CameraZ)
	gs.SetPyramidYaw(t.PyramidYaw)
	gs.SetAttempts(t.Attempts)
	gs.SetAlignmentBits(encodeAlignment(t.Alignment))
	gs.SetIsAnimating(t.IsAnimating)
	gs.SetHasWon(t.HasWon)
	gs.SetWinTimeBits(encodeWinTime(t.WinTime))
}

// loadTelemetry reads the state fields back, decoding sentinels.
func loadTelemetry(gs *GameState) Telemetry {
	return Telemetry{
		Phase:        Phase(gs.Phase()),
		FrameNumber:  gs.FrameNumber(),
		ElapsedSecs:  gs.ElapsedSecs(),
		CameraRadius: gs.CameraRadius(),
		CameraX:      gs.CameraX(),
		CameraY:      gs.CameraY(),
		CameraZ:      gs.CameraZ(),
		PyramidYaw:   gs.PyramidYaw(),
		Attempts:     gs.Attempts(),
		Alignment:    decodeAlignment(gs.AlignmentBits()),
		IsAnimating:  gs.IsAnimating(),
		HasWon:       gs.HasWon(),
		WinTime:      decodeWinTime(gs.WinTimeBits()),
	}
}

// encodeAlignment encodes an optional cosine alignment. The legal domain
// is [-1, 1], so the 2.0 sentinel can never collide with a real value.
func encodeAlignment(v *float32) uint32 {
	if v == nil {
		return math.Float32bits(AlignmentNone)
	}
	return math.Float32bits(*v)
}

// decodeAlignment maps the sentinel back to nil. Anything above 1.5 is
// outside the cosine domain and treated as absent.
func decodeAlignment(bits uint32) *float32 {
	v := math.Float32frombits(bits)
	if v > 1.5 {
		return nil
	}
	return &v
}

// encodeWinTime encodes an optional win time; 0.0 means "not yet won".
func encodeWinTime(v *float32) uint32 {
	if v == nil {
		return math.Float32bits(WinTimeNone)
	}
	return math.Float32bits(*v)
}

// decodeWinTime maps near-zero win times back to nil.
func decodeWinTime(bits uint32) *float32 {
	v := math.Float32frombits(bits)
	if v <= 0.001 {
		return nil
	}
	return &v
}
