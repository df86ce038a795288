// Package sim is a headless stand-in for the rendering game process. It
// reproduces the observable game behavior (camera orbit, pyramid
// rotation, alignment checks, win detection) so the transport can be
// driven end to end without a 3D engine.
package sim

import (
	"math"

	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
)

// Tuning constants. Rotation and zoom speeds are per tick at 60 Hz, as
// in the reference game.
const (
	RotationSpeed = 0.05 // radians per tick while a rotate flag is held
	ZoomSpeed     = 0.10 // radius units per tick while a zoom flag is held

	MinCameraRadius     = 5.0
	MaxCameraRadius     = 20.0
	InitialCameraRadius = 8.0
	CameraHeight        = 0.5

	// WinThreshold is the cosine alignment the target door must exceed.
	WinThreshold = 0.9

	// DoorAnimationTicks is the door animation length; checks are
	// rejected while an animation is running.
	DoorAnimationTicks = 60

	// Door counts per pyramid type. Type1 carries two doors per face.
	DoorsType1 = 6
	DoorsType2 = 3
)

// Simulation holds one round of headless game state. It is not safe for
// concurrent use; the runner drives it from a single tick loop.
type Simulation struct {
	tickRate int

	cfg   shm.Config
	doors int

	yaw    float64 // pyramid yaw in radians
	radius float64 // camera orbit radius

	frame     uint64
	elapsed   float64
	attempts  uint32
	alignment *float32

	animTicks int
	won       bool
	winTime   *float32
	blanked   bool
	paused    bool
}

// New returns a simulation paced at tickRate Hz, running the default
// trial until a reset supplies a real config.
func New(tickRate int) *Simulation {
	s := &Simulation{tickRate: tickRate}
	s.Apply(defaultConfig())
	return s
}

// Apply resets the round to a new configuration: frame counter, timer,
// attempts, alignment, and win state all restart. The camera radius is
// reset too, mirroring the reference game's persistent-camera re-pose.
func (s *Simulation) Apply(cfg shm.Config) {
	s.cfg = cfg
	s.doors = DoorsType1
	if cfg.PyramidType == shm.PyramidType2 {
		s.doors = DoorsType2
	}

	s.yaw = 0
	s.radius = InitialCameraRadius
	s.frame = 0
	s.elapsed = 0
	s.attempts = 0
	s.alignment = nil
	s.animTicks = 0
	s.won = false
	s.winTime = nil
	s.blanked = false
}

// Step advances one tick under the given command frame. One-shot flags
// in the frame have already been consumed from the mailbox; a trigger
// that arrives while rendering is paused is dropped, as in the
// reference game.
func (s *Simulation) Step(f shm.CommandFrame) {
	s.frame++
	s.elapsed += 1.0 / float64(s.tickRate)

	// Rendering control works even while paused.
	if f.StopRendering {
		s.paused = true
	}
	if f.ResumeRendering {
		s.paused = false
	}
	if f.BlankScreen && !s.paused {
		s.blanked = !s.blanked
	}

	if s.animTicks > 0 {
		s.animTicks--
	}

	if s.paused {
		return
	}

	if f.RotateLeft {
		s.yaw -= RotationSpeed
	}
	if f.RotateRight {
		s.yaw += RotationSpeed
	}
	if f.ZoomIn {
		s.radius -= ZoomSpeed
	}
	if f.ZoomOut {
		s.radius += ZoomSpeed
	}
	s.radius = clamp(s.radius, MinCameraRadius, MaxCameraRadius)

	if f.CheckAlignment && s.animTicks == 0 && !s.won {
		s.checkAlignment()
	}
}

// checkAlignment scores every door against the camera direction and
// decides the round. The best-aligned door must be the target and
// exceed the threshold; the published alignment is always the target
// door's score, win or lose.
func (s *Simulation) checkAlignment() {
	s.attempts++
	s.animTicks = DoorAnimationTicks

	best := -1.0
	bestDoor := -1
	targetScore := -1.0

	for door := 0; door < s.doors; door++ {
		score := s.doorAlignment(door)
		if score > best {
			best = score
			bestDoor = door
		}
		if door == int(s.cfg.TargetDoor) {
			targetScore = score
		}
	}

	score := float32(targetScore)
	s.alignment = &score

	if bestDoor == int(s.cfg.TargetDoor) && best > WinThreshold {
		s.won = true
		t := float32(s.elapsed)
		s.winTime = &t
	}
}

// doorAlignment is the cosine between the door's outward normal and the
// camera direction, both projected to the XZ plane. Door 0 faces the
// camera exactly when yaw plus the start orientation is zero.
func (s *Simulation) doorAlignment(door int) float64 {
	increment := 2 * math.Pi / float64(s.doors)
	angle := s.yaw + float64(s.cfg.StartOrient) + float64(door)*increment
	return math.Cos(angle)
}

// Telemetry snapshots the current state for publication.
func (s *Simulation) Telemetry() shm.Telemetry {
	phase := shm.PhasePlaying
	if s.won {
		phase = shm.PhaseWon
	}
	return shm.Telemetry{
		Phase:        phase,
		FrameNumber:  s.frame,
		ElapsedSecs:  float32(s.elapsed),
		CameraRadius: float32(s.radius),
		CameraX:      0,
		CameraY:      CameraHeight,
		CameraZ:      float32(s.radius),
		PyramidYaw:   float32(s.yaw),
		Attempts:     s.attempts,
		Alignment:    s.alignment,
		IsAnimating:  s.animTicks > 0,
		HasWon:       s.won,
		WinTime:      s.winTime,
	}
}

// Paused reports whether rendering is paused.
func (s *Simulation) Paused() bool {
	return s.paused
}

// Blanked reports whether the blank-screen overlay is active.
func (s *Simulation) Blanked() bool {
	return s.blanked
}

// Won reports whether the current round has been won.
func (s *Simulation) Won() bool {
	return s.won
}

func defaultConfig() shm.Config {
	return shm.Config{
		Seed:        69,
		PyramidType: shm.PyramidType1,
		BaseRadius:  2.5,
		Height:      4.0,
		StartOrient: 0.0,
		TargetDoor:  5,
		Colors: [][]float32{
			{1.0, 0.2, 0.2, 1.0},
			{0.2, 0.5, 1.0, 1.0},
			{0.2, 1.0, 0.3, 1.0},
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
