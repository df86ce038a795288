package tui

import (
	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
)

// Action is a controller input decoded from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionRotateLeft
	ActionRotateRight
	ActionZoomIn
	ActionZoomOut
	ActionCheck
	ActionBlank
	ActionPause
	ActionResume
	ActionNextTrial
	ActionQuit
)

// Hold and debounce windows in ticks. Terminals report key repeats, not
// releases, so a held key is one that repeated within the hold window;
// one-shots suppress those same repeats inside the debounce window.
const (
	holdTicks     = 10
	debounceTicks = 15
)

// InputState turns terminal key events into per-tick command frames. It
// is driven from the Bubble Tea update loop and is not safe for
// concurrent use.
type InputState struct {
	held     map[Action]int
	cooldown map[Action]int
	pending  map[Action]bool
}

func NewInputState() *InputState {
	return &InputState{
		held:     make(map[Action]int),
		cooldown: make(map[Action]int),
		pending:  make(map[Action]bool),
	}
}

// Press records a key event. Continuous actions refresh their hold
// window; one-shots latch for the next frame unless still inside their
// debounce window.
func (in *InputState) Press(a Action) {
	switch a {
	case ActionRotateLeft, ActionRotateRight, ActionZoomIn, ActionZoomOut:
		in.held[a] = holdTicks
	case ActionCheck, ActionBlank, ActionPause, ActionResume:
		if in.cooldown[a] == 0 {
			in.pending[a] = true
			in.cooldown[a] = debounceTicks
		}
	}
}

// Frame advances one tick and returns the command frame to publish:
// continuous flags for keys still inside their hold window, one-shot
// flags latched since the previous frame.
func (in *InputState) Frame() shm.CommandFrame {
	f := shm.CommandFrame{
		RotateLeft:  in.held[ActionRotateLeft] > 0,
		RotateRight: in.held[ActionRotateRight] > 0,
		ZoomIn:      in.held[ActionZoomIn] > 0,
		ZoomOut:     in.held[ActionZoomOut] > 0,

		CheckAlignment:  in.pending[ActionCheck],
		BlankScreen:     in.pending[ActionBlank],
		StopRendering:   in.pending[ActionPause],
		ResumeRendering: in.pending[ActionResume],
	}

	for a, n := range in.held {
		if n > 0 {
			in.held[a] = n - 1
		}
	}
	for a, n := range in.cooldown {
		if n > 0 {
			in.cooldown[a] = n - 1
		}
	}
	for a := range in.pending {
		delete(in.pending, a)
	}

	return f
}
