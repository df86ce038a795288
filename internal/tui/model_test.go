package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
	"github.com/vstrozzi/monkeyshm/internal/trials"
)

func newTestEndpoints(t *testing.T) (*shm.Game, *shm.Controller) {
	t.Helper()
	name := fmt.Sprintf("tui_model_%d", time.Now().UnixNano())
	game, err := shm.CreateGame(name)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	t.Cleanup(func() {
		game.Close()
		shm.RemoveRegion(name)
	})
	ctrl, err := shm.Connect(name)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { ctrl.Close() })
	return game, ctrl
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.handleTick()
	return next.(Model)
}

func testSchedule() []trials.Trial {
	first := trials.Default()
	second := trials.Default()
	second.Seed = 100
	second.TargetDoor = 1
	return []trials.Trial{first, second}
}

func TestModelPushesFirstTrialOnFirstTick(t *testing.T) {
	game, ctrl := newTestEndpoints(t)
	m := NewModel(ctrl, nil, testSchedule(), "rig", 60)

	m = tick(t, m)

	cfg, ok := game.PollReset()
	if !ok {
		t.Fatal("no reset raised on first tick")
	}
	if cfg.Seed != 69 || cfg.TargetDoor != 5 {
		t.Errorf("first trial config = %+v", cfg)
	}
}

func TestModelPublishesHeldKeys(t *testing.T) {
	game, ctrl := newTestEndpoints(t)
	m := NewModel(ctrl, nil, testSchedule(), "rig", 60)
	m = tick(t, m)
	game.PollReset()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	m = tick(t, m)

	frame := game.PollCommands()
	if !frame.RotateLeft {
		t.Error("held left arrow not published")
	}
	if !frame.CheckAlignment {
		t.Error("space trigger not published")
	}

	// Nothing pressed since: the one-shot must not repeat, and the
	// held flag expires after the hold window.
	for i := 0; i < holdTicks+1; i++ {
		m = tick(t, m)
	}
	frame = game.PollCommands()
	if frame.RotateLeft || frame.CheckAlignment {
		t.Errorf("stale input still published: %+v", frame)
	}
}

func TestModelNextTrialKeyAdvances(t *testing.T) {
	game, ctrl := newTestEndpoints(t)
	m := NewModel(ctrl, nil, testSchedule(), "rig", 60)
	m = tick(t, m)
	game.PollReset()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	m = tick(t, m)

	cfg, ok := game.PollReset()
	if !ok {
		t.Fatal("no reset raised after r")
	}
	if cfg.Seed != 100 || cfg.TargetDoor != 1 {
		t.Errorf("second trial config = %+v", cfg)
	}

	// Advancing past the end wraps to the first trial.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	m = tick(t, m)
	if cfg, ok := game.PollReset(); !ok || cfg.Seed != 69 {
		t.Errorf("wrap-around trial = %+v (ok=%v)", cfg, ok)
	}
}

func TestModelAutoAdvancesAfterWin(t *testing.T) {
	game, ctrl := newTestEndpoints(t)
	tickRate := 60
	m := NewModel(ctrl, nil, testSchedule(), "rig", tickRate)
	m = tick(t, m)
	game.PollReset()

	winTime := float32(3.5)
	game.PublishTelemetry(shm.Telemetry{
		Phase:    shm.PhaseWon,
		HasWon:   true,
		Attempts: 2,
		WinTime:  &winTime,
	})

	// One tick to observe the win, then the countdown.
	m = tick(t, m)
	for i := 0; i < winAdvanceSecs*tickRate; i++ {
		if _, ok := game.PollReset(); ok {
			t.Fatalf("advanced %d ticks early", winAdvanceSecs*tickRate-i)
		}
		m = tick(t, m)
	}

	// The advance lands on this tick; the reset is raised on the next.
	m = tick(t, m)

	cfg, ok := game.PollReset()
	if !ok {
		t.Fatal("no auto-advance reset after the win delay")
	}
	if cfg.Seed != 100 {
		t.Errorf("auto-advance config = %+v", cfg)
	}
}
