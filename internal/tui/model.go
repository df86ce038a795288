package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vstrozzi/monkeyshm/internal/storage"
	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
	"github.com/vstrozzi/monkeyshm/internal/trials"
)

// winAdvanceSecs is how long the win banner stays up before the next
// trial is scheduled automatically.
const winAdvanceSecs = 2

// Model is the Bubble Tea model for the controller dashboard.
type Model struct {
	ctrl     *shm.Controller
	store    *storage.Store // nil disables result recording
	region   string
	schedule []trials.Trial
	tickRate int

	keys  KeyMap
	input *InputState

	trialIdx     int
	pendingApply bool // push the current trial on the next tick

	tel   shm.Telemetry
	telOK bool

	tick        uint64
	advanceAt   uint64 // tick at which to auto-advance, 0 = unset
	resultSaved bool
	lastErr     error
	quitting    bool
}

// NewModel builds the dashboard for a connected controller. The first
// trial of the schedule is pushed to the game on the first tick.
func NewModel(ctrl *shm.Controller, store *storage.Store, schedule []trials.Trial, region string, tickRate int) Model {
	return Model{
		ctrl:         ctrl,
		store:        store,
		region:       region,
		schedule:     schedule,
		tickRate:     tickRate,
		keys:         DefaultKeyMap(),
		input:        NewInputState(),
		pendingApply: true,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey routes a key press into the input state or the trial
// schedule.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.Action(msg); action {
	case ActionQuit:
		m.quitting = true
		(&m).recordResult()
		return m, tea.Quit
	case ActionNextTrial:
		(&m).advance()
	case ActionNone:
	default:
		m.input.Press(action)
	}
	return m, nil
}

// handleTick runs one controller tick: apply a scheduled trial if one
// is pending, publish the command frame, read telemetry back.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.tick++

	if m.pendingApply {
		cfg := m.schedule[m.trialIdx].Config()
		if err := m.ctrl.TriggerReset(cfg); err != nil {
			m.lastErr = err
		} else {
			m.pendingApply = false
			m.resultSaved = false
			m.advanceAt = 0
		}
	}

	m.ctrl.WriteCommands(m.input.Frame())
	m.tel = m.ctrl.ReadTelemetry()
	m.telOK = true

	// Arm the auto-advance countdown on a win; fresh telemetry from the
	// next trial disarms it again.
	if !m.tel.HasWon {
		m.advanceAt = 0
	} else if m.pendingApply {
		// A reset is already scheduled; the win belongs to the old trial.
	} else if m.advanceAt == 0 {
		m.advanceAt = m.tick + uint64(winAdvanceSecs*m.tickRate)
	} else if m.tick >= m.advanceAt {
		(&m).advance()
	}

	return m, tickCmd(m.tickRate)
}

// advance records the current trial's outcome and schedules the next
// trial, wrapping around the schedule.
func (m *Model) advance() {
	m.recordResult()
	m.trialIdx = (m.trialIdx + 1) % len(m.schedule)
	m.pendingApply = true
	m.advanceAt = 0
}

// recordResult saves the current trial outcome once. Saving is best
// effort; a storage error is surfaced in the status line but never
// interrupts the session.
func (m *Model) recordResult() {
	if m.store == nil || m.resultSaved || !m.telOK {
		return
	}
	trial := m.schedule[m.trialIdx]
	_, err := m.store.SaveResult(storage.TrialResult{
		Region:     m.region,
		TrialIndex: m.trialIdx,
		Seed:       trial.Seed,
		TargetDoor: trial.TargetDoor,
		Attempts:   m.tel.Attempts,
		Alignment:  m.tel.Alignment,
		Won:        m.tel.HasWon,
		WinSecs:    m.tel.WinTime,
	})
	if err != nil {
		m.lastErr = err
	}
	m.resultSaved = true
}

// Run starts the Bubble Tea program for a connected controller.
func Run(ctrl *shm.Controller, store *storage.Store, schedule []trials.Trial, region string, tickRate int) error {
	p := tea.NewProgram(
		NewModel(ctrl, store, schedule, region, tickRate),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
