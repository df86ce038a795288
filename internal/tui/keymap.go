package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	RotateLeft  key.Binding
	RotateRight key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Check       key.Binding
	Blank       key.Binding
	Pause       key.Binding
	Resume      key.Binding
	NextTrial   key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		RotateLeft: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/→", "rotate"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("right", "d"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/↓", "zoom"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("down", "s"),
		),
		Check: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "check"),
		),
		Blank: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "blank"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Resume: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "resume"),
		),
		NextTrial: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "next trial"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to a controller action.
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.RotateLeft):
		return ActionRotateLeft
	case key.Matches(msg, k.RotateRight):
		return ActionRotateRight
	case key.Matches(msg, k.ZoomIn):
		return ActionZoomIn
	case key.Matches(msg, k.ZoomOut):
		return ActionZoomOut
	case key.Matches(msg, k.Check):
		return ActionCheck
	case key.Matches(msg, k.Blank):
		return ActionBlank
	case key.Matches(msg, k.Pause):
		return ActionPause
	case key.Matches(msg, k.Resume):
		return ActionResume
	case key.Matches(msg, k.NextTrial):
		return ActionNextTrial
	}
	return ActionNone
}

// helpLine renders the short help footer from the bindings that carry
// help text.
func (k KeyMap) helpLine() string {
	bindings := []key.Binding{
		k.RotateLeft, k.ZoomIn, k.Check, k.Blank,
		k.Pause, k.Resume, k.NextTrial, k.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
