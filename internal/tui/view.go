package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(12)

	wonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// View renders the telemetry dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("monkeyshm controller [%s]", m.region)))
	b.WriteString("\n\n")

	trial := m.schedule[m.trialIdx]
	b.WriteString(paneStyle.Render(strings.Join([]string{
		row("trial", fmt.Sprintf("%d/%d (seed %d, door %d)",
			m.trialIdx+1, len(m.schedule), trial.Seed, trial.TargetDoor)),
		row("phase", m.phaseLine()),
		row("frame", fmt.Sprintf("%d", m.tel.FrameNumber)),
		row("elapsed", fmt.Sprintf("%.2f s", m.tel.ElapsedSecs)),
		row("camera", fmt.Sprintf("r=%.2f (%.2f, %.2f, %.2f)",
			m.tel.CameraRadius, m.tel.CameraX, m.tel.CameraY, m.tel.CameraZ)),
		row("yaw", fmt.Sprintf("%.3f rad", m.tel.PyramidYaw)),
		row("attempts", fmt.Sprintf("%d", m.tel.Attempts)),
		row("alignment", optFloat(m.tel.Alignment)),
		row("win time", optFloat(m.tel.WinTime)),
	}, "\n")))
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(errStyle.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.keys.helpLine()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) phaseLine() string {
	if !m.telOK {
		return "waiting for telemetry"
	}
	line := "playing"
	if m.tel.HasWon {
		line = wonStyle.Render("WON")
	}
	if m.tel.IsAnimating {
		line += " (door animating)"
	}
	return line
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func optFloat(v *float32) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.3f", *v)
}
