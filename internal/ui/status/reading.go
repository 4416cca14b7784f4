package status

import (
	"fmt"
	"strings"

	"focusdesk/internal/core/snapshot"

	"github.com/charmbracelet/lipgloss"
)

// Reading is one pass over both state files.
type Reading struct {
	Pomodoro      snapshot.Pomodoro
	Focus         snapshot.Focus
	PomodoroFound bool
	FocusFound    bool
}

// Read loads and parses the two state files. Missing files are not errors.
func Read(pomodoroPath, focusPath string) (Reading, error) {
	var reading Reading

	text, found, err := snapshot.ReadState(pomodoroPath)
	if err != nil {
		return reading, fmt.Errorf("read pomodoro state: %w", err)
	}
	if found {
		reading.Pomodoro = snapshot.ParsePomodoro(text)
		reading.PomodoroFound = true
	}

	text, found, err = snapshot.ReadState(focusPath)
	if err != nil {
		return reading, fmt.Errorf("read focus state: %w", err)
	}
	if found {
		reading.Focus = snapshot.ParseFocus(text)
		reading.FocusFound = true
	}
	return reading, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8BE42"))
	labelStyle = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	focusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75"))
	breakStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98C379"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const indeterminate = "?"

// PomodoroLine describes the Pomodoro state, for example "focus 23 min".
func PomodoroLine(reading Reading) string {
	if !reading.PomodoroFound {
		return "idle"
	}
	state := reading.Pomodoro
	mode := indeterminate
	if state.HasMode {
		mode = modeName(state.Mode)
	}
	remaining := indeterminate
	if state.HasRemaining {
		remaining = fmt.Sprintf("%d", state.RemainingMinutes)
	}
	return fmt.Sprintf("%s %s min", mode, remaining)
}

// FocusLine describes the tracker state, for example "2 tasks, active".
func FocusLine(reading Reading) string {
	if !reading.FocusFound {
		return "no tasks"
	}
	state := reading.Focus
	count := indeterminate
	if state.HasTasks {
		count = fmt.Sprintf("%d", state.TaskCount)
	}
	activity := indeterminate
	if state.HasActive {
		activity = "idle"
		if state.Active {
			activity = "active"
		}
	}
	return fmt.Sprintf("%s tasks, %s", count, activity)
}

// Plain renders the reading as two unstyled lines.
func Plain(reading Reading) string {
	return fmt.Sprintf("pomodoro: %s\nfocus:    %s\n", PomodoroLine(reading), FocusLine(reading))
}

// Render draws the styled status box.
func Render(reading Reading) string {
	pomodoro := PomodoroLine(reading)
	switch {
	case !reading.PomodoroFound:
		pomodoro = dimStyle.Render(pomodoro)
	case reading.Pomodoro.Mode == snapshot.ModeFocus:
		pomodoro = focusStyle.Render(pomodoro)
	case reading.Pomodoro.HasMode:
		pomodoro = breakStyle.Render(pomodoro)
	}

	focus := FocusLine(reading)
	if !reading.FocusFound {
		focus = dimStyle.Render(focus)
	}

	lines := []string{
		titleStyle.Render("FocusDesk"),
		labelStyle.Render("Pomodoro") + pomodoro,
		labelStyle.Render("Tracker") + focus,
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func modeName(mode snapshot.Mode) string {
	switch mode {
	case snapshot.ModeShortBreak:
		return "short break"
	case snapshot.ModeLongBreak:
		return "long break"
	}
	return string(mode)
}
