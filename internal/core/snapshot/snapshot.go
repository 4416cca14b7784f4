package snapshot

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Mode is the Pomodoro mode written to the state file.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortbreak"
	ModeLongBreak  Mode = "longbreak"
)

// Pomodoro is the published Pomodoro state.
type Pomodoro struct {
	Mode             Mode
	RemainingMinutes int
	HasMode          bool
	HasRemaining     bool
}

// Complete reports whether both fields were present.
func (state Pomodoro) Complete() bool {
	return state.HasMode && state.HasRemaining
}

// Focus is the published focus tracker state.
type Focus struct {
	TaskCount int
	Active    bool
	HasTasks  bool
	HasActive bool
}

// Complete reports whether both fields were present.
func (state Focus) Complete() bool {
	return state.HasTasks && state.HasActive
}

// FormatPomodoro renders the Pomodoro state file contents.
func FormatPomodoro(mode Mode, remainingMinutes int) string {
	return fmt.Sprintf("mode:%s\nremaining:%d", mode, remainingMinutes)
}

// FormatFocus renders the focus state file contents.
func FormatFocus(taskCount int, active bool) string {
	return fmt.Sprintf("tasks:%d\nactive:%t", taskCount, active)
}

// ParsePomodoro reads a Pomodoro state file. Unknown or malformed lines are skipped.
func ParsePomodoro(text string) Pomodoro {
	var state Pomodoro
	forEachField(text, func(key, value string) {
		switch key {
		case "mode":
			switch Mode(value) {
			case ModeFocus, ModeShortBreak, ModeLongBreak:
				state.Mode = Mode(value)
				state.HasMode = true
			}
		case "remaining":
			if minutes, err := strconv.Atoi(value); err == nil {
				state.RemainingMinutes = minutes
				state.HasRemaining = true
			}
		}
	})
	return state
}

// ParseFocus reads a focus state file. Unknown or malformed lines are skipped.
func ParseFocus(text string) Focus {
	var state Focus
	forEachField(text, func(key, value string) {
		switch key {
		case "tasks":
			if count, err := strconv.Atoi(value); err == nil {
				state.TaskCount = count
				state.HasTasks = true
			}
		case "active":
			if active, err := strconv.ParseBool(value); err == nil {
				state.Active = active
				state.HasActive = true
			}
		}
	})
	return state
}

func forEachField(text string, visit func(key, value string)) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok {
			continue
		}
		visit(strings.TrimSpace(key), strings.TrimSpace(value))
	}
}
