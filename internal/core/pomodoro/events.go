package pomodoro

import (
	"time"

	"focusdesk/internal/core/snapshot"
)

// Phase represents the current Pomodoro segment.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// IsBreak reports whether the phase is a short or long break.
func (phase Phase) IsBreak() bool {
	return phase == PhaseShortBreak || phase == PhaseLongBreak
}

// Mode returns the state-file mode for the phase.
func (phase Phase) Mode() (snapshot.Mode, bool) {
	switch phase {
	case PhaseFocus:
		return snapshot.ModeFocus, true
	case PhaseShortBreak:
		return snapshot.ModeShortBreak, true
	case PhaseLongBreak:
		return snapshot.ModeLongBreak, true
	}
	return "", false
}

// EventType defines the type of engine event.
type EventType string

const (
	EventPhaseChange EventType = "phase_change"
	EventProgress    EventType = "progress"
	EventStopped     EventType = "stopped"
)

// Event represents an engine update for observers.
// Progress is 1 - remaining/total and may stray slightly outside [0, 1] at tick boundaries.
type Event struct {
	Type      EventType
	Phase     Phase
	Cycle     int
	Remaining time.Duration
	Total     time.Duration
	Progress  float64
	At        time.Time
}

// State is a point-in-time copy of the engine state.
type State struct {
	Phase      Phase
	CycleCount int
	Running    bool
	Remaining  time.Duration
	Total      time.Duration
}

// Progress returns 1 - remaining/total.
func (state State) Progress() float64 {
	return progress(state.Remaining, state.Total)
}

// RemainingMinutes returns the remaining time rounded up to whole minutes.
func (state State) RemainingMinutes() int {
	return ceilMinutes(state.Remaining)
}
