package coordinator

import (
	"focusdesk/internal/core/model"
	"focusdesk/internal/core/pomodoro"
)

// OverlaySignal receives the overlay opacity in percent whenever the Pomodoro phase changes.
type OverlaySignal interface {
	SetOpacity(percent int)
}

// OverlayFunc adapts a function to OverlaySignal.
type OverlayFunc func(percent int)

// SetOpacity calls fn.
func (fn OverlayFunc) SetOpacity(percent int) {
	fn(percent)
}

// OpacityFor maps a phase to its overlay opacity.
func OpacityFor(phase pomodoro.Phase, config model.OverlayConfig) int {
	var percent int
	switch {
	case phase == pomodoro.PhaseFocus:
		percent = config.OpacityPomodoro
	case phase.IsBreak():
		percent = config.OpacityActive
	default:
		percent = config.OpacityBackground
	}
	return clampPercent(percent)
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
