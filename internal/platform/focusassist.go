package platform

import (
	"errors"
	"log/slog"
	"sync"
)

// FocusAssist toggles the desktop do-not-disturb mode.
type FocusAssist struct {
	logger      *slog.Logger
	set         func(enabled bool) error
	unsupported sync.Once
}

// NewFocusAssist returns the do-not-disturb toggle for the current desktop.
func NewFocusAssist(logger *slog.Logger) *FocusAssist {
	if logger == nil {
		logger = slog.Default()
	}
	return &FocusAssist{
		logger: logger.With("component", "focus_assist"),
		set:    setFocusAssist,
	}
}

// SetFocusAssist enables or disables do-not-disturb. Unsupported desktops are reported once.
func (assist *FocusAssist) SetFocusAssist(enabled bool) error {
	err := assist.set(enabled)
	if errors.Is(err, ErrUnsupported) {
		assist.unsupported.Do(func() {
			assist.logger.Debug("focus assist unavailable on this desktop")
		})
		return nil
	}
	return err
}
