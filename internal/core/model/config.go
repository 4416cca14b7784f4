package model

import "time"

// PomodoroConfig defines the focus/break cycle.
type PomodoroConfig struct {
	Focus                 time.Duration
	ShortBreak            time.Duration
	LongBreak             time.Duration
	CyclesBeforeLongBreak int
}

// TrackerConfig contains distraction monitor settings.
type TrackerConfig struct {
	CheckInterval    time.Duration
	ReminderCooldown time.Duration
	DistractionApps  []string
}

// OverlayConfig maps Pomodoro phases to overlay opacity percentages.
type OverlayConfig struct {
	OpacityActive     int
	OpacityBackground int
	OpacityPomodoro   int
}

// Paths holds the files shared with external readers.
type Paths struct {
	PomodoroStateFile string
	FocusStateFile    string
	DailyNotesDir     string
	VaultDir          string
	HistoryDB         string
	LogFile           string
}

// Config bundles every runtime setting handed to the coordinator.
type Config struct {
	Pomodoro PomodoroConfig
	Tracker  TrackerConfig
	Overlay  OverlayConfig
	Paths    Paths
}

// Normalized returns a copy with invalid values replaced by safe minimums.
func (config PomodoroConfig) Normalized() PomodoroConfig {
	if config.CyclesBeforeLongBreak <= 0 {
		config.CyclesBeforeLongBreak = 4
	}
	if config.Focus <= 0 {
		config.Focus = 50 * time.Minute
	}
	if config.ShortBreak <= 0 {
		config.ShortBreak = 10 * time.Minute
	}
	if config.LongBreak <= 0 {
		config.LongBreak = 30 * time.Minute
	}
	return config
}

// Normalized returns a copy with defaults applied and the app list copied.
func (config TrackerConfig) Normalized() TrackerConfig {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 15 * time.Second
	}
	if config.ReminderCooldown < 0 {
		config.ReminderCooldown = 0
	}
	config.DistractionApps = append([]string(nil), config.DistractionApps...)
	return config
}
