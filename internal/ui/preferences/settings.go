package preferences

import (
	"os"
	"path/filepath"
	"time"

	"focusdesk/internal/core/model"
)

// AppName names the per-user config directory.
const AppName = "focusdesk"

// Settings defines editable user preferences.
type Settings struct {
	Focus                 time.Duration
	ShortBreak            time.Duration
	LongBreak             time.Duration
	CyclesBeforeLongBreak int

	CheckInterval    time.Duration
	ReminderCooldown time.Duration
	DistractionApps  []string

	OpacityActive      int
	OpacityBackground  int
	OpacityPomodoro    int
	FocusAssistEnabled bool

	PomodoroStateFile string
	FocusStateFile    string
	DailyNotesDir     string
	VaultDir          string
	HistoryDB         string
	LogFile           string
	LogLevel          string
	PortableMode      bool
}

// DefaultSettings returns default settings for focusdesk.
func DefaultSettings() Settings {
	dataDir := defaultDataDir()
	notesDir := defaultNotesDir()
	return Settings{
		Focus:                 50 * time.Minute,
		ShortBreak:            10 * time.Minute,
		LongBreak:             30 * time.Minute,
		CyclesBeforeLongBreak: 4,

		CheckInterval:    15 * time.Second,
		ReminderCooldown: 5 * time.Minute,
		DistractionApps:  []string{"discord", "steam", "netflix", "youtube", "reddit"},

		OpacityActive:      100,
		OpacityBackground:  80,
		OpacityPomodoro:    50,
		FocusAssistEnabled: true,

		PomodoroStateFile: filepath.Join(os.TempDir(), "pomodoro-state.txt"),
		FocusStateFile:    filepath.Join(os.TempDir(), "focus-tracker-state.txt"),
		DailyNotesDir:     filepath.Join(notesDir, "Daily"),
		VaultDir:          notesDir,
		HistoryDB:         filepath.Join(dataDir, "history.db"),
		LogFile:           filepath.Join(dataDir, AppName+".log"),
		LogLevel:          "info",
	}
}

// WithPortablePaths relocates state, log and history files under appDir/data
// and the notes directories under appDir/workspace.
func (settings Settings) WithPortablePaths(appDir string) Settings {
	dataDir := filepath.Join(appDir, "data")
	workspaceDir := filepath.Join(appDir, "workspace")

	settings.PomodoroStateFile = filepath.Join(dataDir, "pomodoro-state.txt")
	settings.FocusStateFile = filepath.Join(dataDir, "focus-tracker-state.txt")
	settings.HistoryDB = filepath.Join(dataDir, "history.db")
	settings.LogFile = filepath.Join(dataDir, AppName+".log")
	settings.VaultDir = filepath.Join(workspaceDir, "notes")
	settings.DailyNotesDir = filepath.Join(workspaceDir, "notes", "Daily")
	return settings
}

// PomodoroConfig converts settings to the engine configuration.
func (settings Settings) PomodoroConfig() model.PomodoroConfig {
	return model.PomodoroConfig{
		Focus:                 settings.Focus,
		ShortBreak:            settings.ShortBreak,
		LongBreak:             settings.LongBreak,
		CyclesBeforeLongBreak: settings.CyclesBeforeLongBreak,
	}
}

// TrackerConfig converts settings to the distraction monitor configuration.
func (settings Settings) TrackerConfig() model.TrackerConfig {
	return model.TrackerConfig{
		CheckInterval:    settings.CheckInterval,
		ReminderCooldown: settings.ReminderCooldown,
		DistractionApps:  append([]string(nil), settings.DistractionApps...),
	}
}

// OverlayConfig converts settings to the overlay opacity policy.
func (settings Settings) OverlayConfig() model.OverlayConfig {
	return model.OverlayConfig{
		OpacityActive:     settings.OpacityActive,
		OpacityBackground: settings.OpacityBackground,
		OpacityPomodoro:   settings.OpacityPomodoro,
	}
}

// Paths converts settings to the shared file locations.
func (settings Settings) Paths() model.Paths {
	return model.Paths{
		PomodoroStateFile: settings.PomodoroStateFile,
		FocusStateFile:    settings.FocusStateFile,
		DailyNotesDir:     settings.DailyNotesDir,
		VaultDir:          settings.VaultDir,
		HistoryDB:         settings.HistoryDB,
		LogFile:           settings.LogFile,
	}
}

// Config bundles every converted section.
func (settings Settings) Config() model.Config {
	return model.Config{
		Pomodoro: settings.PomodoroConfig(),
		Tracker:  settings.TrackerConfig(),
		Overlay:  settings.OverlayConfig(),
		Paths:    settings.Paths(),
	}
}

func defaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(configDir, AppName)
}

func defaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName, "Notes")
	}
	return filepath.Join(home, "Notes")
}
