package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"focusdesk/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	backupSuffix     = ".backup"
)

type yamlSettings struct {
	FocusMinutes            int      `yaml:"focus_minutes"`
	ShortBreakMinutes       int      `yaml:"short_break_minutes"`
	LongBreakMinutes        int      `yaml:"long_break_minutes"`
	CyclesBeforeLongBreak   int      `yaml:"cycles_before_long_break"`
	CheckIntervalSeconds    int      `yaml:"check_interval_seconds"`
	ReminderCooldownMinutes *int     `yaml:"reminder_cooldown_minutes,omitempty"`
	DistractionApps         []string `yaml:"distraction_apps"`
	OpacityActive           *int     `yaml:"opacity_active,omitempty"`
	OpacityBackground       *int     `yaml:"opacity_background,omitempty"`
	OpacityPomodoro         *int     `yaml:"opacity_pomodoro,omitempty"`
	FocusAssist             *bool    `yaml:"focus_assist,omitempty"`
	PomodoroStateFile       string   `yaml:"pomodoro_state_file,omitempty"`
	FocusStateFile          string   `yaml:"focus_state_file,omitempty"`
	DailyNotesDir           string   `yaml:"daily_notes_dir,omitempty"`
	VaultDir                string   `yaml:"vault_dir,omitempty"`
	HistoryDB               string   `yaml:"history_db,omitempty"`
	LogFile                 string   `yaml:"log_file,omitempty"`
	LogLevel                string   `yaml:"log_level,omitempty"`
	PortableMode            bool     `yaml:"portable_mode"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFrom(configPath)
}

// LoadSettingsFrom reads user preferences from the given YAML file.
func LoadSettingsFrom(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	if settings.PortableMode {
		appDir, err := executableDir()
		if err != nil {
			return settings, err
		}
		settings = settings.WithPortablePaths(appDir)
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsTo(configPath, settings)
}

// SaveSettingsTo writes user preferences to the given file, keeping a backup of the previous one.
func SaveSettingsTo(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if previous, err := os.ReadFile(configPath); err == nil {
		if err := os.WriteFile(configPath+backupSuffix, previous, 0o644); err != nil {
			return fmt.Errorf("write settings backup: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read settings file: %w", err)
	}

	serialized, err := MarshalSettings(settings)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// MarshalSettings renders settings in the YAML file layout.
func MarshalSettings(settings preferences.Settings) ([]byte, error) {
	cooldown := int(settings.ReminderCooldown / time.Minute)
	fileData := yamlSettings{
		FocusMinutes:            int(settings.Focus / time.Minute),
		ShortBreakMinutes:       int(settings.ShortBreak / time.Minute),
		LongBreakMinutes:        int(settings.LongBreak / time.Minute),
		CyclesBeforeLongBreak:   settings.CyclesBeforeLongBreak,
		CheckIntervalSeconds:    int(settings.CheckInterval / time.Second),
		ReminderCooldownMinutes: &cooldown,
		DistractionApps:         settings.DistractionApps,
		OpacityActive:           &settings.OpacityActive,
		OpacityBackground:       &settings.OpacityBackground,
		OpacityPomodoro:         &settings.OpacityPomodoro,
		FocusAssist:             &settings.FocusAssistEnabled,
		PomodoroStateFile:       settings.PomodoroStateFile,
		FocusStateFile:          settings.FocusStateFile,
		DailyNotesDir:           settings.DailyNotesDir,
		VaultDir:                settings.VaultDir,
		HistoryDB:               settings.HistoryDB,
		LogFile:                 settings.LogFile,
		LogLevel:                settings.LogLevel,
		PortableMode:            settings.PortableMode,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func executableDir() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Dir(executable), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.FocusMinutes > 0 {
		settings.Focus = time.Duration(fileData.FocusMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreak = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreak = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.CyclesBeforeLongBreak > 0 {
		settings.CyclesBeforeLongBreak = fileData.CyclesBeforeLongBreak
	}
	if fileData.CheckIntervalSeconds > 0 {
		settings.CheckInterval = time.Duration(fileData.CheckIntervalSeconds) * time.Second
	}
	if fileData.ReminderCooldownMinutes != nil && *fileData.ReminderCooldownMinutes >= 0 {
		settings.ReminderCooldown = time.Duration(*fileData.ReminderCooldownMinutes) * time.Minute
	}
	if fileData.DistractionApps != nil {
		settings.DistractionApps = cleanApps(fileData.DistractionApps)
	}

	applyPercent(&settings.OpacityActive, fileData.OpacityActive)
	applyPercent(&settings.OpacityBackground, fileData.OpacityBackground)
	applyPercent(&settings.OpacityPomodoro, fileData.OpacityPomodoro)
	if fileData.FocusAssist != nil {
		settings.FocusAssistEnabled = *fileData.FocusAssist
	}

	applyPath(&settings.PomodoroStateFile, fileData.PomodoroStateFile)
	applyPath(&settings.FocusStateFile, fileData.FocusStateFile)
	applyPath(&settings.DailyNotesDir, fileData.DailyNotesDir)
	applyPath(&settings.VaultDir, fileData.VaultDir)
	applyPath(&settings.HistoryDB, fileData.HistoryDB)
	applyPath(&settings.LogFile, fileData.LogFile)

	switch level := strings.ToLower(strings.TrimSpace(fileData.LogLevel)); level {
	case "debug", "info", "warning", "error":
		settings.LogLevel = level
	case "warn":
		settings.LogLevel = "warning"
	}
	settings.PortableMode = fileData.PortableMode
}

func applyPercent(target *int, value *int) {
	if value != nil && *value >= 0 && *value <= 100 {
		*target = *value
	}
}

func applyPath(target *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*target = expandHome(value)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func cleanApps(apps []string) []string {
	cleaned := make([]string, 0, len(apps))
	for _, app := range apps {
		if app = strings.TrimSpace(app); app != "" {
			cleaned = append(cleaned, app)
		}
	}
	return cleaned
}
