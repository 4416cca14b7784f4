package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"focusdesk/internal/core/session"
	"focusdesk/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.Focus, settings.Focus)
	assert.Equal(t, 50*time.Minute, settings.Focus)
	assert.Equal(t, 10*time.Minute, settings.ShortBreak)
	assert.Equal(t, 30*time.Minute, settings.LongBreak)
	assert.Equal(t, 4, settings.CyclesBeforeLongBreak)
	assert.Equal(t, 15*time.Second, settings.CheckInterval)
	assert.Equal(t, 5*time.Minute, settings.ReminderCooldown)
	assert.Equal(t, 100, settings.OpacityActive)
	assert.Equal(t, 80, settings.OpacityBackground)
	assert.Equal(t, 50, settings.OpacityPomodoro)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestLoadSettingsAppliesValidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `focus_minutes: 25
short_break_minutes: 0
long_break_minutes: 20
cycles_before_long_break: 3
check_interval_seconds: 5
reminder_cooldown_minutes: 0
distraction_apps: [" Discord ", "", "slack"]
opacity_pomodoro: 140
opacity_background: 60
focus_assist: false
pomodoro_state_file: /tmp/p.txt
log_level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettingsFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Minute, settings.Focus)
	assert.Equal(t, 10*time.Minute, settings.ShortBreak)
	assert.Equal(t, 20*time.Minute, settings.LongBreak)
	assert.Equal(t, 3, settings.CyclesBeforeLongBreak)
	assert.Equal(t, 5*time.Second, settings.CheckInterval)
	assert.Zero(t, settings.ReminderCooldown)
	assert.Equal(t, []string{"Discord", "slack"}, settings.DistractionApps)
	assert.Equal(t, 50, settings.OpacityPomodoro)
	assert.Equal(t, 60, settings.OpacityBackground)
	assert.False(t, settings.FocusAssistEnabled)
	assert.Equal(t, "/tmp/p.txt", settings.PomodoroStateFile)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoadSettingsRejectsInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("focus_minutes: [oops"), 0o644))

	settings, err := LoadSettingsFrom(path)
	require.Error(t, err)
	assert.Equal(t, 50*time.Minute, settings.Focus)
}

func TestSaveSettingsRoundTripAndBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusdesk", "settings.yaml")

	first := preferences.DefaultSettings()
	first.Focus = 40 * time.Minute
	require.NoError(t, SaveSettingsTo(path, first))
	_, err := os.Stat(path + backupSuffix)
	assert.True(t, os.IsNotExist(err))

	second := first
	second.Focus = 45 * time.Minute
	second.DistractionApps = []string{"steam"}
	require.NoError(t, SaveSettingsTo(path, second))

	loaded, err := LoadSettingsFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, loaded.Focus)
	assert.Equal(t, []string{"steam"}, loaded.DistractionApps)
	assert.Equal(t, second.OpacityPomodoro, loaded.OpacityPomodoro)

	backup, err := LoadSettingsFrom(path + backupSuffix)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Minute, backup.Focus)
}

func TestPortablePathsLiveNextToTheExecutable(t *testing.T) {
	settings := preferences.DefaultSettings().WithPortablePaths("/opt/focusdesk")
	assert.Equal(t, filepath.Join("/opt/focusdesk", "data", "pomodoro-state.txt"), settings.PomodoroStateFile)
	assert.Equal(t, filepath.Join("/opt/focusdesk", "data", "focus-tracker-state.txt"), settings.FocusStateFile)
	assert.Equal(t, filepath.Join("/opt/focusdesk", "workspace", "notes", "Daily"), settings.DailyNotesDir)
}

func finishedSession(name string, start time.Time, minutes int, status session.Status) session.FocusSession {
	return session.FocusSession{
		TaskName:  name,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Status:    status,
	}
}

func TestHistoryUpsertsAndListsNewestFirst(t *testing.T) {
	history, err := OpenHistory(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	early := finishedSession("early", start, 12, session.StatusInProgress)
	late := finishedSession("late", start.Add(time.Hour), 30, session.StatusCompleted)
	pending := session.FocusSession{TaskName: "pending", Status: session.StatusInProgress}

	require.NoError(t, history.Persist(ctx, []session.FocusSession{early, late, pending}))

	early.ReminderCount = 2
	early.Status = session.StatusCompleted
	require.NoError(t, history.Persist(ctx, []session.FocusSession{early}))

	records, err := history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "late", records[0].Session.TaskName)
	assert.Equal(t, 30, records[0].DurationMinutes)
	assert.Equal(t, "early", records[1].Session.TaskName)
	assert.Equal(t, session.StatusCompleted, records[1].Session.Status)
	assert.Equal(t, 2, records[1].Session.ReminderCount)
	assert.True(t, records[1].Session.StartTime.Equal(start))
	assert.NotEmpty(t, records[1].ID)

	limited, err := history.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestHistoryAcceptsEmptyBatch(t *testing.T) {
	history, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	require.NoError(t, history.Persist(context.Background(), nil))
	records, err := history.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
