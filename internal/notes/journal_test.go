package notes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"focusdesk/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, time.March, 10, 16, 30, 0, 0, time.Local)

func newTestJournal(t *testing.T) (*Journal, string, string) {
	t.Helper()
	root := t.TempDir()
	dailyDir := filepath.Join(root, "Daily")
	vaultDir := filepath.Join(root, "Vault")
	journal := NewJournal(dailyDir, vaultDir, nil)
	journal.SetClock(func() time.Time { return day })
	return journal, dailyDir, vaultDir
}

func stopped(name string, start time.Time, minutes int, status session.Status, reminders int) session.FocusSession {
	return session.FocusSession{
		TaskName:      name,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(minutes) * time.Minute),
		ReminderCount: reminders,
		Status:        status,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestShouldLog(t *testing.T) {
	start := day.Add(-time.Hour)
	assert.True(t, ShouldLog(stopped("a", start, 1, session.StatusCompleted, 0)))
	assert.True(t, ShouldLog(stopped("a", start, 10, session.StatusInProgress, 0)))
	assert.False(t, ShouldLog(stopped("a", start, 9, session.StatusInProgress, 0)))
	assert.False(t, ShouldLog(stopped("a", start, 30, session.StatusAbandoned, 0)))
	assert.False(t, ShouldLog(session.FocusSession{TaskName: "pending", Status: session.StatusInProgress}))
}

func TestFormatDailyEntry(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 5, 0, 0, time.Local)

	assert.Equal(t, "- [x] write report ⏱️ 25min _09:05-09:30_",
		FormatDailyEntry(stopped("write report", start, 25, session.StatusCompleted, 0)))
	assert.Equal(t, "- [/] inbox ⏱️ 12min 🔴 3 reminders _09:05-09:17_",
		FormatDailyEntry(stopped("inbox", start, 12, session.StatusInProgress, 3)))

	open := session.FocusSession{TaskName: "open", StartTime: start, Status: session.StatusCompleted}
	assert.Equal(t, "- [x] open ⏱️ 0min _09:05-..._", FormatDailyEntry(open))
}

func TestFormatMonthlyRow(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 5, 0, 0, time.Local)
	assert.Equal(t, "| 2025-03-10 | inbox | 12min | 3 | InProgress | 09:05-09:17 |",
		FormatMonthlyRow(stopped("inbox", start, 12, session.StatusInProgress, 3)))
}

func TestPersistCreatesDailyNoteAndMonthlyLog(t *testing.T) {
	journal, dailyDir, vaultDir := newTestJournal(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	err := journal.Persist(context.Background(), []session.FocusSession{
		stopped("deep work", start, 50, session.StatusInProgress, 0),
		stopped("glance", start, 3, session.StatusAbandoned, 0),
		stopped("ship fix", start, 5, session.StatusCompleted, 2),
	})
	require.NoError(t, err)

	daily := readFile(t, filepath.Join(dailyDir, "2025-03-10.md"))
	assert.True(t, strings.HasPrefix(daily, "# 2025-03-10\n"))
	assert.Contains(t, daily, TasksSection+"\n- [/] deep work ⏱️ 50min _09:00-09:50_\n- [x] ship fix ⏱️ 5min 🔴 2 reminders _09:00-09:05_")
	assert.NotContains(t, daily, "glance")

	monthly := readFile(t, filepath.Join(vaultDir, "focus-log-2025-03.md"))
	assert.True(t, strings.HasPrefix(monthly, "# Focus Log - March 2025\n\n| Date | Task | Duration | Reminders | Status | Time |\n"))
	assert.Contains(t, monthly, "| 2025-03-10 | deep work | 50min | 0 | InProgress | 09:00-09:50 |\n")
	assert.Contains(t, monthly, "| 2025-03-10 | ship fix | 5min | 2 | Completed | 09:00-09:05 |\n")
	assert.Equal(t, 1, strings.Count(monthly, "# Focus Log"))
}

func TestPersistInsertsIntoExistingSection(t *testing.T) {
	journal, dailyDir, _ := newTestJournal(t)
	require.NoError(t, os.MkdirAll(dailyDir, 0o755))
	path := filepath.Join(dailyDir, "2025-03-10.md")
	existing := "# 2025-03-10\n\n" + TasksSection + "\n- [x] earlier ⏱️ 20min _08:00-08:20_\n\n## Notes\nkeep me"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	require.NoError(t, journal.Persist(context.Background(), []session.FocusSession{
		stopped("later", start, 15, session.StatusCompleted, 0),
	}))

	daily := readFile(t, path)
	assert.Contains(t, daily, TasksSection+"\n- [x] later ⏱️ 15min _09:00-09:15_\n- [x] earlier")
	assert.True(t, strings.HasSuffix(daily, "## Notes\nkeep me"))
	assert.Equal(t, 1, strings.Count(daily, TasksSection))
}

func TestPersistSkipsSessionsAlreadyWritten(t *testing.T) {
	journal, dailyDir, vaultDir := newTestJournal(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	first := stopped("a", start, 12, session.StatusCompleted, 0)

	require.NoError(t, journal.Persist(context.Background(), []session.FocusSession{first}))
	require.NoError(t, journal.Persist(context.Background(), []session.FocusSession{
		first,
		stopped("b", start.Add(time.Hour), 20, session.StatusCompleted, 0),
	}))

	daily := readFile(t, filepath.Join(dailyDir, "2025-03-10.md"))
	assert.Equal(t, 1, strings.Count(daily, "] a ⏱️"))
	assert.Equal(t, 1, strings.Count(daily, "] b ⏱️"))

	monthly := readFile(t, filepath.Join(vaultDir, "focus-log-2025-03.md"))
	assert.Equal(t, 1, strings.Count(monthly, "| a |"))
	assert.Equal(t, 1, strings.Count(monthly, "| b |"))
}

func TestPersistEmptyBatchWritesNothing(t *testing.T) {
	journal, dailyDir, vaultDir := newTestJournal(t)

	require.NoError(t, journal.Persist(context.Background(), nil))
	_, err := os.Stat(dailyDir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(vaultDir)
	assert.True(t, os.IsNotExist(err))
}

func TestPersistHonorsCancelledContext(t *testing.T) {
	journal, _, _ := newTestJournal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	err := journal.Persist(ctx, []session.FocusSession{stopped("a", start, 12, session.StatusCompleted, 0)})
	assert.ErrorIs(t, err, context.Canceled)
}
