package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"focusdesk/internal/core/session"
)

const (
	// TasksSection is the daily-note heading that receives session entries.
	TasksSection = "## ✅ Completed Tasks"

	minLoggedMinutes = 10

	fileMode os.FileMode = 0o644
	dirMode  os.FileMode = 0o755
)

// Journal writes finished sessions into a markdown daily note and a monthly focus log.
type Journal struct {
	mu       sync.Mutex
	dailyDir string
	vaultDir string
	now      func() time.Time
	logger   *slog.Logger
	written  map[entryKey]struct{}
}

type entryKey struct {
	task  string
	start int64
	end   int64
}

// NewJournal creates a journal for the given daily notes and vault directories.
func NewJournal(dailyDir, vaultDir string, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		dailyDir: dailyDir,
		vaultDir: vaultDir,
		now:      time.Now,
		logger:   logger.With("component", "notes"),
		written:  make(map[entryKey]struct{}),
	}
}

// SetClock replaces the time source used to pick the note files.
func (journal *Journal) SetClock(now func() time.Time) {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	journal.now = now
}

// ShouldLog reports whether a session is worth a journal entry.
func ShouldLog(current session.FocusSession) bool {
	switch current.Status {
	case session.StatusCompleted:
		return true
	case session.StatusInProgress:
		return current.DurationMinutes() >= minLoggedMinutes
	}
	return false
}

// Persist appends every loggable session not yet written by this journal.
func (journal *Journal) Persist(ctx context.Context, sessions []session.FocusSession) error {
	journal.mu.Lock()
	defer journal.mu.Unlock()

	pending := make([]session.FocusSession, 0, len(sessions))
	keys := make([]entryKey, 0, len(sessions))
	for _, current := range sessions {
		if !ShouldLog(current) {
			continue
		}
		key := keyFor(current)
		if _, done := journal.written[key]; done {
			continue
		}
		pending = append(pending, current)
		keys = append(keys, key)
	}
	if len(pending) == 0 {
		journal.logger.Debug("no sessions meet logging criteria", "received", len(sessions))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}

	today := journal.now()
	err := errors.Join(
		journal.appendDaily(today, pending),
		journal.appendMonthly(today, pending),
	)
	if err != nil {
		return err
	}
	for _, key := range keys {
		journal.written[key] = struct{}{}
	}
	journal.logger.Info("saved focus sessions", "count", len(pending))
	return nil
}

// DailyNotePath returns the daily note file for day.
func (journal *Journal) DailyNotePath(day time.Time) string {
	return filepath.Join(journal.dailyDir, day.Format("2006-01-02")+".md")
}

// MonthlyLogPath returns the monthly log file for day.
func (journal *Journal) MonthlyLogPath(day time.Time) string {
	return filepath.Join(journal.vaultDir, "focus-log-"+day.Format("2006-01")+".md")
}

func (journal *Journal) appendDaily(today time.Time, sessions []session.FocusSession) error {
	if journal.dailyDir == "" {
		return nil
	}
	if err := os.MkdirAll(journal.dailyDir, dirMode); err != nil {
		return fmt.Errorf("create daily notes dir: %w", err)
	}

	path := journal.DailyNotePath(today)
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		content = []byte("# " + today.Format("2006-01-02") + "\n\n")
	case err != nil:
		return fmt.Errorf("read daily note: %w", err)
	}

	entries := make([]string, 0, len(sessions))
	for _, current := range sessions {
		entries = append(entries, FormatDailyEntry(current))
	}
	updated := insertUnderSection(string(content), TasksSection, entries)
	if err := os.WriteFile(path, []byte(updated), fileMode); err != nil {
		return fmt.Errorf("write daily note: %w", err)
	}
	journal.logger.Debug("updated daily note", "path", path)
	return nil
}

func (journal *Journal) appendMonthly(today time.Time, sessions []session.FocusSession) (err error) {
	if journal.vaultDir == "" {
		return nil
	}
	if err := os.MkdirAll(journal.vaultDir, dirMode); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	path := journal.MonthlyLogPath(today)
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("open monthly log: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close monthly log: %w", closeErr)
		}
	}()

	var builder strings.Builder
	if fresh {
		builder.WriteString(MonthlyHeader(today))
	}
	for _, current := range sessions {
		builder.WriteString(FormatMonthlyRow(current))
		builder.WriteString("\n")
	}
	if _, err := file.WriteString(builder.String()); err != nil {
		return fmt.Errorf("write monthly log: %w", err)
	}
	journal.logger.Debug("updated monthly log", "path", path)
	return nil
}

// FormatDailyEntry renders one checklist line for the daily note.
func FormatDailyEntry(current session.FocusSession) string {
	checkbox := "[/]"
	if current.Status == session.StatusCompleted {
		checkbox = "[x]"
	}
	reminders := ""
	if current.ReminderCount > 0 {
		reminders = fmt.Sprintf(" 🔴 %d reminders", current.ReminderCount)
	}
	return fmt.Sprintf("- %s %s ⏱️ %dmin%s _%s_",
		checkbox, current.TaskName, current.DurationMinutes(), reminders, timeRange(current))
}

// FormatMonthlyRow renders one table row for the monthly log.
func FormatMonthlyRow(current session.FocusSession) string {
	return fmt.Sprintf("| %s | %s | %dmin | %d | %s | %s |",
		current.StartTime.Format("2006-01-02"),
		current.TaskName,
		current.DurationMinutes(),
		current.ReminderCount,
		current.Status,
		timeRange(current),
	)
}

// MonthlyHeader returns the heading and table header written to a new monthly log.
func MonthlyHeader(month time.Time) string {
	return "# Focus Log - " + month.Format("January 2006") + "\n\n" +
		"| Date | Task | Duration | Reminders | Status | Time |\n" +
		"|------|------|----------|-----------|--------|------|\n"
}

func timeRange(current session.FocusSession) string {
	end := "..."
	if !current.EndTime.IsZero() {
		end = current.EndTime.Format("15:04")
	}
	return current.StartTime.Format("15:04") + "-" + end
}

// insertUnderSection places lines right below heading, appending the heading when missing.
func insertUnderSection(content, heading string, lines []string) string {
	existing := strings.Split(content, "\n")
	insertAt := -1
	for index, line := range existing {
		if strings.TrimSpace(line) == heading {
			insertAt = index + 1
			break
		}
	}
	if insertAt < 0 {
		existing = append(existing, "", heading)
		insertAt = len(existing)
	}

	result := make([]string, 0, len(existing)+len(lines))
	result = append(result, existing[:insertAt]...)
	result = append(result, lines...)
	result = append(result, existing[insertAt:]...)
	return strings.Join(result, "\n")
}

func keyFor(current session.FocusSession) entryKey {
	key := entryKey{task: current.TaskName}
	if !current.StartTime.IsZero() {
		key.start = current.StartTime.UnixNano()
	}
	if !current.EndTime.IsZero() {
		key.end = current.EndTime.UnixNano()
	}
	return key
}
