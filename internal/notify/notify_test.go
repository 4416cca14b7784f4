package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecorate(t *testing.T) {
	assert.Equal(t, "✅ Done", Decorate(KindSuccess, "Done"))
	assert.Equal(t, "❌ Oops", Decorate(KindError, "Oops"))
	assert.Equal(t, "Plain", Decorate(KindInfo, "Plain"))
}

func TestLogNotifierUsesKindLevel(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewLogNotifier(logger).Notify(KindWarning, "Focus Reminder", "back to work")

	output := buffer.String()
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, "back to work")
}

func TestSafeSwallowsPanics(t *testing.T) {
	panicking := Func(func(Kind, string, string) { panic("boom") })
	assert.NotPanics(t, func() {
		Safe(panicking, nil).Notify(KindInfo, "title", "message")
	})
}
