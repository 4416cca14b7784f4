package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMatchesStateFileLayout(t *testing.T) {
	assert.Equal(t, "mode:focus\nremaining:25", FormatPomodoro(ModeFocus, 25))
	assert.Equal(t, "mode:longbreak\nremaining:0", FormatPomodoro(ModeLongBreak, 0))
	assert.Equal(t, "tasks:3\nactive:true", FormatFocus(3, true))
	assert.Equal(t, "tasks:0\nactive:false", FormatFocus(0, false))
}

func TestParsePomodoro(t *testing.T) {
	state := ParsePomodoro("mode:shortbreak\nremaining:7\n")
	assert.True(t, state.Complete())
	assert.Equal(t, ModeShortBreak, state.Mode)
	assert.Equal(t, 7, state.RemainingMinutes)
}

func TestParseTornPomodoroIsIndeterminate(t *testing.T) {
	state := ParsePomodoro("mode:focus\nremai")
	assert.True(t, state.HasMode)
	assert.False(t, state.HasRemaining)
	assert.False(t, state.Complete())

	assert.False(t, ParsePomodoro("").Complete())
	assert.False(t, ParsePomodoro("mode:nap\nremaining:3").HasMode)
}

func TestParseFocus(t *testing.T) {
	state := ParseFocus("tasks:2\r\nactive:true")
	assert.True(t, state.Complete())
	assert.Equal(t, 2, state.TaskCount)
	assert.True(t, state.Active)

	partial := ParseFocus("tasks:x\nactive:true")
	assert.False(t, partial.HasTasks)
	assert.True(t, partial.HasActive)
}

func TestFileSinkWriteAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pomodoro-state.txt")
	sink := FileSink{}

	require.NoError(t, sink.WriteState(path, FormatPomodoro(ModeFocus, 50)))
	text, ok, err := ReadState(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "mode:focus\nremaining:50", text)

	require.NoError(t, sink.ClearState(path))
	require.NoError(t, sink.ClearState(path))
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, ok, err = ReadState(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublisherWritesThroughSink(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, "pomodoro", "focus", nil)

	publisher.PublishPomodoro(ModeFocus, 12)
	publisher.PublishFocus(1, true)

	text, ok := sink.State("pomodoro")
	require.True(t, ok)
	assert.Equal(t, "mode:focus\nremaining:12", text)
	text, ok = sink.State("focus")
	require.True(t, ok)
	assert.Equal(t, "tasks:1\nactive:true", text)

	publisher.ClearPomodoro()
	publisher.ClearFocus()
	_, ok = sink.State("pomodoro")
	assert.False(t, ok)
	_, ok = sink.State("focus")
	assert.False(t, ok)
}

type failingSink struct{}

func (failingSink) WriteState(string, string) error { return errors.New("disk full") }
func (failingSink) ClearState(string) error         { return errors.New("disk full") }

func TestPublisherSwallowsSinkErrors(t *testing.T) {
	publisher := NewPublisher(failingSink{}, "p", "f", nil)
	assert.NotPanics(t, func() {
		publisher.PublishPomodoro(ModeFocus, 1)
		publisher.ClearPomodoro()
		publisher.PublishFocus(1, true)
		publisher.ClearFocus()
	})
}
