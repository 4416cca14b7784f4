package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalAppName(t *testing.T) {
	assert.Equal(t, "discord", CanonicalAppName(`C:\Users\me\AppData\Local\Discord\Discord.exe`))
	assert.Equal(t, "firefox", CanonicalAppName("/usr/lib/firefox/Firefox\n"))
	assert.Equal(t, "code", CanonicalAppName(" code "))
	assert.Empty(t, CanonicalAppName("  "))
}

func TestSingleInstanceRejectsSecondHolder(t *testing.T) {
	name := "focusdesk-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.Equal(t, InstanceAddress(name), guard.Address())

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestSecondLaunchActivatesRunningInstance(t *testing.T) {
	name := "focusdesk-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() { activated <- struct{}{} })

	require.NoError(t, ActivateRunningInstance(name))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}

	require.NoError(t, guard.Release())
	assert.Error(t, ActivateRunningInstance(name))
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("focusdesk")
	assert.Equal(t, first, portFromName("focusdesk"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}

func TestFocusAssistSwallowsUnsupported(t *testing.T) {
	calls := 0
	assist := NewFocusAssist(nil)
	assist.set = func(bool) error {
		calls++
		return ErrUnsupported
	}
	assert.NoError(t, assist.SetFocusAssist(true))
	assert.NoError(t, assist.SetFocusAssist(false))
	assert.Equal(t, 2, calls)

	assist.set = func(bool) error { return errors.New("reg failed") }
	assert.Error(t, assist.SetFocusAssist(true))
}
