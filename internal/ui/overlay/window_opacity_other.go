//go:build !windows

package overlay

// Other desktops only get the translucent background.
func (mini *Window) applyNativeOpacity(uint8) {}
