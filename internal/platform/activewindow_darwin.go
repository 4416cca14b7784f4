//go:build darwin

package platform

import (
	"fmt"
)

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

type activeWindowProbe struct{}

func newActiveWindowProbe() ActiveWindowProbe {
	return &activeWindowProbe{}
}

func (probe *activeWindowProbe) ForegroundApp() (string, error) {
	output, err := commandOutput("osascript", "-e", frontmostScript)
	if err != nil {
		return "", fmt.Errorf("osascript: %w", err)
	}
	return CanonicalAppName(string(output)), nil
}
