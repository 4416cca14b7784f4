package platform

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupported indicates the current desktop does not offer the requested capability.
var ErrUnsupported = errors.New("not supported on this platform")

// ActiveWindowProbe reports the lower-cased process name of the foreground window.
type ActiveWindowProbe interface {
	ForegroundApp() (string, error)
}

// NewActiveWindowProbe returns a platform-specific probe.
func NewActiveWindowProbe() ActiveWindowProbe {
	return newActiveWindowProbe()
}

// CanonicalAppName strips directories and the .exe suffix and lower-cases the rest.
func CanonicalAppName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.ToLower(name)
	return strings.TrimSuffix(name, ".exe")
}
