//go:build linux

package platform

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (service *platformService) loginItemPath(appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", desktopFileName(appName)), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopFileName(appName string) string {
	return slugName(appName) + ".desktop"
}

// renderLoginItem builds an XDG autostart desktop entry.
func renderLoginItem(appName, execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}
	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\n")
	entry.WriteString("Type=Application\n")
	fmt.Fprintf(&entry, "Name=%s\n", appName)
	fmt.Fprintf(&entry, "Exec=%s\n", execPath)
	entry.WriteString("X-GNOME-Autostart-enabled=true\n")
	entry.WriteString("Terminal=false\n")
	return entry.String()
}
