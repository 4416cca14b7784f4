//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) installLoginItem(appName, execPath string) error {
	quoted := `"` + strings.Trim(execPath, `"`) + `"`
	return runKey("add", appName, "/t", "REG_SZ", "/d", quoted, "/f")
}

func (service *platformService) removeLoginItem(appName string) error {
	installed, err := service.loginItemInstalled(appName)
	if err != nil || !installed {
		return err
	}
	return runKey("delete", appName, "/f")
}

func (service *platformService) loginItemInstalled(appName string) (bool, error) {
	err := runKey("query", appName)
	if err == nil {
		return true, nil
	}
	// reg query exits non-zero when the value is absent.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

// runKey runs reg against the value appName under the Run key.
func runKey(verb, appName string, args ...string) error {
	argv := append([]string{verb, registryRunKey, "/v", appName}, args...)
	output, err := commandCombinedOutput("reg", argv...)
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", verb, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
