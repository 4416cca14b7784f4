//go:build linux

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

type activeWindowProbe struct {
	xdotoolPath string
	procRoot    string
}

type unsupportedWindowProbe struct{}

func newActiveWindowProbe() ActiveWindowProbe {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") && os.Getenv("DISPLAY") == "" {
		return unsupportedWindowProbe{}
	}
	path, err := exec.LookPath("xdotool")
	if err != nil {
		return unsupportedWindowProbe{}
	}
	return &activeWindowProbe{xdotoolPath: path, procRoot: "/proc"}
}

func (probe *activeWindowProbe) ForegroundApp() (string, error) {
	output, err := commandOutput(probe.xdotoolPath, "getactivewindow", "getwindowpid")
	if err != nil {
		return "", fmt.Errorf("xdotool: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return "", fmt.Errorf("parse window pid: %w", err)
	}
	return processName(probe.procRoot, pid)
}

func processName(procRoot string, pid int) (string, error) {
	comm, err := os.ReadFile(filepath.Join(procRoot, strconv.Itoa(pid), "comm"))
	if err != nil {
		return "", fmt.Errorf("read process name: %w", err)
	}
	return CanonicalAppName(string(comm)), nil
}

func (unsupportedWindowProbe) ForegroundApp() (string, error) {
	return "", ErrUnsupported
}
