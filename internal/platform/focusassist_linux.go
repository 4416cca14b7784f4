//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

func setFocusAssist(enabled bool) error {
	path, err := exec.LookPath("gsettings")
	if err != nil {
		return ErrUnsupported
	}
	// show-banners is the inverse of do-not-disturb.
	showBanners := strconv.FormatBool(!enabled)
	output, err := commandCombinedOutput(path, "set", "org.gnome.desktop.notifications", "show-banners", showBanners)
	if err != nil {
		return fmt.Errorf("set focus assist: gsettings failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
