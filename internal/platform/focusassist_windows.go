//go:build windows

package platform

import (
	"fmt"
	"strings"
)

const quietHoursKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\QuietHours`

const (
	quietHoursOff          = "0"
	quietHoursPriorityOnly = "1"
)

func setFocusAssist(enabled bool) error {
	profile := quietHoursOff
	if enabled {
		profile = quietHoursPriorityOnly
	}
	output, err := commandCombinedOutput("reg", "add", quietHoursKey, "/v", "Profile", "/t", "REG_DWORD", "/d", profile, "/f")
	if err != nil {
		return fmt.Errorf("set focus assist: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
