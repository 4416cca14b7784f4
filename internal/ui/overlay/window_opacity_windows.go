//go:build windows

package overlay

import (
	"syscall"

	"fyne.io/fyne/v2/driver"
)

// Extended window style index and flags from winuser.h.
const (
	exStyleIndex  = ^uintptr(19) // GWL_EXSTYLE (-20)
	layeredWindow = 0x00080000   // WS_EX_LAYERED
	useAlpha      = 0x2          // LWA_ALPHA
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	getWindowLong        = user32.NewProc("GetWindowLongPtrW")
	setWindowLong        = user32.NewProc("SetWindowLongPtrW")
	setLayeredAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// applyNativeOpacity fades the whole HWND so text and buttons follow the phase too.
func (mini *Window) applyNativeOpacity(alpha uint8) {
	native, ok := mini.window.(driver.NativeWindow)
	if !ok {
		return
	}
	native.RunNative(func(context any) {
		hwnd := windowHandle(context)
		if hwnd == 0 {
			return
		}
		if style, _, _ := getWindowLong.Call(hwnd, exStyleIndex); style&layeredWindow == 0 {
			setWindowLong.Call(hwnd, exStyleIndex, style|layeredWindow)
		}
		setLayeredAttributes.Call(hwnd, 0, uintptr(alpha), useAlpha)
	})
}

func windowHandle(context any) uintptr {
	switch value := context.(type) {
	case driver.WindowsWindowContext:
		return value.HWND
	case *driver.WindowsWindowContext:
		if value != nil {
			return value.HWND
		}
	}
	return 0
}
