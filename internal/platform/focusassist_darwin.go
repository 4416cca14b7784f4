//go:build darwin

package platform

func setFocusAssist(bool) error {
	return ErrUnsupported
}
