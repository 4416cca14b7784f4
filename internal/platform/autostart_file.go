//go:build linux || darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Login items on linux and darwin are single files; loginItemPath and
// renderLoginItem are provided per OS.

func (service *platformService) installLoginItem(appName, execPath string) error {
	path, err := service.loginItemPath(appName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(renderLoginItem(appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (service *platformService) removeLoginItem(appName string) error {
	path, err := service.loginItemPath(appName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (service *platformService) loginItemInstalled(appName string) (bool, error) {
	path, err := service.loginItemPath(appName)
	if err != nil {
		return false, err
	}
	return fileExists(path)
}
