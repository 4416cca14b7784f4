package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// EnableAutostart registers execPath to launch at login under appName.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := service.installLoginItem(appName, execPath); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

// DisableAutostart removes the login item. Removing an absent item succeeds.
func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}
	if err := service.removeLoginItem(appName); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// AutostartEnabled reports whether the login item for appName exists.
func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if appName == "" {
		return false, fmt.Errorf("autostart status: app name is empty")
	}
	installed, err := service.loginItemInstalled(appName)
	if err != nil {
		return false, fmt.Errorf("autostart status: %w", err)
	}
	return installed, nil
}

func slugName(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "focusdesk"
	}
	return strings.ReplaceAll(name, " ", "-")
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
