// Package xdg provides XDG Base Directory support for ember.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "ember"

// ConfigHome returns the XDG config home directory.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// ConfigDir returns the ember config directory: ConfigHome()/ember.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}
