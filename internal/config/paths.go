package config

import (
	"os"
	"path/filepath"
)

// Project config file names.
const (
	ProjectConfigFile       = ".changemoji.yml"
	TOMLProjectConfigFile   = ".changemoji.toml"
	LegacyProjectConfigFile = ".changemoji.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changemoji/config.yml
// - macOS: ~/Library/Application Support/changemoji/config.yml
// - Windows: %APPDATA%\changemoji\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changemoji", "config.yml"), nil
}

// ProjectConfigPath returns the project config path inside dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// TOMLProjectConfigPath returns the TOML project config path inside dir.
func TOMLProjectConfigPath(dir string) string {
	return filepath.Join(dir, TOMLProjectConfigFile)
}

// LegacyProjectConfigPath returns the legacy JSON project config path inside dir.
func LegacyProjectConfigPath(dir string) string {
	return filepath.Join(dir, LegacyProjectConfigFile)
}
