// Package paths resolves configuration and data directory locations for
// the cstools CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDirName is the CWD-relative data directory used when no
// override is active.
const DefaultDataDirName = ".cstools"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CSTOOLS_CONFIG_DIR"
	EnvDataDir   = "CSTOOLS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/cstools (fallback ~/.config/cstools)
// macOS:   ~/Library/Application Support/cstools
// Windows: %APPDATA%/cstools
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "cstools"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "cstools"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "cstools"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > CSTOOLS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: flag > config file value > CSTOOLS_DATA_DIR env > $(CWD)/.cstools.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
