package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "shopfront"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SHOPFRONT_CONFIG_DIR"
	EnvDataDir   = "SHOPFRONT_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/shopfront (fallback ~/.config/shopfront)
// Others:  os.UserConfigDir()/shopfront
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/shopfront (fallback ~/.local/share/shopfront)
// Others:  os.UserConfigDir()/shopfront
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appDirName), nil
}

// ResolveConfigDir applies the precedence flag > SHOPFRONT_CONFIG_DIR >
// DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies the precedence flag > config file value >
// SHOPFRONT_DATA_DIR > DefaultDataDir().
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
	return DefaultDataDir()
}
