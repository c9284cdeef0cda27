// Package paths resolves the configuration and data directories of the
// hbnb CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "hbnb"

// LocalDirName is a project-local configuration directory. When it exists
// in the working directory it is preferred over the platform default.
const LocalDirName = ".hbnb"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HBNB_CONFIG_DIR"
	EnvDataDir   = "HBNB_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// xdgDir returns $<env>/hbnb, falling back to ~/<fallback...>/hbnb on
// Linux and to os.UserConfigDir elsewhere.
func xdgDir(env string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Join(v, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/hbnb (fallback ~/.config/hbnb)
// macOS:   ~/Library/Application Support/hbnb
// Windows: %APPDATA%/hbnb
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/hbnb (fallback ~/.local/share/hbnb)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// firstAbs returns the first non-empty candidate as an absolute path.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		return abs, true, err
	}
	return "", false, nil
}

// ResolveConfigDir returns the configuration directory:
// flag > HBNB_CONFIG_DIR > ./.hbnb when present > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return dir, err
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	local := filepath.Join(cwd, LocalDirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > configured value > HBNB_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag, configured string) (string, error) {
	if dir, ok, err := firstAbs(flag, configured, os.Getenv(EnvDataDir)); ok {
		return dir, err
	}
	return DefaultDataDir()
}
