// Package dirs resolves per-user config and state locations.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "mediakit"

// location describes where one kind of directory lives on each platform.
type location struct {
	xdgEnv    string   // linux override variable
	linuxHome []string // linux fallback below $HOME
	darwin    []string // below $HOME
	other     func() (string, error)
	suffix    string // appended after the app name outside linux
}

var (
	configLoc = location{
		xdgEnv:    "XDG_CONFIG_HOME",
		linuxHome: []string{".config"},
		darwin:    []string{"Library", "Application Support"},
		other:     os.UserConfigDir,
	}
	stateLoc = location{
		xdgEnv:    "XDG_STATE_HOME",
		linuxHome: []string{".local", "state"},
		darwin:    []string{"Library", "Application Support"},
		other:     localAppData,
		suffix:    "state",
	}
)

func (l location) resolve() (string, error) {
	if runtime.GOOS == "linux" {
		if v := os.Getenv(l.xdgEnv); v != "" {
			return filepath.Join(v, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, l.linuxHome...), appName)...), nil
	}

	var base string
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, l.darwin...)...)
	} else {
		b, err := l.other()
		if err != nil {
			return "", err
		}
		base = b
	}
	return filepath.Join(base, appName, l.suffix), nil
}

// localAppData is %LocalAppData% on Windows, else the user config dir.
func localAppData() (string, error) {
	if la := os.Getenv("LOCALAPPDATA"); la != "" {
		return la, nil
	}
	return os.UserConfigDir()
}

// ConfigDir holds config.{yaml,json,toml}.
// Linux: $XDG_CONFIG_HOME/mediakit or ~/.config/mediakit.
// macOS: ~/Library/Application Support/mediakit.
func ConfigDir() (string, error) { return configLoc.resolve() }

// StateDir holds the history database and the TUI log file.
// Linux: $XDG_STATE_HOME/mediakit or ~/.local/state/mediakit.
// Elsewhere: <app dir>/mediakit/state.
func StateDir() (string, error) { return stateLoc.resolve() }

// HistoryDBPath returns the default location of the operation ledger.
func HistoryDBPath() (string, error) {
	d, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.db"), nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll creates the config and state directories. Unresolvable
// locations are skipped.
func EnsureAll() error {
	for _, resolve := range []func() (string, error){ConfigDir, StateDir} {
		p, err := resolve()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
