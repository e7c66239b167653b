// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	name         = "mediakit"
	defaultLevel = hclog.Warn
)

// Options configure New.
type Options struct {
	Level   string    // trace, debug, info, warn, error, off
	Verbose bool      // forces debug regardless of Level
	Output  io.Writer // defaults to os.Stderr
	JSON    bool
}

// New returns the root logger. An unknown level falls back to warn.
func New(o Options) hclog.Logger {
	out := o.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      ParseLevel(o.Level, o.Verbose),
		Output:     out,
		JSONFormat: o.JSON,
		Color:      hclog.ColorOff,
	})
}

// ParseLevel resolves the effective level.
func ParseLevel(level string, verbose bool) hclog.Level {
	if verbose {
		return hclog.Debug
	}
	if strings.TrimSpace(level) == "" {
		return defaultLevel
	}
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		return defaultLevel
	}
	return l
}
