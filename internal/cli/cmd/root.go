package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"mediakit/internal/config"
	"mediakit/internal/dirs"
	"mediakit/internal/history"
	"mediakit/internal/logging"
	"mediakit/internal/toolerr"
	"mediakit/internal/ui"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitMissingDep     = 2
	ExitDownloadError  = 3
	ExitTranscodeError = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitErr classifies err. opCode is used for failures of the operation itself.
func exitErr(err error, opCode int) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	switch {
	case errors.Is(err, toolerr.ErrToolMissing):
		return &ExitError{Code: ExitMissingDep, Err: err}
	case errors.Is(err, toolerr.ErrInvalidRequest):
		return &ExitError{Code: ExitCLIError, Err: err}
	case errors.Is(err, ui.ErrInterrupted):
		return &ExitError{Code: ExitCLIError, Err: err}
	default:
		return &ExitError{Code: opCode, Err: err}
	}
}

type ctxKey string

const appKey ctxKey = "app"

// app is the per-invocation state built by the root pre-run hook.
type app struct {
	settings config.Settings
	logger   hclog.Logger
	history  *history.Store // nil when disabled
	noUI     bool
}

func appFrom(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appKey).(*app); ok {
		return a
	}
	return &app{logger: hclog.NewNullLogger()}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mediakit",
		Short: "Convert, resize, loop and denoise local media; download from video sites",
		Long: "mediakit drives ffmpeg, ffprobe and yt-dlp. Every operation is built as an explicit command " +
			"plan first, so --dry-run shows exactly what would be executed.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a := appFrom(cmd); a.history != nil {
				return a.history.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("out-dir", "o", "", "Output directory (default: next to the input; current directory for downloads)")
	pf.BoolP("verbose", "v", false, "Show full subprocess commands/output and debug logs")
	pf.String("log-level", "warn", "Log level: trace, debug, info, warn, error, off")
	pf.Int("jobs", 2, "Max concurrent jobs in TUI")
	pf.String("dl-binary", "", "Path to yt-dlp or youtube-dl")
	pf.String("ffmpeg", "", "Path to ffmpeg")
	pf.String("ffprobe", "", "Path to ffprobe")
	pf.String("history-db", "", "Path to the history database")
	pf.Bool("no-history", false, "Do not record this run in the history database")
	pf.Bool("dry-run", false, "Print the command plan as YAML without executing it")
	pf.Bool("no-ui", false, "Disable TUI; use plain textual output")

	root.AddCommand(
		newConvertCmd(),
		newConvertAudioCmd(),
		newResizeCmd(),
		newLoopCmd(),
		newDenoiseCmd(),
		newDownloadCmd(),
		newProbeCmd(),
		newInfoCmd(),
		newPlaylistCmd(),
		newFormatsCmd(),
		newDoctorCmd(),
		newHistoryCmd(),
		newCompletionCmd(),
	)
	return root
}

// setup loads configuration, builds the logger and opens the history store.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Init(cmd.Root()); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	s := config.Load()
	a := &app{settings: s}
	a.noUI, _ = cmd.Flags().GetBool("no-ui")
	a.logger = logging.New(logging.Options{Level: s.LogLevel, Verbose: s.Verbose})

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if s.History && !noHistory && cmd.Name() != "completion" {
		store, err := history.Open(s.HistoryDB)
		if err != nil {
			// The ledger is optional; never block an operation on it.
			a.logger.Warn("history disabled", "path", s.HistoryDB, "error", err)
		} else {
			a.history = store
		}
	}

	cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
	return nil
}

// tuiLogger sends logs to a file while the TUI owns the terminal.
func (a *app) tuiLogger() (hclog.Logger, func()) {
	dir, err := dirs.StateDir()
	if err != nil || dirs.Ensure(dir) != nil {
		return hclog.NewNullLogger(), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "mediakit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return hclog.NewNullLogger(), func() {}
	}
	l := logging.New(logging.Options{Level: a.settings.LogLevel, Verbose: a.settings.Verbose, Output: f})
	return l, func() { _ = f.Close() }
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
