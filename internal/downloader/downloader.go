// Package downloader drives yt-dlp (or youtube-dl) for downloads and
// metadata queries.
package downloader

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/progress"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

// formatUnavailableSignature is the yt-dlp error text that means the chosen
// format selector matched nothing for this video.
const formatUnavailableSignature = "Requested format is not available"

// isFormatUnavailable is the only place that decides whether a failed
// download is retried with the fallback plan.
func isFormatUnavailable(stderr string) bool {
	return strings.Contains(stderr, formatUnavailableSignature)
}

// Client runs downloader plans.
type Client struct {
	Path    string // yt-dlp or youtube-dl binary
	Runner  util.CmdRunner
	Logger  hclog.Logger
	Verbose bool
}

// NewClient returns a Client; nil runner and logger get defaults.
func NewClient(path string, runner util.CmdRunner, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if runner == nil {
		runner = util.NewDefaultRunner(logger)
	}
	return &Client{Path: path, Runner: runner, Logger: logger}
}

// Options carries per-download progress wiring.
type Options struct {
	Reporter progress.Reporter
	JobID    string
}

// Result describes a finished download.
type Result struct {
	OutputPath   string   // final media file, or the output directory if it could not be determined
	Files        []string // every file yt-dlp reported writing, in order
	UsedFallback bool
	Stdout       string
	Message      string
}

// Download runs the primary plan and, only when the site rejected the format
// selector, exactly one fallback plan. Any other failure is returned as is.
func (c *Client) Download(ctx context.Context, o model.DownloadOptions, opts Options) (Result, error) {
	primary, err := BuildPrimaryPlan(c.Path, o)
	if err != nil {
		return Result{}, err
	}
	if err := util.EnsureDir(o.OutputDir); err != nil {
		return Result{}, toolerr.Invalid("download", "cannot create output directory %q: %v", o.OutputDir, err)
	}
	started := time.Now().Add(-time.Second)

	c.Logger.Info("downloading", "url", o.URL, "quality", o.Quality, "audio_only", o.AudioOnly)
	res, files, err := c.run(ctx, primary, opts)
	if err != nil {
		return Result{}, err
	}
	if res.Succeeded {
		return c.finish(o, res, files, started, false), nil
	}
	if !isFormatUnavailable(res.Stderr) {
		return Result{}, toolerr.ExecutionFailed(c.tool(), "download", res.Stderr)
	}

	c.Logger.Warn("requested format unavailable, retrying with fallback selector", "url", o.URL)
	if opts.Reporter != nil {
		opts.Reporter.Update(progress.Update{
			JobID:   opts.JobID,
			Stage:   progress.StageFallback,
			Percent: -1,
			Message: "Format unavailable, retrying with fallback",
		})
	}
	fallback, err := BuildFallbackPlan(c.Path, o)
	if err != nil {
		return Result{}, err
	}
	fres, ffiles, err := c.run(ctx, fallback, opts)
	if err != nil {
		return Result{}, err
	}
	if !fres.Succeeded {
		return Result{}, toolerr.FallbackExhausted(c.tool(), res.Stderr, fres.Stderr)
	}
	return c.finish(o, fres, ffiles, started, true), nil
}

func (c *Client) run(ctx context.Context, p plan.Plan, opts Options) (model.ExecutionResult, []string, error) {
	var tracker outputTracker
	exec := plan.ExecOptions{
		Verbose: c.Verbose,
		StdoutLine: func(line string) {
			tracker.observe(line)
			if opts.Reporter == nil {
				return
			}
			if u, ok := ParseProgress(line, opts.JobID); ok {
				opts.Reporter.Update(u)
			}
		},
	}
	if opts.Reporter != nil {
		exec.StderrLine = func(line string) {
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		}
	}
	c.Logger.Debug("running downloader", "command", p.String())
	res, err := plan.Run(ctx, c.Runner, p, exec)
	return res, tracker.files, err
}

func (c *Client) finish(o model.DownloadOptions, res model.ExecutionResult, files []string, started time.Time, usedFallback bool) Result {
	out := ""
	if len(files) > 0 {
		out = files[len(files)-1]
	} else if p, err := SelectDownloadedFile(o.OutputDir, started); err == nil {
		out = p
	} else {
		out = o.OutputDir
	}
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}

	msg := "Downloaded " + filepath.Base(out)
	if usedFallback {
		msg += " (requested format was unavailable; used fallback format selection)"
	}
	c.Logger.Info("download finished", "output", out, "fallback", usedFallback)
	return Result{OutputPath: out, Files: files, UsedFallback: usedFallback, Stdout: res.Stdout, Message: msg}
}

func (c *Client) tool() string {
	if c.Path == "" {
		return "yt-dlp"
	}
	return filepath.Base(c.Path)
}

// outputTracker follows the files yt-dlp reports. A merge or audio
// extraction replaces the intermediate download it was produced from.
type outputTracker struct {
	files []string
}

var outputMarkers = []struct {
	prefix, suffix string
	replaces       bool
}{
	{prefix: `[Merger] Merging formats into "`, suffix: `"`, replaces: true},
	{prefix: "[ExtractAudio] Destination: ", replaces: true},
	{prefix: "[download] Destination: "},
	{prefix: "[download] ", suffix: " has already been downloaded"},
}

func (t *outputTracker) observe(line string) {
	line = strings.TrimSpace(line)
	for _, m := range outputMarkers {
		if !strings.HasPrefix(line, m.prefix) || !strings.HasSuffix(line, m.suffix) {
			continue
		}
		path := strings.TrimSuffix(strings.TrimPrefix(line, m.prefix), m.suffix)
		if path == "" {
			return
		}
		if m.replaces {
			// Separate video and audio streams are downloaded before a merge.
			for len(t.files) > 0 && sameStem(t.files[len(t.files)-1], path) {
				t.files = t.files[:len(t.files)-1]
			}
		}
		t.files = append(t.files, path)
		return
	}
}

// sameStem reports whether an intermediate like "a.f137.mp4" belongs to "a.mp4".
func sameStem(intermediate, final string) bool {
	stem := strings.TrimSuffix(final, filepath.Ext(final))
	return strings.HasPrefix(intermediate, stem+".")
}
