// Package encoder builds and runs ffmpeg plans for local media transforms.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/progress"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

// Options control ffmpeg execution.
type Options struct {
	Runner      util.CmdRunner
	Logger      hclog.Logger
	Verbose     bool
	Reporter    progress.Reporter // optional; enables -progress parsing
	JobID       string
	DurationSec float64 // input duration for percent calculation; 0 if unknown
	Label       string  // status text shown while running, e.g. "Resizing"
}

// WithProgress returns p with ffmpeg's machine-readable progress output
// enabled on stdout.
func WithProgress(p plan.Plan) plan.Plan {
	args := append([]string{"-progress", "pipe:1", "-nostats"}, p.Args()...)
	return plan.New(p.Program(), args, p.ExpectedOutputPath())
}

// Execute runs an ffmpeg plan. On failure the partial output file is removed
// and the tool's stderr is returned inside a ToolExecutionFailed error.
func Execute(ctx context.Context, p plan.Plan, opts Options) (model.OutputFile, error) {
	out := p.ExpectedOutputPath()
	if out == "" {
		return model.OutputFile{}, errors.New("plan has no output path")
	}
	if opts.Runner == nil {
		opts.Runner = util.NewDefaultRunner(opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	if err := util.EnsureDir(filepath.Dir(out)); err != nil {
		return model.OutputFile{}, fmt.Errorf("ensure output dir: %w", err)
	}

	exec := plan.ExecOptions{Verbose: opts.Verbose}
	if opts.Reporter != nil {
		p = WithProgress(p)
		tracker := newProgressTracker(opts.JobID, opts.DurationSec, opts.Label)
		exec.StdoutLine = func(line string) {
			if u, ok := tracker.feed(line); ok {
				opts.Reporter.Update(u)
			}
		}
		exec.StderrLine = func(line string) {
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		}
	}

	opts.Logger.Debug("running ffmpeg", "output", out, "command", p.String())
	res, err := plan.Run(ctx, opts.Runner, p, exec)
	if err != nil {
		return model.OutputFile{}, err
	}
	if !res.Succeeded {
		if rmErr := util.RemoveIfExists(out); rmErr != nil {
			opts.Logger.Warn("could not remove partial output", "output", out, "error", rmErr)
		}
		return model.OutputFile{}, toolerr.ExecutionFailed("ffmpeg", opts.Label, res.Stderr)
	}

	size, err := util.FileSize(out)
	if err != nil {
		return model.OutputFile{}, fmt.Errorf("stat output: %w", err)
	}
	return model.OutputFile{Path: out, Bytes: size}, nil
}
