package plan

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"

	"mediakit/internal/model"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

// ExecOptions tunes a single execution.
type ExecOptions struct {
	Dir        string
	Verbose    bool
	StdoutLine func(string)
	StderrLine func(string)
}

// Run executes the plan once and waits for it. A process that started and
// exited non-zero is not an error: it is reported through the result. Only a
// binary that cannot be spawned returns a ToolMissing error.
func Run(ctx context.Context, runner util.CmdRunner, p Plan, opts ExecOptions) (model.ExecutionResult, error) {
	res, err := runner.Run(ctx, util.CmdSpec{
		Path:          p.Program(),
		Args:          p.Args(),
		Dir:           opts.Dir,
		Verbose:       opts.Verbose,
		StdoutLine:    opts.StdoutLine,
		StderrLine:    opts.StderrLine,
		CaptureStdout: true,
	})
	if !res.Started && err != nil {
		if isNotFound(err) || ctx.Err() == nil {
			return model.ExecutionResult{ExitCode: -1}, toolerr.ToolMissing(p.Program(), err)
		}
		return model.ExecutionResult{ExitCode: -1, Stderr: err.Error()}, nil
	}
	out := model.ExecutionResult{
		Succeeded: err == nil && res.Code == 0,
		Stdout:    string(res.Stdout),
		Stderr:    string(res.Stderr),
		ExitCode:  res.Code,
	}
	if !out.Succeeded && out.Stderr == "" && err != nil {
		out.Stderr = err.Error()
	}
	return out, nil
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
