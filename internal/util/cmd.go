package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// CmdRunner runs a subprocess. Tests substitute fakes.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// DefaultRunner executes real processes and logs each command line at debug level.
type DefaultRunner struct {
	Logger hclog.Logger
}

// NewDefaultRunner returns a runner backed by os/exec. A nil logger discards output.
func NewDefaultRunner(logger hclog.Logger) *DefaultRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DefaultRunner{Logger: logger}
}

func (r *DefaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	r.Logger.Debug("exec", "command", ShellQuote(spec.Path, spec.Args), "dir", spec.Dir)
	res, err := Run(ctx, spec)
	if !res.Started {
		r.Logger.Debug("exec failed to start", "path", spec.Path, "error", err)
	} else {
		r.Logger.Debug("exec finished", "path", spec.Path, "exit", res.Code)
	}
	return res, err
}

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path    string
	Args    []string
	Env     []string // appended to the inherited environment when non-nil
	Dir     string   // empty inherits the working directory
	Verbose bool     // echo the command line and its output

	StdoutLine    func(string) // called per stdout line
	StderrLine    func(string) // called per stderr line
	CaptureStdout bool         // buffer stdout even when StdoutLine is set
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error

	// Started is false when the process could not be spawned at all
	// (binary missing or not executable).
	Started bool
}

// Run executes the command and waits for it. Stderr is always captured;
// stdout is captured when CaptureStdout is set or no StdoutLine callback is
// given. Verbose echoes the command line and both streams to the terminal.
// A non-zero exit returns an error alongside a fully populated CmdResult.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}

	if spec.Verbose {
		fmt.Fprintf(os.Stderr, "+ %s\n", ShellQuote(spec.Path, spec.Args))
	}
	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1, Err: err}, fmt.Errorf("start %s: %w", spec.Path, err)
	}

	var outBuf, errBuf bytes.Buffer
	var outCapture *bytes.Buffer
	if spec.CaptureStdout || spec.StdoutLine == nil {
		outCapture = &outBuf
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pump(stdout, spec.StdoutLine, echoTo(spec.Verbose, os.Stdout), outCapture)
	}()
	go func() {
		defer wg.Done()
		pump(stderr, spec.StderrLine, echoTo(spec.Verbose, os.Stderr), &errBuf)
	}()
	// Both pipes must be drained before Wait closes them.
	wg.Wait()
	waitErr := cmd.Wait()

	res := CmdResult{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes(), Err: waitErr, Started: true}
	if waitErr != nil {
		res.Code = -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.Code = exitErr.ExitCode()
		}
		return res, fmt.Errorf("command failed (exit %d): %w", res.Code, waitErr)
	}
	return res, nil
}

// pump reads r line by line, handing each line to onLine, echo and capture
// when they are set. Lines have no length limit: a single yt-dlp --dump-json
// line can run to several megabytes.
func pump(r io.Reader, onLine func(string), echo io.Writer, capture *bytes.Buffer) {
	if onLine == nil && echo == nil {
		if capture == nil {
			_, _ = io.Copy(io.Discard, r)
			return
		}
		_, _ = capture.ReadFrom(r)
		return
	}
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
			if onLine != nil {
				onLine(line)
			}
			if echo != nil {
				fmt.Fprintln(echo, line)
			}
			if capture != nil {
				capture.WriteString(line)
				capture.WriteByte('\n')
			}
		}
		if err != nil {
			// Keep draining so the child never blocks on a full pipe.
			if err != io.EOF {
				_, _ = io.Copy(io.Discard, r)
			}
			return
		}
	}
}

func echoTo(verbose bool, w io.Writer) io.Writer {
	if verbose {
		return w
	}
	return nil
}

// ShellQuote returns a printable shell-like command string for logging.
func ShellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	// Simple quoting: wrap in single quotes and escape existing single quotes.
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
