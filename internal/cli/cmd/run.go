package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"mediakit/internal/model"
	"mediakit/internal/pipeline"
	"mediakit/internal/plan"
	"mediakit/internal/progress"
	"mediakit/internal/ui"
	"mediakit/internal/util/deps"
	"mediakit/internal/util/format"
)

// tools lists the binaries a command needs.
type tools struct {
	ffmpeg     bool
	ffprobe    bool
	downloader bool
}

var (
	transcodeTools = tools{ffmpeg: true, ffprobe: true}
	downloadTools  = tools{downloader: true}
)

// unit is one operation of a batch, e.g. one input file or one URL.
type unit struct {
	label string
	run   func(ctx context.Context, svc *pipeline.Service) (pipeline.Result, error)
}

// runUnits executes units through the TUI when stdout is a terminal, or
// sequentially with plain output otherwise. Dry runs always print YAML plans.
func runUnits(cmd *cobra.Command, title string, need tools, units []unit, opCode int) error {
	a := appFrom(cmd)
	base, err := a.serviceOptions(need)
	if err != nil {
		return exitErr(err, opCode)
	}

	if !a.settings.DryRun && !a.noUI && isTerminal() {
		logger, closeLog := a.tuiLogger()
		defer closeLog()
		jobs := make([]ui.Job, len(units))
		for i, u := range units {
			u := u
			jobs[i] = ui.Job{
				Label: u.label,
				Run: func(ctx context.Context, rep progress.Reporter, jobID string) (model.OutputFile, error) {
					opts := append(append([]pipeline.Option{}, base...),
						pipeline.WithLogger(logger), pipeline.WithReporter(rep), pipeline.WithJobID(jobID))
					res, err := u.run(ctx, pipeline.NewService(opts...))
					return res.Output, err
				},
			}
		}
		return exitErr(ui.Run(cmd.Context(), title, jobs, a.settings.Jobs), opCode)
	}

	svc := pipeline.NewService(base...)
	out := cmd.OutOrStdout()
	var enc *yaml.Encoder
	if a.settings.DryRun {
		enc = yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
	}
	for _, u := range units {
		res, err := u.run(cmd.Context(), svc)
		if err != nil {
			return exitErr(fmt.Errorf("%s: %w", u.label, err), opCode)
		}
		if res.Planned {
			if err := enc.Encode(newPlanDoc(res)); err != nil {
				return exitErr(err, ExitCLIError)
			}
			continue
		}
		printSaved(out, res.Output)
	}
	return nil
}

// serviceOptions resolves binaries and maps settings onto pipeline options.
// A dry run tolerates missing binaries and plans with the configured name.
func (a *app) serviceOptions(need tools) ([]pipeline.Option, error) {
	s := a.settings
	opts := []pipeline.Option{
		pipeline.WithOutDir(s.OutDir),
		pipeline.WithDryRun(s.DryRun),
		pipeline.WithVerbose(s.Verbose),
		pipeline.WithLogger(a.logger),
	}
	if a.history != nil {
		opts = append(opts, pipeline.WithHistory(a.history))
	}
	if need.ffmpeg {
		p, err := a.resolve(deps.FindFFmpeg, s.FFmpegBinary, "ffmpeg")
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithFFmpegPath(p))
	}
	if need.ffprobe {
		p, err := a.resolve(deps.FindFFprobe, s.FFprobeBinary, "ffprobe")
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithFFprobePath(p))
	}
	if need.downloader {
		p, err := a.resolve(deps.FindDownloader, s.DLBinary, "yt-dlp")
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithDownloaderPath(p))
	}
	return opts, nil
}

func (a *app) resolve(find func(string) (string, error), custom, bare string) (string, error) {
	p, err := find(custom)
	if err == nil {
		return p, nil
	}
	if a.settings.DryRun {
		a.logger.Warn("tool not found, planning with its name", "tool", bare, "error", err)
		if custom != "" {
			return custom, nil
		}
		return bare, nil
	}
	return "", err
}

func (a *app) service(need tools) (*pipeline.Service, error) {
	opts, err := a.serviceOptions(need)
	if err != nil {
		return nil, err
	}
	return pipeline.NewService(opts...), nil
}

// planDoc is the YAML shape of a dry run.
type planDoc struct {
	Operation string     `yaml:"operation"`
	Input     string     `yaml:"input"`
	Output    string     `yaml:"output,omitempty"`
	Plan      plan.Plan  `yaml:"plan"`
	Fallback  *plan.Plan `yaml:"fallback,omitempty"`
}

func newPlanDoc(res pipeline.Result) planDoc {
	return planDoc{
		Operation: res.Operation,
		Input:     res.Input,
		Output:    res.Output.Path,
		Plan:      res.Plan,
		Fallback:  res.FallbackPlan,
	}
}

func printSaved(w io.Writer, out model.OutputFile) {
	fmt.Fprintf(w, "Saved: %s (%s)\n", out.Path, format.HumanizeBytes(out.Bytes))
	if out.UsedFallback && out.Message != "" {
		fmt.Fprintln(w, out.Message)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
