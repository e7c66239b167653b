// Package pipeline ties plan building, execution, progress reporting and the
// history ledger together for each user-facing operation.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"mediakit/internal/downloader"
	"mediakit/internal/encoder"
	"mediakit/internal/history"
	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/probe"
	"mediakit/internal/progress"
	"mediakit/internal/util"
	"mediakit/internal/util/format"
)

// Operation names, as stored in history.
const (
	OpConvert      = "convert"
	OpConvertAudio = "convert-audio"
	OpResize       = "resize"
	OpLoop         = "loop"
	OpDenoise      = "denoise"
	OpDownload     = "download"
)

// Service runs one operation per call. It is safe to share between
// goroutines as long as WithJobID is not used.
type Service struct {
	dlPath      string
	ffmpegPath  string
	ffprobePath string
	outDir      string
	dryRun      bool
	verbose     bool
	runner      util.CmdRunner
	reporter    progress.Reporter
	jobID       string
	logger      hclog.Logger
	history     *history.Store
}

// Option configures a Service.
type Option func(*Service)

// WithDownloaderPath sets the downloader (yt-dlp/youtube-dl) binary path.
func WithDownloaderPath(p string) Option {
	return func(s *Service) {
		s.dlPath = p
	}
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithFFprobePath sets the ffprobe binary path.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithOutDir places outputs in dir instead of next to their inputs.
func WithOutDir(dir string) Option {
	return func(s *Service) {
		s.outDir = dir
	}
}

// WithDryRun makes every operation return its plan without running it.
func WithDryRun(v bool) Option {
	return func(s *Service) {
		s.dryRun = v
	}
}

func WithVerbose(v bool) Option {
	return func(s *Service) {
		s.verbose = v
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID fixes the job ID used for reporter events and history.
// Without it every call gets a fresh UUID.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

func WithLogger(l hclog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithHistory records every operation outcome in store.
func WithHistory(store *history.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// NewService constructs a new Service with the provided options.
// Binary paths default to the bare program names.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner(s.logger)
	}
	if s.dlPath == "" {
		s.dlPath = "yt-dlp"
	}
	if s.ffmpegPath == "" {
		s.ffmpegPath = "ffmpeg"
	}
	if s.ffprobePath == "" {
		s.ffprobePath = "ffprobe"
	}
	return s
}

// Result is the outcome of one operation.
type Result struct {
	JobID     string
	Operation string
	Input     string // file path or URL
	Plan      plan.Plan
	// FallbackPlan is set for planned downloads only.
	FallbackPlan *plan.Plan
	Planned      bool
	Output       model.OutputFile
}

// Probe reads media properties of a local file.
func (s *Service) Probe(ctx context.Context, path string) (model.ProbeResult, error) {
	return s.prober().Probe(ctx, path)
}

// ConvertVideo transcodes input. format selects the output container; empty
// keeps the input's extension.
func (s *Service) ConvertVideo(ctx context.Context, input string, settings model.ConversionSettings, format string) (Result, error) {
	return s.runTranscode(ctx, OpConvert, input, func() (planned, error) {
		return s.planConvert(ctx, input, settings, format)
	})
}

// ConvertAudio converts audio or extracts it from a video. format is the
// target audio format, e.g. "mp3" or "flac".
func (s *Service) ConvertAudio(ctx context.Context, input string, settings model.AudioConversionSettings, format string) (Result, error) {
	return s.runTranscode(ctx, OpConvertAudio, input, func() (planned, error) {
		return s.planAudio(input, settings, format)
	})
}

func (s *Service) Resize(ctx context.Context, input string, settings model.ResizeSettings) (Result, error) {
	return s.runTranscode(ctx, OpResize, input, func() (planned, error) {
		return s.planResize(ctx, input, settings)
	})
}

// Loop repeats input until it reaches the target duration.
func (s *Service) Loop(ctx context.Context, input string, settings model.LoopSettings) (Result, error) {
	return s.runTranscode(ctx, OpLoop, input, func() (planned, error) {
		return s.planLoop(ctx, input, settings)
	})
}

// ReduceNoise filters the audio track of input.
func (s *Service) ReduceNoise(ctx context.Context, input string, settings model.NoiseReductionSettings) (Result, error) {
	return s.runTranscode(ctx, OpDenoise, input, func() (planned, error) {
		return s.planDenoise(ctx, input, settings)
	})
}

// Download fetches o.URL. An empty o.OutputDir uses the service's output dir.
func (s *Service) Download(ctx context.Context, o model.DownloadOptions) (Result, error) {
	if o.OutputDir == "" {
		o.OutputDir = s.outDir
	}
	res := Result{JobID: s.newJobID(), Operation: OpDownload, Input: o.URL}

	primary, err := downloader.BuildPrimaryPlan(s.dlPath, o)
	if err != nil {
		return res, s.fail(res, err)
	}
	res.Plan = primary

	if s.dryRun {
		fallback, err := downloader.BuildFallbackPlan(s.dlPath, o)
		if err != nil {
			return res, s.fail(res, err)
		}
		res.FallbackPlan = &fallback
		res.Planned = true
		res.Output = model.OutputFile{Path: primary.ExpectedOutputPath()}
		s.emitPlanned(res)
		s.record(res, nil)
		return res, nil
	}

	s.update(res.JobID, progress.StageDownloading, -1, "Downloading")
	dr, err := s.downloaderClient().Download(ctx, o, downloader.Options{Reporter: s.reporter, JobID: res.JobID})
	if err != nil {
		return res, s.fail(res, err)
	}
	size, _ := util.FileSize(dr.OutputPath)
	res.Output = model.OutputFile{
		Path:         dr.OutputPath,
		Bytes:        size,
		UsedFallback: dr.UsedFallback,
		Message:      dr.Message,
	}
	s.emitSaved(res)
	s.record(res, nil)
	return res, nil
}

// Info returns metadata for one video URL.
func (s *Service) Info(ctx context.Context, url string) (downloader.VideoInfo, error) {
	return s.downloaderClient().Info(ctx, url)
}

// VideoDetails returns metadata for a video id or URL.
func (s *Service) VideoDetails(ctx context.Context, idOrURL string) (downloader.VideoInfo, error) {
	return s.downloaderClient().VideoDetails(ctx, idOrURL)
}

// Playlist lists the entries of a playlist URL.
func (s *Service) Playlist(ctx context.Context, url string) ([]downloader.PlaylistEntry, error) {
	return s.downloaderClient().Playlist(ctx, url)
}

// Formats returns the downloader's format table for url.
func (s *Service) Formats(ctx context.Context, url string) (string, error) {
	return s.downloaderClient().ListFormats(ctx, url)
}

// runTranscode builds a plan, then runs it unless this is a dry run.
func (s *Service) runTranscode(ctx context.Context, op, input string, build func() (planned, error)) (Result, error) {
	res := Result{JobID: s.newJobID(), Operation: op, Input: input}
	pl, err := build()
	if err != nil {
		return res, s.fail(res, err)
	}
	res.Plan = pl.plan
	s.logger.Debug("planned", "op", op, "input", input, "output", pl.plan.ExpectedOutputPath())

	if s.dryRun {
		res.Planned = true
		res.Output = model.OutputFile{Path: pl.plan.ExpectedOutputPath()}
		s.emitPlanned(res)
		s.record(res, nil)
		return res, nil
	}

	s.update(res.JobID, progress.StageEncoding, 0, pl.label)
	out, err := encoder.Execute(ctx, pl.plan, encoder.Options{
		Runner:      s.runner,
		Logger:      s.logger,
		Verbose:     s.verbose,
		Reporter:    s.reporter,
		JobID:       res.JobID,
		DurationSec: pl.durationSec,
		Label:       pl.label,
	})
	if err != nil {
		return res, s.fail(res, err)
	}
	res.Output = out
	s.logger.Info("operation finished", "op", op, "output", out.Path, "bytes", out.Bytes)
	s.emitSaved(res)
	s.record(res, nil)
	return res, nil
}

func (s *Service) prober() *probe.Client {
	return probe.NewClient(s.ffprobePath, s.runner, s.logger)
}

func (s *Service) downloaderClient() *downloader.Client {
	c := downloader.NewClient(s.dlPath, s.runner, s.logger)
	c.Verbose = s.verbose
	return c
}

func (s *Service) newJobID() string {
	if s.jobID != "" {
		return s.jobID
	}
	return uuid.NewString()
}

func (s *Service) update(jobID string, stage progress.Stage, percent float64, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{JobID: jobID, Stage: stage, Percent: percent, Message: msg})
}

// fail logs and records err and reports it to the UI. It returns err unchanged.
func (s *Service) fail(res Result, err error) error {
	s.logger.Error("operation failed", "op", res.Operation, "input", res.Input, "error", err)
	s.update(res.JobID, progress.StageError, -1, err.Error())
	s.record(res, err)
	return err
}

// emitPlanned sends a final "planned" update for the TUI.
func (s *Service) emitPlanned(res Result) {
	name := filepath.Base(res.Output.Path)
	s.update(res.JobID, progress.StageCompleted, 100, fmt.Sprintf("Planned: %s (dry-run)", name))
}

// emitSaved sends a final "saved" update for the TUI.
func (s *Service) emitSaved(res Result) {
	name := filepath.Base(res.Output.Path)
	size := format.HumanizeBytes(res.Output.Bytes)
	msg := fmt.Sprintf("Saved: %s (%s)", name, size)
	if res.Output.UsedFallback {
		msg += " via fallback format"
	}
	s.update(res.JobID, progress.StageCompleted, 100, msg)
}

func (s *Service) record(res Result, err error) {
	if s.history == nil {
		return
	}
	r := &history.Record{
		JobID:        res.JobID,
		Operation:    res.Operation,
		Input:        res.Input,
		Output:       res.Output.Path,
		Bytes:        res.Output.Bytes,
		UsedFallback: res.Output.UsedFallback,
		Status:       history.StatusSucceeded,
	}
	switch {
	case err != nil:
		r.Status = history.StatusFailed
		r.Error = err.Error()
	case res.Planned:
		r.Status = history.StatusPlanned
	}
	if herr := s.history.Add(r); herr != nil {
		s.logger.Warn("could not record history", "op", res.Operation, "error", herr)
	}
}
