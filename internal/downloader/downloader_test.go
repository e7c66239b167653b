package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediakit/internal/model"
	"mediakit/internal/progress"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

// attempt scripts one downloader invocation.
type attempt struct {
	stdout []string
	stderr string
	code   int
}

type scriptedRunner struct {
	attempts []attempt
	specs    []util.CmdSpec
}

func (r *scriptedRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	r.specs = append(r.specs, spec)
	if len(r.specs) > len(r.attempts) {
		return util.CmdResult{Started: true, Code: 99}, errors.New("unexpected invocation")
	}
	a := r.attempts[len(r.specs)-1]
	var stdout []byte
	for _, line := range a.stdout {
		if spec.StdoutLine != nil {
			spec.StdoutLine(line)
		}
		stdout = append(stdout, line+"\n"...)
	}
	res := util.CmdResult{Stdout: stdout, Stderr: []byte(a.stderr), Code: a.code, Started: true}
	if a.code != 0 {
		return res, errors.New("exit status 1")
	}
	return res, nil
}

type recordingReporter struct {
	updates []progress.Update
}

func (r *recordingReporter) Update(u progress.Update) { r.updates = append(r.updates, u) }
func (r *recordingReporter) Log(progress.Log) {}
func (r *recordingReporter) Result(progress.Result) {}

func (r *recordingReporter) stages() []progress.Stage {
	var out []progress.Stage
	for _, u := range r.updates {
		out = append(out, u.Stage)
	}
	return out
}

const unavailable = "ERROR: [youtube] abc: Requested format is not available. Use --list-formats for a list of available formats"

func newTestClient(r util.CmdRunner) *Client {
	return NewClient("yt-dlp", r, nil)
}

func TestDownload_PrimarySucceeds(t *testing.T) {
	dir := t.TempDir()
	runner := &scriptedRunner{attempts: []attempt{{
		stdout: []string{
			"[download] Destination: " + filepath.Join(dir, "clip.f137.mp4"),
			"[download]  50.0% of 10.00MiB at 1.00MiB/s ETA 00:05",
			"[download] Destination: " + filepath.Join(dir, "clip.f140.m4a"),
			`[Merger] Merging formats into "` + filepath.Join(dir, "clip.mp4") + `"`,
		},
	}}}
	rep := &recordingReporter{}

	res, err := newTestClient(runner).Download(context.Background(),
		model.DownloadOptions{URL: "https://example.com/v", OutputDir: dir, Quality: "720p"},
		Options{Reporter: rep, JobID: "j"})
	require.NoError(t, err)

	require.Len(t, runner.specs, 1)
	assert.False(t, res.UsedFallback)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), res.OutputPath)
	assert.Equal(t, []string{filepath.Join(dir, "clip.mp4")}, res.Files)
	assert.NotContains(t, res.Message, "fallback")
	assert.Contains(t, rep.stages(), progress.StageDownloading)
	assert.Contains(t, rep.stages(), progress.StageMerging)
}

func TestDownload_FormatUnavailableUsesFallbackOnce(t *testing.T) {
	dir := t.TempDir()
	runner := &scriptedRunner{attempts: []attempt{
		{stderr: unavailable, code: 1},
		{stdout: []string{"[download] Destination: " + filepath.Join(dir, "clip.webm")}},
	}}
	rep := &recordingReporter{}

	res, err := newTestClient(runner).Download(context.Background(),
		model.DownloadOptions{URL: "https://example.com/v", OutputDir: dir, Quality: "1080p"},
		Options{Reporter: rep, JobID: "j"})
	require.NoError(t, err)

	require.Len(t, runner.specs, 2)
	assert.NotContains(t, runner.specs[0].Args, "--extractor-args")
	assert.Contains(t, runner.specs[1].Args, "--extractor-args")
	assert.Contains(t, runner.specs[1].Args, FallbackSelector("1080p"))

	assert.True(t, res.UsedFallback)
	assert.Equal(t, filepath.Join(dir, "clip.webm"), res.OutputPath)
	assert.Contains(t, res.Message, "fallback")
	assert.Contains(t, rep.stages(), progress.StageFallback)
}

func TestDownload_FallbackFailsCarriesBothErrors(t *testing.T) {
	runner := &scriptedRunner{attempts: []attempt{
		{stderr: unavailable, code: 1},
		{stderr: "ERROR: HTTP Error 403: Forbidden", code: 1},
	}}

	_, err := newTestClient(runner).Download(context.Background(),
		model.DownloadOptions{URL: "https://example.com/v", OutputDir: t.TempDir(), Quality: "720p"},
		Options{})
	require.Error(t, err)

	require.Len(t, runner.specs, 2)
	assert.True(t, errors.Is(err, toolerr.ErrFallbackExhausted))
	assert.Contains(t, err.Error(), "Requested format is not available")
	assert.Contains(t, err.Error(), "HTTP Error 403")
}

func TestDownload_OtherFailureDoesNotRetry(t *testing.T) {
	runner := &scriptedRunner{attempts: []attempt{
		{stderr: "ERROR: Unsupported URL: https://example.com/v", code: 1},
	}}

	_, err := newTestClient(runner).Download(context.Background(),
		model.DownloadOptions{URL: "https://example.com/v", OutputDir: t.TempDir()},
		Options{})
	require.Error(t, err)

	assert.Len(t, runner.specs, 1)
	assert.True(t, errors.Is(err, toolerr.ErrToolExecutionFailed))
	assert.False(t, errors.Is(err, toolerr.ErrFallbackExhausted))
	assert.Contains(t, err.Error(), "Unsupported URL")
}

func TestDownload_ResolvesOutputFromDirectory(t *testing.T) {
	dir := t.TempDir()
	runner := &scriptedRunner{attempts: []attempt{{}}}
	want := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(want, []byte("x"), 0o644))

	res, err := newTestClient(runner).Download(context.Background(),
		model.DownloadOptions{URL: "https://example.com/v", OutputDir: dir, AudioOnly: true},
		Options{})
	require.NoError(t, err)
	assert.Equal(t, want, res.OutputPath)
}

func TestDownload_InvalidRequestNeverRuns(t *testing.T) {
	runner := &scriptedRunner{}
	_, err := newTestClient(runner).Download(context.Background(),
		model.DownloadOptions{URL: "", OutputDir: t.TempDir()}, Options{})
	assert.True(t, errors.Is(err, toolerr.ErrInvalidRequest))
	assert.Empty(t, runner.specs)
}

func TestIsFormatUnavailable(t *testing.T) {
	assert.True(t, isFormatUnavailable(unavailable))
	assert.False(t, isFormatUnavailable("ERROR: Video unavailable"))
	assert.False(t, isFormatUnavailable(""))
}

func TestOutputTracker(t *testing.T) {
	var tr outputTracker
	for _, line := range []string{
		"[youtube] abc: Downloading webpage",
		"[download] Destination: a.webm",
		"[ExtractAudio] Destination: a.mp3",
		"[download] b.mp3 has already been downloaded",
	} {
		tr.observe(line)
	}
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, tr.files)
}
