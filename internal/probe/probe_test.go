package probe

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediakit/internal/model"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio", "bit_rate": "128000"},
    {"index": 1, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"}
  ],
  "format": {"filename": "in.mp4", "format_name": "mov,mp4", "duration": "12.500000", "bit_rate": "4000000"}
}`

type fakeRunner struct {
	res   util.CmdResult
	err   error
	specs []util.CmdSpec
}

func (f *fakeRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.specs = append(f.specs, spec)
	return f.res, f.err
}

func TestBuildPlan(t *testing.T) {
	p := BuildPlan("ffprobe", "/tmp/in.mp4")
	assert.Equal(t, []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "/tmp/in.mp4"}, p.Args())
	assert.Equal(t, "", p.ExpectedOutputPath())
}

func TestParse(t *testing.T) {
	pr, err := Parse([]byte(sampleJSON), "in.mp4")
	require.NoError(t, err)

	assert.Equal(t, 12.5, pr.DurationSeconds)
	assert.Equal(t, uint(1920), pr.Width)
	assert.Equal(t, uint(1080), pr.Height)
	assert.InDelta(t, 29.97, pr.FrameRate, 0.01)
	assert.Equal(t, "h264", pr.VideoCodec)
	assert.Equal(t, uint(128000), pr.AudioBitrateBps)
	assert.True(t, pr.HasVideo())
}

func TestParse_AudioOnlyDefaults(t *testing.T) {
	data := `{"streams":[{"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"3.0"}}`
	pr, err := Parse([]byte(data), "a.mp3")
	require.NoError(t, err)

	assert.Equal(t, model.ProbeResult{DurationSeconds: 3, VideoCodec: "unknown"}, pr)
	assert.False(t, pr.HasVideo())
}

func TestParse_DurationFromStream(t *testing.T) {
	data := `{"streams":[{"codec_type":"video","codec_name":"vp9","duration":"7.25"}],"format":{}}`
	pr, err := Parse([]byte(data), "a.webm")
	require.NoError(t, err)
	assert.Equal(t, 7.25, pr.DurationSeconds)
}

func TestParse_ZeroDuration(t *testing.T) {
	pr, err := Parse([]byte(`{"format":{"duration":"0.000000"}}`), "x.wav")
	require.NoError(t, err)
	assert.Equal(t, 0.0, pr.DurationSeconds)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"streams":[],"format":{}}`), "x.mp4")
	assert.True(t, errors.Is(err, toolerr.ErrDurationUnavailable))

	_, err = Parse([]byte(`{"format":{"duration":"N/A"}}`), "x.mp4")
	assert.True(t, errors.Is(err, toolerr.ErrDurationUnavailable))

	for _, d := range []string{"-1", "inf", "NaN"} {
		_, err = Parse([]byte(`{"format":{"duration":"`+d+`"}}`), "x.mp4")
		assert.True(t, errors.Is(err, toolerr.ErrDurationUnavailable), "duration %s", d)
	}

	_, err = Parse([]byte(`not json`), "x.mp4")
	assert.True(t, errors.Is(err, toolerr.ErrParseFailed))
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "25/1", want: 25},
		{in: "30000/1001", want: 30000.0 / 1001.0},
		{in: "0/0", want: 0},
		{in: "24/0", want: 0},
		{in: "23.976", want: 23.976},
		{in: "", want: 0},
		{in: "abc", want: 0},
		{in: "x/1", want: 0},
	}
	for _, tt := range tests {
		if got := ParseFrameRate(tt.in); got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClientProbe(t *testing.T) {
	r := &fakeRunner{res: util.CmdResult{Stdout: []byte(sampleJSON), Started: true}}
	c := NewClient("/usr/bin/ffprobe", r, nil)

	pr, err := c.Probe(context.Background(), "/tmp/in.mp4")
	require.NoError(t, err)
	assert.Equal(t, 12.5, pr.DurationSeconds)
	require.Len(t, r.specs, 1)
	assert.Equal(t, "/usr/bin/ffprobe", r.specs[0].Path)
}

func TestClientProbe_Failures(t *testing.T) {
	t.Run("tool missing", func(t *testing.T) {
		r := &fakeRunner{res: util.CmdResult{Code: -1}, err: &exec.Error{Name: "ffprobe", Err: exec.ErrNotFound}}
		_, err := NewClient("ffprobe", r, nil).Probe(context.Background(), "in.mp4")
		assert.True(t, errors.Is(err, toolerr.ErrToolMissing))
	})

	t.Run("non-zero exit", func(t *testing.T) {
		r := &fakeRunner{
			res: util.CmdResult{Stderr: []byte("in.mp4: No such file or directory"), Code: 1, Started: true},
			err: errors.New("exit status 1"),
		}
		_, err := NewClient("ffprobe", r, nil).Probe(context.Background(), "in.mp4")
		assert.True(t, errors.Is(err, toolerr.ErrToolExecutionFailed))
		assert.Contains(t, err.Error(), "No such file or directory")
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewClient("ffprobe", &fakeRunner{}, nil).Probe(context.Background(), "")
		assert.True(t, errors.Is(err, toolerr.ErrInvalidRequest))
	})
}
