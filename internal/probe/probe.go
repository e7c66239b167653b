// Package probe reads media properties through ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

// Client runs ffprobe against local files.
type Client struct {
	FFprobePath string
	Runner      util.CmdRunner
	Logger      hclog.Logger
}

// NewClient returns a Client; nil runner and logger get defaults.
func NewClient(ffprobePath string, runner util.CmdRunner, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if runner == nil {
		runner = util.NewDefaultRunner(logger)
	}
	return &Client{FFprobePath: ffprobePath, Runner: runner, Logger: logger}
}

// BuildPlan returns the ffprobe invocation for path.
func BuildPlan(ffprobePath, path string) plan.Plan {
	return plan.NewBuilder(ffprobePath).
		Opt("-v", "quiet").
		Opt("-print_format", "json").
		Flag("-show_format", "-show_streams").
		Flag(path).
		Build("")
}

// Probe returns duration, dimensions, frame rate and codec information for path.
func (c *Client) Probe(ctx context.Context, path string) (model.ProbeResult, error) {
	if path == "" {
		return model.ProbeResult{}, toolerr.Invalid("probe", "input path is required")
	}
	res, err := plan.Run(ctx, c.Runner, BuildPlan(c.FFprobePath, path), plan.ExecOptions{})
	if err != nil {
		return model.ProbeResult{}, err
	}
	if !res.Succeeded {
		return model.ProbeResult{}, toolerr.ExecutionFailed("ffprobe", "probe", res.Stderr)
	}
	pr, err := Parse([]byte(res.Stdout), path)
	if err != nil {
		return model.ProbeResult{}, err
	}
	c.Logger.Debug("probed", "input", path, "duration", pr.DurationSeconds,
		"width", pr.Width, "height", pr.Height, "codec", pr.VideoCodec)
	return pr, nil
}

// Parse converts ffprobe JSON into a ProbeResult. Stream fields that are
// missing default to zero or "unknown"; a missing or unparsable duration
// is an error.
func Parse(data []byte, path string) (model.ProbeResult, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return model.ProbeResult{}, toolerr.ParseFailed("ffprobe", "probe", err)
	}

	duration, ok := parseDuration(out)
	if !ok {
		return model.ProbeResult{}, toolerr.DurationUnavailable(path)
	}

	pr := model.ProbeResult{
		DurationSeconds: duration,
		VideoCodec:      model.UnknownCodec,
	}
	if v, found := firstStream(out.Streams, "video"); found {
		pr.Width = nonNegative(v.Width)
		pr.Height = nonNegative(v.Height)
		pr.FrameRate = ParseFrameRate(v.RFrameRate)
		if v.CodecName != "" {
			pr.VideoCodec = v.CodecName
		}
	}
	if a, found := firstStream(out.Streams, "audio"); found {
		if br, err := strconv.ParseUint(strings.TrimSpace(a.BitRate), 10, 64); err == nil {
			pr.AudioBitrateBps = uint(br)
		}
	}
	return pr, nil
}

// parseDuration prefers the container duration and falls back to the first
// stream that reports one. Zero is a valid duration; negative, infinite and
// NaN values are not.
func parseDuration(out ffprobeOutput) (float64, bool) {
	candidates := []string{out.Format.Duration}
	for _, s := range out.Streams {
		candidates = append(candidates, s.Duration)
	}
	for _, c := range candidates {
		d, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err == nil && d >= 0 && !math.IsInf(d, 0) && !math.IsNaN(d) {
			return d, true
		}
	}
	return 0, false
}

// ParseFrameRate accepts "num/den" or a plain number. A zero denominator or
// anything unparsable yields 0.
func ParseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	num, den, isRatio := strings.Cut(s, "/")
	if !isRatio {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return 0
		}
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err := errors.Join(err1, err2); err != nil || d == 0 || n < 0 || d < 0 {
		return 0
	}
	return n / d
}

func firstStream(streams []stream, codecType string) (stream, bool) {
	for _, s := range streams {
		if s.CodecType == codecType {
			return s, true
		}
	}
	return stream{}, false
}

func nonNegative(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}
