package encoder

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util/derive"
)

// ResizeFormats are the containers a resize may target.
var ResizeFormats = []string{"mp4", "avi", "mov", "mkv", "webm"}

// BuildResizePlan scales input to WxH. Audio is always re-encoded so the
// output container can differ from the input's.
func BuildResizePlan(ffmpegPath, input, output string, s model.ResizeSettings) (plan.Plan, error) {
	if input == "" || output == "" {
		return plan.Plan{}, toolerr.Invalid("resize", "input and output paths are required")
	}
	if s.Width == 0 || s.Height == 0 {
		return plan.Plan{}, toolerr.Invalid("resize", "width and height must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.Quality > 100 {
		return plan.Plan{}, toolerr.Invalid("resize", "quality must be within 0..100, got %d", s.Quality)
	}

	videoCodec, audioCodec := "libx264", "aac"
	webm := containerOf(output) == "webm"
	if webm {
		videoCodec, audioCodec = "libvpx-vp9", "libopus"
	}
	crf := strconv.FormatUint(uint64(derive.CRFFromQuality(s.Quality)), 10)

	return plan.NewBuilder(ffmpegPath).
		Opt("-i", input).
		Opt("-c:v", videoCodec).
		Opt("-crf", crf).
		OptIf(!webm, "-preset", "medium").
		OptIf(webm, "-b:v", "0").
		Opt("-c:a", audioCodec).
		Opt("-b:a", "128k").
		Opt("-vf", ScaleFilter(s.Width, s.Height, s.KeepAspect)).
		Flag("-y", output).
		Build(output), nil
}

// ScaleFilter returns the scale expression. With keepAspect the frame is
// fitted inside WxH and kept at even dimensions.
func ScaleFilter(w, h uint, keepAspect bool) string {
	if keepAspect {
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease:force_divisible_by=2", w, h)
	}
	return fmt.Sprintf("scale=%d:%d", w, h)
}

func containerOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
