package encoder

import (
	"strconv"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util/derive"
)

// BuildLoopPlan repeats input until it covers s.TargetSeconds, then trims to
// exactly that length. Streams are copied, never re-encoded.
func BuildLoopPlan(ffmpegPath, input, output string, s model.LoopSettings, probe model.ProbeResult) (plan.Plan, error) {
	if input == "" || output == "" {
		return plan.Plan{}, toolerr.Invalid("loop", "input and output paths are required")
	}
	if s.TargetSeconds <= 0 {
		return plan.Plan{}, toolerr.Invalid("loop", "target duration must be positive, got %v", s.TargetSeconds)
	}
	loops := derive.LoopsNeeded(probe.DurationSeconds, s.TargetSeconds)
	if loops < 2 {
		return plan.Plan{}, toolerr.Invalid("loop",
			"target %.2fs does not exceed source duration %.2fs; nothing to loop", s.TargetSeconds, probe.DurationSeconds)
	}

	return plan.NewBuilder(ffmpegPath).
		Opt("-stream_loop", strconv.FormatUint(uint64(loops-1), 10)).
		Opt("-i", input).
		Opt("-t", strconv.FormatFloat(s.TargetSeconds, 'f', -1, 64)).
		Opt("-c", "copy").
		Flag("-y", output).
		Build(output), nil
}
