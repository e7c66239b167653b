package encoder

import (
	"fmt"
	"strconv"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util/bitrate"
)

const (
	defaultVideoCodec = "libx264"
	defaultAudioCodec = "aac"
	convertAudioKbps  = 128

	targetSizeMinKbps = 100
	targetSizeMaxKbps = 50000
)

// crfCodecs accept -crf and -preset.
var crfCodecs = map[string]bool{
	"libx264": true,
	"libx265": true,
}

// BuildConvertPlan converts input into output's container. Copy mode remuxes
// the streams untouched; otherwise video and audio are re-encoded. probe is
// only consulted when TargetSizeMB is set.
func BuildConvertPlan(ffmpegPath, input, output string, s model.ConversionSettings, probe *model.ProbeResult) (plan.Plan, error) {
	if input == "" || output == "" {
		return plan.Plan{}, toolerr.Invalid("convert", "input and output paths are required")
	}

	if s.IsCopy() {
		return plan.NewBuilder(ffmpegPath).
			Opt("-i", input).
			Opt("-c", "copy").
			Flag("-y", output).
			Build(output), nil
	}

	if s.CRF != nil && *s.CRF > 51 {
		return plan.Plan{}, toolerr.Invalid("convert", "crf must be within 0..51, got %d", *s.CRF)
	}
	videoCodec := valueOr(s.VideoCodec, defaultVideoCodec)
	audioCodec := valueOr(s.AudioCodec, defaultAudioCodec)

	videoBitrate := ""
	if s.Bitrate != nil && *s.Bitrate != "" {
		videoBitrate = *s.Bitrate
	} else if s.TargetSizeMB > 0 {
		if probe == nil || probe.DurationSeconds <= 0 {
			return plan.Plan{}, toolerr.Invalid("convert", "target size needs a known input duration")
		}
		kbps := bitrate.ComputeVideoKbps(s.TargetSizeMB, probe.DurationSeconds,
			convertAudioKbps, targetSizeMinKbps, targetSizeMaxKbps)
		videoBitrate = fmt.Sprintf("%dk", kbps)
	}

	acceptsCRF := crfCodecs[videoCodec]
	b := plan.NewBuilder(ffmpegPath).
		Opt("-i", input).
		Opt("-c:v", videoCodec).
		Opt("-c:a", audioCodec)
	if s.CRF != nil {
		b.OptIf(acceptsCRF, "-crf", strconv.FormatUint(uint64(*s.CRF), 10))
	}
	if s.Preset != nil && *s.Preset != "" {
		b.OptIf(acceptsCRF, "-preset", *s.Preset)
	}
	return b.
		OptIf(videoBitrate != "", "-b:v", videoBitrate).
		Opt("-b:a", fmt.Sprintf("%dk", convertAudioKbps)).
		Flag("-y", output).
		Build(output), nil
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
