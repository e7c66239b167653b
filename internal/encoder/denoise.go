package encoder

import (
	"strconv"
	"strings"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
)

const (
	speechHighpassHz = 80
	speechLowpassHz  = 8000
	humHighpassHz    = 60
	humNotchHz       = 50
)

// FilterChain returns the ordered audio filter stages for s. Stages run
// high-pass, then the primary denoiser, then low-pass. Hum removal uses a
// high-pass followed by a band-reject notch. An independent notch is
// appended when NotchHz is set and the algorithm has no notch of its own.
func FilterChain(s model.NoiseReductionSettings) []string {
	var stages []string
	handlesNotch := false

	switch s.Algorithm.Kind {
	case model.NoiseAFFTDN:
		stages = appendIf(stages, s.HighpassHz, highpass)
		stages = append(stages, afftdn(s))
		stages = appendIf(stages, s.LowpassHz, lowpass)
	case model.NoiseCombined:
		stages = append(stages, highpass(orDefault(s.HighpassHz, speechHighpassHz)))
		stages = append(stages, afftdn(s))
		stages = append(stages, lowpass(orDefault(s.LowpassHz, speechLowpassHz)))
	case model.NoiseANLMDN:
		stages = appendIf(stages, s.HighpassHz, highpass)
		stages = append(stages, anlmdn(s))
		stages = appendIf(stages, s.LowpassHz, lowpass)
	case model.NoiseHighpass:
		stages = append(stages, highpass(orDefault(s.HighpassHz, speechHighpassHz)))
		stages = appendIf(stages, s.LowpassHz, lowpass)
	case model.NoiseSpeechPreset:
		stages = append(stages,
			highpass(orDefault(s.HighpassHz, speechHighpassHz)),
			afftdn(s),
			lowpass(orDefault(s.LowpassHz, speechLowpassHz)))
	case model.NoiseHumRemovalPreset:
		stages = append(stages,
			highpass(orDefault(s.HighpassHz, humHighpassHz)),
			notch(orDefault(s.NotchHz, humNotchHz)))
		handlesNotch = true
	default:
		// Unrecognised algorithms fall back to the primary denoiser alone.
		return []string{afftdn(s)}
	}

	if s.NotchHz != nil && !handlesNotch {
		stages = append(stages, notch(*s.NotchHz))
	}
	return stages
}

// BuildDenoisePlan filters the audio of input through FilterChain. The video
// stream is dropped, so video inputs should be given an audio output path.
func BuildDenoisePlan(ffmpegPath, input, output string, s model.NoiseReductionSettings) (plan.Plan, error) {
	if input == "" || output == "" {
		return plan.Plan{}, toolerr.Invalid("denoise", "input and output paths are required")
	}
	if usesAFFTDN(s.Algorithm.Kind) {
		if s.NoiseReductionDB < 0.01 || s.NoiseReductionDB > 97 {
			return plan.Plan{}, toolerr.Invalid("denoise", "noise reduction must be within 0.01..97 dB, got %v", s.NoiseReductionDB)
		}
		if s.NoiseFloorDB < -80 || s.NoiseFloorDB > -20 {
			return plan.Plan{}, toolerr.Invalid("denoise", "noise floor must be within -80..-20 dB, got %v", s.NoiseFloorDB)
		}
	}

	return plan.NewBuilder(ffmpegPath).
		Opt("-i", input).
		Flag("-vn").
		Opt("-af", strings.Join(FilterChain(s), ",")).
		Flag("-y", output).
		Build(output), nil
}

func usesAFFTDN(k model.NoiseAlgorithmKind) bool {
	switch k {
	case model.NoiseAFFTDN, model.NoiseCombined, model.NoiseSpeechPreset, model.NoiseOther:
		return true
	}
	return false
}

func afftdn(s model.NoiseReductionSettings) string {
	return "afftdn=nr=" + num(s.NoiseReductionDB) + ":nf=" + num(s.NoiseFloorDB)
}

// anlmdn strength is 0..1 scaled from the reduction amount.
func anlmdn(s model.NoiseReductionSettings) string {
	return "anlmdn=s=" + num(s.NoiseReductionDB/100)
}

func highpass(hz float64) string { return "highpass=f=" + num(hz) }

func lowpass(hz float64) string { return "lowpass=f=" + num(hz) }

func notch(hz float64) string { return "bandreject=f=" + num(hz) + ":width_type=q:w=2" }

func appendIf(stages []string, hz *float64, stage func(float64) string) []string {
	if hz == nil {
		return stages
	}
	return append(stages, stage(*hz))
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
