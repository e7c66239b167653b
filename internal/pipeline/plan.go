package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"mediakit/internal/encoder"
	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util/media"
)

// planned is a built ffmpeg plan plus what the executor needs to report on it.
type planned struct {
	plan        plan.Plan
	label       string
	durationSec float64 // 0 when unknown
}

// videoExts are inputs whose denoised audio goes into an audio container.
var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".mov": true, ".avi": true,
	".webm": true, ".flv": true, ".m4v": true, ".wmv": true,
}

// denoiseVideoExt is the output extension when denoising a video input.
const denoiseVideoExt = "m4a"

func (s *Service) planConvert(ctx context.Context, input string, settings model.ConversionSettings, format string) (planned, error) {
	if err := checkInput("convert", input); err != nil {
		return planned{}, err
	}
	out, err := s.outputPath(input, media.Convert(format))
	if err != nil {
		return planned{}, err
	}

	var pr *model.ProbeResult
	needsDuration := settings.TargetSizeMB > 0 && (settings.Bitrate == nil || *settings.Bitrate == "")
	if needsDuration {
		r, err := s.Probe(ctx, input)
		if err != nil {
			return planned{}, err
		}
		pr = &r
	}

	p, err := encoder.BuildConvertPlan(s.ffmpegPath, input, out, settings, pr)
	if err != nil {
		return planned{}, err
	}
	pl := planned{plan: p, label: "Converting"}
	if pr != nil {
		pl.durationSec = pr.DurationSeconds
	} else {
		pl.durationSec = s.durationHint(ctx, input)
	}
	return pl, nil
}

func (s *Service) planAudio(input string, settings model.AudioConversionSettings, format string) (planned, error) {
	if err := checkInput("convert audio", input); err != nil {
		return planned{}, err
	}
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		return planned{}, toolerr.Invalid("convert audio", "target audio format is required")
	}
	if settings.Codec == "" {
		codec, ok := encoder.AudioCodecForFormat(format)
		if !ok {
			return planned{}, toolerr.Invalid("convert audio", "unsupported audio format %q (supported: %s)",
				format, strings.Join(encoder.AudioFormats, ", "))
		}
		settings.Codec = codec
	}
	if settings.ExtractFromVideo == nil {
		extract := videoExts[strings.ToLower(filepath.Ext(input))]
		settings.ExtractFromVideo = &extract
	}

	out, err := s.outputPath(input, media.Audio(encoder.AudioExtForFormat(format)))
	if err != nil {
		return planned{}, err
	}
	p, err := encoder.BuildAudioPlan(s.ffmpegPath, input, out, settings)
	if err != nil {
		return planned{}, err
	}
	return planned{plan: p, label: "Converting audio"}, nil
}

func (s *Service) planResize(ctx context.Context, input string, settings model.ResizeSettings) (planned, error) {
	if err := checkInput("resize", input); err != nil {
		return planned{}, err
	}
	out, err := s.outputPath(input, media.Resize(settings.Width, settings.Height, settings.Format))
	if err != nil {
		return planned{}, err
	}
	p, err := encoder.BuildResizePlan(s.ffmpegPath, input, out, settings)
	if err != nil {
		return planned{}, err
	}
	return planned{plan: p, label: "Resizing", durationSec: s.durationHint(ctx, input)}, nil
}

// planLoop always probes: the loop count depends on the source duration.
func (s *Service) planLoop(ctx context.Context, input string, settings model.LoopSettings) (planned, error) {
	if err := checkInput("loop", input); err != nil {
		return planned{}, err
	}
	if settings.TargetSeconds <= 0 {
		return planned{}, toolerr.Invalid("loop", "target duration must be positive, got %v", settings.TargetSeconds)
	}
	pr, err := s.Probe(ctx, input)
	if err != nil {
		return planned{}, err
	}
	out, err := s.outputPath(input, media.Loop())
	if err != nil {
		return planned{}, err
	}
	p, err := encoder.BuildLoopPlan(s.ffmpegPath, input, out, settings, pr)
	if err != nil {
		return planned{}, err
	}
	return planned{plan: p, label: "Looping", durationSec: settings.TargetSeconds}, nil
}

func (s *Service) planDenoise(ctx context.Context, input string, settings model.NoiseReductionSettings) (planned, error) {
	if err := checkInput("denoise", input); err != nil {
		return planned{}, err
	}
	ext := ""
	if videoExts[strings.ToLower(filepath.Ext(input))] {
		ext = denoiseVideoExt
	}
	out, err := s.outputPath(input, media.Denoise(ext))
	if err != nil {
		return planned{}, err
	}
	p, err := encoder.BuildDenoisePlan(s.ffmpegPath, input, out, settings)
	if err != nil {
		return planned{}, err
	}
	return planned{plan: p, label: "Reducing noise", durationSec: s.durationHint(ctx, input)}, nil
}

func (s *Service) outputPath(input string, n media.Naming) (string, error) {
	out, created, err := media.OutputPath(input, s.outDir, n, !s.dryRun)
	if err != nil {
		return "", err
	}
	if created {
		s.logger.Info("created output directory", "dir", filepath.Dir(out))
	}
	return out, nil
}

// durationHint probes input for progress percentages. It only runs when a
// reporter will use the result, and failures just disable percentages.
func (s *Service) durationHint(ctx context.Context, input string) float64 {
	if s.reporter == nil || s.dryRun {
		return 0
	}
	pr, err := s.Probe(ctx, input)
	if err != nil {
		s.logger.Debug("no duration for progress", "input", input, "error", err)
		return 0
	}
	return pr.DurationSeconds
}

func checkInput(op, input string) error {
	if strings.TrimSpace(input) == "" {
		return toolerr.Invalid(op, "input path is required")
	}
	fi, err := os.Stat(input)
	if err != nil {
		return toolerr.Invalid(op, "input %q is not readable: %v", input, err)
	}
	if fi.IsDir() {
		return toolerr.Invalid(op, "input %q is a directory", input)
	}
	return nil
}
