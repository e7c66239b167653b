package encoder

import (
	"strconv"
	"strings"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
)

// audioCodecs maps an output audio format to its ffmpeg encoder.
var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"aac":  "aac",
	"wav":  "pcm_s16le",
	"flac": "flac",
	"opus": "libopus",
	"ogg":  "libvorbis",
	"alac": "alac",
	"wma":  "wmav2",
	"ac3":  "ac3",
	"dts":  "dca",
}

// AudioFormats lists the supported audio output formats.
var AudioFormats = []string{"mp3", "m4a", "wav", "flac", "opus", "aac", "ogg", "alac", "wma", "ac3", "dts"}

// AudioCodecForFormat returns the encoder for an audio format name or file
// extension, and false when the format is unknown.
func AudioCodecForFormat(format string) (string, bool) {
	c, ok := audioCodecs[strings.ToLower(strings.TrimPrefix(format, "."))]
	return c, ok
}

// AudioExtForFormat returns the file extension used for format.
func AudioExtForFormat(format string) string {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "alac" {
		return "m4a"
	}
	return format
}

// BuildAudioPlan converts or extracts audio. An empty codec is inferred
// from the output extension.
func BuildAudioPlan(ffmpegPath, input, output string, s model.AudioConversionSettings) (plan.Plan, error) {
	if input == "" || output == "" {
		return plan.Plan{}, toolerr.Invalid("convert audio", "input and output paths are required")
	}
	codec := s.Codec
	if codec == "" {
		c, ok := AudioCodecForFormat(containerOf(output))
		if !ok {
			return plan.Plan{}, toolerr.Invalid("convert audio", "no audio codec known for %q", output)
		}
		codec = c
	}
	isFLAC := strings.EqualFold(codec, "flac")
	if s.FLACCompressionLevel != nil && *s.FLACCompressionLevel > 12 {
		return plan.Plan{}, toolerr.Invalid("convert audio", "flac compression level must be within 0..12, got %d", *s.FLACCompressionLevel)
	}

	b := plan.NewBuilder(ffmpegPath).
		Opt("-i", input).
		Opt("-c:a", codec)
	if s.Bitrate != nil && *s.Bitrate != "" {
		b.Opt("-b:a", *s.Bitrate)
	}
	if s.SampleRateHz != nil && *s.SampleRateHz > 0 {
		b.Opt("-ar", strconv.FormatUint(uint64(*s.SampleRateHz), 10))
	}
	if s.Channels != nil && *s.Channels > 0 {
		b.Opt("-ac", strconv.FormatUint(uint64(*s.Channels), 10))
	}
	if s.FLACCompressionLevel != nil {
		b.OptIf(isFLAC, "-compression_level", strconv.FormatUint(uint64(*s.FLACCompressionLevel), 10))
	}
	return b.FlagIf(s.ExtractFromVideo != nil && *s.ExtractFromVideo, "-vn").
		Flag("-y", output).
		Build(output), nil
}
