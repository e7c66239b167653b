package encoder

import (
	"fmt"
	"sort"
	"strings"

	"mediakit/internal/model"
)

// ConversionPreset bundles a container with codec settings.
type ConversionPreset struct {
	Name     string
	Format   string
	Settings model.ConversionSettings
}

func crfPreset(name, format, vcodec, acodec string, crf uint, speed string) ConversionPreset {
	return ConversionPreset{
		Name:   name,
		Format: format,
		Settings: model.ConversionSettings{
			VideoCodec: vcodec,
			AudioCodec: acodec,
			CRF:        &crf,
			Preset:     &speed,
		},
	}
}

var xvidBitrate = "1500k"

var conversionPresets = map[string]ConversionPreset{
	"mp4-h264-balanced":   crfPreset("mp4-h264-balanced", "mp4", "libx264", "aac", 23, "medium"),
	"mp4-h264-fast":       crfPreset("mp4-h264-fast", "mp4", "libx264", "aac", 25, "fast"),
	"mp4-h264-compressed": crfPreset("mp4-h264-compressed", "mp4", "libx264", "aac", 28, "fast"),
	"mp4-h265-high":       crfPreset("mp4-h265-high", "mp4", "libx265", "aac", 20, "medium"),
	"mkv-h264-high":       crfPreset("mkv-h264-high", "mkv", "libx264", "aac", 18, "slow"),
	"mov-h264":            crfPreset("mov-h264", "mov", "libx264", "aac", 23, "medium"),
	"webm-vp9":            crfPreset("webm-vp9", "webm", "libvpx-vp9", "libopus", 30, "medium"),
	"webm-vp8":            crfPreset("webm-vp8", "webm", "libvpx", "libvorbis", 32, "medium"),
	"avi-xvid": {
		Name:     "avi-xvid",
		Format:   "avi",
		Settings: model.ConversionSettings{VideoCodec: "libxvid", AudioCodec: "mp3", Bitrate: &xvidBitrate},
	},
}

// LookupConversionPreset returns a copy of the named preset.
func LookupConversionPreset(name string) (ConversionPreset, error) {
	p, ok := conversionPresets[strings.ToLower(name)]
	if !ok {
		return ConversionPreset{}, fmt.Errorf("unknown conversion preset %q (valid: %s)", name, strings.Join(ConversionPresetNames(), ", "))
	}
	return p, nil
}

func ConversionPresetNames() []string { return sortedKeys(conversionPresets) }

// Dimensions is a named output resolution.
type Dimensions struct {
	Width, Height uint
}

var resizePresets = map[string]Dimensions{
	"4k":    {3840, 2160},
	"2k":    {2560, 1440},
	"1080p": {1920, 1080},
	"720p":  {1280, 720},
	"480p":  {854, 480},
	"360p":  {640, 360},
	"240p":  {426, 240},
}

func LookupResizePreset(name string) (Dimensions, error) {
	d, ok := resizePresets[strings.ToLower(name)]
	if !ok {
		return Dimensions{}, fmt.Errorf("unknown resolution preset %q (valid: %s)", name, strings.Join(ResizePresetNames(), ", "))
	}
	return d, nil
}

func ResizePresetNames() []string { return sortedKeys(resizePresets) }

func hz(v float64) *float64 { return &v }

var noisePresets = map[string]model.NoiseReductionSettings{
	"light":  {Algorithm: model.NoiseAlgorithm{Kind: model.NoiseAFFTDN}, NoiseReductionDB: 8, NoiseFloorDB: -30},
	"medium": {Algorithm: model.NoiseAlgorithm{Kind: model.NoiseAFFTDN}, NoiseReductionDB: 12, NoiseFloorDB: -25},
	"strong": {Algorithm: model.NoiseAlgorithm{Kind: model.NoiseAFFTDN}, NoiseReductionDB: 18, NoiseFloorDB: -20},
	"speech": {
		Algorithm:        model.NoiseAlgorithm{Kind: model.NoiseSpeechPreset},
		NoiseReductionDB: 15,
		NoiseFloorDB:     -22,
		HighpassHz:       hz(80),
		LowpassHz:        hz(8000),
	},
	"music": {Algorithm: model.NoiseAlgorithm{Kind: model.NoiseAFFTDN}, NoiseReductionDB: 10, NoiseFloorDB: -28},
	"hum-buzz": {
		Algorithm:  model.NoiseAlgorithm{Kind: model.NoiseHumRemovalPreset},
		HighpassHz: hz(60),
		NotchHz:    hz(50),
	},
}

// LookupNoisePreset returns the settings for a named denoise preset.
func LookupNoisePreset(name string) (model.NoiseReductionSettings, error) {
	s, ok := noisePresets[strings.ToLower(name)]
	if !ok {
		return model.NoiseReductionSettings{}, fmt.Errorf("unknown denoise preset %q (valid: %s)", name, strings.Join(NoisePresetNames(), ", "))
	}
	return s, nil
}

func NoisePresetNames() []string { return sortedKeys(noisePresets) }

// DefaultNoiseSettings are used for custom denoising when no preset is given.
func DefaultNoiseSettings() model.NoiseReductionSettings {
	return model.NoiseReductionSettings{
		Algorithm:        model.NoiseAlgorithm{Kind: model.NoiseAFFTDN},
		NoiseReductionDB: 12,
		NoiseFloorDB:     -25,
		HighpassHz:       hz(80),
		LowpassHz:        hz(8000),
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
