package model

// ProbeResult is the subset of ffprobe output the planners depend on.
type ProbeResult struct {
	DurationSeconds float64 // >= 0; a missing duration is reported as an error instead.
	Width           uint    // 0 when there is no video stream.
	Height          uint    // 0 when there is no video stream.
	FrameRate       float64 // 0 when absent or malformed.
	VideoCodec      string  // "unknown" when there is no video stream.
	AudioBitrateBps uint    // 0 when there is no audio stream or no bit_rate.
}

// HasVideo reports whether the probe found a video stream.
func (p ProbeResult) HasVideo() bool {
	return p.VideoCodec != "" && p.VideoCodec != UnknownCodec
}

// UnknownCodec is reported when no video stream is present.
const UnknownCodec = "unknown"

// ConversionSettings controls a video container/codec conversion.
type ConversionSettings struct {
	VideoCodec string  // e.g. "libx264", "libvpx-vp9" or "copy"
	AudioCodec string  // e.g. "aac", "libopus"
	CRF        *uint   // 0..51; only honoured by libx264/libx265
	Preset     *string // encoder speed preset, e.g. "medium"
	Bitrate    *string // explicit video bitrate, e.g. "1500k"
	FastMode   *bool   // true forces a stream copy (remux)

	// TargetSizeMB derives a video bitrate from the probed duration when no
	// explicit Bitrate is set. 0 disables it.
	TargetSizeMB int
}

// IsCopy reports whether the conversion is a remux without re-encoding.
func (s ConversionSettings) IsCopy() bool {
	if s.FastMode != nil && *s.FastMode {
		return true
	}
	return s.VideoCodec == "copy"
}

// AudioConversionSettings controls an audio-only conversion or extraction.
type AudioConversionSettings struct {
	Codec                string  // e.g. "libmp3lame", "flac", "aac"
	Bitrate              *string // e.g. "192k"
	SampleRateHz         *uint
	Channels             *uint
	FLACCompressionLevel *uint // 0..12; flac only
	ExtractFromVideo     *bool // drop the video stream
}

// NoiseAlgorithm selects the denoise filter chain.
type NoiseAlgorithm struct {
	Kind NoiseAlgorithmKind
	Name string // set only for NoiseOther
}

// NoiseAlgorithmKind enumerates the known denoise strategies.
type NoiseAlgorithmKind int

const (
	NoiseAFFTDN NoiseAlgorithmKind = iota
	NoiseANLMDN
	NoiseHighpass
	NoiseCombined
	NoiseSpeechPreset
	NoiseHumRemovalPreset
	NoiseOther
)

var noiseAlgorithmNames = map[string]NoiseAlgorithmKind{
	"afftdn":   NoiseAFFTDN,
	"anlmdn":   NoiseANLMDN,
	"highpass": NoiseHighpass,
	"combined": NoiseCombined,
	"speech":   NoiseSpeechPreset,
	"hum":      NoiseHumRemovalPreset,
}

// ParseNoiseAlgorithm maps a name to an algorithm. Unrecognised names are
// kept as NoiseOther so callers can still report them.
func ParseNoiseAlgorithm(name string) NoiseAlgorithm {
	if k, ok := noiseAlgorithmNames[name]; ok {
		return NoiseAlgorithm{Kind: k}
	}
	return NoiseAlgorithm{Kind: NoiseOther, Name: name}
}

func (a NoiseAlgorithm) String() string {
	if a.Kind == NoiseOther {
		return a.Name
	}
	for name, k := range noiseAlgorithmNames {
		if k == a.Kind {
			return name
		}
	}
	return "unknown"
}

// NoiseReductionSettings parameterises the denoise filter chain.
type NoiseReductionSettings struct {
	Algorithm        NoiseAlgorithm
	NoiseReductionDB float64  // afftdn nr, 0..97
	NoiseFloorDB     float64  // afftdn nf, -80..-20
	HighpassHz       *float64 // optional
	LowpassHz        *float64 // optional
	NotchHz          *float64 // optional
}

// ResizeSettings controls a resolution change.
type ResizeSettings struct {
	Width      uint
	Height     uint
	KeepAspect bool   // fit within WxH instead of stretching
	Quality    uint   // 0..100, mapped to CRF
	Format     string // output container; empty keeps the input extension
}

// LoopSettings controls repeating a clip until it reaches a target duration.
type LoopSettings struct {
	TargetSeconds float64
}

// DownloadOptions describes a single downloader request.
type DownloadOptions struct {
	URL             string
	OutputDir       string
	Quality         string // "best", "1080p", ..., "worst", or a raw selector
	ContainerFormat string // merge container, e.g. "mp4"
	AudioOnly       bool
	AudioFormat     string // e.g. "mp3"
	EmbedSubs       bool
	EmbedThumbnail  bool
	EmbedMetadata   bool
	IncludePlaylist bool
	ExtraArgs       string // whitespace separated, appended before the URL
	Retries         int    // 0 keeps the downloader default
	CookieFile      string
}

// ExecutionResult is the outcome of running one external command.
type ExecutionResult struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	ExitCode  int
}

// OutputFile describes a file produced by a successful operation.
type OutputFile struct {
	Path         string
	Bytes        int64
	UsedFallback bool   // downloads only
	Message      string // human-readable outcome
}
