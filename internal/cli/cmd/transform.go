package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediakit/internal/encoder"
	"mediakit/internal/model"
	"mediakit/internal/pipeline"
	"mediakit/internal/toolerr"
)

// fileUnits builds one unit per input file.
func fileUnits(inputs []string, run func(ctx context.Context, svc *pipeline.Service, input string) (pipeline.Result, error)) []unit {
	units := make([]unit, len(inputs))
	for i, in := range inputs {
		in := in
		units[i] = unit{
			label: filepath.Base(in),
			run: func(ctx context.Context, svc *pipeline.Service) (pipeline.Result, error) {
				return run(ctx, svc, in)
			},
		}
	}
	return units
}

func newConvertCmd() *cobra.Command {
	var (
		preset, vcodec, acodec, speed, bitrate, format string
		crf                                            uint
		fast                                           bool
		targetMB                                       int
	)
	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert videos to another container or codec",
		Example: `  mediakit convert --preset mp4-h264-balanced clip.mov
  mediakit convert --format mkv --fast clip.mp4
  mediakit convert --target-size-mb 25 --dry-run talk.mp4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var settings model.ConversionSettings
			if preset != "" {
				p, err := encoder.LookupConversionPreset(preset)
				if err != nil {
					return exitErr(toolerr.Invalid("convert", "%v", err), ExitCLIError)
				}
				settings = p.Settings
				if !cmd.Flags().Changed("format") {
					format = p.Format
				}
			}
			f := cmd.Flags()
			if f.Changed("vcodec") {
				settings.VideoCodec = vcodec
			}
			if f.Changed("acodec") {
				settings.AudioCodec = acodec
			}
			if f.Changed("crf") {
				settings.CRF = &crf
			}
			if f.Changed("speed-preset") {
				settings.Preset = &speed
			}
			if f.Changed("bitrate") {
				settings.Bitrate = &bitrate
			}
			if f.Changed("fast") {
				settings.FastMode = &fast
			}
			settings.TargetSizeMB = targetMB

			units := fileUnits(args, func(ctx context.Context, svc *pipeline.Service, in string) (pipeline.Result, error) {
				return svc.ConvertVideo(ctx, in, settings, format)
			})
			return runUnits(cmd, "convert", transcodeTools, units, ExitTranscodeError)
		},
	}
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "Conversion preset (e.g. mp4-h264-balanced, webm-vp9)")
	f.StringVar(&format, "format", "", "Output container, e.g. mp4, mkv, webm (default: keep input extension)")
	f.StringVar(&vcodec, "vcodec", "", "Video codec, e.g. libx264, libx265, libvpx-vp9, copy")
	f.StringVar(&acodec, "acodec", "", "Audio codec, e.g. aac, libopus")
	f.UintVar(&crf, "crf", 23, "Constant rate factor (0-51, x264/x265 only)")
	f.StringVar(&speed, "speed-preset", "medium", "Encoder speed preset, e.g. fast, medium, slow")
	f.StringVar(&bitrate, "bitrate", "", "Video bitrate, e.g. 1500k")
	f.BoolVar(&fast, "fast", false, "Copy streams without re-encoding")
	f.IntVar(&targetMB, "target-size-mb", 0, "Derive the video bitrate from a target file size")
	_ = cmd.RegisterFlagCompletionFunc("preset", fixedCompletion(encoder.ConversionPresetNames()))
	return cmd
}

func newConvertAudioCmd() *cobra.Command {
	var (
		format, codec, bitrate     string
		sampleRate, channels, flac uint
	)
	cmd := &cobra.Command{
		Use:     "convert-audio <file>...",
		Aliases: []string{"audio"},
		Short:   "Convert audio files or extract audio from videos",
		Example: `  mediakit convert-audio --format mp3 --bitrate 192k song.wav
  mediakit convert-audio --format flac --flac-level 8 interview.mp4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := model.AudioConversionSettings{Codec: codec}
			f := cmd.Flags()
			if f.Changed("bitrate") {
				settings.Bitrate = &bitrate
			}
			if f.Changed("sample-rate") {
				settings.SampleRateHz = &sampleRate
			}
			if f.Changed("channels") {
				settings.Channels = &channels
			}
			if f.Changed("flac-level") {
				settings.FLACCompressionLevel = &flac
			}
			units := fileUnits(args, func(ctx context.Context, svc *pipeline.Service, in string) (pipeline.Result, error) {
				return svc.ConvertAudio(ctx, in, settings, format)
			})
			return runUnits(cmd, "convert audio", transcodeTools, units, ExitTranscodeError)
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "Target audio format: mp3, aac, m4a, ogg, opus, flac, wav, wma")
	f.StringVar(&codec, "codec", "", "Audio codec (default: inferred from --format)")
	f.StringVar(&bitrate, "bitrate", "", "Audio bitrate, e.g. 192k")
	f.UintVar(&sampleRate, "sample-rate", 44100, "Sample rate in Hz")
	f.UintVar(&channels, "channels", 2, "Number of audio channels")
	f.UintVar(&flac, "flac-level", 5, "FLAC compression level (0-12)")
	_ = cmd.MarkFlagRequired("format")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(encoder.AudioFormats))
	return cmd
}

func newResizeCmd() *cobra.Command {
	var (
		width, height, quality uint
		preset, format         string
		keepAspect             bool
	)
	cmd := &cobra.Command{
		Use:   "resize <file>...",
		Short: "Change the resolution of videos",
		Example: `  mediakit resize --preset 720p clip.mp4
  mediakit resize --width 640 --height 360 --keep-aspect --format webm clip.mov`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset != "" {
				d, err := encoder.LookupResizePreset(preset)
				if err != nil {
					return exitErr(toolerr.Invalid("resize", "%v", err), ExitCLIError)
				}
				if !cmd.Flags().Changed("width") {
					width = d.Width
				}
				if !cmd.Flags().Changed("height") {
					height = d.Height
				}
			}
			if width == 0 || height == 0 {
				return exitErr(toolerr.Invalid("resize", "--width and --height (or --preset) are required"), ExitCLIError)
			}
			settings := model.ResizeSettings{
				Width:      width,
				Height:     height,
				KeepAspect: keepAspect,
				Quality:    quality,
				Format:     format,
			}
			units := fileUnits(args, func(ctx context.Context, svc *pipeline.Service, in string) (pipeline.Result, error) {
				return svc.Resize(ctx, in, settings)
			})
			return runUnits(cmd, "resize", transcodeTools, units, ExitTranscodeError)
		},
	}
	f := cmd.Flags()
	f.UintVar(&width, "width", 0, "Output width in pixels")
	f.UintVar(&height, "height", 0, "Output height in pixels")
	f.StringVar(&preset, "preset", "", "Resolution preset: 4k, 2k, 1080p, 720p, 480p, 360p, 240p")
	f.BoolVar(&keepAspect, "keep-aspect", false, "Fit inside WxH instead of stretching")
	f.UintVar(&quality, "quality", 75, "Quality 0-100, mapped to a CRF")
	f.StringVar(&format, "format", "", "Output container (default: keep input extension)")
	_ = cmd.RegisterFlagCompletionFunc("preset", fixedCompletion(encoder.ResizePresetNames()))
	return cmd
}

func newLoopCmd() *cobra.Command {
	var duration float64
	cmd := &cobra.Command{
		Use:     "loop <file>...",
		Short:   "Repeat a clip until it reaches a target duration",
		Example: `  mediakit loop --duration 600 rain.mp3`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := model.LoopSettings{TargetSeconds: duration}
			units := fileUnits(args, func(ctx context.Context, svc *pipeline.Service, in string) (pipeline.Result, error) {
				return svc.Loop(ctx, in, settings)
			})
			return runUnits(cmd, "loop", transcodeTools, units, ExitTranscodeError)
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", 0, "Target duration in seconds")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newDenoiseCmd() *cobra.Command {
	var (
		preset, algorithm        string
		nr, nf                   float64
		highpass, lowpass, notch float64
	)
	cmd := &cobra.Command{
		Use:   "denoise <file>...",
		Short: "Reduce background noise in audio or video files",
		Example: `  mediakit denoise --preset speech lecture.mp4
  mediakit denoise --algorithm combined --nr 15 --nf -30 field.wav`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := encoder.DefaultNoiseSettings()
			if preset != "" {
				s, err := encoder.LookupNoisePreset(preset)
				if err != nil {
					return exitErr(toolerr.Invalid("denoise", "%v", err), ExitCLIError)
				}
				settings = s
			}
			f := cmd.Flags()
			if f.Changed("algorithm") {
				settings.Algorithm = model.ParseNoiseAlgorithm(algorithm)
			}
			if f.Changed("nr") {
				settings.NoiseReductionDB = nr
			}
			if f.Changed("nf") {
				settings.NoiseFloorDB = nf
			}
			if f.Changed("highpass") {
				settings.HighpassHz = &highpass
			}
			if f.Changed("lowpass") {
				settings.LowpassHz = &lowpass
			}
			if f.Changed("notch") {
				settings.NotchHz = &notch
			}
			units := fileUnits(args, func(ctx context.Context, svc *pipeline.Service, in string) (pipeline.Result, error) {
				return svc.ReduceNoise(ctx, in, settings)
			})
			return runUnits(cmd, "denoise", transcodeTools, units, ExitTranscodeError)
		},
	}
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "Denoise preset: light, medium, strong, speech, music, hum-buzz")
	f.StringVar(&algorithm, "algorithm", "afftdn", "Filter chain: afftdn, anlmdn, highpass, combined, speech, hum")
	f.Float64Var(&nr, "nr", 12, "Noise reduction in dB (0-97)")
	f.Float64Var(&nf, "nf", -25, "Noise floor in dB (-80 to -20)")
	f.Float64Var(&highpass, "highpass", 80, "Highpass cutoff in Hz")
	f.Float64Var(&lowpass, "lowpass", 8000, "Lowpass cutoff in Hz")
	f.Float64Var(&notch, "notch", 50, "Notch frequency in Hz for hum removal")
	_ = cmd.RegisterFlagCompletionFunc("preset", fixedCompletion(encoder.NoisePresetNames()))
	return cmd
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
