package downloader

import (
	"path/filepath"
	"strconv"
	"strings"

	"mediakit/internal/model"
	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

const (
	singleTemplate   = "%(title)s.%(ext)s"
	playlistTemplate = "%(playlist_index)s - %(title)s.%(ext)s"

	fallbackExtractorArgs = "youtube:player_client=android,web"
	defaultAudioFormat    = "mp3"
)

// BuildPrimaryPlan returns the first download attempt for o.
func BuildPrimaryPlan(dlPath string, o model.DownloadOptions) (plan.Plan, error) {
	return buildDownloadPlan(dlPath, o, false)
}

// BuildFallbackPlan returns the retry used when the primary format selector
// is rejected. It uses a relaxed selector and alternate player clients.
func BuildFallbackPlan(dlPath string, o model.DownloadOptions) (plan.Plan, error) {
	return buildDownloadPlan(dlPath, o, true)
}

func buildDownloadPlan(dlPath string, o model.DownloadOptions, fallback bool) (plan.Plan, error) {
	url, err := util.NormalizeURL(o.URL)
	if err != nil {
		return plan.Plan{}, toolerr.Invalid("download", "%v", err)
	}
	if o.OutputDir == "" {
		return plan.Plan{}, toolerr.Invalid("download", "output directory is required")
	}
	if o.Retries < 0 {
		return plan.Plan{}, toolerr.Invalid("download", "retries must not be negative, got %d", o.Retries)
	}
	var extra []string
	if strings.TrimSpace(o.ExtraArgs) != "" {
		extra = strings.Fields(o.ExtraArgs)
	}

	b := plan.NewBuilder(dlPath).
		Flag("--newline").
		Opt("-o", outputTemplate(o))

	if o.AudioOnly {
		format := o.AudioFormat
		if format == "" {
			format = defaultAudioFormat
		}
		b.Flag("-x").
			Opt("--audio-format", format).
			Opt("--audio-quality", "0")
	} else {
		selector := PrimarySelector(o.Quality)
		if fallback {
			selector = FallbackSelector(o.Quality)
		}
		b.Opt("-f", selector).
			OptIf(o.ContainerFormat != "", "--merge-output-format", o.ContainerFormat)
	}

	b.FlagIf(o.EmbedThumbnail, "--embed-thumbnail").
		FlagIf(o.EmbedMetadata, "--embed-metadata").
		OptIf(o.Retries > 0, "--retries", strconv.Itoa(o.Retries)).
		OptIf(o.CookieFile != "", "--cookies", o.CookieFile).
		OptIf(fallback, "--extractor-args", fallbackExtractorArgs).
		FlagIf(o.EmbedSubs, "--write-subs", "--embed-subs")
	if o.IncludePlaylist {
		b.Flag("--yes-playlist")
	} else {
		b.Flag("--no-playlist")
	}
	b.Flag(extra...).Flag(url)

	return b.Build(o.OutputDir), nil
}

func outputTemplate(o model.DownloadOptions) string {
	if o.IncludePlaylist {
		return filepath.Join(o.OutputDir, "%(playlist_title)s", playlistTemplate)
	}
	return filepath.Join(o.OutputDir, singleTemplate)
}
