package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mediakit/internal/downloader"
	"mediakit/internal/model"
	"mediakit/internal/pipeline"
	"mediakit/internal/util"
)

func newDownloadCmd() *cobra.Command {
	var o model.DownloadOptions
	cmd := &cobra.Command{
		Use:     "download <url>...",
		Aliases: []string{"dl"},
		Short:   "Download videos or audio with yt-dlp",
		Long: "Download one or more URLs. If the requested format is not available the download " +
			"is retried once with a more permissive format selector.",
		Example: `  mediakit download --quality 720p https://www.youtube.com/watch?v=dQw4w9WgXcQ
  mediakit download --audio-only --audio-format mp3 -o music https://youtu.be/dQw4w9WgXcQ
  mediakit download --dry-run --subs --thumbnail https://vimeo.com/76979871`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			outDir := a.settings.OutDir
			if outDir == "" {
				outDir = "."
			}
			playlistSet := cmd.Flags().Changed("playlist")

			units := make([]unit, len(args))
			for i, rawURL := range args {
				opts := o
				opts.URL = rawURL
				opts.OutputDir = outDir
				if !playlistSet {
					opts.IncludePlaylist = util.IsPlaylistURL(rawURL)
				}
				units[i] = unit{
					label: rawURL,
					run: func(ctx context.Context, svc *pipeline.Service) (pipeline.Result, error) {
						return svc.Download(ctx, opts)
					},
				}
			}
			return runUnits(cmd, "download", downloadTools, units, ExitDownloadError)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.Quality, "quality", "best", "Quality: best, 2160p, 1440p, 1080p, 720p, 480p, 360p, worst, or a raw format selector")
	f.StringVar(&o.ContainerFormat, "format", "mp4", "Merge container for video downloads")
	f.BoolVar(&o.AudioOnly, "audio-only", false, "Extract audio only")
	f.StringVar(&o.AudioFormat, "audio-format", "mp3", "Audio format with --audio-only")
	f.BoolVar(&o.EmbedSubs, "subs", false, "Download and embed subtitles")
	f.BoolVar(&o.EmbedThumbnail, "thumbnail", false, "Embed the thumbnail")
	f.BoolVar(&o.EmbedMetadata, "metadata", false, "Embed metadata")
	f.BoolVar(&o.IncludePlaylist, "playlist", false, "Download the whole playlist (default: detected from the URL)")
	f.StringVar(&o.ExtraArgs, "extra-args", "", "Extra downloader arguments, whitespace separated")
	f.IntVar(&o.Retries, "retries", 0, "Downloader retry count (0 keeps its default)")
	f.StringVar(&o.CookieFile, "cookies", "", "Netscape cookie file")
	_ = cmd.RegisterFlagCompletionFunc("quality", fixedCompletion(downloader.Qualities))
	return cmd
}
