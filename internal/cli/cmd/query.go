package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mediakit/internal/downloader"
	"mediakit/internal/util/format"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Show duration, resolution and codecs of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := appFrom(cmd).service(tools{ffprobe: true})
			if err != nil {
				return exitErr(err, ExitTranscodeError)
			}
			pr, err := svc.Probe(cmd.Context(), args[0])
			if err != nil {
				return exitErr(err, ExitTranscodeError)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Duration:    %s\n", format.Clock(pr.DurationSeconds))
			if pr.HasVideo() {
				fmt.Fprintf(w, "Resolution:  %dx%d\n", pr.Width, pr.Height)
				fmt.Fprintf(w, "Frame rate:  %.3g fps\n", pr.FrameRate)
			}
			fmt.Fprintf(w, "Video codec: %s\n", pr.VideoCodec)
			if pr.AudioBitrateBps > 0 {
				fmt.Fprintf(w, "Audio:       %d kb/s\n", pr.AudioBitrateBps/1000)
			}
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	var showFormats bool
	cmd := &cobra.Command{
		Use:   "info <url|id>",
		Short: "Show metadata of a video without downloading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := appFrom(cmd).service(downloadTools)
			if err != nil {
				return exitErr(err, ExitDownloadError)
			}
			info, err := svc.VideoDetails(cmd.Context(), args[0])
			if err != nil {
				return exitErr(err, ExitDownloadError)
			}
			printInfo(cmd.OutOrStdout(), info, showFormats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showFormats, "formats", false, "Also list the available formats")
	return cmd
}

func newPlaylistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlist <url>",
		Short: "List the entries of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := appFrom(cmd).service(downloadTools)
			if err != nil {
				return exitErr(err, ExitDownloadError)
			}
			entries, err := svc.Playlist(cmd.Context(), args[0])
			if err != nil {
				return exitErr(err, ExitDownloadError)
			}
			printPlaylist(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats <url>",
		Short: "Print the downloader's format table for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := appFrom(cmd).service(downloadTools)
			if err != nil {
				return exitErr(err, ExitDownloadError)
			}
			out, err := svc.Formats(cmd.Context(), args[0])
			if err != nil {
				return exitErr(err, ExitDownloadError)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printInfo(w io.Writer, info downloader.VideoInfo, withFormats bool) {
	fmt.Fprintf(w, "Title:    %s\n", info.Title)
	fmt.Fprintf(w, "ID:       %s\n", info.ID)
	if info.Uploader != "" {
		fmt.Fprintf(w, "Uploader: %s\n", info.Uploader)
	}
	if info.Duration > 0 {
		fmt.Fprintf(w, "Duration: %s\n", format.Clock(info.Duration))
	}
	if info.Width > 0 && info.Height > 0 {
		fmt.Fprintf(w, "Size:     %dx%d\n", info.Width, info.Height)
	}
	if info.UploadDate != "" {
		fmt.Fprintf(w, "Uploaded: %s\n", info.UploadDate)
	}
	if info.ViewCount > 0 {
		fmt.Fprintf(w, "Views:    %d\n", info.ViewCount)
	}
	if info.WebpageURL != "" {
		fmt.Fprintf(w, "URL:      %s\n", info.WebpageURL)
	}
	if !withFormats || len(info.Formats) == 0 {
		return
	}
	t := table.New().Headers("ID", "EXT", "RESOLUTION", "VCODEC", "ACODEC", "TBR", "NOTE")
	for _, f := range info.Formats {
		tbr := ""
		if f.TBR > 0 {
			tbr = strconv.FormatFloat(f.TBR, 'f', 0, 64) + "k"
		}
		t.Row(f.FormatID, f.Ext, f.Resolution, f.VCodec, f.ACodec, tbr, f.FormatNote)
	}
	fmt.Fprintln(w, t.Render())
}

func printPlaylist(w io.Writer, entries []downloader.PlaylistEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Playlist is empty")
		return
	}
	t := table.New().Headers("#", "TITLE", "DURATION", "URL")
	for i, e := range entries {
		dur := ""
		if e.Duration > 0 {
			dur = format.Clock(e.Duration)
		}
		t.Row(strconv.Itoa(i+1), e.Title, dur, e.URL)
	}
	fmt.Fprintln(w, t.Render())
}
