package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/pipeline"
	"mediakit/internal/toolerr"
	"mediakit/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that ffmpeg, ffprobe and yt-dlp are installed and runnable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			s := a.settings
			// Unresolved tools keep their configured name so the version
			// query reports them as missing.
			svc := pipeline.NewService(
				pipeline.WithLogger(a.logger),
				pipeline.WithFFmpegPath(lookup(deps.FindFFmpeg, s.FFmpegBinary)),
				pipeline.WithFFprobePath(lookup(deps.FindFFprobe, s.FFprobeBinary)),
				pipeline.WithDownloaderPath(lookup(deps.FindDownloader, s.DLBinary)),
			)

			w := cmd.OutOrStdout()
			var missing, broken int
			for _, st := range svc.CheckTools(cmd.Context()) {
				if st.OK() {
					fmt.Fprintf(w, "%-8s ok       %s (%s)\n", st.Name, st.Path, st.Version)
					continue
				}
				if toolerr.KindOf(st.Err) == toolerr.KindToolMissing {
					missing++
					fmt.Fprintf(w, "%-8s missing  %v\n", st.Name, st.Err)
				} else {
					broken++
					fmt.Fprintf(w, "%-8s failed   %v\n", st.Name, st.Err)
				}
			}
			switch {
			case missing > 0:
				return &ExitError{Code: ExitMissingDep, Err: fmt.Errorf("%d required tool(s) missing", missing)}
			case broken > 0:
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%d tool(s) failed to run", broken)}
			}
			return nil
		},
	}
}

func lookup(find func(string) (string, error), custom string) string {
	p, err := find(custom)
	if err != nil {
		return custom
	}
	return p
}
