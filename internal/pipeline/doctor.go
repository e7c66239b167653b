package pipeline

import (
	"context"
	"strings"

	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
)

// ToolStatus is the availability of one external tool.
type ToolStatus struct {
	Name    string
	Path    string
	Version string
	Err     error
}

func (t ToolStatus) OK() bool { return t.Err == nil }

// CheckTools runs each configured tool's version query. It never fails as a
// whole; problems are reported per tool.
func (s *Service) CheckTools(ctx context.Context) []ToolStatus {
	out := []ToolStatus{
		s.checkVersion(ctx, "ffmpeg", s.ffmpegPath, "-version"),
		s.checkVersion(ctx, "ffprobe", s.ffprobePath, "-version"),
	}
	dl := ToolStatus{Name: "yt-dlp", Path: s.dlPath}
	dl.Version, dl.Err = s.downloaderClient().Version(ctx)
	return append(out, dl)
}

func (s *Service) checkVersion(ctx context.Context, name, path, flag string) ToolStatus {
	st := ToolStatus{Name: name, Path: path}
	res, err := plan.Run(ctx, s.runner, plan.New(path, []string{flag}, ""), plan.ExecOptions{})
	if err != nil {
		st.Err = err
		return st
	}
	if !res.Succeeded {
		st.Err = toolerr.ExecutionFailed(name, "version", res.Stderr)
		return st
	}
	st.Version, _, _ = strings.Cut(strings.TrimSpace(res.Stdout), "\n")
	return st
}
