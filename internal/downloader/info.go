package downloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mediakit/internal/plan"
	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// BuildVersionPlan asks the downloader for its version string.
func BuildVersionPlan(dlPath string) plan.Plan {
	return plan.New(dlPath, []string{"--version"}, "")
}

// BuildInfoPlan dumps metadata for a single video without downloading it.
func BuildInfoPlan(dlPath, rawURL string) (plan.Plan, error) {
	url, err := util.NormalizeURL(rawURL)
	if err != nil {
		return plan.Plan{}, toolerr.Invalid("info", "%v", err)
	}
	return plan.NewBuilder(dlPath).
		Flag("--dump-json", "--no-playlist", url).
		Build(""), nil
}

// BuildPlaylistPlan lists playlist entries without resolving each video.
func BuildPlaylistPlan(dlPath, rawURL string) (plan.Plan, error) {
	url, err := util.NormalizeURL(rawURL)
	if err != nil {
		return plan.Plan{}, toolerr.Invalid("playlist", "%v", err)
	}
	return plan.NewBuilder(dlPath).
		Flag("--flat-playlist", "--dump-json", url).
		Build(""), nil
}

// BuildFormatsPlan prints the downloader's format table.
func BuildFormatsPlan(dlPath, rawURL string) (plan.Plan, error) {
	url, err := util.NormalizeURL(rawURL)
	if err != nil {
		return plan.Plan{}, toolerr.Invalid("formats", "%v", err)
	}
	return plan.NewBuilder(dlPath).
		Flag("-F", "--no-playlist", url).
		Build(""), nil
}

// VideoURL turns a bare video id into a watch URL; anything that already
// looks like a URL is returned unchanged.
func VideoURL(idOrURL string) string {
	s := strings.TrimSpace(idOrURL)
	if s == "" || strings.Contains(s, "/") || strings.Contains(s, ".") {
		return s
	}
	return watchURLPrefix + s
}

// Version returns the first line of the downloader's --version output.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.query(ctx, BuildVersionPlan(c.Path), "version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}

// Info fetches metadata for one video.
func (c *Client) Info(ctx context.Context, url string) (VideoInfo, error) {
	p, err := BuildInfoPlan(c.Path, url)
	if err != nil {
		return VideoInfo{}, err
	}
	out, err := c.query(ctx, p, "info")
	if err != nil {
		return VideoInfo{}, err
	}
	info, err := ParseInfo([]byte(out))
	if err != nil {
		return VideoInfo{}, toolerr.ParseFailed(c.tool(), "info", err)
	}
	return info, nil
}

// VideoDetails is Info for either a video id or a URL.
func (c *Client) VideoDetails(ctx context.Context, idOrURL string) (VideoInfo, error) {
	return c.Info(ctx, VideoURL(idOrURL))
}

// Playlist lists the entries of a playlist URL.
func (c *Client) Playlist(ctx context.Context, url string) ([]PlaylistEntry, error) {
	p, err := BuildPlaylistPlan(c.Path, url)
	if err != nil {
		return nil, err
	}
	out, err := c.query(ctx, p, "playlist")
	if err != nil {
		return nil, err
	}
	entries, err := ParsePlaylist([]byte(out))
	if err != nil {
		return nil, toolerr.ParseFailed(c.tool(), "playlist", err)
	}
	return entries, nil
}

// ListFormats returns the downloader's human-readable format table.
func (c *Client) ListFormats(ctx context.Context, url string) (string, error) {
	p, err := BuildFormatsPlan(c.Path, url)
	if err != nil {
		return "", err
	}
	return c.query(ctx, p, "formats")
}

func (c *Client) query(ctx context.Context, p plan.Plan, op string) (string, error) {
	c.Logger.Debug("querying downloader", "op", op, "command", p.String())
	res, err := plan.Run(ctx, c.Runner, p, plan.ExecOptions{})
	if err != nil {
		return "", err
	}
	if !res.Succeeded {
		return "", toolerr.ExecutionFailed(c.tool(), op, res.Stderr)
	}
	return res.Stdout, nil
}

// ParseInfo decodes --dump-json output. When stdout carries more than one
// JSON document (warnings, multiple entries) the last decodable line wins.
func ParseInfo(data []byte) (VideoInfo, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return VideoInfo{}, errors.New("empty metadata output")
	}
	var info VideoInfo
	err := json.NewDecoder(strings.NewReader(text)).Decode(&info)
	if err == nil {
		return info, nil
	}

	lastErr := err
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var candidate VideoInfo
		if err := json.Unmarshal([]byte(line), &candidate); err != nil {
			lastErr = err
			continue
		}
		return candidate, nil
	}
	return VideoInfo{}, fmt.Errorf("decode metadata: %w", lastErr)
}

// ParsePlaylist decodes one entry per line. Malformed lines are skipped; it
// is an error only if there was output and none of it decoded.
func ParsePlaylist(data []byte) ([]PlaylistEntry, error) {
	var (
		entries []PlaylistEntry
		seen    int
		lastErr error
	)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		var e PlaylistEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			lastErr = err
			continue
		}
		if e.URL == "" && e.ID != "" {
			e.URL = VideoURL(e.ID)
		}
		entries = append(entries, e)
	}
	if seen > 0 && len(entries) == 0 {
		return nil, fmt.Errorf("decode playlist: %w", lastErr)
	}
	return entries, nil
}
