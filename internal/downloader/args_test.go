package downloader

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediakit/internal/model"
	"mediakit/internal/toolerr"
)

func TestBuildPrimaryPlan_Video(t *testing.T) {
	o := model.DownloadOptions{
		URL:             "youtube.com/watch?v=abc",
		OutputDir:       "/tmp/dl",
		Quality:         "720p",
		ContainerFormat: "mp4",
		EmbedThumbnail:  true,
		Retries:         3,
	}
	p, err := BuildPrimaryPlan("yt-dlp", o)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--newline",
		"-o", filepath.Join("/tmp/dl", "%(title)s.%(ext)s"),
		"-f", PrimarySelector("720p"),
		"--merge-output-format", "mp4",
		"--embed-thumbnail",
		"--retries", "3",
		"--no-playlist",
		"https://youtube.com/watch?v=abc",
	}, p.Args())
	assert.Equal(t, "/tmp/dl", p.ExpectedOutputPath())
	assert.False(t, p.Contains("--extractor-args"))
}

func TestBuildPrimaryPlan_AudioOnly(t *testing.T) {
	p, err := BuildPrimaryPlan("yt-dlp", model.DownloadOptions{
		URL:         "https://example.com/v",
		OutputDir:   "out",
		AudioOnly:   true,
		AudioFormat: "opus",
		Quality:     "1080p",
	})
	require.NoError(t, err)

	assert.True(t, p.Contains("-x"))
	v, _ := p.Value("--audio-format")
	assert.Equal(t, "opus", v)
	assert.False(t, p.Contains("-f"), "audio-only must not carry a video selector")
	assert.False(t, p.Contains("--merge-output-format"))
}

func TestBuildPrimaryPlan_AudioDefaultsToMP3(t *testing.T) {
	p, err := BuildPrimaryPlan("yt-dlp", model.DownloadOptions{URL: "https://example.com/v", OutputDir: "out", AudioOnly: true})
	require.NoError(t, err)
	v, _ := p.Value("--audio-format")
	assert.Equal(t, "mp3", v)
}

func TestBuildPrimaryPlan_PlaylistAndExtras(t *testing.T) {
	p, err := BuildPrimaryPlan("yt-dlp", model.DownloadOptions{
		URL:             "https://www.youtube.com/playlist?list=PL1",
		OutputDir:       "/d",
		IncludePlaylist: true,
		EmbedSubs:       true,
		CookieFile:      "/c.txt",
		ExtraArgs:       "  --limit-rate 1M ",
	})
	require.NoError(t, err)

	tmpl, _ := p.Value("-o")
	assert.Equal(t, filepath.Join("/d", "%(playlist_title)s", "%(playlist_index)s - %(title)s.%(ext)s"), tmpl)
	assert.True(t, p.Contains("--yes-playlist"))
	assert.False(t, p.Contains("--no-playlist"))
	assert.True(t, p.Contains("--write-subs"))
	assert.True(t, p.Contains("--embed-subs"))
	cookies, _ := p.Value("--cookies")
	assert.Equal(t, "/c.txt", cookies)

	args := p.Args()
	assert.Equal(t, []string{"--limit-rate", "1M", "https://www.youtube.com/playlist?list=PL1"}, args[len(args)-3:])
}

func TestBuildFallbackPlan(t *testing.T) {
	o := model.DownloadOptions{URL: "https://example.com/v", OutputDir: "/d", Quality: "1080p"}
	p, err := BuildFallbackPlan("yt-dlp", o)
	require.NoError(t, err)

	sel, _ := p.Value("-f")
	assert.Equal(t, FallbackSelector("1080p"), sel)
	ea, ok := p.Value("--extractor-args")
	require.True(t, ok)
	assert.Equal(t, "youtube:player_client=android,web", ea)
}

func TestBuildDownloadPlan_Invalid(t *testing.T) {
	tests := []struct {
		name string
		o    model.DownloadOptions
	}{
		{"empty url", model.DownloadOptions{OutputDir: "/d"}},
		{"bad scheme", model.DownloadOptions{URL: "ftp://example.com/x", OutputDir: "/d"}},
		{"no output dir", model.DownloadOptions{URL: "https://example.com/v"}},
		{"negative retries", model.DownloadOptions{URL: "https://example.com/v", OutputDir: "/d", Retries: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPrimaryPlan("yt-dlp", tt.o)
			assert.True(t, errors.Is(err, toolerr.ErrInvalidRequest), "got %v", err)
		})
	}
}
