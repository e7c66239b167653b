package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"mediakit/internal/toolerr"
)

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		return findCustom("downloader", customPath)
	}
	if p, err := exec.LookPath("yt-dlp"); err == nil {
		return p, nil
	}
	if p, err := exec.LookPath("youtube-dl"); err == nil {
		return p, nil
	}
	return "", toolerr.ToolMissing("yt-dlp", errors.New("could not find yt-dlp or youtube-dl in PATH, please install yt-dlp"))
}

// FindFFmpeg returns the path to the ffmpeg binary.
func FindFFmpeg(customPath string) (string, error) {
	return find("ffmpeg", customPath)
}

// FindFFprobe returns the path to the ffprobe binary.
func FindFFprobe(customPath string) (string, error) {
	return find("ffprobe", customPath)
}

func find(name, customPath string) (string, error) {
	if customPath != "" {
		return findCustom(name, customPath)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", toolerr.ToolMissing(name, fmt.Errorf("could not find %s in PATH, please install ffmpeg", name))
}

func findCustom(name, customPath string) (string, error) {
	if _, err := os.Stat(customPath); err == nil {
		return customPath, nil
	}
	if p, err := exec.LookPath(customPath); err == nil {
		return p, nil
	}
	return "", toolerr.ToolMissing(name, fmt.Errorf("could not find %s at %q", name, customPath))
}
