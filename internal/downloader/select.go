package downloader

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SelectDownloadedFile picks the most likely download result in dir: a media
// file modified at or after since, preferring playable containers and then
// the newest file.
func SelectDownloadedFile(dir string, since time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || extPriority(filepath.Ext(e.Name())) >= otherPriority {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().Before(since) {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, e.Name()), mod: info.ModTime()})
	}
	if len(candidates) == 0 {
		return "", errors.New("no output file found")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi := extPriority(filepath.Ext(candidates[i].path))
		pj := extPriority(filepath.Ext(candidates[j].path))
		if pi != pj {
			return pi < pj
		}
		if !candidates[i].mod.Equal(candidates[j].mod) {
			return candidates[i].mod.After(candidates[j].mod)
		}
		return candidates[i].path < candidates[j].path
	})
	return candidates[0].path, nil
}

const otherPriority = 100

// extPriority returns a priority score for file extensions (lower = better).
// Partial downloads and sidecar files are not media.
func extPriority(ext string) int {
	switch strings.ToLower(ext) {
	case ".mp4":
		return 0
	case ".mkv":
		return 1
	case ".webm":
		return 2
	case ".mov":
		return 3
	case ".avi":
		return 4
	case ".flv":
		return 5
	case ".mp3", ".m4a", ".opus", ".ogg", ".flac", ".wav", ".aac", ".alac", ".wma", ".ac3", ".dts":
		return 6
	default:
		return otherPriority
	}
}
