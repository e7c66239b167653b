package downloader

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"mediakit/internal/progress"
)

// postProcessors are yt-dlp stdout tags printed after the transfer finished.
var postProcessors = []string{"[Merger]", "[ExtractAudio]", "[EmbedSubtitle]", "[EmbedThumbnail]", "[Metadata]", "[FixupM3u8]"}

var sizeUnits = map[string]float64{
	"B":   1,
	"KiB": 1 << 10,
	"MiB": 1 << 20,
	"GiB": 1 << 30,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
}

// ParseProgress turns one line of yt-dlp --newline output into an update.
// Transfer lines look like
//
//	[download]  45.2% of ~10.00MiB at  1.50MiB/s ETA 00:04 (frag 3/10)
//
// Post-processing tags report StageMerging with an unknown percentage.
// Other lines, including "[download] Destination: ...", return ok=false.
func ParseProgress(line, jobID string) (progress.Update, bool) {
	line = strings.TrimSpace(line)
	for _, tag := range postProcessors {
		if strings.HasPrefix(line, tag) {
			return progress.Update{JobID: jobID, Stage: progress.StageMerging, Percent: -1, Message: "Post-processing"}, true
		}
	}
	rest, found := strings.CutPrefix(line, "[download]")
	if !found {
		return progress.Update{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 || !strings.HasSuffix(fields[0], "%") {
		return progress.Update{}, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
	if err != nil {
		return progress.Update{}, false
	}

	u := progress.Update{JobID: jobID, Stage: progress.StageDownloading, Percent: pct, Message: "Downloading"}
	for i := 1; i+1 < len(fields); i++ {
		v := fields[i+1]
		switch fields[i] {
		case "of":
			if total, ok := parseSize(strings.TrimPrefix(v, "~")); ok {
				done := int64(total * pct / 100)
				u.Bytes = &done
			}
		case "at":
			if v != "Unknown" {
				speed := v
				u.Speed = &speed
			}
		case "ETA":
			if d, err := parseETA(v); err == nil {
				u.ETA = &d
			}
		}
	}
	return u, true
}

// parseSize reads sizes such as "10.00MiB".
func parseSize(s string) (float64, bool) {
	i := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if i <= 0 {
		return 0, false
	}
	mult, ok := sizeUnits[s[i:]]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return n * mult, true
}

// parseETA accepts SS, MM:SS and HH:MM:SS.
func parseETA(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, errors.New("eta: too many fields")
	}
	var d time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		d = d*60 + time.Duration(n)
	}
	return d * time.Second, nil
}
