package downloader

import (
	"fmt"
	"strings"
)

// Quality tiers with a dedicated selector pair.
var qualityHeights = map[string]int{
	"2160p": 2160,
	"1440p": 1440,
	"1080p": 1080,
	"720p":  720,
	"480p":  480,
	"360p":  360,
}

// Qualities lists the named quality values accepted by the selectors.
var Qualities = []string{"best", "2160p", "1440p", "1080p", "720p", "480p", "360p", "worst"}

// Containers lists the merge containers offered for video downloads.
var Containers = []string{"mp4", "webm", "mkv", "avi", "mov", "flv"}

const genericBest = "bestvideo+bestaudio/best"

// PrimarySelector maps a quality value to the first-attempt format selector.
// Named tiers prefer H.264 video with AAC audio so the result plays anywhere;
// values that already look like selectors are passed through unchanged.
func PrimarySelector(quality string) string {
	q := strings.TrimSpace(quality)
	if q == "" || strings.EqualFold(q, "best") {
		return genericBest
	}
	if h, ok := qualityHeights[strings.ToLower(q)]; ok {
		return fmt.Sprintf("bestvideo[height<=%d][vcodec^=avc1]+bestaudio[acodec^=mp4a]/best[height<=%d][vcodec^=avc1]", h, h)
	}
	if isRawSelector(q) {
		return q
	}
	return genericBest
}

// FallbackSelector is the relaxed selector used after the primary one was
// rejected by the site. It drops codec constraints and degrades to whatever
// is available.
func FallbackSelector(quality string) string {
	q := strings.ToLower(strings.TrimSpace(quality))
	if h, ok := qualityHeights[q]; ok {
		return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/%s", h, h, genericBest)
	}
	if q == "worst" {
		return "worstvideo+worstaudio/worst"
	}
	return genericBest
}

func isRawSelector(q string) bool {
	return strings.ContainsAny(q, "[+") || strings.Contains(q, "best") || strings.Contains(q, "worst")
}
