// Package format renders sizes and durations for terminal output.
package format

import (
	"fmt"
	"math"
)

var byteUnits = []string{"KB", "MB", "GB", "TB"}

// HumanizeBytes renders b with binary units and one decimal, e.g. "1.5 MB".
// Counts below 1 KB are printed exactly.
func HumanizeBytes(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%d B", b)
	}
	v := float64(b) / 1024
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[i])
}

// Clock renders seconds as m:ss or h:mm:ss, rounded to the nearest second.
// Negative and NaN inputs render as 0:00.
func Clock(sec float64) string {
	if math.IsNaN(sec) || sec < 0 {
		sec = 0
	}
	total := int64(math.Round(sec))
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
