// Package bitrate sizes video bitrates for a target output file size.
package bitrate

// ComputeVideoKbps returns the video bitrate (kbps) that makes a file of
// durationSec seconds land near maxSizeMB, after reserving audioKbps for the
// audio track. The result is clamped to [vMinKbps, vMaxKbps]; an unknown
// duration yields vMaxKbps.
func ComputeVideoKbps(maxSizeMB int, durationSec float64, audioKbps, vMinKbps, vMaxKbps int) int {
	if durationSec <= 0 {
		return vMaxKbps
	}
	totalKbps := int(float64(int64(maxSizeMB)*1024*1024*8) / durationSec / 1000)
	return Clamp(totalKbps-audioKbps, vMinKbps, vMaxKbps)
}

// Clamp returns v constrained to [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
