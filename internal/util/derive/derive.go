// Package derive computes values the plan builders depend on.
package derive

import "math"

// LoopsNeeded returns how many copies of a source clip are needed to cover
// target seconds. It returns 0 when the source duration is not positive.
// A result of 1 means no repetition is required.
func LoopsNeeded(sourceSeconds, targetSeconds float64) uint {
	if sourceSeconds <= 0 || targetSeconds <= 0 {
		return 0
	}
	return uint(math.Ceil(targetSeconds / sourceSeconds))
}

// CRFFromQuality maps a 0..100 quality score onto the x264 CRF scale,
// where 0 is lossless and 51 is worst. Scores above 100 are treated as 100.
func CRFFromQuality(quality uint) uint {
	if quality > 100 {
		quality = 100
	}
	return 51 - (quality*51)/100
}
