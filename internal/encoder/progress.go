package encoder

import (
	"strconv"
	"strings"
	"time"

	"mediakit/internal/progress"
)

// progressTracker folds ffmpeg -progress key=value lines into updates. ffmpeg
// writes a block of keys and closes it with progress=continue|end, which is
// when an update is emitted.
type progressTracker struct {
	jobID       string
	durationSec float64 // <= 0 when unknown
	label       string

	outTime time.Duration
	speed   float64 // realtime multiplier, 0 when unknown
	size    int64
}

func newProgressTracker(jobID string, durationSec float64, label string) *progressTracker {
	if label == "" {
		label = "Processing"
	}
	return &progressTracker{jobID: jobID, durationSec: durationSec, label: label}
}

func (t *progressTracker) feed(line string) (progress.Update, bool) {
	key, val, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return progress.Update{}, false
	}
	val = strings.TrimSpace(val)

	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		if us, err := strconv.ParseInt(val, 10, 64); err == nil && us >= 0 {
			t.outTime = time.Duration(us) * time.Microsecond
		}
	case "speed":
		if x, err := strconv.ParseFloat(strings.TrimSuffix(val, "x"), 64); err == nil {
			t.speed = x
		} else {
			t.speed = 0
		}
	case "total_size":
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			t.size = n
		}
	case "progress":
		return t.update(val == "end"), true
	}
	return progress.Update{}, false
}

func (t *progressTracker) update(end bool) progress.Update {
	u := progress.Update{
		JobID:   t.jobID,
		Stage:   progress.StageEncoding,
		Percent: -1,
		Message: t.label,
	}
	if t.durationSec > 0 {
		total := time.Duration(t.durationSec * float64(time.Second))
		u.Percent = min(100, 100*t.outTime.Seconds()/t.durationSec)
		if end {
			u.Percent = 100
		}
		if remaining := total - t.outTime; t.speed > 0 && remaining > 0 && !end {
			eta := time.Duration(float64(remaining) / t.speed).Round(time.Second)
			u.ETA = &eta
		}
	}
	if t.speed > 0 {
		s := strconv.FormatFloat(t.speed, 'f', -1, 64) + "x"
		u.Speed = &s
	}
	if t.size > 0 {
		size := t.size
		u.Bytes = &size
	}
	return u
}
