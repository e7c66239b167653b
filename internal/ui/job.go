package ui

import (
	"context"
	"strings"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"mediakit/internal/model"
	"mediakit/internal/progress"
)

// Job is one row of the batch view. Run reports progress through rep and
// returns the produced file.
type Job struct {
	Label string // input file name or URL
	Run   func(ctx context.Context, rep progress.Reporter, jobID string) (model.OutputFile, error)
}

type jobState struct {
	id     string
	label  string
	stage  progress.Stage
	status string
	err    error
	done   bool

	outputPath string
	bytes      int64
	percent    float64 // -1 means unknown
	speed      string
	eta        time.Duration // 0 when unknown

	spinner spinner.Model
	bar     bubblesprogress.Model

	started bool

	// recent stderr lines, kept small
	logsRing []string
}

const maxLogLines = 200

func newJobState(id, label string, styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		id:      id,
		label:   label,
		stage:   progress.StageQueued,
		status:  "Queued",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}

func (js *jobState) appendLog(line string) {
	if len(js.logsRing) >= maxLogLines {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}

// lastLog returns the most recent stderr line, if any.
func (js *jobState) lastLog() string {
	if len(js.logsRing) == 0 {
		return ""
	}
	return js.logsRing[len(js.logsRing)-1]
}

// rate renders transfer speed and remaining time, e.g. "1.50MiB/s ETA 4s".
func (js *jobState) rate() string {
	var parts []string
	if js.speed != "" {
		parts = append(parts, js.speed)
	}
	if js.eta > 0 {
		parts = append(parts, "ETA "+js.eta.String())
	}
	return strings.Join(parts, " ")
}

// Messages from the dispatcher goroutine to the bubbletea loop.
type (
	jobStartMsg  struct{ JobID string }
	jobUpdateMsg struct{ U progress.Update }
	jobLogMsg    struct{ L progress.Log }
	jobResultMsg struct{ R progress.Result }
	allDoneMsg   struct{}
)
