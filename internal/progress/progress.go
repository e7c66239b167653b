// Package progress defines the events long-running jobs report.
package progress

import "time"

// Stage identifies a high-level step in the pipeline.
type Stage string

const (
	StageQueued      Stage = "queued"
	StageDeps        Stage = "deps"
	StageProbing     Stage = "probing"
	StageDownloading Stage = "downloading"
	StageFallback    Stage = "fallback"
	StageMerging     Stage = "merging"
	StageEncoding    Stage = "encoding"
	StageCompleted   Stage = "completed"
	StageError       Stage = "error"
)

// Terminal reports whether st ends a job: no update follows it.
func (st Stage) Terminal() bool {
	return st == StageCompleted || st == StageError
}

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys progress or stage changes for a job.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64 // 0..100, or <0 if unknown

	ETA     *time.Duration // optional
	Bytes   *int64         // optional cumulative bytes
	Speed   *string        // optional, e.g., "2.5MiB/s" or "1.2x"
	Message string         // short human-friendly status line
}

// Log is a structured log line associated with a job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID      string
	OutputPath string
	Bytes      int64
	Message    string
	Err        error // nil on success
}

// Reporter receives job events. The TUI implements it; the plain CLI passes nil.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}