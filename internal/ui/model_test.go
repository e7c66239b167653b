package ui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediakit/internal/model"
	"mediakit/internal/progress"
	"mediakit/internal/toolerr"
)

func TestModelAppliesEvents(t *testing.T) {
	m := NewModel(context.Background(), "convert", []Job{{Label: "a.mp4"}, {Label: "b.mp4"}}, 1)

	next, _ := m.Update(jobUpdateMsg{U: progress.Update{JobID: "job-0", Stage: progress.StageEncoding, Percent: 40, Message: "Resizing"}})
	m = next.(Model)
	js := m.jobs["job-0"]
	assert.Equal(t, progress.StageEncoding, js.stage)
	assert.Equal(t, 40.0, js.percent)
	assert.Equal(t, "Resizing", js.status)

	next, _ = m.Update(jobResultMsg{R: progress.Result{JobID: "job-0", OutputPath: "/out/a_resized_640x360.mp4", Bytes: 2048}})
	m = next.(Model)
	assert.True(t, js.done)
	assert.Equal(t, "Saved: a_resized_640x360.mp4 (2.0 KB)", js.status)

	fail := toolerr.ExecutionFailed("ffmpeg", "Resizing", "boom")
	next, _ = m.Update(jobResultMsg{R: progress.Result{JobID: "job-1", Err: fail}})
	m = next.(Model)
	assert.Equal(t, progress.StageError, m.jobs["job-1"].stage)

	be := m.failures()
	require.NotNil(t, be)
	assert.Equal(t, []string{"b.mp4"}, be.Labels)
	assert.True(t, errors.Is(be, toolerr.ErrToolExecutionFailed))
	assert.Contains(t, m.View(), "mediakit · convert")
}

func TestModelUnfinishedJobsAreInterrupted(t *testing.T) {
	m := NewModel(context.Background(), "download", []Job{{Label: "https://example.com/v"}}, 1)
	be := m.failures()
	require.NotNil(t, be)
	assert.True(t, errors.Is(be, ErrInterrupted))
}

func TestDispatchBoundsConcurrency(t *testing.T) {
	var running, peak int32
	job := Job{Run: func(ctx context.Context, rep progress.Reporter, id string) (model.OutputFile, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return model.OutputFile{Path: "/out/" + id}, nil
	}}
	jobs := []Job{job, job, job, job, job}
	m := NewModel(context.Background(), "t", jobs, 2)
	defer m.cancel()

	go m.dispatch()

	results := 0
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-m.eventCh:
			switch msg := msg.(type) {
			case jobResultMsg:
				assert.NoError(t, msg.R.Err)
				results++
			case allDoneMsg:
				assert.Equal(t, len(jobs), results)
				assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
				return
			}
		case <-timeout:
			t.Fatal("dispatch did not finish")
		}
	}
}
