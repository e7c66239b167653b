package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted marks jobs that never finished because the view was closed.
var ErrInterrupted = errors.New("interrupted")

// BatchError lists the jobs that failed. errors.Is and errors.As see every
// underlying job error.
type BatchError struct {
	Labels []string
	Errs   []error
}

func (e *BatchError) Error() string {
	lines := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		lines[i] = fmt.Sprintf("- %s: %s", e.Labels[i], err.Error())
	}
	return fmt.Sprintf("%d job(s) failed:\n%s", len(e.Errs), strings.Join(lines, "\n"))
}

func (e *BatchError) Unwrap() []error { return e.Errs }

// Run shows the batch view while running jobs with the given number of
// workers. It returns a *BatchError when any job failed.
func Run(ctx context.Context, title string, jobs []Job, workers int) error {
	m := NewModel(ctx, title, jobs, workers)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	m.cancel()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		if be := fm.failures(); be != nil {
			return be
		}
	}
	return nil
}

func (m Model) failures() *BatchError {
	be := &BatchError{}
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js == nil {
			continue
		}
		switch {
		case js.err != nil:
			be.Labels = append(be.Labels, js.label)
			be.Errs = append(be.Errs, js.err)
		case !js.done:
			be.Labels = append(be.Labels, js.label)
			be.Errs = append(be.Errs, ErrInterrupted)
		}
	}
	if len(be.Errs) == 0 {
		return nil
	}
	return be
}
