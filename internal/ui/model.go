package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"mediakit/internal/progress"
	"mediakit/internal/util/format"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	title    string
	defs     []Job
	jobOrder []string
	jobs     map[string]*jobState
	workers  int

	// UI
	width, height int
	styles        Styles

	// reporter events from job goroutines
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, title string, defs []Job, workers int) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(defs))
	order := make([]string, 0, len(defs))
	for i, d := range defs {
		id := toID(i)
		js := newJobState(id, d.Label, sty)
		jobs[id] = &js
		order = append(order, id)
	}

	if workers <= 0 {
		workers = 2
	}

	return Model{
		ctx:      c,
		cancel:   cancel,
		title:    title,
		defs:     defs,
		jobs:     jobs,
		jobOrder: order,
		workers:  workers,
		styles:   sty,
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		cmds = append(cmds, m.jobs[id].spinner.Tick)
	}
	cmds = append(cmds, m.listenEventsCmd(), m.dispatchCmd())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case jobStartMsg:
		if js, ok := m.jobs[msg.JobID]; ok {
			js.started = true
			js.status = "Starting"
		}
	case jobUpdateMsg:
		u := msg.U
		if js, ok := m.jobs[u.JobID]; ok && !js.done {
			js.stage = u.Stage
			js.percent = u.Percent
			if u.Message != "" {
				js.status = u.Message
			}
			if u.Bytes != nil {
				js.bytes = *u.Bytes
			}
			js.speed, js.eta = "", 0
			if u.Speed != nil {
				js.speed = *u.Speed
			}
			if u.ETA != nil {
				js.eta = *u.ETA
			}
		}
	case jobLogMsg:
		l := msg.L
		if js, ok := m.jobs[l.JobID]; ok {
			js.appendLog(strings.TrimRight(l.Line, "\r\n"))
		}
	case jobResultMsg:
		m.applyResult(msg.R)
	case allDoneMsg:
		return m, tea.Quit
	}

	// Update per-job components (spinner)
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	// Keep listening for events
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) applyResult(r progress.Result) {
	js, ok := m.jobs[r.JobID]
	if !ok {
		return
	}
	js.done = true
	js.err = r.Err
	if r.Err != nil {
		js.stage = progress.StageError
		js.status = r.Err.Error()
		js.percent = -1
		return
	}
	js.stage = progress.StageCompleted
	js.percent = 100
	js.outputPath = r.OutputPath
	js.bytes = r.Bytes
	switch {
	case r.Message != "":
		js.status = r.Message
	case strings.HasPrefix(js.status, "Saved:") || strings.HasPrefix(js.status, "Planned:"):
	case r.OutputPath != "":
		js.status = fmt.Sprintf("Saved: %s (%s)", filepath.Base(r.OutputPath), format.HumanizeBytes(r.Bytes))
	default:
		js.status = "Completed"
	}
}

func (m Model) View() string {
	summary := m.viewSummary()
	if summary != "" {
		return m.viewHeader() + "\n\n" + m.viewJobs() + "\n" + summary
	}
	return m.viewHeader() + "\n\n" + m.viewJobs()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// dispatchCmd starts the worker pool. Concurrency is bounded by a semaphore
// owned by the dispatcher goroutine, not by model state.
func (m Model) dispatchCmd() tea.Cmd {
	return func() tea.Msg {
		go m.dispatch()
		return nil
	}
}

func (m Model) dispatch() {
	rep := teaReporter{ctx: m.ctx, ch: m.eventCh}
	sem := make(chan struct{}, m.workers)
	var wg sync.WaitGroup

loop:
	for i, def := range m.defs {
		select {
		case <-m.ctx.Done():
			break loop
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(id string, def Job) {
			defer wg.Done()
			defer func() { <-sem }()
			rep.send(jobStartMsg{JobID: id}, true)
			out, err := def.Run(m.ctx, rep, id)
			rep.Result(progress.Result{
				JobID:      id,
				OutputPath: out.Path,
				Bytes:      out.Bytes,
				Message:    out.Message,
				Err:        err,
			})
		}(m.jobOrder[i], def)
	}
	wg.Wait()
	rep.send(allDoneMsg{}, true)
}

type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

// send delivers msg. Blocking sends give up once the view has been closed.
func (r teaReporter) send(msg tea.Msg, block bool) {
	if !block {
		select {
		case r.ch <- msg:
		default:
		}
		return
	}
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r teaReporter) Update(u progress.Update) {
	critical := u.Stage.Terminal() || u.Stage == progress.StageFallback
	r.send(jobUpdateMsg{U: u}, critical)
}

func (r teaReporter) Log(l progress.Log) {
	r.send(jobLogMsg{L: l}, false)
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res}, true)
}

func toID(i int) string {
	return "job-" + strconv.Itoa(i)
}
