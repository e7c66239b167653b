package ui

import (
	"fmt"
	"strings"

	"mediakit/internal/util/format"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	title := m.styles.Title.Render("mediakit · " + m.title)
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Jobs: %d/%d done • q: quit", done, total))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		b.WriteString(m.viewJob(js))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState) string {
	left := m.styles.JobTitle.Render(truncate(js.label, 48))
	stage := m.styles.stage(js.stage).Render(string(js.stage))

	var right string
	switch {
	case js.err != nil:
		right = m.styles.Error.Render("✗ error")
	case js.done:
		right = m.styles.Success.Render("✓ done")
	case js.percent >= 0 && js.percent <= 100:
		right = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
		if rate := js.rate(); rate != "" {
			right += "  " + m.styles.Faint.Render(rate)
		}
	default:
		right = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render(string(js.stage))
	}

	line1 := fmt.Sprintf("%s  %s", left, stage)
	line2 := m.styles.JobInfo.Render(js.status)
	if last := js.lastLog(); last != "" && js.started && !js.done {
		line2 += "\n" + m.styles.Faint.Render(truncate(last, 72))
	}
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

// viewSummary lists produced files once at least one job succeeded.
func (m Model) viewSummary() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if !js.done || js.err != nil || js.outputPath == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(m.styles.Subtitle.Render("✓ Completed files:") + "\n")
		}
		line := "  • " + js.outputPath
		if js.bytes > 0 {
			line += " (" + format.HumanizeBytes(js.bytes) + ")"
		}
		b.WriteString(m.styles.Success.Render(line) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}