package ui

import (
	"github.com/charmbracelet/lipgloss"

	"mediakit/internal/progress"
)

type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	JobTitle lipgloss.Style
	JobInfo  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Faint    lipgloss.Style
	Box      lipgloss.Style
	Spinner  lipgloss.Style

	stages map[progress.Stage]lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	color := func(hex string) lipgloss.Style { return base.Foreground(lipgloss.Color(hex)) }

	prep := color("#60A5FA")
	transfer := color("#06B6D4")
	return Styles{
		Title:    base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle: base.Faint(true),
		JobTitle: color("#A3A3A3"),
		JobInfo:  color("#D1D5DB"),
		Success:  color("#22C55E"),
		Error:    color("#EF4444"),
		Faint:    base.Faint(true),
		Box:      base.Padding(0, 1),
		Spinner:  color("#22D3EE"),
		stages: map[progress.Stage]lipgloss.Style{
			progress.StageQueued:      prep,
			progress.StageDeps:        prep,
			progress.StageProbing:     prep,
			progress.StageDownloading: transfer,
			progress.StageMerging:     transfer,
			progress.StageFallback:    color("#F59E0B"),
			progress.StageEncoding:    color("#D946EF"),
			progress.StageCompleted:   color("#22C55E"),
			progress.StageError:       color("#EF4444"),
		},
	}
}

// stage returns the label style for st, JobInfo for unknown stages.
func (s Styles) stage(st progress.Stage) lipgloss.Style {
	if style, ok := s.stages[st]; ok {
		return style
	}
	return s.JobInfo
}
