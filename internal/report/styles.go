package report

import "github.com/charmbracelet/lipgloss"

// Color palette using ANSI colors for broad terminal compatibility.
var (
	Primary = lipgloss.Color("4")   // Blue
	Success = lipgloss.Color("2")   // Green
	Warning = lipgloss.Color("3")   // Yellow
	Muted   = lipgloss.Color("245") // Light gray (visible on dark backgrounds)
)

// SuccessIndicator marks a completed step.
const SuccessIndicator = "✓"

// labelWidth aligns the value column of summary rows.
const labelWidth = 15

// styles holds the styles bound to one output renderer.
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(Primary),
		label: r.NewStyle().
			Foreground(Muted).
			Width(labelWidth).
			PaddingLeft(2),
		value: r.NewStyle(),
		success: r.NewStyle().
			Foreground(Success).
			Bold(true),
		warning: r.NewStyle().
			Foreground(Warning),
		muted: r.NewStyle().
			Foreground(Muted),
	}
}
