package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const panelWidth = 42

type styles struct {
	canvas  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	paused  lipgloss.Style
	graph   lipgloss.Style
	hint    lipgloss.Style
	subtle  lipgloss.Style
	bar     lipgloss.Style
	barRest lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(panelWidth),
		header:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		graph:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		subtle:  lipgloss.NewStyle().Foreground(t.Border),
		bar:     lipgloss.NewStyle().Foreground(t.Accent),
		barRest: lipgloss.NewStyle().Foreground(t.Border),
	}
}

// GradientText colours each rune along a Lab blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return text
	}

	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return sb.String()
}

// ProgressBar draws frac of width as filled blocks.
func (s styles) ProgressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = max(0, min(width, filled))
	return s.bar.Render(strings.Repeat("█", filled)) + s.barRest.Render(strings.Repeat("░", width-filled))
}

func (s styles) Separator(width int) string {
	mid := width / 2
	return s.subtle.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-2))
}
