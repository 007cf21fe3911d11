package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	minBarWidth     = 10
	defaultBarWidth = 40
)

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	labelStyle = lipgloss.NewStyle().
			Width(14).
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	confidenceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	linkStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("39"))
)

// Terminal renders the result as a bordered card. width is the space
// available for the whole card; zero picks a default.
func (r Result) Terminal(width int) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Person Found") + "\n\n")

	for _, f := range r.fields() {
		style := valueStyle
		if f.label == "Confidence" {
			style = confidenceStyle
		}
		b.WriteString(labelStyle.Render(f.label+":") + style.Render(f.value) + "\n")
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth(width)),
		progress.WithoutPercentage(),
	)
	b.WriteString(bar.ViewAs(clamp(r.BarFraction())) + "\n")

	b.WriteString(labelStyle.Render("Source URL:") + Hyperlink(r.SourceURL, linkStyle.Render(r.SourceURL)) + "\n")
	b.WriteString(labelStyle.Render("Sources Used:") + valueStyle.Render(r.SourcesLabel()))

	return cardStyle.Render(b.String())
}

// Hyperlink wraps text in an OSC 8 escape sequence so terminals that support
// it open url in the browser when the text is clicked.
func Hyperlink(url, text string) string {
	url = Sanitize(url)
	if url == "" {
		return text
	}
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

func barWidth(width int) int {
	if width <= 0 {
		return defaultBarWidth
	}

	// border and padding take two columns on each side
	w := width - 4
	if w < minBarWidth {
		return minBarWidth
	}
	if w > defaultBarWidth*2 {
		return defaultBarWidth * 2
	}
	return w
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
