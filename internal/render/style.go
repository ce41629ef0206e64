package render

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/truelinks/internal/risk"
)

var (
	safeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#65d96d")).Bold(true)
	moderateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd84a")).Bold(true)
	riskyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5d5d")).Bold(true)

	// Keyed by severity style code.
	severityStyles = map[string]lipgloss.Style{
		"lo":  lipgloss.NewStyle().Foreground(lipgloss.Color("#65d96d")),
		"me":  lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd84a")),
		"hi":  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5d5d")),
		"vhi": lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3b3b")),
	}

	plainText = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
)

func classStyle(c risk.Classification) lipgloss.Style {
	switch c {
	case risk.Safe:
		return safeStyle
	case risk.Risky:
		return riskyStyle
	default:
		return moderateStyle
	}
}

// SeverityStyle returns the style for a reason's severity. Unknown
// severities fall back to the low style.
func SeverityStyle(s risk.Severity) lipgloss.Style {
	return severityStyles[s.Code()]
}

// Colorize highlights every occurrence of the visible reason texts in text
// with their severity style. Purely alphanumeric texts match on word
// boundaries only.
func Colorize(text string, reasons []risk.Reason) string {
	for _, r := range Visible(reasons) {
		t := r.Text()
		pattern := regexp.QuoteMeta(t)
		if plainText.MatchString(t) {
			pattern = `\b` + pattern + `\b`
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		styled := SeverityStyle(r.Severity()).Render(t)
		text = re.ReplaceAllLiteralString(text, styled)
	}
	return text
}
