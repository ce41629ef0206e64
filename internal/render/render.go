package render

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truelinks/internal/link"
	"github.com/ppiankov/truelinks/internal/risk"
)

const (
	// MaxTags is how many reasons a tooltip lists before eliding the rest.
	MaxTags = 3
	// maxPathLen is the longest path shown before it is shortened.
	maxPathLen = 40
	ellipsis   = "..."
)

// Options controls how an assessment is presented.
type Options struct {
	Detailed bool // show location and tags, not just the score line
	Color    bool // emit terminal styling
}

// View is everything a caller needs to decorate one link.
type View struct {
	Outline string `json:"outline"`
	Text    string `json:"tooltip"`
}

// Render builds the outline colour and tooltip text for an assessment.
func Render(u link.URL, a risk.Assessment, opts Options) View {
	return View{
		Outline: Outline(a.Classification),
		Text:    Tooltip(u, a, opts),
	}
}

// Outline maps a classification to the border colour drawn around a link.
func Outline(c risk.Classification) string {
	switch c {
	case risk.Safe:
		return "green"
	case risk.Risky:
		return "red"
	default:
		return "yellow"
	}
}

// Tooltip renders the score line, and in detailed mode the link location
// and its leading reason tags.
func Tooltip(u link.URL, a risk.Assessment, opts Options) string {
	score := ScoreLine(a)
	if opts.Color {
		score = classStyle(a.Classification).Render(score)
	}
	if !opts.Detailed {
		return score
	}

	text := strings.Join([]string{Location(u), score, "Tags: " + Tags(a)}, "\n")
	if opts.Color {
		text = Colorize(text, a.Reasons)
	}
	return text
}

// Location is the host followed by a possibly shortened path.
func Location(u link.URL) string {
	path := []rune(u.Path)
	if len(path) > maxPathLen {
		return u.Hostname + string(path[:maxPathLen]) + ellipsis
	}
	return u.Hostname + u.Path
}

// ScoreLine renders "Risk: MODERATE (53/100)". Links scored below the
// normalized range are shown as unscored rather than with a made-up number.
func ScoreLine(a risk.Assessment) string {
	label := strings.ToUpper(string(a.Classification))
	if n, ok := a.Normalized(); ok {
		return fmt.Sprintf("Risk: %s (%d/100)", label, n)
	}
	return fmt.Sprintf("Risk: %s (unscored)", label)
}

// Tags joins the first MaxTags reason texts, marking elided ones.
func Tags(a risk.Assessment) string {
	if len(a.Reasons) == 0 {
		return "None"
	}
	shown := Visible(a.Reasons)
	texts := make([]string, 0, len(shown))
	for _, r := range shown {
		texts = append(texts, r.Text())
	}
	out := strings.Join(texts, ", ")
	if len(a.Reasons) > MaxTags {
		out += ellipsis
	}
	return out
}

// Visible returns the reasons a tooltip shows.
func Visible(reasons []risk.Reason) []risk.Reason {
	if len(reasons) > MaxTags {
		return reasons[:MaxTags]
	}
	return reasons
}
