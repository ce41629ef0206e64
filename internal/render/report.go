package render

import (
	"github.com/ppiankov/truelinks/internal/link"
	"github.com/ppiankov/truelinks/internal/risk"
)

// ReasonReport is the serialized form of one reason.
type ReasonReport struct {
	Text     string        `json:"text"`
	Severity risk.Severity `json:"severity"`
	Fallback bool          `json:"fallback,omitempty"`
}

// Report is the machine-readable result for one link.
// NormalizedScore is null when the raw score is below the normalized range.
type Report struct {
	URL             string              `json:"url"`
	Classification  risk.Classification `json:"classification"`
	RawScore        int                 `json:"raw_score"`
	NormalizedScore *int                `json:"normalized_score"`
	Reasons         []ReasonReport      `json:"reasons"`
	Contributions   []risk.Contribution `json:"contributions"`
	Outline         string              `json:"outline"`
	Tooltip         string              `json:"tooltip"`
}

// NewReport combines an assessment with its rendered view.
func NewReport(u link.URL, a risk.Assessment, opts Options) Report {
	view := Render(u, a, opts)

	reasons := make([]ReasonReport, 0, len(a.Reasons))
	for _, r := range a.Reasons {
		reasons = append(reasons, ReasonReport{
			Text:     r.Text(),
			Severity: r.Severity(),
			Fallback: r.Kind == risk.ReasonFallback,
		})
	}

	contributions := a.Contributions
	if contributions == nil {
		contributions = []risk.Contribution{}
	}

	rep := Report{
		URL:            u.Raw,
		Classification: a.Classification,
		RawScore:       a.RawScore,
		Reasons:        reasons,
		Contributions:  contributions,
		Outline:        view.Outline,
		Tooltip:        view.Text,
	}
	if n, ok := a.Normalized(); ok {
		rep.NormalizedScore = &n
	}
	return rep
}
