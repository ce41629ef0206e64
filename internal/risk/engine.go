package risk

import (
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/truelinks/internal/link"
)

// Classification is the coarse risk bucket of a link.
type Classification string

const (
	Safe     Classification = "Safe"
	Moderate Classification = "Moderate"
	Risky    Classification = "Risky"
)

// Raw score band boundaries and the normalized values they map to.
const (
	safeFloor     = -3
	moderateFloor = -15
	scoredFloor   = -120

	normSafe     = 30
	normModerate = 60
	normRisky    = 100
)

// ReasonKind tags what produced a reason.
type ReasonKind int

const (
	// ReasonSignal is a catalog signal that fired.
	ReasonSignal ReasonKind = iota
	// ReasonFallback stands in when a link is not safe but no signal fired.
	ReasonFallback
)

// Reason is one entry of an assessment's explanation.
type Reason struct {
	Kind   ReasonKind
	Signal Signal
}

// Text returns the human-readable reason.
func (r Reason) Text() string { return r.Signal.Text }

// Severity returns the reason's severity.
func (r Reason) Severity() Severity { return r.Signal.Severity }

// Contribution is the signed score delta of one fired signal.
type Contribution struct {
	Key   SignalKey `json:"key"`
	Score int       `json:"score"`
}

// Assessment is the result of evaluating one link.
type Assessment struct {
	Classification Classification
	RawScore       int
	// NormalizedScore is meaningful only when Scored is true.
	NormalizedScore int
	Scored          bool
	Reasons         []Reason
	Contributions   []Contribution
}

// Normalized returns the 0-100 score and whether the raw score was in range.
func (a Assessment) Normalized() (int, bool) {
	return a.NormalizedScore, a.Scored
}

// Evaluate scores a parsed link. raw is the link text as it was found
// (before normalization); u is its parsed form.
//
// Evaluation is a pure function of its inputs and safe for concurrent use.
//  1. Run every signal evaluator, summing contributions
//  2. Classify the raw score
//  3. Normalize it onto 0-100
//  4. Order reasons by severity, appending the fallback if needed
func Evaluate(raw string, u link.URL) Assessment {
	lowerRaw := strings.ToLower(raw)

	total := 0
	var reasons []Reason
	var contributions []Contribution
	for _, e := range evaluators {
		score := e.eval(lowerRaw, u)
		if score == 0 {
			continue
		}
		total += score
		contributions = append(contributions, Contribution{Key: e.key, Score: score})
		reasons = append(reasons, Reason{Kind: ReasonSignal, Signal: catalog[e.key]})
	}

	class := Classify(total)
	normalized, scored := Normalize(total)

	sortReasons(reasons)
	if class != Safe && len(reasons) == 0 {
		reasons = append(reasons, Reason{Kind: ReasonFallback, Signal: catalog[SignalHeuristic]})
	}

	return Assessment{
		Classification:  class,
		RawScore:        total,
		NormalizedScore: normalized,
		Scored:          scored,
		Reasons:         reasons,
		Contributions:   contributions,
	}
}

// Classify maps a raw score onto its risk bucket.
func Classify(score int) Classification {
	switch {
	case score >= safeFloor:
		return Safe
	case score >= moderateFloor:
		return Moderate
	default:
		return Risky
	}
}

// Normalize remaps a raw score onto 0-100 by linear interpolation within
// its band. Scores below the lowest band return false.
func Normalize(score int) (int, bool) {
	switch {
	case score >= safeFloor:
		return interpolate(score, 0, safeFloor, 0, normSafe), true
	case score >= moderateFloor:
		return interpolate(score, safeFloor, moderateFloor, normSafe, normModerate), true
	case score >= scoredFloor:
		return interpolate(score, moderateFloor, scoredFloor, normModerate, normRisky), true
	default:
		return 0, false
	}
}

func interpolate(score, leftRaw, rightRaw, leftNorm, rightNorm int) int {
	slope := float64(rightNorm-leftNorm) / float64(rightRaw-leftRaw)
	return int(math.Round(float64(score-leftRaw)*slope + float64(leftNorm)))
}

// sortReasons orders reasons by descending severity, keeping declaration
// order among equals. Fallback reasons sort after every signal.
func sortReasons(reasons []Reason) {
	sort.SliceStable(reasons, func(i, j int) bool {
		return reasonLess(reasons[i], reasons[j])
	})
}

func reasonLess(a, b Reason) bool {
	if a.Kind != b.Kind {
		return a.Kind == ReasonSignal
	}
	return SeverityRank[a.Signal.Severity] > SeverityRank[b.Signal.Severity]
}
