package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/truelinks/internal/link"
	"github.com/ppiankov/truelinks/internal/risk"
)

// actualParseError is reported for links that cannot be parsed.
const actualParseError = "parse_error"

// Run evaluates all cases in a scenario. Cases are independent.
func Run(s *Scenario) *RunResult {
	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		cr := runCase(c)
		cr.Index = i + 1
		if cr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result
}

func runCase(c Case) CaseResult {
	cr := CaseResult{
		URL:      c.URL,
		Expected: strings.ToLower(strings.TrimSpace(c.Expect)),
	}

	u, err := link.Parse(c.URL)
	if err != nil {
		cr.Actual = actualParseError
		cr.Detail = err.Error()
		cr.Passed = cr.Expected == actualParseError
		return cr
	}

	a := risk.Evaluate(c.URL, u)
	cr.Actual = strings.ToLower(string(a.Classification))
	cr.Score = a.RawScore

	var problems []string
	if cr.Actual != cr.Expected {
		problems = append(problems, fmt.Sprintf("classification %s", cr.Actual))
	}
	if c.Score != nil && *c.Score != a.RawScore {
		problems = append(problems, fmt.Sprintf("score %d (expected %d)", a.RawScore, *c.Score))
	}
	if c.TopReason != "" {
		top := "none"
		if len(a.Reasons) > 0 {
			top = a.Reasons[0].Text()
		}
		if !strings.EqualFold(top, c.TopReason) {
			problems = append(problems, fmt.Sprintf("top reason %q (expected %q)", top, c.TopReason))
		}
	}

	cr.Passed = len(problems) == 0
	cr.Detail = strings.Join(problems, "; ")
	return cr
}

// Load reads and validates a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	for i, c := range s.Cases {
		if strings.TrimSpace(c.Expect) == "" {
			return nil, fmt.Errorf("scenario %s: case %d has no expect", path, i+1)
		}
	}
	if s.Name == "" {
		s.Name = path
	}
	return &s, nil
}

// LoadAndRun loads a scenario YAML file and runs it.
func LoadAndRun(path string) (*RunResult, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	result := Run(s)
	result.File = path

	return result, nil
}
