package scenario

// Case is one link assertion within a scenario.
type Case struct {
	URL       string `yaml:"url"`
	Expect    string `yaml:"expect"`
	Score     *int   `yaml:"score,omitempty"`
	TopReason string `yaml:"top_reason,omitempty"`
}

// Scenario is a named collection of link assertions.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	URL      string `json:"url"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Score    int    `json:"score"`
	Detail   string `json:"detail,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
