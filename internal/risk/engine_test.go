package risk

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/truelinks/internal/link"
)

func mustParse(t testing.TB, raw string) link.URL {
	t.Helper()
	u, err := link.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func evaluate(t testing.TB, raw string) Assessment {
	t.Helper()
	return Evaluate(raw, mustParse(t, raw))
}

func reasonTexts(a Assessment) []string {
	out := make([]string, 0, len(a.Reasons))
	for _, r := range a.Reasons {
		out = append(out, r.Text())
	}
	return out
}

func TestBenignLinkIsSafe(t *testing.T) {
	a := evaluate(t, "https://example.com/")

	if a.RawScore != 0 {
		t.Errorf("expected raw score 0, got %d", a.RawScore)
	}
	if a.Classification != Safe {
		t.Errorf("expected Safe, got %s", a.Classification)
	}
	if n, ok := a.Normalized(); !ok || n != 0 {
		t.Errorf("expected normalized 0, got %d (scored=%v)", n, ok)
	}
	if len(a.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", reasonTexts(a))
	}
}

func TestShortenerOverHTTP(t *testing.T) {
	a := evaluate(t, "http://bit.ly/abc")

	if a.RawScore != -12 {
		t.Errorf("expected raw score -12, got %d", a.RawScore)
	}
	if a.Classification != Moderate {
		t.Errorf("expected Moderate, got %s", a.Classification)
	}
	if n, _ := a.Normalized(); n != 53 {
		t.Errorf("expected normalized 53, got %d", n)
	}
	got := reasonTexts(a)
	want := []string{"URL Shortener", "Insecure Protocol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected reasons %v, got %v", want, got)
	}
}

func TestPunycodeTraversalIsRisky(t *testing.T) {
	a := evaluate(t, "http://xn--paypal-verify-login-account-secure.top/../../etc/passwd")

	if a.RawScore > -60 {
		t.Errorf("expected raw score <= -60, got %d", a.RawScore)
	}
	if a.Classification != Risky {
		t.Errorf("expected Risky, got %s", a.Classification)
	}
	if len(a.Reasons) == 0 || a.Reasons[0].Signal.Key != SignalTraversal {
		t.Fatalf("expected Path Traversal first, got %v", reasonTexts(a))
	}
	if a.Reasons[0].Severity() != SevVeryHigh {
		t.Errorf("expected very_high top reason, got %s", a.Reasons[0].Severity())
	}

	want := []string{
		"Path Traversal",
		"Punycode Domain",
		"Phishing Keyword",
		"Risky TLD",
		"Hyphen Overload",
		"Insecure Protocol",
		"Unusually Long",
	}
	if got := reasonTexts(a); !reflect.DeepEqual(got, want) {
		t.Errorf("expected reasons %v, got %v", want, got)
	}
	if n, ok := a.Normalized(); !ok || n != 77 {
		t.Errorf("expected normalized 77, got %d (scored=%v)", n, ok)
	}
}

func TestLongLinkCapped(t *testing.T) {
	base := "https://example.com/"
	for _, size := range []int{500, 1000, 5000} {
		raw := base + strings.Repeat("a", size-len(base))
		a := evaluate(t, raw)

		wantScore := -min(size/60, 10)
		if a.RawScore != wantScore {
			t.Errorf("size %d: expected raw score %d, got %d", size, wantScore, a.RawScore)
		}
		if len(a.Contributions) != 1 || a.Contributions[0].Key != SignalLong {
			t.Errorf("size %d: expected only Unusually Long, got %v", size, a.Contributions)
		}
		if a.RawScore < -10 {
			t.Errorf("size %d: length penalty exceeded cap: %d", size, a.RawScore)
		}
	}
}

func TestEncodedSequencesCapped(t *testing.T) {
	a := evaluate(t, "https://example.com/"+strings.Repeat("%41", 10))

	if a.RawScore != -6 {
		t.Errorf("expected raw score -6, got %d", a.RawScore)
	}
	got := reasonTexts(a)
	if !reflect.DeepEqual(got, []string{"Encoded URL"}) {
		t.Errorf("expected only Encoded URL, got %v", got)
	}
}

func TestBrowserEscapingDecidesClass(t *testing.T) {
	tests := []struct {
		raw   string
		class Classification
		score int
	}{
		{"https://example.com/a|b|c", Moderate, -4},
		{"https://example.com/?q=<x>", Safe, -2},
		{"https://example.com/?q='x'", Safe, -2},
	}
	for _, tt := range tests {
		a := evaluate(t, tt.raw)
		if a.Classification != tt.class || a.RawScore != tt.score {
			t.Errorf("%s: expected %s (%d), got %s (%d)", tt.raw, tt.class, tt.score, a.Classification, a.RawScore)
		}
	}
}

func TestIsolatedSignals(t *testing.T) {
	tests := []struct {
		raw   string
		key   SignalKey
		score int
	}{
		{"http://example.com/", SignalProtocol, -2},
		{"https://example.xyz/", SignalRiskyTLD, -8},
		{"https://example.click/", SignalRiskyTLD, -8},
		{"https://bit.ly/abc", SignalShortener, -10},
		{"https://tinyurl.com/abc", SignalShortener, -10},
		{"https://example.com/a;b", SignalChars, -2},
		{"https://example.com/;;;;;;", SignalChars, -10},
		{"https://example.com/a|b|c", SignalChars, -4},
		{"https://user@example.com/", SignalAt, -12},
		{"https://a.b.c.example.com/", SignalSubdomains, -5},
		{"https://example.com/?utm_source=mail", SignalTracking, -1},
		{"https://example.com/?fbclid=abc", SignalTracking, -1},
		{"https://example.com/%41", SignalEncoding, -1},
		{"https://example.com/?q=<x>", SignalEncoding, -2},
		{"https://example.com/?q='x'", SignalEncoding, -2},
		{"https://example.com/a/../b", SignalTraversal, -25},
		{"https://xn--bcher-kva.de/", SignalPunycode, -15},
		{"https://a-b-c-d-e.com/", SignalHyphen, -6},
		{"https://login.example.com/", SignalKeyword, -2},
		{"https://example.com/verify", SignalKeyword, -5},
		{"https://apple.example.com/", SignalKeyword, -1},
		{"https://example.com/paypal", SignalKeyword, -4},
		{"https://secure-paypal.com/verify/bank", SignalKeyword, -12},
		{"javascript:alert(1)", SignalExecutable, -1},
		{"data:text/html,hi", SignalExecutable, -1},
		{"vbscript:msgbox", SignalExecutable, -1},
	}

	for _, tt := range tests {
		a := evaluate(t, tt.raw)
		want := []Contribution{{Key: tt.key, Score: tt.score}}
		if !reflect.DeepEqual(a.Contributions, want) {
			t.Errorf("%s: expected %v, got %v", tt.raw, want, a.Contributions)
			continue
		}
		if a.RawScore != tt.score {
			t.Errorf("%s: expected raw score %d, got %d", tt.raw, tt.score, a.RawScore)
		}
		if len(a.Reasons) != 1 || a.Reasons[0].Signal.Key != tt.key {
			t.Errorf("%s: expected single %s reason, got %v", tt.raw, tt.key, reasonTexts(a))
		}
	}
}

func TestEncodedTraversalUsesRawText(t *testing.T) {
	u := link.URL{
		Scheme:   "https",
		Hostname: "example.com",
		Path:     "/files",
		Href:     "https://example.com/files",
	}
	a := Evaluate("https://example.com/%2E%2E/files", u)

	if len(a.Contributions) != 1 || a.Contributions[0].Key != SignalTraversal {
		t.Errorf("expected traversal from raw text only, got %v", a.Contributions)
	}
}

func TestEmptyHostnameContributesNothing(t *testing.T) {
	u := link.URL{Scheme: "https", Path: "/", Href: "https:///"}
	a := Evaluate("https:///", u)

	if a.RawScore != 0 {
		t.Errorf("expected raw score 0 for empty host, got %d (%v)", a.RawScore, a.Contributions)
	}
}

func TestRawScoreIsSumOfContributions(t *testing.T) {
	links := []string{
		"http://bit.ly/abc",
		"http://xn--paypal-verify-login-account-secure.top/../../etc/passwd",
		"https://user@login.secure.accounts.bank.example.xyz/update?ref=1&%41%42",
		"https://example.com/" + strings.Repeat("%2e%2e/", 40),
	}
	for _, raw := range links {
		a := evaluate(t, raw)
		sum := 0
		for _, c := range a.Contributions {
			if c.Score == 0 {
				t.Errorf("%s: zero contribution recorded for %s", raw, c.Key)
			}
			sum += c.Score
		}
		if sum != a.RawScore {
			t.Errorf("%s: contributions sum to %d, raw score is %d", raw, sum, a.RawScore)
		}
		if len(a.Reasons) != len(a.Contributions) {
			t.Errorf("%s: expected %d reasons, got %d", raw, len(a.Contributions), len(a.Reasons))
		}
	}
}

func TestReasonsOrderedBySeverity(t *testing.T) {
	a := evaluate(t, "https://user@login.secure.accounts.bank.example.xyz/update?ref=1&%41%42")

	for i := 1; i < len(a.Reasons); i++ {
		prev := SeverityRank[a.Reasons[i-1].Severity()]
		cur := SeverityRank[a.Reasons[i].Severity()]
		if prev < cur {
			t.Fatalf("reasons not sorted by severity: %v", reasonTexts(a))
		}
	}
}

func TestSortKeepsDeclarationOrderForTies(t *testing.T) {
	reasons := []Reason{
		{Kind: ReasonSignal, Signal: catalog[SignalProtocol]},
		{Kind: ReasonSignal, Signal: catalog[SignalRiskyTLD]},
		{Kind: ReasonSignal, Signal: catalog[SignalLong]},
		{Kind: ReasonSignal, Signal: catalog[SignalChars]},
	}
	sortReasons(reasons)

	var got []SignalKey
	for _, r := range reasons {
		got = append(got, r.Signal.Key)
	}
	want := []SignalKey{SignalRiskyTLD, SignalChars, SignalProtocol, SignalLong}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFallbackSortsLast(t *testing.T) {
	reasons := []Reason{
		{Kind: ReasonFallback, Signal: catalog[SignalHeuristic]},
		{Kind: ReasonSignal, Signal: catalog[SignalProtocol]},
		{Kind: ReasonSignal, Signal: catalog[SignalTraversal]},
	}
	sortReasons(reasons)

	if reasons[2].Kind != ReasonFallback {
		t.Errorf("expected fallback last, got kind %d", reasons[2].Kind)
	}
	if reasons[0].Signal.Key != SignalTraversal {
		t.Errorf("expected traversal first, got %s", reasons[0].Signal.Key)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Classification
	}{
		{0, Safe},
		{-3, Safe},
		{-4, Moderate},
		{-15, Moderate},
		{-16, Risky},
		{-500, Risky},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d): expected %s, got %s", tt.score, tt.want, got)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	rank := map[Classification]int{Safe: 0, Moderate: 1, Risky: 2}
	for s := -200; s < 5; s++ {
		if rank[Classify(s)] < rank[Classify(s+1)] {
			t.Fatalf("Classify(%d)=%s is safer than Classify(%d)=%s", s, Classify(s), s+1, Classify(s+1))
		}
	}
}

func TestNormalizeBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{-1, 10},
		{-3, 30},
		{-4, 33},
		{-15, 60},
		{-60, 77},
		{-120, 100},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.score)
		if !ok || got != tt.want {
			t.Errorf("Normalize(%d): expected %d, got %d (scored=%v)", tt.score, tt.want, got, ok)
		}
	}
}

func TestNormalizeMonotonicAndBounded(t *testing.T) {
	prev := -1
	for s := 0; s >= -120; s-- {
		n, ok := Normalize(s)
		if !ok {
			t.Fatalf("Normalize(%d): expected scored", s)
		}
		if n < 0 || n > 100 {
			t.Fatalf("Normalize(%d)=%d out of range", s, n)
		}
		if n < prev {
			t.Fatalf("Normalize(%d)=%d decreased from %d", s, n, prev)
		}
		prev = n
	}
}

func TestNormalizeBelowRangeUnscored(t *testing.T) {
	for _, s := range []int{-121, -200, -1000} {
		if _, ok := Normalize(s); ok {
			t.Errorf("Normalize(%d): expected unscored", s)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	raw := "http://xn--paypal-verify-login-account-secure.top/../../etc/passwd"
	u := mustParse(t, raw)

	first := Evaluate(raw, u)
	second := Evaluate(raw, u)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical assessments, got %+v and %+v", first, second)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	raw := "https://user@login.secure.accounts.bank.example.xyz/update?ref=1&%41%42"
	u := mustParse(t, raw)
	want := Evaluate(raw, u)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Evaluate(raw, u); !reflect.DeepEqual(got, want) {
				errs <- "concurrent evaluation diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestCatalogComplete(t *testing.T) {
	cat := Catalog()
	if len(cat) != 15 {
		t.Fatalf("expected 15 catalog entries, got %d", len(cat))
	}
	for _, e := range evaluators {
		if _, ok := Lookup(e.key); !ok {
			t.Errorf("evaluator %s has no catalog entry", e.key)
		}
	}
	if s, _ := Lookup(SignalHeuristic); s.Text != "Minor Heuristic Signal" {
		t.Errorf("unexpected heuristic text %q", s.Text)
	}
}

func TestSeverityCode(t *testing.T) {
	tests := map[Severity]string{
		SevLow:            "lo",
		SevMedium:         "me",
		SevHigh:           "hi",
		SevVeryHigh:       "vhi",
		Severity("bogus"): "lo",
	}
	for sev, want := range tests {
		if got := sev.Code(); got != want {
			t.Errorf("%s: expected code %s, got %s", sev, want, got)
		}
	}
}
