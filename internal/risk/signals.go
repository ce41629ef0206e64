package risk

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"

	"github.com/ppiankov/truelinks/internal/link"
)

// evaluator computes one signal's contribution. Zero means the signal did not fire.
// raw is the lower-cased link text as found, before normalization.
type evaluator struct {
	key  SignalKey
	eval func(raw string, u link.URL) int
}

// evaluators run in declaration order; that order seeds the reason list.
var evaluators = []evaluator{
	{SignalProtocol, insecureProtocol},
	{SignalRiskyTLD, riskyTLD},
	{SignalShortener, shortener},
	{SignalLong, unusualLength},
	{SignalChars, suspiciousChars},
	{SignalAt, atSymbol},
	{SignalSubdomains, manySubdomains},
	{SignalTracking, trackingParams},
	{SignalEncoding, encodedSequences},
	{SignalTraversal, pathTraversal},
	{SignalPunycode, punycodeDomain},
	{SignalHyphen, hyphenOverload},
	{SignalKeyword, phishingKeywords},
	{SignalExecutable, executableScheme},
}

var (
	riskyTLDs = []string{"xyz", "top", "club", "icu", "click", "work", "link"}

	shorteners = map[string]bool{
		"bit.ly":      true,
		"t.co":        true,
		"tinyurl.com": true,
		"goo.gl":      true,
		"ow.ly":       true,
		"buff.ly":     true,
		"is.gd":       true,
	}

	executableSchemes = []string{"javascript", "data", "vbscript"}

	suspiciousCharRe   = regexp.MustCompile(`['"<>|{}\\;$]`)
	encodedSeqRe       = regexp.MustCompile(`(?i)%[0-9a-f]{2}`)
	encodedTraversalRe = regexp.MustCompile(`(?i)%2e%2e|%2f%2e%2e|%5c%2e%2e`)

	// Matchers are shared across goroutines; only MatchThreadSafe is used on them.
	trackingMatcher = ahocorasick.NewStringMatcher([]string{"utm_", "gclid", "fbclid", "ref=", "aff="})
	phishingMatcher = ahocorasick.NewStringMatcher([]string{"login", "verify", "secure", "update", "account"})
	brandMatcher    = ahocorasick.NewStringMatcher([]string{"paypal", "microsoft", "apple", "google", "bank"})
)

const (
	lengthStep       = 60
	lengthCap        = 10
	charWeight       = 2
	charCap          = 10
	encodedCap       = 6
	subdomainMin     = 3
	hyphenMin        = 4
	traversalPenalty = 25
)

func insecureProtocol(_ string, u link.URL) int {
	if u.Scheme == "http" {
		return -2
	}
	return 0
}

func riskyTLD(_ string, u link.URL) int {
	labels := strings.Split(u.Hostname, ".")
	if slices.Contains(riskyTLDs, labels[len(labels)-1]) {
		return -8
	}
	return 0
}

func shortener(_ string, u link.URL) int {
	if shorteners[u.Hostname] {
		return -10
	}
	return 0
}

func unusualLength(_ string, u link.URL) int {
	return -min(utf8.RuneCountInString(u.Href)/lengthStep, lengthCap)
}

func suspiciousChars(_ string, u link.URL) int {
	n := len(suspiciousCharRe.FindAllStringIndex(u.Href, -1))
	return -min(n*charWeight, charCap)
}

func atSymbol(_ string, u link.URL) int {
	if strings.Contains(u.Href, "@") {
		return -12
	}
	return 0
}

func manySubdomains(_ string, u link.URL) int {
	if len(strings.Split(u.Hostname, "."))-2 >= subdomainMin {
		return -5
	}
	return 0
}

func trackingParams(_ string, u link.URL) int {
	if contains(trackingMatcher, u.Query) {
		return -1
	}
	return 0
}

func encodedSequences(_ string, u link.URL) int {
	n := len(encodedSeqRe.FindAllStringIndex(u.Href, -1))
	return -min(n, encodedCap)
}

func pathTraversal(raw string, u link.URL) int {
	if encodedTraversalRe.MatchString(raw) || strings.Contains(u.Path, "../") {
		return -traversalPenalty
	}
	return 0
}

func punycodeDomain(_ string, u link.URL) int {
	if strings.Contains(u.Hostname, "xn--") {
		return -15
	}
	return 0
}

func hyphenOverload(_ string, u link.URL) int {
	if strings.Count(u.Hostname, "-") >= hyphenMin {
		return -6
	}
	return 0
}

// phishingKeywords sums four independent checks: phishing words and brand
// names, each in the host and in the path.
func phishingKeywords(_ string, u link.URL) int {
	score := 0
	if contains(phishingMatcher, u.Hostname) {
		score -= 2
	}
	if contains(phishingMatcher, u.Path) {
		score -= 5
	}
	if contains(brandMatcher, u.Hostname) {
		score -= 1
	}
	if contains(brandMatcher, u.Path) {
		score -= 4
	}
	return score
}

func executableScheme(_ string, u link.URL) int {
	if slices.Contains(executableSchemes, u.Scheme) {
		return -1
	}
	return 0
}

func contains(m *ahocorasick.Matcher, s string) bool {
	if s == "" {
		return false
	}
	return len(m.MatchThreadSafe([]byte(s))) > 0
}
