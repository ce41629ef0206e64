package risk

// Severity ranks how strongly a signal suggests a malicious link.
type Severity string

const (
	SevLow      Severity = "low"
	SevMedium   Severity = "medium"
	SevHigh     Severity = "high"
	SevVeryHigh Severity = "very_high"
)

// SeverityRank maps severity to a comparable integer for reason ordering.
var SeverityRank = map[Severity]int{
	SevLow:      0,
	SevMedium:   1,
	SevHigh:     2,
	SevVeryHigh: 3,
}

// Code returns the short style code used by renderers (lo, me, hi, vhi).
func (s Severity) Code() string {
	switch s {
	case SevMedium:
		return "me"
	case SevHigh:
		return "hi"
	case SevVeryHigh:
		return "vhi"
	default:
		return "lo"
	}
}

// SignalKey identifies one entry of the signal catalog.
type SignalKey string

const (
	SignalProtocol   SignalKey = "protocol"
	SignalRiskyTLD   SignalKey = "tlds"
	SignalShortener  SignalKey = "shortener"
	SignalLong       SignalKey = "long"
	SignalChars      SignalKey = "chars"
	SignalAt         SignalKey = "at"
	SignalSubdomains SignalKey = "subdomains"
	SignalTracking   SignalKey = "track"
	SignalEncoding   SignalKey = "encode"
	SignalTraversal  SignalKey = "traversal"
	SignalPunycode   SignalKey = "punycode"
	SignalHyphen     SignalKey = "hyphen"
	SignalKeyword    SignalKey = "keyword"
	SignalExecutable SignalKey = "executable"
	SignalHeuristic  SignalKey = "heuristic"
)

// Signal is an immutable catalog entry: what a reason says and how much it matters.
type Signal struct {
	Key      SignalKey `json:"key"`
	Text     string    `json:"text"`
	Severity Severity  `json:"severity"`
}

// catalogOrder is the declaration order of every signal, heuristic last.
var catalogOrder = []Signal{
	{SignalProtocol, "Insecure Protocol", SevLow},
	{SignalRiskyTLD, "Risky TLD", SevMedium},
	{SignalShortener, "URL Shortener", SevHigh},
	{SignalLong, "Unusually Long", SevLow},
	{SignalChars, "Suspicious Characters", SevMedium},
	{SignalAt, "@ Symbol", SevHigh},
	{SignalSubdomains, "Many Subdomains", SevMedium},
	{SignalTracking, "Tracking Parameters", SevLow},
	{SignalEncoding, "Encoded URL", SevLow},
	{SignalTraversal, "Path Traversal", SevVeryHigh},
	{SignalPunycode, "Punycode Domain", SevHigh},
	{SignalHyphen, "Hyphen Overload", SevMedium},
	{SignalKeyword, "Phishing Keyword", SevHigh},
	{SignalExecutable, "Executable URL Scheme", SevLow},
	{SignalHeuristic, "Minor Heuristic Signal", SevLow},
}

var catalog = func() map[SignalKey]Signal {
	m := make(map[SignalKey]Signal, len(catalogOrder))
	for _, s := range catalogOrder {
		m[s.Key] = s
	}
	return m
}()

// Lookup returns the catalog entry for key.
func Lookup(key SignalKey) (Signal, bool) {
	s, ok := catalog[key]
	return s, ok
}

// Catalog returns a copy of all signal definitions in declaration order.
func Catalog() []Signal {
	out := make([]Signal, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}
