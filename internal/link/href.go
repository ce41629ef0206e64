package link

import "strings"

// components are the raw, still-escaped pieces of a link after its scheme.
type components struct {
	hasAuthority bool
	userinfo     string
	path         string // opaque part for non-hierarchical links
	opaque       bool
	query        string
	hasQuery     bool
	fragment     string
	hasFragment  bool
}

// splitComponents cuts s the same way net/url does, keeping each piece as
// written so existing escapes survive serialization.
func splitComponents(s string, schemeLen int, opaque bool) components {
	var c components
	s, c.fragment, c.hasFragment = strings.Cut(s, "#")
	s, c.query, c.hasQuery = strings.Cut(s, "?")
	rest := s[schemeLen+1:]

	c.opaque = opaque
	if opaque || !strings.HasPrefix(rest, "//") {
		c.path = rest
		return c
	}

	c.hasAuthority = true
	authority := rest[2:]
	if i := strings.IndexByte(authority, '/'); i >= 0 {
		authority, c.path = authority[:i], authority[i:]
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		c.userinfo = authority[:i]
	}
	return c
}

// href serializes the components as a browser's URL.href, with host
// already normalized.
func (c components) href(scheme, host string, special bool) string {
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteByte(':')

	if c.opaque {
		b.WriteString(percentEncode(c.path, inC0ControlSet))
	} else {
		if c.hasAuthority {
			b.WriteString("//")
			if user, pass, _ := strings.Cut(c.userinfo, ":"); user != "" || pass != "" {
				b.WriteString(percentEncode(user, inUserinfoSet))
				if pass != "" {
					b.WriteByte(':')
					b.WriteString(percentEncode(pass, inUserinfoSet))
				}
				b.WriteByte('@')
			}
			b.WriteString(host)
		}
		b.WriteString(percentEncode(c.path, inPathSet))
	}

	if c.hasQuery {
		b.WriteByte('?')
		b.WriteString(encodeQuery(c.query, special))
	}
	if c.hasFragment {
		b.WriteByte('#')
		b.WriteString(percentEncode(c.fragment, inFragmentSet))
	}
	return b.String()
}

func encodeQuery(q string, special bool) string {
	if special {
		return percentEncode(q, inSpecialQuerySet)
	}
	return percentEncode(q, inQuerySet)
}

const upperHex = "0123456789ABCDEF"

// percentEncode escapes every byte in the set. '%' is never in a set, so
// sequences already escaped in the input are kept as they are.
func percentEncode(s string, inSet func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inSet(c) {
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Percent-encode sets from the WHATWG URL standard.

func inC0ControlSet(c byte) bool {
	return c < 0x20 || c > 0x7e
}

func inFragmentSet(c byte) bool {
	return inC0ControlSet(c) || strings.IndexByte(" \"<>`", c) >= 0
}

func inQuerySet(c byte) bool {
	return inC0ControlSet(c) || strings.IndexByte(" \"#<>", c) >= 0
}

func inSpecialQuerySet(c byte) bool {
	return inQuerySet(c) || c == '\''
}

func inPathSet(c byte) bool {
	return inQuerySet(c) || strings.IndexByte("?^`{}", c) >= 0
}

func inUserinfoSet(c byte) bool {
	return inPathSet(c) || strings.IndexByte("/:;=@[\\]|", c) >= 0
}
