package link

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	// Browsers drop tabs and newlines anywhere in a link before parsing.
	tabNewline = strings.NewReplacer("\t", "", "\n", "", "\r", "")

	// ErrEmptyLink is returned for blank input.
	ErrEmptyLink = errors.New("empty link")
	// ErrNoScheme is returned for relative links. Resolving them needs a
	// base document, which belongs to whoever extracted the link.
	ErrNoScheme = errors.New("link has no scheme")
)

// URL is the parsed form of a link as the risk engine consumes it.
// Every field except Raw is lower-cased.
type URL struct {
	Raw      string // link text exactly as found
	Scheme   string // without trailing ':'
	Hostname string // ASCII (punycode) form, no port
	Path     string // percent-decoded
	Query    string // including leading '?', empty when absent
	Href     string // full normalized link
}

// Parse normalizes a raw absolute link the way a browser resolves an
// anchor's href: scheme and host are lower-cased, internationalized hosts
// are converted to their ASCII form, default ports are dropped, special
// schemes get a "/" path, and each component is percent-encoded with the
// browser's encode set for it.
func Parse(raw string) (URL, error) {
	trimmed := tabNewline.Replace(strings.TrimSpace(raw))
	if trimmed == "" {
		return URL{}, ErrEmptyLink
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return URL{}, fmt.Errorf("parse link: %w", err)
	}
	if u.Scheme == "" {
		return URL{}, fmt.Errorf("%w: %q", ErrNoScheme, raw)
	}

	scheme := strings.ToLower(u.Scheme)
	special := isSpecial(scheme)
	hostname := asciiHost(u.Hostname())
	host := hostname
	if host != "" {
		if port := u.Port(); port != "" && port != defaultPorts[scheme] {
			host = hostPort(host, port)
		} else {
			host = bracketIPv6(host)
		}
	}

	c := splitComponents(trimmed, len(u.Scheme), u.Opaque != "")

	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	if special {
		path = strings.ReplaceAll(path, `\`, "/")
		c.path = strings.ReplaceAll(c.path, `\`, "/")
	}
	if special && host != "" {
		if path == "" {
			path = "/"
		}
		if c.path == "" {
			c.path = "/"
		}
	}

	query := ""
	if c.hasQuery {
		query = "?" + encodeQuery(c.query, special)
	}

	return URL{
		Raw:      raw,
		Scheme:   scheme,
		Hostname: hostname,
		Path:     strings.ToLower(path),
		Query:    strings.ToLower(query),
		Href:     strings.ToLower(c.href(scheme, host, special)),
	}, nil
}

// asciiHost maps a host to the form a browser exposes as location.hostname.
func asciiHost(host string) string {
	host = strings.ToLower(host)
	if host == "" || strings.Contains(host, ":") {
		return host
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	// Lookup rejects labels browsers tolerate (underscores, malformed xn--).
	if ascii, err := idna.Punycode.ToASCII(host); err == nil {
		return strings.ToLower(ascii)
	}
	return host
}

func hostPort(host, port string) string {
	return bracketIPv6(host) + ":" + port
}

func bracketIPv6(host string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

func isSpecial(scheme string) bool {
	switch scheme {
	case "http", "https", "ws", "wss", "ftp":
		return true
	default:
		return false
	}
}
