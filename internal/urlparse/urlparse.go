// Package urlparse splits URLs into RFC 1808 components and joins them back.
//
// Unlike net/url, which component is parsed depends on the scheme: a scheme
// that does not use queries keeps "?..." in its path, and so on. Every field
// is optional, and an absent field is distinct from an empty one.
package urlparse

import (
	"strconv"
	"strings"
)

// Component names a URL part whose parsing is gated by scheme.
type Component int

const (
	Netloc Component = iota
	Params
	Query
	Fragment
)

// Scheme-usage tables.
var (
	usesNetloc = schemeSet(
		"ftp", "http", "gopher", "nntp", "telnet", "imap", "wais", "file", "mms", "https",
		"shttp", "snews", "prospero", "rtsp", "rtspu", "rsync", "svn", "svn+ssh", "sftp",
	)
	usesParams = schemeSet(
		"ftp", "hdl", "prospero", "http", "imap", "https", "shttp", "rtsp", "rtspu",
		"sip", "sips", "mms", "sftp",
	)
	usesQuery = schemeSet(
		"http", "wais", "imap", "https", "shttp", "mms", "gopher", "rtsp", "rtspu",
		"sip", "sips",
	)
	usesFragment = schemeSet(
		"ftp", "hdl", "http", "gopher", "news", "nntp", "wais", "https", "shttp", "snews",
		"file", "prospero",
	)
)

func schemeSet(schemes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		set[s] = struct{}{}
	}
	return set
}

// Uses reports whether scheme parses the given component. Scheme matching
// is case-insensitive.
func Uses(scheme string, c Component) bool {
	var table map[string]struct{}
	switch c {
	case Netloc:
		table = usesNetloc
	case Params:
		table = usesParams
	case Query:
		table = usesQuery
	case Fragment:
		table = usesFragment
	default:
		return false
	}
	_, ok := table[strings.ToLower(scheme)]
	return ok
}

// URL is a parsed URL. Nil fields were absent from the input.
type URL struct {
	Scheme   *string
	Netloc   *string
	Path     *string
	Params   *string
	Query    *string
	Fragment *string

	// Derived from Netloc.
	Username *string
	Password *string
	Hostname *string
	Port     *string
}

// Parse splits raw into components. It never fails: input without a
// recognisable scheme is kept whole as the path.
//
// The network location is split off first and ends at the first '/', '?'
// or '#'. The fragment, query and params are then taken from what remains,
// each only if the scheme uses it. Path is always set, possibly to "".
func Parse(raw string) *URL {
	u := &URL{}

	scheme, rest, ok := splitScheme(raw)
	if !ok {
		u.Path = &raw
		return u
	}
	u.Scheme = &scheme

	if Uses(scheme, Netloc) && strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		netloc := rest[:end]
		u.Netloc = &netloc
		rest = rest[end:]
	}

	if Uses(scheme, Fragment) {
		if i := strings.IndexByte(rest, '#'); i >= 0 {
			frag := rest[i+1:]
			u.Fragment = &frag
			rest = rest[:i]
		}
	}

	if Uses(scheme, Query) {
		if i := strings.IndexByte(rest, '?'); i >= 0 {
			query := rest[i+1:]
			u.Query = &query
			rest = rest[:i]
		}
	}

	if Uses(scheme, Params) {
		if i := paramsIndex(rest); i >= 0 {
			params := rest[i+1:]
			u.Params = &params
			rest = rest[:i]
		}
	}

	u.Path = &rest
	u.splitNetloc()
	return u
}

// splitScheme returns the lower-cased scheme and the text after its colon.
// A scheme is a non-empty run of letters, digits, '+', '-' or '.'.
func splitScheme(raw string) (string, string, bool) {
	i := strings.IndexByte(raw, ':')
	if i <= 0 {
		return "", raw, false
	}
	for _, c := range raw[:i] {
		if !isSchemeChar(c) {
			return "", raw, false
		}
	}
	return strings.ToLower(raw[:i]), raw[i+1:], true
}

func isSchemeChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '-', c == '.':
		return true
	}
	return false
}

// paramsIndex returns the index of the ';' starting the params of the last
// path segment, or -1.
func paramsIndex(path string) int {
	start := 0
	if slash := strings.LastIndexByte(path, '/'); slash >= 0 {
		start = slash
	}
	i := strings.IndexByte(path[start:], ';')
	if i < 0 {
		return -1
	}
	return start + i
}

// splitNetloc fills the user, password, host and port fields from Netloc.
// Empty pieces stay nil.
func (u *URL) splitNetloc() {
	if u.Netloc == nil {
		return
	}
	host := *u.Netloc

	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		userinfo := host[:at]
		host = host[at+1:]
		user, pass, _ := strings.Cut(userinfo, ":")
		u.Username = nonEmpty(user)
		u.Password = nonEmpty(pass)
	}

	var port string
	if strings.HasPrefix(host, "[") {
		// Bracketed IPv6 literal.
		if end := strings.IndexByte(host, ']'); end >= 0 {
			if p, ok := strings.CutPrefix(host[end+1:], ":"); ok {
				port = p
			}
			host = host[:end+1]
		}
	} else if i := strings.IndexByte(host, ':'); i >= 0 {
		port = host[i+1:]
		host = host[:i]
	}

	u.Hostname = nonEmpty(strings.ToLower(host))
	if validPort(port) {
		u.Port = &port
	}
}

func validPort(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// PortNumber returns the port as an integer.
func (u *URL) PortNumber() (int, bool) {
	if u.Port == nil {
		return 0, false
	}
	n, err := strconv.Atoi(*u.Port)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasAuthority reports whether both a scheme and a network location were
// parsed, which is what an HTTP endpoint needs.
func (u *URL) HasAuthority() bool {
	return u.Scheme != nil && u.Netloc != nil && *u.Netloc != ""
}

// Get returns the value of a field pointer, or "" when absent.
func Get(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
