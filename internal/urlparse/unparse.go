package urlparse

import "strings"

// Unparse joins the components back into a URL string. It reports false,
// with an empty string, when every component is absent or empty.
//
// A scheme that uses a network location always gets "//" after the colon,
// even when Netloc is absent, unless the path already starts with "//".
// The derived user, password, host and port fields are not consulted;
// Netloc is authoritative.
func (u *URL) Unparse() (string, bool) {
	if u == nil {
		return "", false
	}
	total := 0
	for _, s := range []*string{u.Scheme, u.Netloc, u.Path, u.Params, u.Query, u.Fragment} {
		total += len(Get(s))
	}
	if total == 0 {
		return "", false
	}

	scheme := Get(u.Scheme)
	url := Get(u.Path)

	if u.Netloc != nil || (scheme != "" && Uses(scheme, Netloc) && !strings.HasPrefix(url, "//")) {
		if url != "" && url[0] != '/' {
			url = "/" + url
		}
		url = "//" + Get(u.Netloc) + url
	}

	var b strings.Builder
	if scheme != "" {
		b.WriteString(scheme)
		b.WriteByte(':')
	}
	b.WriteString(url)
	if u.Params != nil {
		b.WriteByte(';')
		b.WriteString(*u.Params)
	}
	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(*u.Query)
	}
	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.Fragment)
	}
	return b.String(), true
}

// String returns the unparsed URL, or "" for an empty one.
func (u *URL) String() string {
	s, _ := u.Unparse()
	return s
}

// Normalize parses raw and joins it back, lower-casing the scheme and
// adding the "//" a network-location scheme expects.
func Normalize(raw string) string {
	return Parse(raw).String()
}
