package config

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// debugMask keeps debug levels within 0..3.
const debugMask = 0x3

// Load parses filename onto chain and returns the chain. A nil chain
// starts a new one. A file that cannot be opened leaves the chain
// unchanged, so optional locations can be tried freely.
func Load(chain *Chain, filename string) *Chain {
	if chain == nil {
		chain = NewChain()
	}

	// #nosec G304 - config paths come from fixed locations or --config-file
	f, err := os.Open(filename)
	if err != nil {
		return chain
	}
	defer f.Close()

	_ = chain.Parse(f)
	return chain
}

// Parse reads INI-style lines from r onto the chain.
//
// Comments start at the first '#' or ';' anywhere on the line, quoted or
// not, so a '#' inside a password truncates it.
func (c *Chain) Parse(r io.Reader) error {
	reader := bufio.NewReader(r)
	var current *Profile

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			current = c.parseLine(current, line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// parseLine applies one physical line and returns the profile that
// subsequent lines belong to. Keys seen before any section header go to
// the default profile.
func (c *Chain) parseLine(current *Profile, line string) *Profile {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}

	if line[0] == '[' {
		name := line[1:]
		if end := strings.IndexByte(name, ']'); end >= 0 {
			name = name[:end]
		}
		return c.Ensure(name)
	}

	sep := strings.IndexAny(line, "=:")
	if sep < 0 {
		return current
	}
	key := strings.TrimRightFunc(line[:sep], unicode.IsSpace)
	val := strings.TrimLeftFunc(line[sep+1:], unicode.IsSpace)
	if current == nil {
		current = c.Ensure(DefaultProfileName)
	}
	current.apply(key, val)
	return current
}

// apply dispatches one key/value pair to the profile. Unknown keys are
// ignored.
func (p *Profile) apply(key, val string) {
	switch key {
	case "base":
		p.Base = append(p.Base, val)
	case "user":
		p.User = append(p.User, val)
	case "password":
		p.Password = append(p.Password, val)
	case "passwordcmd":
		p.PasswordCmd = append(p.PasswordCmd, val)
	case "key":
		p.Key = append(p.Key, val)
	case "encoding":
		p.Encoding = append(p.Encoding, val)
	case "connection":
		if p.IsDefault() {
			p.Connection = append(p.Connection, val)
		}
	case "product":
		p.Product = append(p.Product, val)
	case "component":
		p.Component = append(p.Component, val)
	case "search_statuses":
		p.SearchStatuses = append(p.SearchStatuses, val)
	case "quiet":
		// Last line wins: a later "quiet = no" turns it off again, unlike
		// older bugz releases where quiet could only be switched on.
		quiet := ParseBool(val)
		p.Quiet = &quiet
	case "debug":
		if n, err := strconv.Atoi(val); err == nil {
			n &= debugMask
			p.Debug = &n
		}
	case "columns":
		if n, err := strconv.Atoi(val); err == nil {
			p.Columns = &n
		}
	}
}

// ParseBool accepts "true" and "yes" in any case; everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true
	}
	return false
}
