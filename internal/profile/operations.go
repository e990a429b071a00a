package profile

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xabinapal/bugz/internal/config"
	"github.com/xabinapal/bugz/internal/urlparse"
)

// legacySuffix is the XML-RPC endpoint older configurations point at.
const legacySuffix = "/xmlrpc.cgi"

// StatusAll disables status filtering when it appears in a status list.
const StatusAll = "all"

// Base returns the effective base URL.
func (r *Resolver) Base() (string, error) {
	res, err := r.ResolveBase()
	if err != nil {
		return "", err
	}
	return res.Value, nil
}

// ResolveBase returns the effective base URL and where it came from. The
// URL is normalised and any legacy "/xmlrpc.cgi" path is cut off.
func (r *Resolver) ResolveBase() (Resolved, error) {
	if raw := r.overrides.Base; raw != "" {
		base, err := NormalizeBase(raw)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Value: base, Source: SourceCommandLine}, nil
	}

	raw, source, ok, err := r.lookup(func(p *config.Profile) config.Values { return p.Base })
	if err != nil {
		return Resolved{}, err
	}
	if !ok {
		return Resolved{}, ErrNoBase
	}
	base, err := NormalizeBase(raw)
	if err != nil {
		return Resolved{}, fmt.Errorf("profile %s: %w", source, err)
	}
	return Resolved{Value: base, Source: source}, nil
}

// NormalizeBase validates raw as an endpoint URL and returns it re-serialised
// with everything from the first "/xmlrpc.cgi" in its path removed.
//
// REST paths are appended to the result, so a base carrying params, a
// query or a fragment is rejected.
func NormalizeBase(raw string) (string, error) {
	u := urlparse.Parse(raw)
	if !u.HasAuthority() {
		return "", fmt.Errorf("%w: %s", ErrInvalidBase, raw)
	}
	if u.Params != nil || u.Query != nil || u.Fragment != nil {
		return "", fmt.Errorf("%w: %s: params, query and fragment are not allowed", ErrInvalidBase, raw)
	}
	if i := strings.Index(*u.Path, legacySuffix); i >= 0 {
		path := (*u.Path)[:i]
		u.Path = &path
	}
	base, ok := u.Unparse()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidBase, raw)
	}
	return base, nil
}

// Credential returns the effective credential, or nil when authentication
// is skipped.
//
// A key or user on the command line wins outright. Otherwise the first
// profile in precedence order that sets a key or a user decides: its key if
// it has one, else its user. A user's password and password command come
// from that profile or, failing that, the next one in order that sets
// either. A password or password command on the command line replaces the
// configured one.
func (r *Resolver) Credential() (*Credential, error) {
	o := r.overrides
	if o.SkipAuth {
		return nil, nil
	}
	if o.Key != "" {
		return &Credential{Key: o.Key, Source: SourceCommandLine}, nil
	}
	if o.User != "" {
		return &Credential{
			User:        o.User,
			Password:    o.Password,
			PasswordCmd: o.PasswordCmd,
			Source:      SourceCommandLine,
		}, nil
	}

	steps, err := r.steps()
	if err != nil {
		return nil, err
	}

	cred := &Credential{}
	for i, p := range steps {
		if key, ok := p.Key.Last(); ok {
			return &Credential{Key: key, Source: p.Name}, nil
		}
		if user, ok := p.User.Last(); ok {
			cred.User = user
			cred.Source = p.Name
			cred.Password, cred.PasswordCmd = secret(steps[i:])
			break
		}
	}

	if o.Password != "" || o.PasswordCmd != "" {
		cred.Password = o.Password
		cred.PasswordCmd = o.PasswordCmd
	}
	return cred, nil
}

// secret returns the password and password command of the first profile
// that sets either.
func secret(steps []*config.Profile) (string, string) {
	for _, p := range steps {
		pass, hasPass := p.Password.Last()
		cmd, hasCmd := p.PasswordCmd.Last()
		if hasPass || hasCmd {
			return pass, cmd
		}
	}
	return "", ""
}

// SearchStatuses returns the status filter for searches. explicit holds
// --status values; when empty the configured search_statuses apply. A nil
// result means no filtering.
func (r *Resolver) SearchStatuses(explicit []string) ([]string, error) {
	statuses, _, err := r.ResolveSearchStatuses(explicit)
	return statuses, err
}

// ResolveSearchStatuses is SearchStatuses that also reports the source.
func (r *Resolver) ResolveSearchStatuses(explicit []string) ([]string, string, error) {
	if len(explicit) > 0 {
		return SplitStatuses(explicit...), SourceCommandLine, nil
	}

	raw, source, ok, err := r.lookup(func(p *config.Profile) config.Values { return p.SearchStatuses })
	if err != nil || !ok {
		return nil, "", err
	}
	return SplitStatuses(raw), source, nil
}

// SplitStatuses splits each list on commas and whitespace. It returns nil
// if "all" is among the statuses.
func SplitStatuses(lists ...string) []string {
	var statuses []string
	for _, list := range lists {
		fields := strings.FieldsFunc(list, func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})
		for _, s := range fields {
			if s == StatusAll {
				return nil
			}
			statuses = append(statuses, s)
		}
	}
	return statuses
}

// Product returns the configured default product.
func (r *Resolver) Product() (Resolved, bool, error) {
	return r.resolveValue(func(p *config.Profile) config.Values { return p.Product })
}

// Component returns the configured default component.
func (r *Resolver) Component() (Resolved, bool, error) {
	return r.resolveValue(func(p *config.Profile) config.Values { return p.Component })
}

func (r *Resolver) resolveValue(field func(*config.Profile) config.Values) (Resolved, bool, error) {
	v, source, ok, err := r.lookup(field)
	if err != nil || !ok {
		return Resolved{}, false, err
	}
	return Resolved{Value: v, Source: source}, true, nil
}

// Settings returns the display settings. Debug is kept within 0..3 and
// columns is never below MinColumns.
func (r *Resolver) Settings() (*Settings, error) {
	steps, err := r.steps()
	if err != nil {
		return nil, err
	}
	o := r.overrides
	s := &Settings{Columns: MinColumns, Sources: make(map[string]string)}

	if o.Debug != nil {
		s.Debug = *o.Debug
		s.Sources["debug"] = SourceCommandLine
	} else if v, source, ok := lookupScalar(steps, func(p *config.Profile) *int { return p.Debug }); ok {
		s.Debug = v
		s.Sources["debug"] = source
	}
	s.Debug &= 0x3

	if o.Columns != nil {
		s.Columns = *o.Columns
		s.Sources["columns"] = SourceCommandLine
	} else if v, source, ok := lookupScalar(steps, func(p *config.Profile) *int { return p.Columns }); ok {
		s.Columns = v
		s.Sources["columns"] = source
	}
	if s.Columns < MinColumns {
		s.Columns = MinColumns
	}

	if o.Quiet != nil {
		s.Quiet = *o.Quiet
		s.Sources["quiet"] = SourceCommandLine
	} else if v, source, ok := lookupScalar(steps, func(p *config.Profile) *bool { return p.Quiet }); ok {
		s.Quiet = v
		s.Sources["quiet"] = source
	}

	if o.Encoding != "" {
		s.Encoding = o.Encoding
		s.Sources["encoding"] = SourceCommandLine
	} else {
		for _, p := range steps {
			if v, ok := p.Encoding.Last(); ok {
				s.Encoding = v
				s.Sources["encoding"] = p.Name
				break
			}
		}
	}
	return s, nil
}

// Connections lists, in chain order, every profile that can serve as a
// --connection target. A profile without its own base borrows the default
// profile's when the default does not redirect elsewhere. The redirecting
// default profile itself is not listed.
func Connections(chain *config.Chain) []Info {
	def, _ := chain.Default()

	var list []Info
	for _, p := range chain.Profiles() {
		if p.Connection.IsSet() {
			continue
		}

		raw, ok := p.Base.Last()
		inherited := false
		if !ok && def != nil {
			target, redirects := def.Connection.Last()
			if !redirects || target == p.Name {
				raw, ok = def.Base.Last()
				inherited = ok
			}
		}
		if !ok {
			continue
		}

		base, err := NormalizeBase(raw)
		if err != nil {
			continue
		}
		list = append(list, Info{Name: p.Name, Base: base, Inherited: inherited})
	}
	return list
}
