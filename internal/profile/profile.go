// Package profile resolves the effective server, credential and defaults
// for one invocation from the loaded configuration chain and command-line
// overrides.
//
// Every setting is looked up in the same order: the command line, then the
// profile named by --connection, then the "default" profile, then the
// profile that "default" redirects to with its connection key. Redirection
// is followed exactly one hop.
package profile

import (
	"errors"
	"fmt"

	"github.com/xabinapal/bugz/internal/config"
)

var (
	// ErrConnectionNotFound is returned when --connection names a profile
	// that no configuration file defines.
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrNoBase is returned when no base URL is configured anywhere.
	ErrNoBase = errors.New("no base URL specified")
	// ErrInvalidBase is returned for a base URL without a scheme and host.
	ErrInvalidBase = errors.New("invalid base URL")
)

// SourceCommandLine marks a value taken from a flag rather than a profile.
const SourceCommandLine = "command line"

// Overrides holds the values given on the command line. Zero values mean
// "not given".
type Overrides struct {
	Connection  string
	Base        string
	User        string
	Password    string
	PasswordCmd string
	Key         string
	SkipAuth    bool

	Encoding string
	Debug    *int
	Columns  *int
	Quiet    *bool
}

// Resolver answers "what server, what credential, what defaults" for one
// invocation. It never prints and never prompts.
type Resolver struct {
	chain     *config.Chain
	overrides Overrides
}

// NewResolver creates a resolver over chain. A nil chain behaves as an
// empty configuration.
func NewResolver(chain *config.Chain, overrides Overrides) *Resolver {
	if chain == nil {
		chain = config.NewChain()
	}
	return &Resolver{
		chain:     chain,
		overrides: overrides,
	}
}

// Overrides returns the command-line values the resolver was built with.
func (r *Resolver) Overrides() Overrides {
	return r.overrides
}

// Chain returns the configuration chain.
func (r *Resolver) Chain() *config.Chain {
	return r.chain
}

// steps returns the profiles to consult in precedence order: the named
// connection, the default profile and the default profile's redirection
// target. Missing profiles are skipped, except a named connection, which
// is an error.
func (r *Resolver) steps() ([]*config.Profile, error) {
	var steps []*config.Profile
	seen := make(map[string]bool)
	add := func(p *config.Profile) {
		if p != nil && !seen[p.Name] {
			seen[p.Name] = true
			steps = append(steps, p)
		}
	}

	if name := r.overrides.Connection; name != "" {
		p, ok := r.chain.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrConnectionNotFound, name)
		}
		add(p)
	}

	def, ok := r.chain.Default()
	if !ok {
		return steps, nil
	}
	add(def)

	if target, ok := def.Connection.Last(); ok {
		if p, ok := r.chain.Get(target); ok {
			add(p)
		}
	}
	return steps, nil
}

// lookup returns the last value of the first profile in precedence order
// that sets the field, and that profile's name.
func (r *Resolver) lookup(field func(*config.Profile) config.Values) (string, string, bool, error) {
	steps, err := r.steps()
	if err != nil {
		return "", "", false, err
	}
	for _, p := range steps {
		if v, ok := field(p).Last(); ok {
			return v, p.Name, true, nil
		}
	}
	return "", "", false, nil
}

// lookupScalar is lookup for the pointer-valued settings.
func lookupScalar[T any](steps []*config.Profile, field func(*config.Profile) *T) (T, string, bool) {
	for _, p := range steps {
		if v := field(p); v != nil {
			return *v, p.Name, true
		}
	}
	var zero T
	return zero, "", false
}
