package config

// DefaultProfileName is the section that lines before any [section] header
// belong to, and the only section whose "connection" key is honored.
const DefaultProfileName = "default"

// Values is an append-only list of the values a key received, in load
// order. Only the last one is normally consulted.
type Values []string

// Last returns the most recently loaded value.
func (v Values) Last() (string, bool) {
	if len(v) == 0 {
		return "", false
	}
	return v[len(v)-1], true
}

// IsSet reports whether the key appeared at least once.
func (v Values) IsSet() bool {
	return len(v) > 0
}

// Profile is one named configuration section, accumulated across every
// loaded file.
type Profile struct {
	// Name is the section name; unique within a Chain.
	Name string

	Base        Values
	User        Values
	Password    Values
	PasswordCmd Values
	Key         Values
	Encoding    Values
	// Connection redirects the default profile to another profile.
	// It is only ever populated on the profile named "default".
	Connection     Values
	Product        Values
	Component      Values
	SearchStatuses Values

	// Scalars are nil until a file sets them.
	Quiet   *bool
	Debug   *int
	Columns *int
}

// IsDefault reports whether this is the default profile.
func (p *Profile) IsDefault() bool {
	return p.Name == DefaultProfileName
}

// Chain is the ordered set of profiles built from all configuration files
// of one invocation.
type Chain struct {
	profiles []*Profile
	index    map[string]int
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{index: make(map[string]int)}
}

// Get returns a profile by name.
func (c *Chain) Get(name string) (*Profile, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.profiles[i], true
}

// Default returns the profile named "default", if one was loaded.
func (c *Chain) Default() (*Profile, bool) {
	return c.Get(DefaultProfileName)
}

// Ensure returns the named profile, appending an empty one to the end of
// the chain when it does not exist yet.
func (c *Chain) Ensure(name string) *Profile {
	if p, ok := c.Get(name); ok {
		return p
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	p := &Profile{Name: name}
	c.index[name] = len(c.profiles)
	c.profiles = append(c.profiles, p)
	return p
}

// Profiles returns all profiles in the order they were first seen.
func (c *Chain) Profiles() []*Profile {
	if c == nil {
		return nil
	}
	out := make([]*Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Len returns the number of profiles.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.profiles)
}
