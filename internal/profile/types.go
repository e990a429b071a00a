package profile

// Resolved is a setting together with where it came from: a profile name,
// or SourceCommandLine.
type Resolved struct {
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

// Credential is what the resolver found for authentication. Exactly one of
// Key and User is normally set; both empty means the user must be asked.
// PasswordCmd is returned unexecuted.
type Credential struct {
	Key         string
	User        string
	Password    string
	PasswordCmd string
	// Source names the profile that supplied the key or user.
	Source string
}

// IsKey reports whether the credential is an API key.
func (c *Credential) IsKey() bool {
	return c != nil && c.Key != ""
}

// HasSecret reports whether a password or password command is available.
func (c *Credential) HasSecret() bool {
	return c != nil && (c.Password != "" || c.PasswordCmd != "")
}

// Settings are the display settings of an invocation.
type Settings struct {
	Debug    int
	Columns  int
	Quiet    bool
	Encoding string
	// Sources maps "debug", "columns", "quiet" and "encoding" to the
	// profile that set them. Defaults have no entry.
	Sources map[string]string
}

// MinColumns is both the default and the smallest accepted output width.
const MinColumns = 80

// Info describes a profile usable as a --connection target.
type Info struct {
	Name string `json:"name" yaml:"name"`
	Base string `json:"base" yaml:"base"`
	// Inherited is set when the base comes from the default profile.
	Inherited bool `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}
