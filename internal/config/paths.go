// Package config loads bugz configuration files into a chain of named
// profiles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// AppName is the application name.
	AppName = "bugz"
	// UserConfigFile is the per-user configuration file, relative to home.
	UserConfigFile = ".bugzrc"
	// HomeEnvVar, when set, replaces $HOME when locating ~/.bugzrc.
	HomeEnvVar = "BUGZ_HOME"
)

// ErrConfigFileUnreadable indicates an explicit --config-file cannot be read.
var ErrConfigFileUnreadable = errors.New("config file is not readable")

// SystemPatterns are the system-wide configuration globs, lowest
// precedence first.
var SystemPatterns = []string{
	"/usr/share/pybugz.d/*.conf",
	"/usr/share/bugz.d/*.conf",
	"/etc/pybugz.d/*.conf",
	"/etc/bugz.d/*.conf",
}

// Paths lists where configuration is looked for.
type Paths struct {
	// System holds glob patterns for packaged and administrator files.
	System []string
	// User is the per-user file, usually ~/.bugzrc.
	User string
	// Explicit is the --config-file override, if any.
	Explicit string
}

// GetPaths returns the default configuration locations, with explicit as
// the --config-file value (may be empty).
func GetPaths(explicit string) Paths {
	return Paths{
		System:   append([]string(nil), SystemPatterns...),
		User:     filepath.Join(homeDir(), UserConfigFile),
		Explicit: explicit,
	}
}

// homeDir returns the directory holding ~/.bugzrc.
func homeDir() string {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir
	}
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(pattern string) string {
	if pattern == "~" {
		return homeDir()
	}
	if strings.HasPrefix(pattern, "~/") {
		return filepath.Join(homeDir(), pattern[2:])
	}
	return pattern
}

// Files returns the configuration files to load, in load order. The user
// file is skipped when an explicit file is given, and the explicit file is
// always last so it has the final say.
func (p Paths) Files() ([]string, error) {
	var files []string
	for _, pattern := range p.System {
		matches, err := filepath.Glob(expandHome(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid config pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	if p.Explicit == "" {
		if p.User != "" {
			user := expandHome(p.User)
			if _, err := os.Stat(user); err == nil {
				files = append(files, user)
			}
		}
		return files, nil
	}

	explicit := expandHome(p.Explicit)
	// #nosec G304 - the user asked for this file
	f, err := os.Open(explicit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigFileUnreadable, p.Explicit, err)
	}
	f.Close()

	return append(files, explicit), nil
}

// LoadAll loads every configuration file in order into one chain.
func (p Paths) LoadAll() (*Chain, []string, error) {
	files, err := p.Files()
	if err != nil {
		return nil, nil, err
	}

	chain := NewChain()
	for _, file := range files {
		chain = Load(chain, file)
	}
	return chain, files, nil
}
