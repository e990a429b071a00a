// Package keyring stores Bugzilla passwords in the OS keyring.
//
// Entries live under the service "bugz" with the account "<user>@<host>",
// so one password is kept per user and server.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/xabinapal/bugz/internal/utils"
)

const (
	// Service is the keyring service name every entry is stored under.
	Service = "bugz"

	// TestKeyringEnvVar, when set to a directory, replaces the OS keyring
	// with a FileStore in that directory. For tests only.
	TestKeyringEnvVar = "BUGZ_TEST_KEYRING_DIR"
)

var (
	// ErrKeyringUnavailable is returned when no secure keyring is available.
	ErrKeyringUnavailable = errors.New("secure keyring is not available on this system")
	// ErrPasswordNotFound is returned when no password is stored for a key.
	ErrPasswordNotFound = errors.New("password not found in keyring")
	// ErrKeyringAccessDenied is returned when access to the keyring is denied.
	ErrKeyringAccessDenied = errors.New("access to keyring denied")
	// ErrEmptyKey is returned for an empty key or password.
	ErrEmptyKey = errors.New("key and password must not be empty")
)

// Key returns the account name for a user on a server. The host is
// lower-cased; the user is kept as typed.
func Key(host, user string) string {
	return user + "@" + strings.ToLower(host)
}

// Store is a password storage backend.
type Store interface {
	// Set stores a password for the given key.
	Set(key, password string) error
	// Get retrieves the password for the given key.
	Get(key string) (string, error)
	// Delete removes the password for the given key. Deleting a missing
	// entry is not an error.
	Delete(key string) error
	// IsAvailable reports whether the backend can be used.
	IsAvailable() error
}

// DefaultStore returns the OS keyring, or a FileStore when
// BUGZ_TEST_KEYRING_DIR is set.
func DefaultStore() Store {
	if dir := os.Getenv(TestKeyringEnvVar); dir != "" {
		if store, err := NewFileStore(dir); err == nil {
			return store
		}
	}
	return &osKeyring{}
}

// osKeyring implements Store using go-keyring.
type osKeyring struct{}

// IsAvailable checks the keyring with a lookup that is expected to miss.
func (k *osKeyring) IsAvailable() error {
	_, err := gokeyring.Get(Service, "__availability_check__")
	if err == nil || errors.Is(err, gokeyring.ErrNotFound) {
		return nil
	}
	return availabilityError(runtime.GOOS, err)
}

// availabilityError maps a failed check to ErrKeyringUnavailable when the
// message points at a missing platform backend. Other failures are left to
// the real operation to report.
func availabilityError(goos string, err error) error {
	msg := err.Error()
	switch goos {
	case "linux", "freebsd", "openbsd":
		if utils.ContainsAny(msg, "secret service", "dbus", "org.freedesktop.secrets") {
			return fmt.Errorf("%w: D-Bus secret service not available, start gnome-keyring, kwallet or another secret service provider", ErrKeyringUnavailable)
		}
	case "darwin":
		if utils.ContainsAny(msg, "keychain", "security") {
			return fmt.Errorf("%w: macOS Keychain not accessible", ErrKeyringUnavailable)
		}
	case "windows":
		if utils.ContainsAny(msg, "credential", "wincred") {
			return fmt.Errorf("%w: Windows Credential Manager not accessible", ErrKeyringUnavailable)
		}
	}
	return nil
}

func (k *osKeyring) Set(key, password string) error {
	if key == "" || password == "" {
		return ErrEmptyKey
	}
	if err := k.IsAvailable(); err != nil {
		return err
	}
	if err := gokeyring.Set(Service, key, password); err != nil {
		return wrapKeyringError(err, "failed to store password")
	}
	return nil
}

func (k *osKeyring) Get(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if err := k.IsAvailable(); err != nil {
		return "", err
	}
	password, err := gokeyring.Get(Service, key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve password")
	}
	return password, nil
}

func (k *osKeyring) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := k.IsAvailable(); err != nil {
		return err
	}
	if err := gokeyring.Delete(Service, key); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return nil
		}
		return wrapKeyringError(err, "failed to delete password")
	}
	return nil
}

// wrapKeyringError classifies a backend error.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if utils.ContainsAny(msg, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringAccessDenied, context, err)
	}
	if utils.ContainsAny(msg, "no keyring", "unavailable", "secret service") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, context, err)
	}
	return fmt.Errorf("%s: %w", context, err)
}
