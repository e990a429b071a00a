package keyring

import (
	"errors"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("Bugs.Gentoo.ORG", "Alice@example.org"); got != "Alice@example.org@bugs.gentoo.org" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestDefaultStore_TestDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(TestKeyringEnvVar, dir)

	store := DefaultStore()
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", store)
	}
	if err := store.Set("alice@bugs.example.org", "secret"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, err := DefaultStore().Get("alice@bugs.example.org")
	if err != nil || got != "secret" {
		t.Errorf("expected password from a second store, got %q (%v)", got, err)
	}
}

func TestAvailabilityError(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		err     error
		wantErr bool
	}{
		{"linux dbus", "linux", errors.New("The name org.freedesktop.secrets was not provided"), true},
		{"linux other", "linux", errors.New("timeout"), false},
		{"darwin keychain", "darwin", errors.New("keychain locked"), true},
		{"windows wincred", "windows", errors.New("wincred: element not found"), true},
		{"dbus on windows", "windows", errors.New("dbus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := availabilityError(tt.goos, tt.err)
			if tt.wantErr != errors.Is(err, ErrKeyringUnavailable) {
				t.Errorf("expected unavailable=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWrapKeyringError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType error
	}{
		{name: "nil error", err: nil},
		{name: "denied error", err: errors.New("permission denied"), wantType: ErrKeyringAccessDenied},
		{name: "unavailable error", err: errors.New("secret service not found"), wantType: ErrKeyringUnavailable},
		{name: "generic error", err: errors.New("some other error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := wrapKeyringError(tt.err, "test")
			if tt.err == nil {
				if result != nil {
					t.Errorf("wrapKeyringError(nil) should return nil")
				}
				return
			}
			if !errors.Is(result, tt.err) && tt.wantType == nil {
				t.Errorf("expected generic error to be wrapped, got %v", result)
			}
			if tt.wantType != nil && !errors.Is(result, tt.wantType) {
				t.Errorf("wrapKeyringError() should wrap with %v, got %v", tt.wantType, result)
			}
		})
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()
	for _, key := range []string{Key("bugs.kde.org", "bob"), Key("Bugs.Gentoo.org", "alice")} {
		if err := store.Set(key, "pw"); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}
	if got, _ := store.Get("alice@bugs.gentoo.org"); got != "pw" {
		t.Errorf("expected 'pw', got %q", got)
	}
	if got := store.Accounts(); len(got) != 2 || got[0] != "alice@bugs.gentoo.org" || got[1] != "bob@bugs.kde.org" {
		t.Errorf("unexpected accounts %v", got)
	}
	if err := store.Set("", "pw"); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}

	store.SetUnavailable(true)
	if _, err := store.Get("alice@bugs.gentoo.org"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	if err := store.Delete("alice@bugs.gentoo.org"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	store.SetUnavailable(false)

	for _, key := range store.Accounts() {
		if err := store.Delete(key); err != nil {
			t.Fatalf("Delete(%q) failed: %v", key, err)
		}
	}
	if err := store.Delete("alice@bugs.gentoo.org"); err != nil {
		t.Errorf("deleting a missing password failed: %v", err)
	}
	if _, err := store.Get("alice@bugs.gentoo.org"); !errors.Is(err, ErrPasswordNotFound) {
		t.Errorf("expected ErrPasswordNotFound, got %v", err)
	}
}
