package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, content string) *Chain {
	t.Helper()
	chain := NewChain()
	if err := chain.Parse(strings.NewReader(content)); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return chain
}

func mustGet(t *testing.T, chain *Chain, name string) *Profile {
	t.Helper()
	p, ok := chain.Get(name)
	if !ok {
		t.Fatalf("profile %q not found", name)
	}
	return p
}

func TestParse_Sections(t *testing.T) {
	chain := parse(t, `
[default]
connection = work

[work]
base = https://bugs.example.org/
user = alice@example.org

[gentoo]
base = https://bugs.gentoo.org
`)

	var names []string
	for _, p := range chain.Profiles() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"default", "work", "gentoo"}, names); diff != "" {
		t.Errorf("profile order mismatch (-want +got):\n%s", diff)
	}

	work := mustGet(t, chain, "work")
	if got, _ := work.Base.Last(); got != "https://bugs.example.org/" {
		t.Errorf("expected work base, got %q", got)
	}
	if got, _ := work.User.Last(); got != "alice@example.org" {
		t.Errorf("expected work user, got %q", got)
	}

	def := mustGet(t, chain, "default")
	if got, _ := def.Connection.Last(); got != "work" {
		t.Errorf("expected default connection 'work', got %q", got)
	}
}

func TestParse_KeysBeforeSectionGoToDefault(t *testing.T) {
	chain := parse(t, "base = https://x.example.com\n[other]\nuser = bob\n")

	def := mustGet(t, chain, DefaultProfileName)
	if got, _ := def.Base.Last(); got != "https://x.example.com" {
		t.Errorf("expected base on default profile, got %q", got)
	}
	if chain.Profiles()[0].Name != DefaultProfileName {
		t.Errorf("expected default profile first, got %q", chain.Profiles()[0].Name)
	}
}

func TestParse_NoImplicitDefaultForSectionOnlyFile(t *testing.T) {
	chain := parse(t, "[work]\nbase = https://x\n")
	if _, ok := chain.Default(); ok {
		t.Error("expected no default profile")
	}
	if chain.Len() != 1 {
		t.Errorf("expected 1 profile, got %d", chain.Len())
	}
}

func TestParse_Comments(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"hash comment", "password = secret # old one", "secret"},
		{"semicolon comment", "password = secret ; old one", "secret"},
		{"hash inside value truncates", "password = pa#ss", "pa"},
		{"semicolon before hash", "password = a;b#c", "a"},
		{"no comment", "password = plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := parse(t, "[default]\n"+tt.line+"\n")
			got, _ := mustGet(t, chain, "default").Password.Last()
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParse_CommentedOutLines(t *testing.T) {
	chain := parse(t, "[default]\n# base = https://a\n; base = https://b\n   \n")
	if mustGet(t, chain, "default").Base.IsSet() {
		t.Error("expected commented lines to be ignored")
	}
}

func TestParse_Separators(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantKey string
		want    string
	}{
		{"equals", "user = alice", "user", "alice"},
		{"colon", "user: alice", "user", "alice"},
		{"no spaces", "user=alice", "user", "alice"},
		{"equals first wins", "base = https://x.example.com", "base", "https://x.example.com"},
		{"colon first wins", "base: https://x.example.com/?a=b", "base", "https://x.example.com/?a=b"},
		{"value keeps inner spaces", "user =   alice smith  ", "user", "alice smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := parse(t, "[p]\n"+tt.line+"\n")
			p := mustGet(t, chain, "p")
			var vals Values
			switch tt.wantKey {
			case "user":
				vals = p.User
			case "base":
				vals = p.Base
			}
			got, ok := vals.Last()
			if !ok {
				t.Fatalf("expected %s to be set", tt.wantKey)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParse_LineWithoutSeparatorIgnored(t *testing.T) {
	chain := parse(t, "[p]\njust some words\nuser = alice\n")
	p := mustGet(t, chain, "p")
	if diff := cmp.Diff(Values{"alice"}, p.User); diff != "" {
		t.Errorf("user mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SectionWithoutClosingBracket(t *testing.T) {
	chain := parse(t, "[broken\nuser = alice\n")
	if _, ok := chain.Get("broken"); !ok {
		t.Error("expected section name to run to end of line")
	}
}

func TestParse_ConnectionOnlyOnDefault(t *testing.T) {
	chain := parse(t, `
[default]
connection = work
[work]
connection = other
base = https://work.example.com
`)
	if !mustGet(t, chain, "default").Connection.IsSet() {
		t.Error("expected connection on default profile")
	}
	if mustGet(t, chain, "work").Connection.IsSet() {
		t.Error("expected connection to be ignored on non-default profile")
	}
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantQuiet   *bool
		wantDebug   *int
		wantColumns *int
	}{
		{name: "unset", content: "user = a"},
		{name: "quiet true", content: "quiet = true", wantQuiet: boolPtr(true)},
		{name: "quiet Yes", content: "quiet = Yes", wantQuiet: boolPtr(true)},
		{name: "quiet TRUE", content: "quiet = TRUE", wantQuiet: boolPtr(true)},
		{name: "quiet other", content: "quiet = 1", wantQuiet: boolPtr(false)},
		{name: "quiet later line turns it off", content: "quiet = yes\nquiet = no", wantQuiet: boolPtr(false)},
		{name: "quiet later line turns it on", content: "quiet = no\nquiet = true", wantQuiet: boolPtr(true)},
		{name: "debug", content: "debug = 2", wantDebug: intPtr(2)},
		{name: "debug masked", content: "debug = 7", wantDebug: intPtr(3)},
		{name: "debug invalid", content: "debug = lots"},
		{name: "columns", content: "columns = 120", wantColumns: intPtr(120)},
		{name: "columns invalid", content: "columns = wide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustGet(t, parse(t, "[p]\n"+tt.content+"\n"), "p")
			if diff := cmp.Diff(tt.wantQuiet, p.Quiet); diff != "" {
				t.Errorf("quiet mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDebug, p.Debug); diff != "" {
				t.Errorf("debug mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantColumns, p.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	chain := parse(t, "[p]\nfrobnicate = yes\nuser = alice\n")
	p := mustGet(t, chain, "p")
	want := &Profile{Name: "p", User: Values{"alice"}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200000)
	chain := parse(t, "[p]\npassword = "+long+"\nuser = alice")
	p := mustGet(t, chain, "p")
	if got, _ := p.Password.Last(); got != long {
		t.Errorf("expected %d-byte password, got %d bytes", len(long), len(got))
	}
	if got, _ := p.User.Last(); got != "alice" {
		t.Errorf("expected last line without newline to be parsed, got %q", got)
	}
}

func TestParse_CRLF(t *testing.T) {
	chain := parse(t, "[p]\r\nuser = alice\r\n")
	if got, _ := mustGet(t, chain, "p").User.Last(); got != "alice" {
		t.Errorf("expected 'alice', got %q", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chain := NewChain()
	chain.Ensure("existing")

	got := Load(chain, filepath.Join(t.TempDir(), "missing.conf"))
	if got != chain {
		t.Error("expected the same chain back")
	}
	if got.Len() != 1 {
		t.Errorf("expected chain unchanged, got %d profiles", got.Len())
	}
}

func TestLoad_NilChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.conf")
	if err := os.WriteFile(path, []byte("[work]\nbase = https://x\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	chain := Load(nil, path)
	if chain == nil {
		t.Fatal("expected a chain")
	}
	if _, ok := chain.Get("work"); !ok {
		t.Error("expected work profile")
	}

	if Load(nil, filepath.Join(t.TempDir(), "missing")) == nil {
		t.Error("expected an empty chain for a missing file")
	}
}

func TestLoad_MergesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "10-system.conf")
	second := filepath.Join(dir, "20-user.conf")

	if err := os.WriteFile(first, []byte("[work]\nbase = https://old.example.com\nuser = alice\n[gentoo]\nbase = https://bugs.gentoo.org\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(second, []byte("[default]\nconnection = work\n[work]\nbase = https://new.example.com\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	chain := Load(Load(nil, first), second)

	var names []string
	for _, p := range chain.Profiles() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"work", "gentoo", "default"}, names); diff != "" {
		t.Errorf("profile order mismatch (-want +got):\n%s", diff)
	}

	work := mustGet(t, chain, "work")
	if diff := cmp.Diff(Values{"https://old.example.com", "https://new.example.com"}, work.Base); diff != "" {
		t.Errorf("base values mismatch (-want +got):\n%s", diff)
	}
	if got, _ := work.Base.Last(); got != "https://new.example.com" {
		t.Errorf("expected later file to win, got %q", got)
	}
	if got, _ := work.User.Last(); got != "alice" {
		t.Errorf("expected user preserved from first file, got %q", got)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "True", "TRUE", "yes", "Yes", "YES"} {
		if !ParseBool(s) {
			t.Errorf("ParseBool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "1", "on", "no", "false", "y"} {
		if ParseBool(s) {
			t.Errorf("ParseBool(%q) = true, want false", s)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
