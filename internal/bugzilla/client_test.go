package bugzilla

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/xabinapal/bugz/internal/logging"
	"github.com/xabinapal/bugz/internal/profile"
)

// newTestServer serves body for path and records the last request.
func newTestServer(t *testing.T, path string, status int, body string) (*httptest.Server, **http.Request) {
	t.Helper()
	var last *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestClient_GetBug(t *testing.T) {
	srv, last := newTestServer(t, "/rest/bug/35", http.StatusOK, `{"bugs":[{
		"id": 35,
		"summary": "emerge fails on sparc",
		"status": "CONFIRMED",
		"assigned_to": "dev@gentoo.org",
		"cc": ["alice@example.org"],
		"creation_time": "2024-12-13T12:21:09Z"
	}]}`)

	c := NewClient(srv.URL+"/", nil)
	bug, err := c.GetBug(context.Background(), 35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Bug{
		ID:           35,
		Summary:      "emerge fails on sparc",
		Status:       "CONFIRMED",
		AssignedTo:   "dev@gentoo.org",
		CC:           []string{"alice@example.org"},
		CreationTime: time.Date(2024, 12, 13, 12, 21, 9, 0, time.UTC),
	}
	if diff := cmp.Diff(want, bug); diff != "" {
		t.Errorf("bug mismatch (-want +got):\n%s", diff)
	}

	req := *last
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Errorf("expected Accept application/json, got %q", got)
	}
	if !strings.HasPrefix(req.Header.Get("User-Agent"), "bugz/") {
		t.Errorf("unexpected User-Agent %q", req.Header.Get("User-Agent"))
	}
	for _, h := range []string{HeaderAPIKey, HeaderLogin, HeaderPassword} {
		if req.Header.Get(h) != "" {
			t.Errorf("anonymous request sent %s", h)
		}
	}
}

func TestClient_GetBugEmpty(t *testing.T) {
	srv, _ := newTestServer(t, "/rest/bug/1", http.StatusOK, `{"bugs":[]}`)
	_, err := NewClient(srv.URL, nil).GetBug(context.Background(), 1)
	if !errors.Is(err, ErrBugNotFound) {
		t.Errorf("expected ErrBugNotFound, got %v", err)
	}
}

func TestClient_Authentication(t *testing.T) {
	tests := []struct {
		name string
		cred *profile.Credential
		want map[string]string
	}{
		{
			name: "api key",
			cred: &profile.Credential{Key: "k3y", User: "ignored"},
			want: map[string]string{HeaderAPIKey: "k3y", HeaderLogin: "", HeaderPassword: ""},
		},
		{
			name: "login",
			cred: &profile.Credential{User: "alice", Password: "pw"},
			want: map[string]string{HeaderAPIKey: "", HeaderLogin: "alice", HeaderPassword: "pw"},
		},
		{
			name: "anonymous",
			cred: nil,
			want: map[string]string{HeaderAPIKey: "", HeaderLogin: "", HeaderPassword: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, last := newTestServer(t, "/rest/bug/1", http.StatusOK, `{"bugs":[{"id":1}]}`)
			if _, err := NewClient(srv.URL, tt.cred).GetBug(context.Background(), 1); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := map[string]string{}
			for h := range tt.want {
				got[h] = (*last).Header.Get(h)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("headers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "error document with 200",
			status:  http.StatusOK,
			body:    `{"error":true,"code":101,"message":"Bug #9 does not exist."}`,
			wantMsg: "bugzilla API error 101: Bug #9 does not exist.",
		},
		{
			name:    "error document with 401",
			status:  http.StatusUnauthorized,
			body:    `{"error":true,"code":306,"message":"The API key you specified is invalid."}`,
			wantMsg: "bugzilla API error 306: The API key you specified is invalid.",
		},
		{
			name:    "plain text failure",
			status:  http.StatusBadGateway,
			body:    "upstream down\n",
			wantMsg: "bugzilla API error: HTTP 502: upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, "/rest/bug/9", tt.status, tt.body)
			_, err := NewClient(srv.URL, nil).GetBug(context.Background(), 9)
			if !errors.Is(err, ErrAPI) {
				t.Fatalf("expected ErrAPI, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestClient_ErrorBodyTruncated(t *testing.T) {
	srv, _ := newTestServer(t, "/rest/bug/9", http.StatusInternalServerError, strings.Repeat("x", 5000))
	_, err := NewClient(srv.URL, nil).GetBug(context.Background(), 9)
	if err == nil || len(err.Error()) > MaxErrorBodySize+100 {
		t.Errorf("expected a truncated error, got %d bytes", len(err.Error()))
	}
}

func TestClient_Comments(t *testing.T) {
	srv, _ := newTestServer(t, "/rest/bug/7/comment", http.StatusOK, `{"bugs":{"7":{"comments":[
		{"id":100,"count":0,"creator":"alice","text":"description","time":"2024-01-02T03:04:05Z"},
		{"id":101,"count":1,"creator":"bob","text":"me too","time":"2024-01-03T03:04:05Z"}
	]}}}`)

	comments, err := NewClient(srv.URL, nil).Comments(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "description" || comments[1].Creator != "bob" {
		t.Errorf("unexpected comments %+v", comments)
	}
}

func TestClient_Attachments(t *testing.T) {
	srv, last := newTestServer(t, "/rest/bug/7/attachment", http.StatusOK, `{"bugs":{"7":[
		{"id":5,"file_name":"build.log","summary":"log","content_type":"text/plain","size":2048,"is_obsolete":true}
	]}}`)

	attachments, err := NewClient(srv.URL, nil).Attachments(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Attachment{{ID: 5, FileName: "build.log", Summary: "log", ContentType: "text/plain", Size: 2048, IsObsolete: true}}
	if diff := cmp.Diff(want, attachments); diff != "" {
		t.Errorf("attachments mismatch (-want +got):\n%s", diff)
	}
	if got := (*last).URL.Query().Get("exclude_fields"); got != "data" {
		t.Errorf("expected attachment data excluded, got %q", got)
	}
}

func TestClient_History(t *testing.T) {
	srv, last := newTestServer(t, "/rest/bug/7/history", http.StatusOK, `{"bugs":[{"id":7,"history":[
		{"when":"2024-01-02T03:04:05Z","who":"alice","changes":[{"field_name":"status","removed":"NEW","added":"CONFIRMED"}]}
	]}]}`)
	c := NewClient(srv.URL, nil)

	history, err := c.History(context.Background(), 7, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Changes[0].Added != "CONFIRMED" {
		t.Errorf("unexpected history %+v", history)
	}
	if (*last).URL.RawQuery != "" {
		t.Errorf("expected no query, got %q", (*last).URL.RawQuery)
	}

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := c.History(context.Background(), 7, since); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := (*last).URL.Query().Get("new_since"); got != "2024-01-01T00:00:00Z" {
		t.Errorf("expected new_since, got %q", got)
	}
}

func TestClient_Search(t *testing.T) {
	srv, last := newTestServer(t, "/rest/bug", http.StatusOK, `{"bugs":[
		{"id":1,"status":"CONFIRMED","summary":"crash in foo","assigned_to":"dev"},
		{"id":2,"status":"IN_PROGRESS","summary":"foo is slow","assigned_to":"dev"}
	]}`)

	bugs, err := NewClient(srv.URL, nil).Search(context.Background(), SearchQuery{
		Terms:  []string{"foo"},
		Status: []string{"CONFIRMED", "IN_PROGRESS"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bugs) != 2 {
		t.Fatalf("expected 2 bugs, got %d", len(bugs))
	}
	query := (*last).URL.Query()
	if diff := cmp.Diff([]string{"CONFIRMED", "IN_PROGRESS"}, query["status"]); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if query.Get("summary") != "foo" {
		t.Errorf("expected summary=foo, got %q", query.Get("summary"))
	}
}

func TestClient_SearchEmpty(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	if _, err := c.Search(context.Background(), SearchQuery{Status: []string{"NEW"}}); !errors.Is(err, ErrEmptySearch) {
		t.Errorf("expected ErrEmptySearch, got %v", err)
	}
}

func TestClient_TraceRedactsSecrets(t *testing.T) {
	srv, _ := newTestServer(t, "/rest/bug/1", http.StatusOK, `{"bugs":[{"id":1}]}`)

	var buf bytes.Buffer
	logger := logging.NewLogger(logging.LoggerConfig{Debug: 3, Writer: &buf})
	cred := &profile.Credential{User: "alice", Password: "correct-horse-battery"}
	if _, err := NewClient(srv.URL, cred, WithLogger(logger)).GetBug(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "correct-horse-battery") {
		t.Error("trace leaked the password")
	}
	for _, want := range []string{"GET /rest/bug/1", "X-Bugzilla-Login: alice", `{"bugs":[{"id":1}]}`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected trace to contain %q, got:\n%s", want, out)
		}
	}
}

func TestClient_NoTraceAtLowDebug(t *testing.T) {
	srv, _ := newTestServer(t, "/rest/bug/1", http.StatusOK, `{"bugs":[{"id":1}]}`)

	var buf bytes.Buffer
	logger := logging.NewLogger(logging.LoggerConfig{Debug: 1, Writer: &buf})
	if _, err := NewClient(srv.URL, nil, WithLogger(logger)).GetBug(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "HTTP/1.1") {
		t.Errorf("expected no HTTP dump at debug 1, got:\n%s", buf.String())
	}
}

func TestClient_BugURL(t *testing.T) {
	c := NewClient("https://bugs.gentoo.org/", nil)
	if got := c.BugURL(35); got != "https://bugs.gentoo.org/show_bug.cgi?id=35" {
		t.Errorf("unexpected bug URL %q", got)
	}
}

func TestClient_Version(t *testing.T) {
	srv, _ := newTestServer(t, "/rest/version", http.StatusOK, `{"version":"5.0.4"}`)
	got, err := NewClient(srv.URL, nil).Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5.0.4" {
		t.Errorf("expected 5.0.4, got %q", got)
	}
}
