// Package bugzilla is a small client for the Bugzilla REST API.
package bugzilla

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xabinapal/bugz/internal/logging"
	"github.com/xabinapal/bugz/internal/profile"
	"github.com/xabinapal/bugz/internal/utils"
	"github.com/xabinapal/bugz/internal/version"
)

var (
	// ErrAPI is returned when the server reports an error.
	ErrAPI = errors.New("bugzilla API error")
	// ErrBugNotFound is returned when a bug lookup comes back empty.
	ErrBugNotFound = errors.New("bug not found")
	// ErrEmptySearch is returned for a search with no terms or options.
	ErrEmptySearch = errors.New("please give search terms or options")
)

// Client talks to one Bugzilla server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cred       *profile.Credential
	logger     *logging.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the server at baseURL. A nil cred sends
// anonymous requests.
func NewClient(baseURL string, cred *profile.Credential, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cred:       cred,
		logger:     logging.Discard(),
		userAgent:  version.Get().UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BugURL returns the web page of a bug.
func (c *Client) BugURL(id int) string {
	return fmt.Sprintf("%s/show_bug.cgi?id=%d", c.baseURL, id)
}

// Version returns the server's Bugzilla version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp versionResponse
	if err := c.get(ctx, "/rest/version", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// GetBug fetches one bug.
func (c *Client) GetBug(ctx context.Context, id int) (*Bug, error) {
	var resp bugsResponse
	if err := c.get(ctx, "/rest/bug/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Bugs) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBugNotFound, id)
	}
	return &resp.Bugs[0], nil
}

// Comments fetches the comments of a bug, oldest first.
func (c *Client) Comments(ctx context.Context, id int) ([]Comment, error) {
	var resp commentsResponse
	if err := c.get(ctx, fmt.Sprintf("/rest/bug/%d/comment", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bugs[strconv.Itoa(id)].Comments, nil
}

// Attachments fetches attachment metadata of a bug.
func (c *Client) Attachments(ctx context.Context, id int) ([]Attachment, error) {
	query := url.Values{"exclude_fields": {"data"}}
	var resp attachmentsResponse
	if err := c.get(ctx, fmt.Sprintf("/rest/bug/%d/attachment", id), query, &resp); err != nil {
		return nil, err
	}
	return resp.Bugs[strconv.Itoa(id)], nil
}

// History fetches the change history of a bug. A non-zero since limits it
// to changes after that time.
func (c *Client) History(ctx context.Context, id int, since time.Time) ([]HistoryEntry, error) {
	var query url.Values
	if !since.IsZero() {
		query = url.Values{"new_since": {since.UTC().Format(time.RFC3339)}}
	}
	var resp historyResponse
	if err := c.get(ctx, fmt.Sprintf("/rest/bug/%d/history", id), query, &resp); err != nil {
		return nil, err
	}
	for _, b := range resp.Bugs {
		if b.ID == id {
			return b.History, nil
		}
	}
	return nil, nil
}

// Search runs a bug search.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Bug, error) {
	query, err := q.Values()
	if err != nil {
		return nil, err
	}
	var resp bugsResponse
	if err := c.get(ctx, "/rest/bug", query, &resp); err != nil {
		return nil, err
	}
	return resp.Bugs, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// send performs an authenticated request carrying in as a JSON body.
func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	return c.do(ctx, method, path, nil, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authenticate(req)

	c.logger.Debug("%s %s", method, target)
	c.traceRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.traceResponse(resp, respBody)

	if resp.StatusCode >= 400 || isErrorDocument(respBody) {
		return responseError(resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) authenticate(req *http.Request) {
	if c.cred == nil {
		return
	}
	if c.cred.IsKey() {
		req.Header.Set(HeaderAPIKey, c.cred.Key)
		return
	}
	if c.cred.User != "" {
		req.Header.Set(HeaderLogin, c.cred.User)
		req.Header.Set(HeaderPassword, c.cred.Password)
	}
}

// responseError builds an ErrAPI from a failed response, preferring the
// server's own message.
func responseError(status int, body []byte) error {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("%w %d: %s", ErrAPI, apiErr.Code, apiErr.Message)
	}
	if len(body) > MaxErrorBodySize {
		body = body[:MaxErrorBodySize]
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrAPI, status, strings.TrimSpace(string(body)))
}

func (c *Client) traceRequest(req *http.Request) {
	headers, bodies := c.logger.TraceHTTP()
	if !headers {
		return
	}
	clone := req.Clone(req.Context())
	for _, h := range []string{HeaderAPIKey, HeaderPassword} {
		if v := clone.Header.Get(h); v != "" {
			clone.Header.Set(h, utils.Mask(v))
		}
	}
	// The clone shares the body reader, so dump a fresh copy of it.
	withBody := bodies && req.GetBody != nil
	if withBody {
		b, err := req.GetBody()
		if err != nil {
			return
		}
		clone.Body = b
	}
	dump, err := httputil.DumpRequestOut(clone, withBody)
	if err != nil {
		return
	}
	c.logger.Writer().Write(dump)
}

func (c *Client) traceResponse(resp *http.Response, body []byte) {
	headers, bodies := c.logger.TraceHTTP()
	if !headers {
		return
	}
	dump, err := httputil.DumpResponse(resp, false)
	if err != nil {
		return
	}
	w := c.logger.Writer()
	w.Write(dump)
	if bodies {
		w.Write(bytes.TrimSpace(body))
		io.WriteString(w, "\n")
	}
}
