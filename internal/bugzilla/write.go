package bugzilla

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
)

var (
	// ErrNoChanges is returned for an update that would change nothing.
	ErrNoChanges = errors.New("no changes were specified")
	// ErrAttachmentNotFound is returned when an attachment lookup comes
	// back empty.
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// NewBug is the body of POST /rest/bug.
type NewBug struct {
	Product     string   `json:"product" yaml:"product"`
	Component   string   `json:"component" yaml:"component"`
	Summary     string   `json:"summary" yaml:"summary"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	OpSys       string   `json:"op_sys,omitempty" yaml:"op_sys,omitempty"`
	Platform    string   `json:"platform,omitempty" yaml:"platform,omitempty"`
	Priority    string   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Severity    string   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Alias       []string `json:"alias,omitempty" yaml:"alias,omitempty"`
	AssignedTo  string   `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	CC          []string `json:"cc,omitempty" yaml:"cc,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// IntChange adds to and removes from a list of bug numbers.
type IntChange struct {
	Add    []int `json:"add,omitempty"`
	Remove []int `json:"remove,omitempty"`
}

// StringChange adds to and removes from a list of strings.
type StringChange struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// KeywordChange replaces the keywords of a bug.
type KeywordChange struct {
	Set []string `json:"set"`
}

// NewComment is a comment added along with an update.
type NewComment struct {
	Body string `json:"body"`
}

// BugUpdate is the body of PUT /rest/bug/{id}. Nil and empty fields are
// left alone by the server.
type BugUpdate struct {
	Alias           string         `json:"alias,omitempty"`
	AssignedTo      string         `json:"assigned_to,omitempty"`
	ResetAssignedTo bool           `json:"reset_assigned_to,omitempty"`
	Blocks          *IntChange     `json:"blocks,omitempty"`
	DependsOn       *IntChange     `json:"depends_on,omitempty"`
	CC              *StringChange  `json:"cc,omitempty"`
	Comment         *NewComment    `json:"comment,omitempty"`
	Component       string         `json:"component,omitempty"`
	Deadline        string         `json:"deadline,omitempty"`
	DupeOf          int            `json:"dupe_of,omitempty"`
	EstimatedTime   *float64       `json:"estimated_time,omitempty"`
	RemainingTime   *float64       `json:"remaining_time,omitempty"`
	WorkTime        *float64       `json:"work_time,omitempty"`
	Groups          *StringChange  `json:"groups,omitempty"`
	Keywords        *KeywordChange `json:"keywords,omitempty"`
	OpSys           string         `json:"op_sys,omitempty"`
	Platform        string         `json:"platform,omitempty"`
	Priority        string         `json:"priority,omitempty"`
	Product         string         `json:"product,omitempty"`
	Resolution      string         `json:"resolution,omitempty"`
	SeeAlso         *StringChange  `json:"see_also,omitempty"`
	Severity        string         `json:"severity,omitempty"`
	Status          string         `json:"status,omitempty"`
	Summary         string         `json:"summary,omitempty"`
	URL             string         `json:"url,omitempty"`
	Version         string         `json:"version,omitempty"`
	Whiteboard      string         `json:"whiteboard,omitempty"`
}

// IsEmpty reports whether u changes nothing.
func (u BugUpdate) IsEmpty() bool {
	return u == BugUpdate{}
}

// bugUpdateRequest names the bugs a BugUpdate applies to.
type bugUpdateRequest struct {
	IDs []int `json:"ids"`
	BugUpdate
}

// FieldChange is what an update did to one field.
type FieldChange struct {
	Field   string `json:"field" yaml:"field"`
	Added   string `json:"added" yaml:"added"`
	Removed string `json:"removed" yaml:"removed"`
}

// UpdateResult reports the changes an update made to one bug, ordered by
// field name.
type UpdateResult struct {
	ID      int           `json:"id" yaml:"id"`
	Changes []FieldChange `json:"changes" yaml:"changes"`
}

// NewAttachment is the body of POST /rest/bug/{id}/attachment. Data is
// sent base64 encoded.
type NewAttachment struct {
	IDs         []int  `json:"ids"`
	Summary     string `json:"summary"`
	FileName    string `json:"file_name"`
	Comment     string `json:"comment,omitempty"`
	IsPatch     bool   `json:"is_patch"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data"`
}

// NewComponent is the body of POST /rest/component.
type NewComponent struct {
	Name            string   `json:"name" yaml:"name"`
	Product         string   `json:"product" yaml:"product"`
	Description     string   `json:"description" yaml:"description"`
	DefaultAssignee string   `json:"default_assignee" yaml:"default_assignee"`
	DefaultCC       []string `json:"default_cc,omitempty" yaml:"default_cc,omitempty"`
}

type idResponse struct {
	ID int `json:"id"`
}

type idsResponse struct {
	IDs []int `json:"ids"`
}

type updateResponse struct {
	Bugs []struct {
		ID      int `json:"id"`
		Changes map[string]struct {
			Added   string `json:"added"`
			Removed string `json:"removed"`
		} `json:"changes"`
	} `json:"bugs"`
}

type attachmentResponse struct {
	Attachments map[string]Attachment `json:"attachments"`
}

// CreateBug files a new bug and returns its number.
func (c *Client) CreateBug(ctx context.Context, bug NewBug) (int, error) {
	var resp idResponse
	if err := c.send(ctx, http.MethodPost, "/rest/bug", bug, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateBug applies u to bug id.
func (c *Client) UpdateBug(ctx context.Context, id int, u BugUpdate) ([]UpdateResult, error) {
	if u.IsEmpty() {
		return nil, ErrNoChanges
	}
	req := bugUpdateRequest{IDs: []int{id}, BugUpdate: u}

	var resp updateResponse
	if err := c.send(ctx, http.MethodPut, "/rest/bug/"+strconv.Itoa(id), req, &resp); err != nil {
		return nil, err
	}

	results := make([]UpdateResult, 0, len(resp.Bugs))
	for _, b := range resp.Bugs {
		r := UpdateResult{ID: b.ID, Changes: []FieldChange{}}
		for field, ch := range b.Changes {
			r.Changes = append(r.Changes, FieldChange{Field: field, Added: ch.Added, Removed: ch.Removed})
		}
		sort.Slice(r.Changes, func(i, j int) bool { return r.Changes[i].Field < r.Changes[j].Field })
		results = append(results, r)
	}
	return results, nil
}

// AddAttachment attaches a file to bug id and returns the new attachment
// numbers.
func (c *Client) AddAttachment(ctx context.Context, id int, a NewAttachment) ([]int, error) {
	a.IDs = []int{id}
	if a.IsPatch {
		a.ContentType = ""
	}
	if a.Data == nil {
		a.Data = []byte{}
	}

	var resp idsResponse
	if err := c.send(ctx, http.MethodPost, fmt.Sprintf("/rest/bug/%d/attachment", id), a, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// GetAttachment fetches one attachment including its data.
func (c *Client) GetAttachment(ctx context.Context, id int) (*Attachment, error) {
	var resp attachmentResponse
	if err := c.get(ctx, "/rest/bug/attachment/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	a, ok := resp.Attachments[strconv.Itoa(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrAttachmentNotFound, id)
	}
	return &a, nil
}

// CreateComponent adds a component to a product and returns its number.
func (c *Client) CreateComponent(ctx context.Context, comp NewComponent) (int, error) {
	var resp idResponse
	if err := c.send(ctx, http.MethodPost, "/rest/component", comp, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}
