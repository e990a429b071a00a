package bugzilla

import (
	"encoding/json"
	"time"
)

// Bug is a bug record as returned by GET /rest/bug.
//
// Example:
//
//	{
//	  "id": 35,
//	  "summary": "emerge fails on sparc",
//	  "status": "CONFIRMED",
//	  "resolution": "",
//	  "product": "Gentoo Linux",
//	  "component": "Current packages",
//	  "assigned_to": "dev@gentoo.org",
//	  "creation_time": "2024-12-13T12:21:09Z",
//	  "cc": ["alice@example.org"]
//	}
type Bug struct {
	ID             int       `json:"id" yaml:"id"`
	Alias          []string  `json:"alias,omitempty" yaml:"alias,omitempty"`
	Summary        string    `json:"summary" yaml:"summary"`
	Status         string    `json:"status" yaml:"status"`
	Resolution     string    `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Product        string    `json:"product,omitempty" yaml:"product,omitempty"`
	Component      string    `json:"component,omitempty" yaml:"component,omitempty"`
	Version        string    `json:"version,omitempty" yaml:"version,omitempty"`
	Platform       string    `json:"platform,omitempty" yaml:"platform,omitempty"`
	OpSys          string    `json:"op_sys,omitempty" yaml:"op_sys,omitempty"`
	Priority       string    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Severity       string    `json:"severity,omitempty" yaml:"severity,omitempty"`
	AssignedTo     string    `json:"assigned_to" yaml:"assigned_to"`
	Creator        string    `json:"creator,omitempty" yaml:"creator,omitempty"`
	CC             []string  `json:"cc,omitempty" yaml:"cc,omitempty"`
	Keywords       []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Whiteboard     string    `json:"whiteboard,omitempty" yaml:"whiteboard,omitempty"`
	URL            string    `json:"url,omitempty" yaml:"url,omitempty"`
	DependsOn      []int     `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Blocks         []int     `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	CreationTime   time.Time `json:"creation_time" yaml:"creation_time"`
	LastChangeTime time.Time `json:"last_change_time" yaml:"last_change_time"`
}

// Comment is one comment of a bug. Count 0 is the description.
type Comment struct {
	ID        int       `json:"id" yaml:"id"`
	Count     int       `json:"count" yaml:"count"`
	Creator   string    `json:"creator" yaml:"creator"`
	Text      string    `json:"text" yaml:"text"`
	Time      time.Time `json:"time" yaml:"time"`
	IsPrivate bool      `json:"is_private,omitempty" yaml:"is_private,omitempty"`
}

// Attachment describes a file attached to a bug. Data is only filled in
// by GetAttachment.
type Attachment struct {
	BugID        int       `json:"bug_id,omitempty" yaml:"bug_id,omitempty"`
	ID           int       `json:"id" yaml:"id"`
	FileName     string    `json:"file_name" yaml:"file_name"`
	Summary      string    `json:"summary" yaml:"summary"`
	ContentType  string    `json:"content_type" yaml:"content_type"`
	Size         int       `json:"size" yaml:"size"`
	Creator      string    `json:"creator" yaml:"creator"`
	CreationTime time.Time `json:"creation_time" yaml:"creation_time"`
	IsObsolete   bool      `json:"is_obsolete,omitempty" yaml:"is_obsolete,omitempty"`
	IsPatch      bool      `json:"is_patch,omitempty" yaml:"is_patch,omitempty"`
	Data         []byte    `json:"data,omitempty" yaml:"-"`
}

// HistoryEntry is one set of changes made at once.
type HistoryEntry struct {
	When    time.Time `json:"when" yaml:"when"`
	Who     string    `json:"who" yaml:"who"`
	Changes []Change  `json:"changes" yaml:"changes"`
}

// Change is one field change of a HistoryEntry.
type Change struct {
	FieldName    string `json:"field_name" yaml:"field_name"`
	Removed      string `json:"removed" yaml:"removed"`
	Added        string `json:"added" yaml:"added"`
	AttachmentID int    `json:"attachment_id,omitempty" yaml:"attachment_id,omitempty"`
}

// apiError is the body Bugzilla sends on failure:
//
//	{"error": true, "code": 101, "message": "Bug #99 does not exist."}
type apiError struct {
	Error   bool   `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type versionResponse struct {
	Version string `json:"version"`
}

type bugsResponse struct {
	Bugs []Bug `json:"bugs"`
}

type commentsResponse struct {
	Bugs map[string]struct {
		Comments []Comment `json:"comments"`
	} `json:"bugs"`
}

type attachmentsResponse struct {
	Bugs map[string][]Attachment `json:"bugs"`
}

type historyResponse struct {
	Bugs []struct {
		ID      int            `json:"id"`
		History []HistoryEntry `json:"history"`
	} `json:"bugs"`
}

// errorFlag detects an error document regardless of HTTP status.
type errorFlag struct {
	Error *bool `json:"error"`
}

func isErrorDocument(body []byte) bool {
	var f errorFlag
	return json.Unmarshal(body, &f) == nil && f.Error != nil && *f.Error
}
