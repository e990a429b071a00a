package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/utils"
)

// bugOutput is a bug with its attachments and comments.
type bugOutput struct {
	bugzilla.Bug `yaml:",inline"`
	Attachments  []bugzilla.Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	Comments     []bugzilla.Comment    `json:"comments,omitempty" yaml:"comments,omitempty"`

	// Set when attachments or comments were fetched, to tell "none" from
	// "not asked for".
	withAttachments bool
	withComments    bool
}

// labelWidth pads field labels, as in "Status      : CONFIRMED".
const labelWidth = 12

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func joinInts(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}
	return strings.Join(s, ", ")
}

// rule is a horizontal line as wide as the output.
func rule(columns int) string {
	return strings.Repeat("-", columns)
}

// printBug writes a bug the way "bugz get" shows it. Empty fields are
// left out.
func printBug(w io.Writer, b *bugOutput, columns int) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-*s: %s\n", labelWidth, label, value)
		}
	}

	field("Title", b.Summary)
	field("Alias", strings.Join(b.Alias, ", "))
	field("Assignee", b.AssignedTo)
	field("Reporter", b.Creator)
	field("Reported", formatTime(b.CreationTime))
	field("Updated", formatTime(b.LastChangeTime))
	field("Status", b.Status)
	field("Resolution", b.Resolution)
	field("Product", b.Product)
	field("Component", b.Component)
	field("Version", b.Version)
	field("Platform", b.Platform)
	field("OpSystem", b.OpSys)
	field("Priority", b.Priority)
	field("Severity", b.Severity)
	field("Keywords", strings.Join(b.Keywords, ", "))
	field("Blocks", joinInts(b.Blocks))
	field("dependsOn", joinInts(b.DependsOn))
	field("Whiteboard", b.Whiteboard)
	field("URL", b.URL)
	for _, cc := range b.CC {
		field("CC", cc)
	}

	if b.withAttachments {
		fmt.Fprintf(w, "%-*s: %d\n", labelWidth, "Attachments", len(b.Attachments))
		for _, a := range b.Attachments {
			fmt.Fprintf(w, "[Attachment] [%d] [%s] [%s]\n", a.ID, formatTime(a.CreationTime), a.Summary)
		}
	}

	if b.withComments {
		fmt.Fprintf(w, "%-*s: %d\n\n", labelWidth, "Comments", len(b.Comments))
		for i, c := range b.Comments {
			fmt.Fprintf(w, "[Comment #%d] %s : %s\n", i, c.Creator, formatTime(c.Time))
			fmt.Fprintln(w, rule(columns))
			fmt.Fprintln(w, utils.Wrap(c.Text, columns))
		}
	}
}

// printHistory writes the change history of a bug.
func printHistory(w io.Writer, history []bugzilla.HistoryEntry, columns int) {
	for i, h := range history {
		fmt.Fprintf(w, "[History #%d] %s : %s\n", i, h.Who, formatTime(h.When))
		fmt.Fprintln(w, rule(columns))
		for _, c := range h.Changes {
			fmt.Fprintf(w, "%s removed: %s\n", c.FieldName, c.Removed)
			fmt.Fprintf(w, "%s added  : %s\n\n", c.FieldName, c.Added)
		}
	}
}

// listColumns selects the optional columns of a search listing.
type listColumns struct {
	Status   bool
	Priority bool
	Severity bool
}

// printBugList writes one line per bug: the id, the selected columns, the
// assignee and the summary, cut to the output width.
func printBugList(w io.Writer, bugs []bugzilla.Bug, show listColumns, columns int) {
	for _, b := range bugs {
		var line strings.Builder
		line.WriteString(strconv.Itoa(b.ID))
		if show.Status {
			fmt.Fprintf(&line, " %-12s", b.Status)
		}
		if show.Priority {
			fmt.Fprintf(&line, " %-12s", b.Priority)
		}
		if show.Severity {
			fmt.Fprintf(&line, " %-12s", b.Severity)
		}
		fmt.Fprintf(&line, " %-20s %s", b.AssignedTo, b.Summary)
		fmt.Fprintln(w, truncate(line.String(), columns))
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
