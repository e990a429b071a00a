package bugzilla

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchQuery describes a bug search. Empty fields are not sent; list
// fields match any of their values.
type SearchQuery struct {
	// Terms are joined with spaces and matched against the summary, or
	// against comment text when Comments is set.
	Terms    []string
	Comments bool

	Status     []string
	Product    []string
	Component  []string
	Priority   []string
	Severity   []string
	Version    []string
	OpSys      []string
	Platform   []string
	AssignedTo string
	Creator    string
	Resolution string
	Whiteboard string
	Alias      string

	// CreatedSince and ChangedSince are passed through as given, e.g.
	// "2024-01-01" or "-2w".
	CreatedSince string
	ChangedSince string

	Limit  int
	Offset int
}

// IsEmpty reports whether the query would match on nothing but status.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(strings.Join(q.Terms, "")) == "" &&
		len(q.Product) == 0 && len(q.Component) == 0 &&
		len(q.Priority) == 0 && len(q.Severity) == 0 &&
		len(q.Version) == 0 && len(q.OpSys) == 0 && len(q.Platform) == 0 &&
		q.AssignedTo == "" && q.Creator == "" &&
		q.Resolution == "" && q.Whiteboard == "" && q.Alias == "" &&
		q.CreatedSince == "" && q.ChangedSince == ""
}

// Values encodes the query as REST parameters.
func (q SearchQuery) Values() (url.Values, error) {
	if q.IsEmpty() {
		return nil, ErrEmptySearch
	}

	v := url.Values{}
	if terms := strings.TrimSpace(strings.Join(q.Terms, " ")); terms != "" {
		if q.Comments {
			v.Set("query_format", "advanced")
			v.Set("longdesc_type", "substring")
			v.Set("longdesc", terms)
		} else {
			v.Set("summary", terms)
		}
	}

	addAll := func(key string, values []string) {
		for _, s := range values {
			if s != "" {
				v.Add(key, s)
			}
		}
	}
	addAll("status", q.Status)
	addAll("product", q.Product)
	addAll("component", q.Component)
	addAll("priority", q.Priority)
	addAll("severity", q.Severity)
	addAll("version", q.Version)
	addAll("op_sys", q.OpSys)
	addAll("platform", q.Platform)

	for key, s := range map[string]string{
		"assigned_to":      q.AssignedTo,
		"creator":          q.Creator,
		"resolution":       q.Resolution,
		"whiteboard":       q.Whiteboard,
		"alias":            q.Alias,
		"creation_time":    q.CreatedSince,
		"last_change_time": q.ChangedSince,
	} {
		if s != "" {
			v.Set(key, s)
		}
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	v.Set("include_fields", strings.Join(searchFields, ","))
	return v, nil
}
