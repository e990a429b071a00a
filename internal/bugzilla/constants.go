package bugzilla

import "time"

const (
	// MaxResponseSize caps how much of a response body is read (10MB).
	MaxResponseSize = 10 << 20

	// MaxErrorBodySize is the maximum bytes of a non-JSON error body kept
	// in an error message.
	MaxErrorBodySize = 1024

	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second
)

// Authentication headers understood by Bugzilla 5 and later.
const (
	HeaderAPIKey   = "X-BUGZILLA-API-KEY"
	HeaderLogin    = "X-BUGZILLA-LOGIN"
	HeaderPassword = "X-BUGZILLA-PASSWORD"
)

// searchFields are the fields a search listing needs.
var searchFields = []string{"id", "status", "priority", "severity", "assigned_to", "summary"}
