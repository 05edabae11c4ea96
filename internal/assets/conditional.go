package assets

import (
	"net/http"
	"strings"
	"time"
)

// IsNotModified reports whether the client's If-Modified-Since covers
// lastModified. Absent or unparsable headers always yield false. The
// comparison runs at whole-second resolution, the resolution of the
// Last-Modified header the client received.
func IsNotModified(ifModifiedSince string, lastModified time.Time) bool {
	raw := strings.TrimSpace(ifModifiedSince)
	if raw == "" {
		return false
	}
	since, err := http.ParseTime(raw)
	if err != nil {
		return false
	}
	return !lastModified.Truncate(time.Second).After(since)
}
