package httpmetrics

import "strings"

// NormalizePath collapses per-user paths into a single metrics label so the
// label cardinality stays bounded.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/api/users/") && len(path) > len("/api/users/") {
		return "/api/users/:id"
	}
	return path
}
