package assets

import "strings"

// OwnsPath reports whether path sits under prefix (anchored at the start).
func OwnsPath(path, prefix string) bool {
	return strings.HasPrefix(path, prefix)
}

// StripPrefix removes the first occurrence of prefix from path. For an owned
// path that occurrence is the leading one.
func StripPrefix(path, prefix string) string {
	return strings.Replace(path, prefix, "", 1)
}

// IsTraversal reports whether path contains a parent-directory sequence.
func IsTraversal(path string) bool {
	return strings.Contains(path, "..")
}
