package handler

import "strings"

// normalize produces the lookup key stored in the normalized_* fields.
// It must be applied identically on write and on lookup.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
