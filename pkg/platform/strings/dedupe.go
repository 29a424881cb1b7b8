// Package strings has small helpers for normalizing string lists read from
// the environment, such as comma-separated broker addresses.
package strings

import "strings"

// DedupeAndTrim trims whitespace from every element and drops empties and
// duplicates. The first occurrence wins and order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
