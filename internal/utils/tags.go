// internal/utils/tags.go
package utils

import (
	"sort"
	"strings"
)

// SplitTags turns a comma-separated tag string into trimmed, non-empty tags
// in their original order.
func SplitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// UniqueSortedTags merges several tag strings into a sorted set.
func UniqueSortedTags(raws []string) []string {
	seen := make(map[string]struct{})
	for _, raw := range raws {
		for _, tag := range SplitTags(raw) {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
