package models

import (
	"strings"
)

// The image list is persisted as a single comma-joined text column.
// Historical rows contain empty tokens and the literal string "None",
// both of which must be dropped on decode.

// DecodeImageList splits a stored image column into an ordered filename
// slice. Empty, whitespace-only and "None" tokens are filtered out.
func DecodeImageList(raw string) []string {
	list := []string{}
	if strings.TrimSpace(raw) == "" {
		return list
	}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || name == "None" {
			continue
		}
		list = append(list, name)
	}
	return list
}

// EncodeImageList joins filenames back into the stored column form.
// Empty entries are skipped; an empty list encodes to "".
func EncodeImageList(list []string) string {
	parts := make([]string, 0, len(list))
	for _, name := range list {
		if strings.TrimSpace(name) == "" {
			continue
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ",")
}

// MergeImageLists appends the new filenames after the existing ones.
// Duplicates are kept; re-uploading the same file adds it again.
func MergeImageLists(existing, added []string) []string {
	merged := make([]string, 0, len(existing)+len(added))
	merged = append(merged, existing...)
	merged = append(merged, added...)
	return merged
}
