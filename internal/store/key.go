// Package store persists notifications to the external keyed document store
// and owns canonical-key derivation for natural publication identifiers.
package store

import (
	"fmt"
	"regexp"
	"strings"
)

// Natural identifiers arrive in two known shapes: the human-readable
// "BGBl. I Nr. 10/2025" and the technical "BGBLA_2025_I_10". Both map to the
// same canonical key so repeated ingestion of either form hits the same
// stored record.
var (
	humanIDRe     = regexp.MustCompile(`^BGBl\.?\s+([IVX]+[a-z]?)\s+Nr\.?\s+(\d+)/(\d{4})$`)
	technicalIDRe = regexp.MustCompile(`^BGBLA_(\d{4})_([IVX]+[a-z]?)_(\d+)$`)

	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// CanonicalKey derives the storage key from a natural identifier. It is pure
// and deterministic: the same input always yields the same key.
//
//	CanonicalKey("BGBl. I Nr. 10/2025") == "bgbl-i-10-2025"
//	CanonicalKey("BGBLA_2025_I_10")     == "bgbl-i-10-2025"
//
// Identifiers matching neither known format fall back to a generic slug.
func CanonicalKey(naturalID string) string {
	id := strings.TrimSpace(naturalID)
	if m := humanIDRe.FindStringSubmatch(id); m != nil {
		return fmt.Sprintf("bgbl-%s-%s-%s", strings.ToLower(m[1]), m[2], m[3])
	}
	if m := technicalIDRe.FindStringSubmatch(id); m != nil {
		return fmt.Sprintf("bgbl-%s-%s-%s", strings.ToLower(m[2]), m[3], m[1])
	}
	return Slug(id)
}

// Slug lowercases, replaces every non-alphanumeric run with a single hyphen
// and trims leading and trailing hyphens.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
