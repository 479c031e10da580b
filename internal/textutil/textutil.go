package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeFilename returns the NFC form of a filename so destination names
// are byte-identical regardless of which normalization the source volume
// stored. macOS volumes commonly hand out NFD names; mixing forms in one
// output tree makes visually identical names collide-proof but unequal.
func NormalizeFilename(name string) string {
	if name == "" {
		return name
	}
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

// EqualFold reports whether two filenames are equal under Unicode case
// folding after NFC normalization.
func EqualFold(a, b string) bool {
	return strings.EqualFold(NormalizeFilename(a), NormalizeFilename(b))
}
