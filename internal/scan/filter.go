package scan

import (
	"path/filepath"
	"strings"
)

// Reason tags why a file was skipped. The empty reason means keep.
type Reason string

const (
	ReasonExcludedExtension    Reason = "excluded-extension"
	ReasonUnsupportedExtension Reason = "unsupported-extension"
	ReasonExcludedPrefix       Reason = "excluded-prefix"
)

// Rules holds the case-insensitive eligibility sets applied to every file
// name. Extensions carry their leading dot; prefixes match the start of the
// lowercased base name.
type Rules struct {
	supported map[string]struct{}
	excluded  map[string]struct{}
	prefixes  []string
}

// NewRules builds eligibility rules from the configured sets. Inputs are
// assumed normalized (lowercase, dotted extensions).
func NewRules(supported, excluded, prefixes []string) Rules {
	rules := Rules{
		supported: make(map[string]struct{}, len(supported)),
		excluded:  make(map[string]struct{}, len(excluded)),
		prefixes:  append([]string(nil), prefixes...),
	}
	for _, ext := range supported {
		rules.supported[ext] = struct{}{}
	}
	for _, ext := range excluded {
		rules.excluded[ext] = struct{}{}
	}
	return rules
}

// Evaluate returns the skip reason for the file's base name, or the empty
// reason to keep it. Checks run in a fixed order and the first match wins:
// excluded extension, then unsupported extension, then excluded prefix.
func (r Rules) Evaluate(name string) Reason {
	ext := extension(name)
	if _, ok := r.excluded[ext]; ok {
		return ReasonExcludedExtension
	}
	if _, ok := r.supported[ext]; !ok {
		return ReasonUnsupportedExtension
	}

	lowered := strings.ToLower(name)
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(lowered, prefix) {
			return ReasonExcludedPrefix
		}
	}
	return ""
}

// extension returns the lowercased extension of name. A name that is nothing
// but a dotted suffix (".mp4", ".gitignore") has no extension; it is a hidden
// file, not an extensionless match for the supported set.
func extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}
