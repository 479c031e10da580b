// Package scan enumerates candidate files under the source root and applies
// the eligibility filter that decides which of them the organizer handles.
//
// Enumeration is deterministic: the walk collects every file and returns them
// in sorted path order so repeated runs over the same tree process files in
// the same sequence. Filtering is pure name inspection; it never touches file
// contents.
package scan
