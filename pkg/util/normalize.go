package util

import "strings"

// NormalizeStationName produces the matching key used when combining CSV stations
// with the bundled reference table: lower-cased, trimmed, inner whitespace collapsed.
// Matching is exact on this key; same-named stations in different districts still
// collide (known limitation of the name-only key).
func NormalizeStationName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
