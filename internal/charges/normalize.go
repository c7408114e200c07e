package charges

import "strings"

// markers are the labels older releases appended to extra-charge lines,
// e.g. "Deburr (Extra)". Compared in lower case.
var markers = []string{"(extra charge)", "(extra)", "[extra]"}

// Normalize reduces a line description or charge name to its matching form:
// lower case, markers removed, whitespace trimmed and collapsed.
func Normalize(s string) string {
	s = strings.ToLower(s)
	for _, m := range markers {
		s = strings.ReplaceAll(s, m, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

// IsLegacyLine reports whether desc ends with one of the retired markers.
func IsLegacyLine(desc string) bool {
	d := strings.ToLower(strings.TrimSpace(desc))
	for _, m := range markers {
		if strings.HasSuffix(d, m) {
			return true
		}
	}
	return false
}
