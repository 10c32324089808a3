package utils

import "strings"

// JoinNatural joins values the way a sentence would: one value as-is, two
// joined with "and", three or more comma-separated with ", and" before the
// last ("a, b, and c").
func JoinNatural(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	case 2:
		return values[0] + " and " + values[1]
	default:
		return strings.Join(values[:len(values)-1], ", ") + ", and " + values[len(values)-1]
	}
}
