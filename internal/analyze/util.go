// Package analyze holds the per-dimension heuristics. Every function here is
// pure: it scans flat metric records, buckets them against fixed thresholds,
// and returns a small sorted report. Missing fields degrade to zeros and an
// empty input list yields an empty report, never an error.
package analyze

import (
	"strconv"
	"strings"
)

// groupThousands renders 12345 as "12,345" for the human-readable issue text.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		return "-" + out
	}
	return out
}

// titleWord capitalizes the first letter of a single lowercase word.
func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func capLen[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
