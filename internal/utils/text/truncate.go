package text

import "strings"

// Ellipsis is appended to text shortened by TruncateChars and Truncate.
const Ellipsis = "..."

// TruncateChars shortens s to at most maxRunes runes and appends Ellipsis
// when anything was cut. Multi-byte characters are never split.
func TruncateChars(s string, maxRunes int) string {
	if maxRunes < 0 {
		maxRunes = 0
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + Ellipsis
}

// Clip shortens s to at most maxRunes runes without adding a marker.
// Used for storage columns with a fixed size.
func Clip(s string, maxRunes int) string {
	r := []rune(s)
	if maxRunes < 0 || len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}

// Truncate keeps the first maxWords whitespace-separated fields of s.
// When ellipsis is true and fields were dropped, Ellipsis is appended.
func Truncate(s string, maxWords int, ellipsis bool) string {
	fields := strings.Fields(s)
	if maxWords < 0 {
		maxWords = 0
	}
	if len(fields) <= maxWords {
		return strings.Join(fields, " ")
	}
	out := strings.Join(fields[:maxWords], " ")
	if ellipsis {
		out += Ellipsis
	}
	return out
}

// TruncateWords keeps leading fields of s while the running CountWords
// total stays within maxWords. Fields without letters are kept while
// they do not push the total over the limit.
func TruncateWords(s string, maxWords int) string {
	var kept []string
	total := 0
	for _, f := range strings.Fields(s) {
		n := CountWords(f)
		if total+n > maxWords {
			break
		}
		total += n
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
