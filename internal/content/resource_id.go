package content

import "strings"

// resourcePatterns maps known title substrings to stable resource IDs for
// Pre-K resources whose data carries no explicit identifier. Matching is
// case-insensitive, first match wins.
var resourcePatterns = []struct {
	substr string
	id     string
}{
	{"counting song", "counting-songs"},
	{"number hunt", "number-hunt"},
	{"shape walk", "shape-walk"},
	{"snack math", "snack-math"},
	{"bedtime count", "bedtime-counting"},
	{"finger play", "finger-plays"},
	{"sorting game", "sorting-games"},
	{"pattern", "patterns"},
}

// ResourceID returns the lookup ID for a Pre-K resource: the explicit ID
// when present, a known pattern match on the title otherwise, and a generic
// slug of the title as the last resort.
func ResourceID(explicit, title string) string {
	if explicit != "" {
		return explicit
	}

	lower := strings.ToLower(title)
	for _, p := range resourcePatterns {
		if strings.Contains(lower, p.substr) {
			return p.id
		}
	}

	return Slugify(title)
}

// Slugify lowercases, strips non-alphanumerics, and hyphenates whitespace
// runs: "Ten Wiggly Fingers!" → "ten-wiggly-fingers".
func Slugify(s string) string {
	var sb strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
		case r == ' ' || r == '\t' || r == '-':
			pendingHyphen = true
		}
	}

	return sb.String()
}
