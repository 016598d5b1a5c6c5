package tmr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reserved keys, in normalized form.
const (
	KeyTotalPreference = "total-preference"
	KeyTotalConfidence = "total-confidence"
	KeyRejectedWords   = "rejected-words"

	KeyPreference    = "preference"
	KeySemPreference = "sem-preference"
	KeySentWordInd   = "sent-word-ind"
	KeyFromSense     = "from-sense"
	KeyInSubtree     = "is-in-subtree"
)

// SubtreeEvent is the is-in-subtree value that marks an event frame.
const SubtreeEvent = "EVENT"

var (
	constraintKeyRe = regexp.MustCompile(`(?i)^(.+)[_-]constraint[_-]info$`)
	rejectedKeyRe   = regexp.MustCompile(`(?i)^rejected[-_]words$`)
)

// NormalizeKey folds a graph key to the form used for all reserved-key
// comparisons: lower case, with underscores treated as hyphens.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// IsReservedGraphKey reports whether a top-level key holds analysis data
// rather than an entity that gets its own color.
func IsReservedGraphKey(key string) bool {
	switch NormalizeKey(key) {
	case KeyTotalPreference, KeyTotalConfidence, KeyRejectedWords:
		return true
	}
	return false
}

// IsRejectedKey reports whether key names the rejected-words entity.
func IsRejectedKey(key string) bool {
	return rejectedKeyRe.MatchString(key)
}

// constraintOwner returns the attribute name a "<name>-constraint-info"
// key describes. The owner keeps its original spelling.
func constraintOwner(key string) (string, bool) {
	m := constraintKeyRe.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isRequiredKey reports whether an attribute key follows the required
// naming convention (leading upper-case letter, e.g. AGENT).
func isRequiredKey(key string) bool {
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsUpper(r)
}

// keySet is a set of normalized keys.
type keySet map[string]struct{}

func newKeySet(keys []string) keySet {
	s := make(keySet, len(keys))
	for _, k := range keys {
		s[NormalizeKey(k)] = struct{}{}
	}
	return s
}

func (s keySet) has(key string) bool {
	_, ok := s[NormalizeKey(key)]
	return ok
}
