package skills

import (
	"strings"
)

// Normalize turns an arbitrary skills value into a clean list: only string
// entries are kept, each is trimmed, lowercased and has inner whitespace
// collapsed, empties are dropped and duplicates removed keeping first-seen order.
// Anything that is not a list yields an empty, non-nil slice.
func Normalize(raw any) []string {
	switch values := raw.(type) {
	case []string:
		return NormalizeStrings(values)
	case []any:
		strs := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		return NormalizeStrings(strs)
	default:
		return []string{}
	}
}

func NormalizeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	for _, value := range values {
		skill := NormalizeOne(value)
		if skill == "" {
			continue
		}
		if _, found := seen[skill]; found {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// NormalizeOne keeps punctuation such as "node.js" or "c++" intact.
func NormalizeOne(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}
