package skills

import (
	"encoding/json"
)

type ProfileKind string

const (
	// FlatList is the legacy shape: a bare JSON array of skills.
	FlatList ProfileKind = "flat"
	// Structured is the shape produced by resume analysis.
	Structured ProfileKind = "structured"
)

// Profile is the canonical in-memory form of Resume.skills.
type Profile struct {
	Kind       ProfileKind `json:"-"`
	Skills     []string    `json:"skills"`
	Tools      []string    `json:"tools"`
	DBs        []string    `json:"dbs"`
	Highlights []string    `json:"highlights"`
}

func emptyProfile() Profile {
	return Profile{
		Kind:       FlatList,
		Skills:     []string{},
		Tools:      []string{},
		DBs:        []string{},
		Highlights: []string{},
	}
}

// ParseProfile decodes the stored JSON column. Malformed JSON is treated the
// same way as an unexpected shape: an empty profile.
func ParseProfile(data []byte) Profile {
	if len(data) == 0 {
		return emptyProfile()
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return emptyProfile()
	}
	return ProfileFromValue(value)
}

func ProfileFromValue(value any) Profile {
	switch v := value.(type) {
	case []any, []string:
		profile := emptyProfile()
		profile.Skills = stringEntries(v)
		return profile
	case map[string]any:
		return Profile{
			Kind:       Structured,
			Skills:     stringEntries(v["skills"]),
			Tools:      stringEntries(v["tools"]),
			DBs:        stringEntries(v["dbs"]),
			Highlights: stringEntries(v["highlights"]),
		}
	default:
		return emptyProfile()
	}
}

// CandidateSkills merges skills, tools and dbs. The result is not normalized.
func (p Profile) CandidateSkills() []string {
	merged := make([]string, 0, len(p.Skills)+len(p.Tools)+len(p.DBs))
	merged = append(merged, p.Skills...)
	merged = append(merged, p.Tools...)
	return append(merged, p.DBs...)
}

func stringEntries(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
