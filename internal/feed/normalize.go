package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/maxaizer/job-assistant/internal/skills"
	"github.com/samber/lo"
)

const unknownSource = "unknown"

var skillsDelimiter = regexp.MustCompile(`[,;\n]`)

// Job is a feed record in the canonical shape persisted as entities.Job.
type Job struct {
	Source         string
	ExternalID     string
	Title          string
	Company        string
	Location       *string
	Description    string
	SkillsRequired []string
	URL            *string
}

// Batch is the outcome of normalizing a whole feed. Rejected counts records
// that were dropped for missing title or company (or were not objects).
type Batch struct {
	Accepted []Job
	Rejected int
}

func NormalizeFeed(items []any) Batch {
	batch := Batch{Accepted: make([]Job, 0, len(items))}
	for _, item := range items {
		if job := NormalizeJob(item); job != nil {
			batch.Accepted = append(batch.Accepted, *job)
		} else {
			batch.Rejected++
		}
	}
	return batch
}

// NormalizeJob maps one raw feed item to a Job, or returns nil when the item
// is not an object or lacks a title or company.
func NormalizeJob(raw any) *Job {
	item, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	source := unknownSource
	if value, found := firstPresent(item, "_source", "source"); found {
		source = stringify(value)
	}

	title := strings.TrimSpace(stringOf(item, "title", "job_title"))
	company := strings.TrimSpace(stringOf(item, "company", "company_name"))
	if title == "" || company == "" {
		return nil
	}

	location := optionalString(item, "location", "city")

	description := strings.TrimSpace(stringOf(item, "description", "desc"))
	if description == "" {
		description = title
	}

	externalID := stringOf(item, "externalId", "id", "uuid")
	if externalID == "" {
		externalID = HashID(source, title, company, lo.FromPtr(location))
	}

	return &Job{
		Source:         source,
		ExternalID:     externalID,
		Title:          title,
		Company:        company,
		Location:       location,
		Description:    description,
		SkillsRequired: skills.NormalizeStrings(extractSkills(item)),
		URL:            optionalString(item, "url", "apply_url"),
	}
}

// HashID builds the deterministic id used when a source has no stable one:
// the first 16 hex chars of sha256 over the lowercased non-empty parts joined by "|".
func HashID(parts ...string) string {
	nonEmpty := lo.Filter(parts, func(part string, _ int) bool { return part != "" })
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(nonEmpty, "|"))))
	return hex.EncodeToString(sum[:])[:16]
}

// extractSkills prefers array fields over delimited strings. Delimited strings
// are looked up in skills, tech_stack, tags order.
func extractSkills(item map[string]any) []string {
	for _, key := range []string{"skills", "tags", "tech_stack"} {
		switch list := item[key].(type) {
		case []string:
			return list
		case []any:
			return lo.FilterMap(list, func(v any, _ int) (string, bool) {
				s, isString := v.(string)
				return s, isString
			})
		}
	}

	for _, key := range []string{"skills", "tech_stack", "tags"} {
		if text, ok := item[key].(string); ok && text != "" {
			return skillsDelimiter.Split(text, -1)
		}
	}

	return nil
}

func stringOf(item map[string]any, keys ...string) string {
	if value, found := firstPresent(item, keys...); found {
		return stringify(value)
	}
	return ""
}

func optionalString(item map[string]any, keys ...string) *string {
	if value, found := firstPresent(item, keys...); found {
		return lo.ToPtr(stringify(value))
	}
	return nil
}

// firstPresent returns the first value under keys that carries information:
// empty strings, zero numbers, false and null are skipped.
func firstPresent(item map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		value, ok := item[key]
		if ok && isPresent(value) {
			return value, true
		}
	}
	return nil, false
}

func isPresent(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
