package coverletter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/maxaizer/job-assistant/internal/skills"
)

const (
	MinWords     = 80
	MaxWords     = 400
	DefaultWords = 220

	maxDescriptionRunes = 2000
	maxHighlights       = 4
	maxJobSkills        = 8
	placeholder         = "—"
)

type Job struct {
	Title          string
	Company        string
	Location       *string
	Description    string
	SkillsRequired []string
}

type Resume struct {
	Profile  skills.Profile
	YearsExp *int
}

// Options are optional knobs. A zero MaxWords means "use the default" and an
// empty Language means "detect from the job".
type Options struct {
	MaxWords int
	Language Language
}

type Prompt struct {
	Messages []llm.Message
	Language Language
	MaxWords int
}

// ClampWords bounds a requested word limit to [MinWords, MaxWords].
func ClampWords(requested int) int {
	if requested == 0 {
		requested = DefaultWords
	}
	return max(MinWords, min(requested, MaxWords))
}

// Build prepares the system and user messages for a cover letter request.
// It is pure: nothing is sent anywhere. A language without a template falls
// back to detection from the job text.
func Build(job Job, resume Resume, opts Options) Prompt {
	maxWords := ClampWords(opts.MaxWords)

	language, err := ParseLanguage(string(opts.Language))
	if err != nil || language == "" {
		language = DetectLanguage(job)
	}

	candidateSkills := skills.NormalizeStrings(resume.Profile.CandidateSkills())
	highlights := firstN(resume.Profile.Highlights, maxHighlights)
	jobSkills := firstN(job.SkillsRequired, maxJobSkills)

	ctx := promptContext{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: truncateRunes(job.Description, maxDescriptionRunes),
		Skills:      orPlaceholder(strings.Join(candidateSkills, ", ")),
		Highlights:  orPlaceholder(strings.Join(highlights, " | ")),
		Years:       placeholder,
		MaxWords:    maxWords,
		JobSkills:   orPlaceholder(strings.Join(jobSkills, ", ")),
	}
	if resume.YearsExp != nil {
		ctx.Years = strconv.Itoa(*resume.YearsExp)
	}

	tmpl := templates[language]
	return Prompt{
		Messages: []llm.Message{
			llm.SystemMessage(tmpl.system),
			llm.UserMessage(tmpl.user(ctx)),
		},
		Language: language,
		MaxWords: maxWords,
	}
}

type promptContext struct {
	Title       string
	Company     string
	Location    *string
	Description string
	Skills      string
	Highlights  string
	Years       string
	MaxWords    int
	JobSkills   string
}

func (c promptContext) companyLine() string {
	if c.Location == nil || *c.Location == "" {
		return c.Company
	}
	return fmt.Sprintf("%s (%s)", c.Company, *c.Location)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// WordCount counts whitespace separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
