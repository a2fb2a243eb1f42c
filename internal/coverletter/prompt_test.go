package coverletter

import (
	"strings"
	"testing"

	"github.com/maxaizer/job-assistant/internal/llm"
	"github.com/maxaizer/job-assistant/internal/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func englishJob() Job {
	return Job{
		Title:          "Backend Engineer",
		Company:        "Acme",
		Location:       ptr("Tel Aviv"),
		Description:    "Build APIs in Go.",
		SkillsRequired: []string{"go", "postgres"},
	}
}

func Test_Build_MaxWords_ShouldBeClamped(t *testing.T) {
	assert.Equal(t, 80, Build(englishJob(), Resume{}, Options{MaxWords: 30}).MaxWords)
	assert.Equal(t, 400, Build(englishJob(), Resume{}, Options{MaxWords: 999}).MaxWords)
	assert.Equal(t, 220, Build(englishJob(), Resume{}, Options{}).MaxWords)
	assert.Equal(t, 150, Build(englishJob(), Resume{}, Options{MaxWords: 150}).MaxWords)
}

func Test_Build_HebrewDescription_ShouldSelectHebrew(t *testing.T) {
	job := englishJob()
	job.Description = "פיתוח שירותים בגו"

	prompt := Build(job, Resume{}, Options{})

	assert.Equal(t, Hebrew, prompt.Language)
	assert.Contains(t, prompt.Messages[1].Content, "כתוב בעברית")
}

func Test_Build_AsciiJob_ShouldSelectEnglish(t *testing.T) {
	prompt := Build(englishJob(), Resume{}, Options{})

	assert.Equal(t, English, prompt.Language)
	assert.Contains(t, prompt.Messages[1].Content, "Write in English")
}

func Test_Build_ExplicitLanguage_ShouldOverrideDetection(t *testing.T) {
	job := englishJob()
	job.Title = "מפתח בקאנד"

	prompt := Build(job, Resume{}, Options{Language: English})

	assert.Equal(t, English, prompt.Language)
}

func Test_Build_UnsupportedLanguage_ShouldFallBackToDetection(t *testing.T) {
	job := englishJob()
	job.Description = "פיתוח שירותים בגו"

	var prompt Prompt
	require.NotPanics(t, func() {
		prompt = Build(job, Resume{}, Options{Language: "fr"})
	})

	assert.Equal(t, Hebrew, prompt.Language)
	assert.Contains(t, prompt.Messages[1].Content, "כתוב בעברית")
}

func Test_Build_ExplicitLanguage_ShouldIgnoreCase(t *testing.T) {
	assert.Equal(t, English, Build(englishJob(), Resume{}, Options{Language: " EN "}).Language)
}

func Test_Build_Messages_ShouldBeSystemThenUser(t *testing.T) {
	prompt := Build(englishJob(), Resume{}, Options{})

	require.Len(t, prompt.Messages, 2)
	assert.Equal(t, llm.RoleSystem, prompt.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, prompt.Messages[1].Role)
	assert.Contains(t, prompt.Messages[1].Content, "Do not invent facts")
	assert.Contains(t, prompt.Messages[1].Content, "Avoid generic claims or fluff")
}

func Test_Build_UserMessage_ShouldCarryJobAndCandidateContext(t *testing.T) {
	years := 5
	resume := Resume{
		Profile: skills.Profile{
			Kind:       skills.Structured,
			Skills:     []string{"Go", " go "},
			Tools:      []string{"Docker"},
			DBs:        []string{"Postgres"},
			Highlights: []string{"h1", "h2", "h3", "h4", "h5"},
		},
		YearsExp: &years,
	}

	content := Build(englishJob(), resume, Options{MaxWords: 120}).Messages[1].Content

	assert.Contains(t, content, "- Title: Backend Engineer")
	assert.Contains(t, content, "- Company: Acme (Tel Aviv)")
	assert.Contains(t, content, "- Skills/Tools/DBs: go, docker, postgres")
	assert.Contains(t, content, "- Highlights: h1 | h2 | h3 | h4\n")
	assert.NotContains(t, content, "h5")
	assert.Contains(t, content, "- Years of experience (if any): 5")
	assert.Contains(t, content, "up to 120 words")
	assert.Contains(t, content, "skills: go, postgres.")
}

func Test_Build_EmptyResume_ShouldUsePlaceholders(t *testing.T) {
	job := englishJob()
	job.Location = nil
	job.SkillsRequired = nil

	content := Build(job, Resume{}, Options{}).Messages[1].Content

	assert.Contains(t, content, "- Company: Acme\n")
	assert.Contains(t, content, "- Skills/Tools/DBs: —")
	assert.Contains(t, content, "- Highlights: —")
	assert.Contains(t, content, "- Years of experience (if any): —")
	assert.Contains(t, content, "skills: —.")
}

func Test_Build_LongInputs_ShouldBeCapped(t *testing.T) {
	job := englishJob()
	job.Description = strings.Repeat("ש", 2500)
	job.SkillsRequired = []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10"}

	content := Build(job, Resume{}, Options{}).Messages[1].Content

	assert.Contains(t, content, strings.Repeat("ש", 2000)+"\n")
	assert.NotContains(t, content, strings.Repeat("ש", 2001))
	assert.Contains(t, content, "s1, s2, s3, s4, s5, s6, s7, s8.")
	assert.NotContains(t, content, "s9")
}

func Test_Build_SameInputs_ShouldBeDeterministic(t *testing.T) {
	assert.Equal(t, Build(englishJob(), Resume{}, Options{}), Build(englishJob(), Resume{}, Options{}))
}

func Test_ParseLanguage_Unknown_ShouldFail(t *testing.T) {
	lang, err := ParseLanguage(" HE ")
	require.NoError(t, err)
	assert.Equal(t, Hebrew, lang)

	_, err = ParseLanguage("ru")
	assert.Error(t, err)
}

func Test_WordCount_ShouldSplitOnWhitespace(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 4, WordCount(" one two\nthree\tfour "))
}
