package coverletter

import (
	"fmt"
	"strings"
	"unicode"
)

type Language string

const (
	Hebrew  Language = "he"
	English Language = "en"
)

var hebrewBlock = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0590, Hi: 0x05FF, Stride: 1}}}

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case Hebrew:
		return Hebrew, nil
	case English:
		return English, nil
	default:
		return "", fmt.Errorf("unsupported language: %q", s)
	}
}

// DetectLanguage picks Hebrew when any job text contains a Hebrew-block rune.
func DetectLanguage(job Job) Language {
	location := ""
	if job.Location != nil {
		location = *job.Location
	}

	for _, text := range []string{job.Title, job.Company, location, job.Description} {
		if strings.IndexFunc(text, func(r rune) bool { return unicode.Is(hebrewBlock, r) }) >= 0 {
			return Hebrew
		}
	}
	return English
}

type template struct {
	system string
	user   func(promptContext) string
}

var templates = map[Language]template{
	English: {
		system: "You are a concise, professional writing assistant. Task: write a short, tailored cover letter for a job.\n" +
			"Avoid clichés and exaggeration; stick to facts and concrete examples (ideally with metrics).\n" +
			"Tone: professional, measured, confident but not salesy.",
		user: func(c promptContext) string {
			return fmt.Sprintf(`Job:
- Title: %s
- Company: %s
- Description: %s

Candidate profile (from resume):
- Skills/Tools/DBs: %s
- Highlights: %s
- Years of experience (if any): %s

Instructions:
- Write in English, up to %d words (strict limit).
- Brief opening, 1-2 focused body paragraphs, polite closing.
- Weave in 2-3 job-relevant skills: %s.
- If a matching highlight exists, mention it succinctly (one sentence).
- Avoid generic claims or fluff.
- Do not invent facts.`,
				c.Title, c.companyLine(), c.Description,
				c.Skills, c.Highlights, c.Years,
				c.MaxWords, c.JobSkills)
		},
	},
	Hebrew: {
		system: "אתה עוזר כתיבה תמציתי ומקצועי. המשימה: לכתוב מכתב פנייה קצר ומותאם אישית למשרה.\n" +
			"הימנע מקלישאות והגזמות; היצמד לעובדות ולדוגמאות קונקרטיות (רצוי עם מדדים).\n" +
			"הטון: מקצועי, שקול, בטוח אך לא מכירתי.",
		user: func(c promptContext) string {
			return fmt.Sprintf(`משרה:
- תפקיד: %s
- חברה: %s
- תיאור: %s

פרופיל מועמד (מתוך קו"ח):
- מיומנויות/כלים/DBs: %s
- Highlights: %s
- שנות ניסיון (אם קיימות): %s

הוראות:
- כתוב בעברית, עד %d מילים (מגבלה קשיחה).
- פסקת פתיחה קצרה, 1-2 פסקאות גוף ממוקדות, וסיום מנומס.
- שלב 2-3 סקילז רלוונטיים מהמשרה: %s.
- אם יש Highlight מתאים, שלב אותו במשפט אחד.
- הימנע מתבניות כלליות ("אני מועמד מצוין", "תמיד חלמתי" וכו').
- אל תמציא פרטים שלא ניתנו.`,
				c.Title, c.companyLine(), c.Description,
				c.Skills, c.Highlights, c.Years,
				c.MaxWords, c.JobSkills)
		},
	},
}
