package matching

import (
	"math"
	"strings"

	"github.com/maxaizer/job-assistant/internal/skills"
	"github.com/samber/lo"
)

const neutralScore = 50

// Input carries both skill sets. CandidateYears and JobLocation are accepted
// for future weighting and do not affect the score yet.
type Input struct {
	CandidateSkills []string
	JobSkills       []string
	CandidateYears  *float64
	JobLocation     *string
}

type Breakdown struct {
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing"`
	Extra    []string `json:"extra"`
	Coverage *float64 `json:"coverage"`
}

type Result struct {
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
	Breakdown Breakdown `json:"breakdown"`
}

// Compute scores a candidate against a job by required-skill coverage.
func Compute(in Input) Result {
	jobSkills := skills.NormalizeStrings(in.JobSkills)
	candidateSkills := skills.NormalizeStrings(in.CandidateSkills)

	if len(jobSkills) == 0 {
		return Result{
			Score:   neutralScore,
			Reasons: []string{"the job declares no required skills (neutral default: 50)"},
			Breakdown: Breakdown{
				Matched:  []string{},
				Missing:  []string{},
				Extra:    candidateSkills,
				Coverage: nil,
			},
		}
	}

	if len(candidateSkills) == 0 {
		return Result{
			Score:   0,
			Reasons: []string{"no skills found in the candidate profile; analyze or complete your resume"},
			Breakdown: Breakdown{
				Matched:  []string{},
				Missing:  jobSkills,
				Extra:    []string{},
				Coverage: lo.ToPtr(0.0),
			},
		}
	}

	candidateSet := toSet(candidateSkills)
	jobSet := toSet(jobSkills)

	matched := lo.Filter(jobSkills, func(s string, _ int) bool { return has(candidateSet, s) })
	missing := lo.Filter(jobSkills, func(s string, _ int) bool { return !has(candidateSet, s) })
	extra := lo.Filter(candidateSkills, func(s string, _ int) bool { return !has(jobSet, s) })

	coverage := float64(len(matched)) / float64(len(jobSkills))

	return Result{
		Score:   int(math.Round(coverage * 100)),
		Reasons: reasons(matched, missing, extra),
		Breakdown: Breakdown{
			Matched:  matched,
			Missing:  missing,
			Extra:    extra,
			Coverage: &coverage,
		},
	}
}

func reasons(matched, missing, extra []string) []string {
	out := make([]string, 0, 3)
	if len(matched) > 0 {
		out = append(out, "matched: "+strings.Join(matched, ", "))
	}
	if len(missing) > 0 {
		out = append(out, "missing: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		out = append(out, "extra (not required): "+strings.Join(extra, ", "))
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
