package events

import "time"

var (
	MatchComputedTopic    = "MatchComputedEvent"
	CoverLetterSavedTopic = "CoverLetterSavedEvent"
	ResumeAnalyzedTopic   = "ResumeAnalyzedEvent"
	JobsIngestedTopic     = "JobsIngestedEvent"
	AiCallFinishedTopic   = "AiCallFinishedEvent"
)

type MatchComputed struct {
	UserID string
	JobID  string
	Score  int
}

type CoverLetterOrigin string

const (
	CoverLetterCreated     CoverLetterOrigin = "created"
	CoverLetterRegenerated CoverLetterOrigin = "regenerated"
	CoverLetterEdited      CoverLetterOrigin = "edited"
)

type CoverLetterSaved struct {
	UserID  string
	JobID   string
	DraftID string
	Origin  CoverLetterOrigin
	Words   int
}

type ResumeAnalyzed struct {
	UserID   string
	ResumeID string
	Skills   int
}

type JobsIngested struct {
	Source   string
	Total    int
	Created  int
	Updated  int
	Skipped  int
	Rejected int
}

// AiCallFinished is published after every language model call, failed or not.
type AiCallFinished struct {
	UserID           string
	Endpoint         string
	Method           string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Latency          time.Duration
	Err              error
}
