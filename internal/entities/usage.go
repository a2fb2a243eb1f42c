package entities

import (
	"gorm.io/datatypes"
	"time"
)

type AiUsageStatus string

const (
	AiUsageOK    AiUsageStatus = "ok"
	AiUsageError AiUsageStatus = "error"
)

type AiUsage struct {
	ID               int     `gorm:"primaryKey"`
	UserID           *string `gorm:"index"`
	Endpoint         string
	Method           string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	LatencyMs        int
	Status           AiUsageStatus
	Error            *string
	CostUsd          *float64
	CreatedAt        time.Time `gorm:"index"`
}

const (
	EventCoverLetterCreated     = "cover_letter_created"
	EventCoverLetterRegenerated = "cover_letter_regenerated"
	EventCoverLetterEdited      = "cover_letter_edited"
	EventMatchComputed          = "match_computed"
	EventResumeAnalyzed         = "resume_analyzed"
	EventJobsIngested           = "jobs_ingested"
)

type UsageEvent struct {
	ID        int     `gorm:"primaryKey"`
	UserID    *string `gorm:"index"`
	Type      string  `gorm:"index"`
	RefID     *string
	Meta      datatypes.JSON
	CreatedAt time.Time `gorm:"index"`
}
