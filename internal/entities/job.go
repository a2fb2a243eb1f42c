package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"time"
)

// Job is a normalized posting. (Source, ExternalID) is unique and is the
// ingestion upsert key.
type Job struct {
	ID             string                      `gorm:"primaryKey" json:"id"`
	Source         string                      `gorm:"not null" json:"source"`
	ExternalID     string                      `gorm:"not null" json:"externalId"`
	Title          string                      `json:"title"`
	Company        string                      `json:"company"`
	Location       *string                     `json:"location"`
	Description    string                      `json:"description"`
	SkillsRequired datatypes.JSONSlice[string] `json:"skillsRequired"`
	URL            *string                     `json:"url"`
	CreatedAt      time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                   `json:"-"`
}

func (j *Job) BeforeCreate(*gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// Skills returns the required skills as a plain slice, never nil.
func (j *Job) Skills() []string {
	if j.SkillsRequired == nil {
		return []string{}
	}
	return []string(j.SkillsRequired)
}
