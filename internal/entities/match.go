package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"time"
)

type Match struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null"`
	JobID     string `gorm:"not null"`
	Score     int
	Reasons   datatypes.JSONSlice[string]
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Match) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type ApplicationDraft struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null" json:"-"`
	JobID       string    `gorm:"not null" json:"-"`
	CoverLetter string    `json:"coverLetter"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *ApplicationDraft) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
