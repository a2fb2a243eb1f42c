package entities

import (
	"github.com/google/uuid"
	"github.com/maxaizer/job-assistant/internal/skills"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"time"
)

// Resume holds the extracted text and the analyzed profile of a user. Skills
// is either a flat JSON array (legacy) or a structured profile object.
type Resume struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex;not null"`
	Text      string
	Skills    datatypes.JSON
	YearsExp  *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Resume) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Resume) Profile() skills.Profile {
	return skills.ParseProfile(r.Skills)
}
