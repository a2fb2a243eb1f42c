package repositories

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

var emptySkills = datatypes.JSON("[]")

type Resumes struct {
	db *gorm.DB
}

func NewResumesRepository(db *gorm.DB) *Resumes {
	return &Resumes{db: db}
}

func (repo *Resumes) GetByUser(ctx context.Context, userID string) (*entities.Resume, error) {
	var resume entities.Resume
	if err := repo.db.WithContext(ctx).First(&resume, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resume, nil
}

// SaveText stores freshly extracted resume text. The previous analysis no
// longer describes the text, so skills and years are reset.
func (repo *Resumes) SaveText(ctx context.Context, userID, text string) (*entities.Resume, error) {
	resume := entities.Resume{UserID: userID, Text: text, Skills: emptySkills}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"text":       text,
				"skills":     emptySkills,
				"years_exp":  nil,
				"updated_at": time.Now(),
			}),
		}).
		Create(&resume).Error
	if err != nil {
		return nil, err
	}
	return repo.GetByUser(ctx, userID)
}

func (repo *Resumes) SaveProfile(ctx context.Context, userID string, profile []byte, yearsExp int) error {
	res := repo.db.WithContext(ctx).
		Model(&entities.Resume{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"skills":    datatypes.JSON(profile),
			"years_exp": yearsExp,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
