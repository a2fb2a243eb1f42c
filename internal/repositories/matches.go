package repositories

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Matches struct {
	db *gorm.DB
}

func NewMatchesRepository(db *gorm.DB) *Matches {
	return &Matches{db: db}
}

func (repo *Matches) Upsert(ctx context.Context, match entities.Match) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "reasons", "updated_at"}),
		}).
		Create(&match).Error
}

func (repo *Matches) Get(ctx context.Context, userID, jobID string) (*entities.Match, error) {
	var matches []entities.Match
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Limit(1).
		Find(&matches).Error; err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}
