package repositories

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Drafts struct {
	db *gorm.DB
}

func NewDraftsRepository(db *gorm.DB) *Drafts {
	return &Drafts{db: db}
}

func (repo *Drafts) Get(ctx context.Context, userID, jobID string) (*entities.ApplicationDraft, error) {
	var draft entities.ApplicationDraft
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

// Upsert writes the single draft of a (user, job) pair. The unique index on
// those columns makes concurrent writers converge on one row.
func (repo *Drafts) Upsert(ctx context.Context, userID, jobID, coverLetter string) (*entities.ApplicationDraft, error) {
	draft := entities.ApplicationDraft{UserID: userID, JobID: jobID, CoverLetter: coverLetter}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cover_letter", "updated_at"}),
		}).
		Create(&draft).Error
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, userID, jobID)
}
