package repositories

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/job-assistant/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"strings"
)

// JobFilter describes a jobs listing request. Page is 1-based.
type JobFilter struct {
	Q        string `form:"q" validate:"max=200"`
	Location string `form:"location" validate:"max=120"`
	Skill    string `form:"skill" validate:"max=80"`
	Page     int    `form:"page" validate:"min=1"`
	PageSize int    `form:"pageSize" validate:"min=1,max=50"`
}

// JobKey is the natural identity of a job within its feed.
type JobKey struct {
	Source     string
	ExternalID string
}

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (repo *Jobs) GetByID(ctx context.Context, id string) (*entities.Job, error) {
	var job entities.Job
	if err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// List returns one page of jobs, newest first, and the total number of jobs
// matching the filter.
func (repo *Jobs) List(ctx context.Context, filter JobFilter) ([]entities.Job, int64, error) {
	query := repo.db.WithContext(ctx).Model(&entities.Job{})

	if q := strings.ToLower(strings.TrimSpace(filter.Q)); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(company) LIKE ? ESCAPE '\\' OR "+
				"LOWER(COALESCE(location, '')) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern)
	}

	if location := strings.ToLower(strings.TrimSpace(filter.Location)); location != "" {
		query = query.Where("LOWER(COALESCE(location, '')) LIKE ? ESCAPE '\\'", "%"+escapeLike(location)+"%")
	}

	if skill := strings.ToLower(strings.TrimSpace(filter.Skill)); skill != "" {
		// skills are stored as a JSON array of strings, so an exact element
		// match is the quoted JSON string somewhere in the column.
		element, _ := json.Marshal(skill)
		query = query.Where("CAST(skills_required AS TEXT) LIKE ? ESCAPE '\\'", "%"+escapeLike(string(element))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []entities.Job
	if err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ExistingKeys reports which of the given keys are already stored.
func (repo *Jobs) ExistingKeys(ctx context.Context, keys []JobKey) (map[JobKey]bool, error) {
	existing := make(map[JobKey]bool)
	if len(keys) == 0 {
		return existing, nil
	}

	sources := make([]string, 0, len(keys))
	externalIDs := make([]string, 0, len(keys))
	wanted := make(map[JobKey]bool, len(keys))
	for _, key := range keys {
		sources = append(sources, key.Source)
		externalIDs = append(externalIDs, key.ExternalID)
		wanted[key] = true
	}

	var rows []JobKey
	if err := repo.db.WithContext(ctx).Model(&entities.Job{}).
		Select("source, external_id").
		Where("source IN ? AND external_id IN ?", sources, externalIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		if wanted[row] {
			existing[row] = true
		}
	}
	return existing, nil
}

// Upsert inserts the job or refreshes its content when (source, external_id)
// already exists.
func (repo *Jobs) Upsert(ctx context.Context, job entities.Job) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "company", "location", "description", "skills_required", "url", "updated_at",
			}),
		}).
		Create(&job).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
