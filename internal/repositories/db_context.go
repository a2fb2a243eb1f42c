package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/maxaizer/job-assistant/internal/entities"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(driver, connectionString string) (*DbContext, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSqlite, "":
		dialector = sqlite.Open(connectionString)
	case DriverPostgres:
		dialector = postgres.Open(connectionString)
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	models := []any{
		entities.User{},
		entities.Job{},
		entities.Resume{},
		entities.Match{},
		entities.ApplicationDraft{},
		entities.AiUsage{},
		entities.UsageEvent{},
	}
	for _, model := range models {
		if err := c.DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T entity: %w", model, err)
		}
	}

	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_source_external_id ON jobs (source, external_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_user_job ON matches (user_id, job_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_application_drafts_user_job ON application_drafts (user_id, job_id)",
	}
	for _, index := range indexes {
		if err := c.DB.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (c *DbContext) Ping() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}
	return db.Ping()
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
