package repositories

import (
	"context"
	"github.com/maxaizer/job-assistant/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"strings"
)

type Users struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (repo *Users) FindOrCreateByEmail(ctx context.Context, email string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&entities.User{Email: email}).Error
	if err != nil {
		return nil, err
	}

	var user entities.User
	if err = repo.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Users) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}
