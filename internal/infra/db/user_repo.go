package db

import (
	"context"
	"errors"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).First(&model, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapUserToDomain(model), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	model := mapUserToModel(*user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func mapUserToDomain(model userModel) *domain.User {
	var deleted *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deleted = &t
	}
	return &domain.User{
		ID:                 model.ID,
		Email:              model.Email,
		Name:               model.Name,
		EmailNotifications: model.EmailNotifications,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
		DeletedAt:          deleted,
	}
}

func mapUserToModel(user domain.User) userModel {
	return userModel{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		EmailNotifications: user.EmailNotifications,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}
