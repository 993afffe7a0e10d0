package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"gorm.io/gorm"
)

type HobbyRepository interface {
	Create(ctx context.Context, hobby *model.Hobby) error
	Update(ctx context.Context, hobby *model.Hobby) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Hobby, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Hobby, error)
	FindAll(ctx context.Context) ([]*model.Hobby, error)
	Count(ctx context.Context) (int64, error)
}

type hobbyRepository struct {
	db *gorm.DB
}

func NewHobbyRepository(db *gorm.DB) HobbyRepository {
	return &hobbyRepository{db: db}
}

func (r *hobbyRepository) Create(ctx context.Context, hobby *model.Hobby) error {
	return r.db.WithContext(ctx).Create(hobby).Error
}

func (r *hobbyRepository) Update(ctx context.Context, hobby *model.Hobby) error {
	return r.db.WithContext(ctx).Save(hobby).Error
}

func (r *hobbyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Hobby, error) {
	var hobby model.Hobby
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&hobby).Error; err != nil {
		return nil, err
	}
	return &hobby, nil
}

func (r *hobbyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Hobby, error) {
	var hobbies []*model.Hobby
	if len(ids) == 0 {
		return hobbies, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&hobbies).Error; err != nil {
		return nil, err
	}
	return hobbies, nil
}

func (r *hobbyRepository) FindAll(ctx context.Context) ([]*model.Hobby, error) {
	var hobbies []*model.Hobby
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&hobbies).Error; err != nil {
		return nil, err
	}
	return hobbies, nil
}

func (r *hobbyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Hobby{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
