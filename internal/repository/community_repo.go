package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"gorm.io/gorm"
)

type CommunityRepository interface {
	// Create inserts the community and its creator's ADMIN membership in
	// one transaction.
	Create(ctx context.Context, community *model.Community) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Community, error)
	FindByHobbyID(ctx context.Context, hobbyID uuid.UUID) ([]*model.Community, error)
	Update(ctx context.Context, community *model.Community) error
	Count(ctx context.Context) (int64, error)

	AddMember(ctx context.Context, member *model.Member) error
	FindMembership(ctx context.Context, userID, communityID uuid.UUID) (*model.Member, error)
	IsMember(ctx context.Context, userID, communityID uuid.UUID) (bool, error)
	IsAdmin(ctx context.Context, userID, communityID uuid.UUID) (bool, error)
	FindCommunityIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountMembers(ctx context.Context, communityID uuid.UUID) (int64, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *model.Community) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		member := model.Member{
			UserID:      community.CreatorID,
			CommunityID: community.ID,
			Role:        model.RoleAdmin,
		}
		return tx.Create(&member).Error
	})
}

func (r *communityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Community, error) {
	var community model.Community
	if err := r.db.WithContext(ctx).
		Preload("Hobby").
		Preload("Creator").
		Where("id = ?", id).
		First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) FindByHobbyID(ctx context.Context, hobbyID uuid.UUID) ([]*model.Community, error) {
	var communities []*model.Community
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "user_id", "community_id", "role")
		}).
		Where("hobby_id = ?", hobbyID).
		Order("created_at DESC").
		Find(&communities).Error
	return communities, err
}

func (r *communityRepository) Update(ctx context.Context, community *model.Community) error {
	return r.db.WithContext(ctx).Save(community).Error
}

func (r *communityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Community{}).Count(&count).Error
	return count, err
}

func (r *communityRepository) AddMember(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *communityRepository) FindMembership(ctx context.Context, userID, communityID uuid.UUID) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *communityRepository) IsMember(ctx context.Context, userID, communityID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Count(&count).Error
	return count > 0, err
}

func (r *communityRepository) IsAdmin(ctx context.Context, userID, communityID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("user_id = ? AND community_id = ? AND role = ?", userID, communityID, model.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}

func (r *communityRepository) FindCommunityIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error
	return ids, err
}

func (r *communityRepository) CountMembers(ctx context.Context, communityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	return count, err
}
