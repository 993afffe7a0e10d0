package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error

	// FindFeed returns one page of activities visible to the viewer:
	// community-scoped (membership), the viewer's own, or addressed to the
	// viewer. Newest first, id as tie-break.
	FindFeed(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID, offset, limit int) ([]*model.Activity, error)
	CountFeed(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID) (int64, error)

	// FindUnread returns unread activities for the viewer, excluding the
	// viewer's own actions. CountUnread counts the full unread set
	// regardless of limit.
	FindUnread(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID, limit int) ([]*model.Activity, error)
	CountUnread(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID) (int64, error)

	// MarkRead flips the given ids to read, restricted to the viewer's
	// unread set; ids outside it are silently skipped.
	MarkRead(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID, ids []uuid.UUID) error
	MarkAllRead(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID) error

	// CountActiveDays counts distinct calendar days with at least one
	// activity by the user in [from, to]; a zero "to" means unbounded.
	CountActiveDays(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) feedScope(db *gorm.DB, viewerID uuid.UUID, communityIDs []uuid.UUID) *gorm.DB {
	if len(communityIDs) == 0 {
		return db.Where("user_id = ? OR recipient_id = ?", viewerID, viewerID)
	}
	return db.Where("community_id IN ? OR user_id = ? OR recipient_id = ?", communityIDs, viewerID, viewerID)
}

// unreadScope excludes the viewer's own actions: a user's activity never
// counts as a notification to themselves.
func (r *activityRepository) unreadScope(db *gorm.DB, viewerID uuid.UUID, communityIDs []uuid.UUID) *gorm.DB {
	db = db.Where("is_read = ?", false)
	if len(communityIDs) == 0 {
		db = db.Where("recipient_id = ?", viewerID)
	} else {
		db = db.Where("community_id IN ? OR recipient_id = ?", communityIDs, viewerID)
	}
	return db.Where("user_id IS NULL OR user_id <> ?", viewerID)
}

func (r *activityRepository) FindFeed(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID, offset, limit int) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := r.feedScope(r.db.WithContext(ctx), viewerID, communityIDs).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "external_id", "name", "avatar_url", "email", "created_at")
		}).
		Preload("Community").
		Preload("Post").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) CountFeed(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID) (int64, error) {
	var count int64
	err := r.feedScope(r.db.WithContext(ctx).Model(&model.Activity{}), viewerID, communityIDs).
		Count(&count).Error
	return count, err
}

func (r *activityRepository) FindUnread(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID, limit int) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := r.unreadScope(r.db.WithContext(ctx), viewerID, communityIDs).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "external_id", "name", "avatar_url", "email", "created_at")
		}).
		Preload("Community").
		Preload("Post").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) CountUnread(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID) (int64, error) {
	var count int64
	err := r.unreadScope(r.db.WithContext(ctx).Model(&model.Activity{}), viewerID, communityIDs).
		Count(&count).Error
	return count, err
}

func (r *activityRepository) MarkRead(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID, ids []uuid.UUID) error {
	return r.unreadScope(r.db.WithContext(ctx).Model(&model.Activity{}), viewerID, communityIDs).
		Where("id IN ?", ids).
		Update("is_read", true).Error
}

func (r *activityRepository) MarkAllRead(ctx context.Context, viewerID uuid.UUID, communityIDs []uuid.UUID) error {
	return r.unreadScope(r.db.WithContext(ctx).Model(&model.Activity{}), viewerID, communityIDs).
		Update("is_read", true).Error
}

func (r *activityRepository) CountActiveDays(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	// DATE() works for timestamp columns on both postgres and sqlite.
	query := r.db.WithContext(ctx).Model(&model.Activity{}).
		Select("COUNT(DISTINCT DATE(created_at))").
		Where("user_id = ? AND created_at >= ?", userID, from)
	if !to.IsZero() {
		query = query.Where("created_at <= ?", to)
	}

	var count int64
	err := query.Scan(&count).Error
	return count, err
}
