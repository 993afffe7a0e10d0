package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"gorm.io/gorm"
)

// StatsRepository holds the aggregate count queries behind the dashboard.
// Every method is a single independent read; a zero "from"/"to" means that
// bound is open.
type StatsRepository interface {
	CountPosts(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountComments(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountLikesGiven(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountMemberships(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	CountLikesReceived(ctx context.Context, userID uuid.UUID) (int64, error)

	// TopCommunityByMembership returns the community with the most
	// membership rows for this user (in practice at most one row per
	// community; kept as a grouping query for extensibility).
	TopCommunityByMembership(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
	// TopCommunityByPosts returns the community where the user has
	// authored the most posts.
	TopCommunityByPosts(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)

	// RecentPosts returns the user's newest posts since "from", at most
	// limit rows.
	RecentPosts(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]*model.Post, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func rangeFilter(db *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("created_at <= ?", to)
	}
	return db
}

func (r *statsRepository) CountPosts(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := rangeFilter(
		r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", userID),
		from, to,
	).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountComments(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := rangeFilter(
		r.db.WithContext(ctx).Model(&model.Comment{}).Where("author_id = ?", userID),
		from, to,
	).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountLikesGiven(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := rangeFilter(
		r.db.WithContext(ctx).Model(&model.Like{}).Where("user_id = ?", userID),
		from, to,
	).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountMemberships(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := rangeFilter(
		r.db.WithContext(ctx).Model(&model.Member{}).Where("user_id = ?", userID),
		from, to,
	).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountLikesReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ?", userID).
		Count(&count).Error
	return count, err
}

type communityCount struct {
	CommunityID uuid.UUID
	Cnt         int64
}

func (r *statsRepository) TopCommunityByMembership(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	return r.topCommunity(ctx, r.db.WithContext(ctx).Model(&model.Member{}).Where("user_id = ?", userID))
}

func (r *statsRepository) TopCommunityByPosts(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	return r.topCommunity(ctx, r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", userID))
}

func (r *statsRepository) topCommunity(ctx context.Context, query *gorm.DB) (uuid.UUID, bool, error) {
	var rows []communityCount
	err := query.
		Select("community_id, COUNT(*) as cnt").
		Group("community_id").
		Order("cnt DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return uuid.Nil, false, err
	}
	if len(rows) == 0 {
		return uuid.Nil, false, nil
	}
	return rows[0].CommunityID, true, nil
}

func (r *statsRepository) RecentPosts(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND created_at >= ?", userID, from).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
