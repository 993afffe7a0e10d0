package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultFeedPageSize = 20
	MaxFeedPageSize     = 100
	DefaultUnreadLimit  = 5
	MaxUnreadLimit      = 50
)

// RecordActivityParams describes one append to the activity log.
type RecordActivityParams struct {
	Type        string
	Content     string
	UserID      *uuid.UUID
	CommunityID *uuid.UUID
	PostID      *uuid.UUID
	RecipientID *uuid.UUID
	Metadata    model.ActivityMetadata
}

// ActivityService is the activity log: a fan-out writer invoked by the
// mutating services, plus the feed, notification, and mark-as-read readers.
//
// Record is deliberately not transactional with the caller's primary write.
// Callers treat a failed Record as a degraded outcome (the notification is
// lost) rather than rolling back the primary action.
type ActivityService interface {
	Record(ctx context.Context, params RecordActivityParams) error
	Feed(ctx context.Context, viewerID uuid.UUID, page, limit int) (*dto.FeedResponse, error)
	Unread(ctx context.Context, viewerID uuid.UUID, limit int) (*dto.UnreadResponse, error)
	MarkRead(ctx context.Context, viewerID uuid.UUID, ids []uuid.UUID) error
	MarkAllRead(ctx context.Context, viewerID uuid.UUID) error
}

type activityService struct {
	activityRepo  repository.ActivityRepository
	communityRepo repository.CommunityRepository
	redisClient   *redis.Client
}

func NewActivityService(activityRepo repository.ActivityRepository, communityRepo repository.CommunityRepository, redisClient *redis.Client) ActivityService {
	return &activityService{
		activityRepo:  activityRepo,
		communityRepo: communityRepo,
		redisClient:   redisClient,
	}
}

func (s *activityService) Record(ctx context.Context, params RecordActivityParams) error {
	if !model.ValidActivityType(params.Type) {
		return apperror.Wrap(apperror.ErrInvalidInput, fmt.Sprintf("unknown activity type: %s", params.Type))
	}

	activity := &model.Activity{
		Type:        params.Type,
		Content:     params.Content,
		UserID:      params.UserID,
		CommunityID: params.CommunityID,
		PostID:      params.PostID,
		RecipientID: params.RecipientID,
		Metadata:    params.Metadata,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return err
	}

	// Push to the recipient's live channel when Redis is around. Purely
	// best effort: the row is already durable.
	if s.redisClient != nil && params.RecipientID != nil {
		channel := fmt.Sprintf("user_activities:%s", params.RecipientID.String())
		if payload, err := json.Marshal(activity); err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *activityService) Feed(ctx context.Context, viewerID uuid.UUID, page, limit int) (*dto.FeedResponse, error) {
	if viewerID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFeedPageSize
	}
	if limit > MaxFeedPageSize {
		limit = MaxFeedPageSize
	}

	communityIDs, err := s.communityRepo.FindCommunityIDsByUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity feed: %w", err)
	}

	total, err := s.activityRepo.CountFeed(ctx, viewerID, communityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity feed: %w", err)
	}

	offset := (page - 1) * limit
	activities, err := s.activityRepo.FindFeed(ctx, viewerID, communityIDs, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity feed: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	resp := &dto.FeedResponse{
		Activities:  make([]dto.ActivityResponse, 0, len(activities)),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	for _, a := range activities {
		resp.Activities = append(resp.Activities, dto.NewActivityResponse(a))
	}
	return resp, nil
}

func (s *activityService) Unread(ctx context.Context, viewerID uuid.UUID, limit int) (*dto.UnreadResponse, error) {
	if viewerID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	if limit < 1 {
		limit = DefaultUnreadLimit
	}
	if limit > MaxUnreadLimit {
		limit = MaxUnreadLimit
	}

	communityIDs, err := s.communityRepo.FindCommunityIDsByUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread activities: %w", err)
	}

	activities, err := s.activityRepo.FindUnread(ctx, viewerID, communityIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread activities: %w", err)
	}

	// The count query runs over the same predicate, independent of the
	// limit applied to the list.
	totalUnread, err := s.activityRepo.CountUnread(ctx, viewerID, communityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread activities: %w", err)
	}

	resp := &dto.UnreadResponse{
		Activities:  make([]dto.ActivityResponse, 0, len(activities)),
		TotalUnread: totalUnread,
	}
	for _, a := range activities {
		resp.Activities = append(resp.Activities, dto.NewActivityResponse(a))
	}
	return resp, nil
}

func (s *activityService) MarkRead(ctx context.Context, viewerID uuid.UUID, ids []uuid.UUID) error {
	if viewerID == uuid.Nil {
		return apperror.ErrUnauthorized
	}
	if len(ids) == 0 {
		return nil
	}

	communityIDs, err := s.communityRepo.FindCommunityIDsByUser(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("failed to mark activities as read: %w", err)
	}

	if err := s.activityRepo.MarkRead(ctx, viewerID, communityIDs, ids); err != nil {
		return fmt.Errorf("failed to mark activities as read: %w", err)
	}
	return nil
}

func (s *activityService) MarkAllRead(ctx context.Context, viewerID uuid.UUID) error {
	if viewerID == uuid.Nil {
		return apperror.ErrUnauthorized
	}

	communityIDs, err := s.communityRepo.FindCommunityIDsByUser(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("failed to mark activities as read: %w", err)
	}

	if err := s.activityRepo.MarkAllRead(ctx, viewerID, communityIDs); err != nil {
		return fmt.Errorf("failed to mark activities as read: %w", err)
	}
	return nil
}
