package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/hobbyhub/backend/pkg/storage"
	"gorm.io/gorm"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, userID uuid.UUID, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error)
	GetCommunityByID(ctx context.Context, id uuid.UUID) (*dto.CommunityResponse, error)
	GetCommunitiesByHobby(ctx context.Context, hobbyID uuid.UUID) ([]dto.CommunityResponse, error)
	JoinCommunity(ctx context.Context, userID uuid.UUID, communityID uuid.UUID) (*dto.MembershipResponse, error)
	UploadCoverImage(ctx context.Context, userID uuid.UUID, communityID uuid.UUID, r io.Reader, fileName string) (string, error)
}

type communityService struct {
	communityRepo repository.CommunityRepository
	hobbyRepo     repository.HobbyRepository
	userRepo      repository.UserRepository
	activitySvc   ActivityService
	fileStorage   storage.ImageStorage
}

func NewCommunityService(communityRepo repository.CommunityRepository, hobbyRepo repository.HobbyRepository, userRepo repository.UserRepository, activitySvc ActivityService, fileStorage storage.ImageStorage) CommunityService {
	return &communityService{
		communityRepo: communityRepo,
		hobbyRepo:     hobbyRepo,
		userRepo:      userRepo,
		activitySvc:   activitySvc,
		fileStorage:   fileStorage,
	}
}

func (s *communityService) CreateCommunity(ctx context.Context, userID uuid.UUID, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	hobbyID, err := uuid.Parse(req.HobbyID)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "a hobby must be selected for the community")
	}

	if _, err := s.hobbyRepo.FindByID(ctx, hobbyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "selected hobby not found")
		}
		return nil, err
	}

	community := &model.Community{
		Name:        req.Name,
		Description: req.Description,
		HobbyID:     hobbyID,
		CreatorID:   userID,
	}

	// Community plus the creator's ADMIN membership land in one
	// transaction inside the repository.
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	memberCount, err := s.communityRepo.CountMembers(ctx, community.ID)
	if err != nil {
		memberCount = 1
	}

	resp := dto.NewCommunityResponse(community, memberCount)
	return &resp, nil
}

func (s *communityService) GetCommunityByID(ctx context.Context, id uuid.UUID) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "community not found")
		}
		return nil, err
	}

	memberCount, err := s.communityRepo.CountMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewCommunityResponse(community, memberCount)
	return &resp, nil
}

func (s *communityService) GetCommunitiesByHobby(ctx context.Context, hobbyID uuid.UUID) ([]dto.CommunityResponse, error) {
	communities, err := s.communityRepo.FindByHobbyID(ctx, hobbyID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CommunityResponse, 0, len(communities))
	for _, c := range communities {
		resp = append(resp, dto.NewCommunityResponse(c, int64(len(c.Members))))
	}
	return resp, nil
}

func (s *communityService) JoinCommunity(ctx context.Context, userID uuid.UUID, communityID uuid.UUID) (*dto.MembershipResponse, error) {
	if _, err := s.communityRepo.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "community not found")
		}
		return nil, err
	}

	isMember, err := s.communityRepo.IsMember(ctx, userID, communityID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "you are already a member of this community")
	}

	member := &model.Member{
		UserID:      userID,
		CommunityID: communityID,
		Role:        model.RoleMember,
	}
	if err := s.communityRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrBadRequest, "you are already a member of this community")
		}
		return nil, fmt.Errorf("failed to join community: %w", err)
	}

	// The membership row is already durable; a failed activity write only
	// loses the feed entry.
	user, userErr := s.userRepo.FindByID(ctx, userID)
	name := "Someone"
	if userErr == nil {
		name = user.Name
	}
	if err := s.activitySvc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityUserJoined,
		Content:     fmt.Sprintf("%s joined the community", name),
		UserID:      &userID,
		CommunityID: &communityID,
	}); err != nil {
		log.Printf("Failed to record user_joined activity for user %s: %v", userID, err)
	}

	resp := dto.NewMembershipResponse(member)
	return &resp, nil
}

func (s *communityService) UploadCoverImage(ctx context.Context, userID uuid.UUID, communityID uuid.UUID, r io.Reader, fileName string) (string, error) {
	if s.fileStorage == nil {
		return "", apperror.Wrap(apperror.ErrInternal, "image storage is not configured")
	}

	community, err := s.communityRepo.FindByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.Wrap(apperror.ErrNotFound, "community not found")
		}
		return "", err
	}

	isAdmin, err := s.communityRepo.IsAdmin(ctx, userID, communityID)
	if err != nil {
		return "", err
	}
	if !isAdmin {
		return "", apperror.Wrap(apperror.ErrForbidden, "only community admins can update the cover image")
	}

	url, err := s.fileStorage.UploadImage(ctx, r, "communities", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to upload cover image: %w", err)
	}

	old := community.ImageURL
	community.ImageURL = &url
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return "", err
	}

	if old != nil && *old != url {
		if err := s.fileStorage.DeleteImage(ctx, *old); err != nil {
			log.Printf("Failed to delete old cover image for community %s: %v", communityID, err)
		}
	}

	return url, nil
}
