package service

import (
	"context"

	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"golang.org/x/sync/errgroup"
)

type StatService interface {
	GetOverview(ctx context.Context) (*dto.PlatformStatsResponse, error)
}

type statService struct {
	userRepo      repository.UserRepository
	hobbyRepo     repository.HobbyRepository
	communityRepo repository.CommunityRepository
	postRepo      repository.PostRepository
}

func NewStatService(userRepo repository.UserRepository, hobbyRepo repository.HobbyRepository, communityRepo repository.CommunityRepository, postRepo repository.PostRepository) StatService {
	return &statService{
		userRepo:      userRepo,
		hobbyRepo:     hobbyRepo,
		communityRepo: communityRepo,
		postRepo:      postRepo,
	}
}

func (s *statService) GetOverview(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	var resp dto.PlatformStatsResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.TotalUsers, err = s.userRepo.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		resp.TotalHobbies, err = s.hobbyRepo.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		resp.TotalCommunities, err = s.communityRepo.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		resp.TotalPosts, err = s.postRepo.Count(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.New(apperror.MapErrorToStatus(err), "failed to fetch platform statistics", err)
	}
	return &resp, nil
}
