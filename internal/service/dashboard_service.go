package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DashboardService interface {
	GetStatistics(ctx context.Context, userID uuid.UUID) (*dto.DashboardStatisticsResponse, error)
	GetEngagementSummary(ctx context.Context, userID uuid.UUID) (*dto.EngagementSummaryResponse, error)
}

type dashboardService struct {
	userRepo      repository.UserRepository
	statsRepo     repository.StatsRepository
	activityRepo  repository.ActivityRepository
	communityRepo repository.CommunityRepository
	postRepo      repository.PostRepository

	// now is swappable so the month windows are testable.
	now func() time.Time
}

func NewDashboardService(userRepo repository.UserRepository, statsRepo repository.StatsRepository, activityRepo repository.ActivityRepository, communityRepo repository.CommunityRepository, postRepo repository.PostRepository) DashboardService {
	return &dashboardService{
		userRepo:      userRepo,
		statsRepo:     statsRepo,
		activityRepo:  activityRepo,
		communityRepo: communityRepo,
		postRepo:      postRepo,
		now:           time.Now,
	}
}

// calculateGrowth returns the rounded percent change between two counts.
// Going from zero to anything counts as +100%, and zero to zero as 0 —
// a deliberate policy, not an accident of division.
func calculateGrowth(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

type monthRanges struct {
	currentStart  time.Time
	previousStart time.Time
	previousEnd   time.Time
}

// getMonthRanges computes the two disjoint calendar windows: the current
// month from its first day to now, and the whole previous month inclusive
// of its final day.
func getMonthRanges(now time.Time) monthRanges {
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return monthRanges{
		currentStart:  currentStart,
		previousStart: currentStart.AddDate(0, -1, 0),
		previousEnd:   currentStart.Add(-time.Nanosecond),
	}
}

type windowMetrics struct {
	posts       int64
	comments    int64
	likes       int64
	communities int64
	activeDays  int64
}

func (s *dashboardService) collectWindow(ctx context.Context, userID uuid.UUID, from, to time.Time) (*windowMetrics, error) {
	var m windowMetrics

	// The five counts are independent reads; fan them out.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.posts, err = s.statsRepo.CountPosts(gctx, userID, from, to)
		return
	})
	g.Go(func() (err error) {
		m.comments, err = s.statsRepo.CountComments(gctx, userID, from, to)
		return
	})
	g.Go(func() (err error) {
		m.likes, err = s.statsRepo.CountLikesGiven(gctx, userID, from, to)
		return
	})
	g.Go(func() (err error) {
		m.communities, err = s.statsRepo.CountMemberships(gctx, userID, from, to)
		return
	})
	g.Go(func() (err error) {
		m.activeDays, err = s.activityRepo.CountActiveDays(gctx, userID, from, to)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *dashboardService) GetStatistics(ctx context.Context, userID uuid.UUID) (*dto.DashboardStatisticsResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "user not found")
		}
		return nil, err
	}

	now := s.now()
	ranges := getMonthRanges(now)

	var (
		current, previous *windowMetrics

		communitiesJoined int64
		postsCreated      int64
		commentsPosted    int64
		likesReceived     int64
		likesGiven        int64
		activeDays30      int64

		favoriteID   uuid.UUID
		favoriteOK   bool
		mostActiveID uuid.UUID
		mostActiveOK bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.collectWindow(gctx, userID, ranges.currentStart, time.Time{})
		return
	})
	g.Go(func() (err error) {
		previous, err = s.collectWindow(gctx, userID, ranges.previousStart, ranges.previousEnd)
		return
	})
	g.Go(func() (err error) {
		communitiesJoined, err = s.statsRepo.CountMemberships(gctx, userID, time.Time{}, time.Time{})
		return
	})
	g.Go(func() (err error) {
		postsCreated, err = s.statsRepo.CountPosts(gctx, userID, time.Time{}, time.Time{})
		return
	})
	g.Go(func() (err error) {
		commentsPosted, err = s.statsRepo.CountComments(gctx, userID, time.Time{}, time.Time{})
		return
	})
	g.Go(func() (err error) {
		likesReceived, err = s.statsRepo.CountLikesReceived(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		likesGiven, err = s.statsRepo.CountLikesGiven(gctx, userID, time.Time{}, time.Time{})
		return
	})
	g.Go(func() (err error) {
		activeDays30, err = s.activityRepo.CountActiveDays(gctx, userID, now.AddDate(0, 0, -30), time.Time{})
		return
	})
	g.Go(func() (err error) {
		favoriteID, favoriteOK, err = s.statsRepo.TopCommunityByMembership(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		mostActiveID, mostActiveOK, err = s.statsRepo.TopCommunityByPosts(gctx, userID)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.New(apperror.MapErrorToStatus(err), "failed to fetch dashboard statistics", err)
	}

	// Resolving the winning group to a hobby label is the one inherently
	// sequential step: group first, then look up the name.
	favoriteHobbyName := s.hobbyNameForCommunity(ctx, favoriteID, favoriteOK)
	mostActiveHobbyName := s.hobbyNameForCommunity(ctx, mostActiveID, mostActiveOK)

	currentEngagement := current.likes + current.comments
	previousEngagement := previous.likes + previous.comments
	totalEngagement := likesReceived + commentsPosted

	resp := &dto.DashboardStatisticsResponse{
		CommunitiesJoined: communitiesJoined,
		PostsCreated:      postsCreated,
		CommentsPosted:    commentsPosted,
		LikesReceived:     likesReceived,
		LikesGiven:        likesGiven,
		ActiveDays:        activeDays30,

		CommunitiesGrowth: calculateGrowth(current.communities, previous.communities),
		PostsGrowth:       calculateGrowth(current.posts, previous.posts),
		EngagementGrowth:  calculateGrowth(currentEngagement, previousEngagement),
		ActivityGrowth:    calculateGrowth(current.activeDays, previous.activeDays),

		JoinDate:            dto.FormatTime(user.CreatedAt),
		FavoriteHobbyName:   favoriteHobbyName,
		MostActiveHobbyName: mostActiveHobbyName,
		TotalEngagement:     totalEngagement,
		EngagementRate:      engagementRate(totalEngagement, postsCreated),
	}
	return resp, nil
}

func (s *dashboardService) hobbyNameForCommunity(ctx context.Context, communityID uuid.UUID, ok bool) string {
	if !ok {
		return ""
	}
	community, err := s.communityRepo.FindByID(ctx, communityID)
	if err != nil {
		return ""
	}
	return community.Hobby.Name
}

// engagementRate is total engagement per post, two decimals, zero when the
// user has no posts.
func engagementRate(totalEngagement, postsCreated int64) float64 {
	if postsCreated == 0 {
		return 0
	}
	return math.Round(float64(totalEngagement)/float64(postsCreated)*100) / 100
}

func (s *dashboardService) GetEngagementSummary(ctx context.Context, userID uuid.UUID) (*dto.EngagementSummaryResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "user not found")
		}
		return nil, err
	}

	thirtyDaysAgo := s.now().AddDate(0, 0, -30)

	var (
		recentPosts    []dto.PostResponse
		recentLikes    int64
		recentComments int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := s.statsRepo.RecentPosts(gctx, userID, thirtyDaysAgo, 5)
		if err != nil {
			return err
		}

		postIDs := make([]uuid.UUID, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
		}
		likeCounts, err := s.postRepo.CountLikesByPostIDs(gctx, postIDs)
		if err != nil {
			return err
		}
		commentCounts, err := s.postRepo.CountCommentsByPostIDs(gctx, postIDs)
		if err != nil {
			return err
		}

		recentPosts = make([]dto.PostResponse, 0, len(posts))
		for _, p := range posts {
			recentPosts = append(recentPosts, dto.NewPostResponse(p, likeCounts[p.ID], commentCounts[p.ID], false))
		}
		return nil
	})
	g.Go(func() (err error) {
		recentLikes, err = s.statsRepo.CountLikesGiven(gctx, userID, thirtyDaysAgo, time.Time{})
		return
	})
	g.Go(func() (err error) {
		recentComments, err = s.statsRepo.CountComments(gctx, userID, thirtyDaysAgo, time.Time{})
		return
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.New(apperror.MapErrorToStatus(err), "failed to fetch engagement summary", err)
	}

	return &dto.EngagementSummaryResponse{
		RecentPosts:    recentPosts,
		RecentLikes:    recentLikes,
		RecentComments: recentComments,
	}, nil
}
