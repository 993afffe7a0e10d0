package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(db *gorm.DB, now time.Time) DashboardService {
	svc := NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewStatsRepository(db),
		repository.NewActivityRepository(db),
		repository.NewCommunityRepository(db),
		repository.NewPostRepository(db),
	).(*dashboardService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCalculateGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		want     int
	}{
		{"both zero", 0, 0, 0},
		{"from zero", 3, 0, 100},
		{"to zero", 0, 2, -100},
		{"doubled", 10, 5, 100},
		{"half up", 6, 4, 50},
		{"half down", 2, 4, -50},
		{"rounded", 1, 3, -67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateGrowth(tt.current, tt.previous))
		})
	}
}

func TestGetMonthRanges(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 30, 0, 0, time.UTC)
	ranges := getMonthRanges(now)

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), ranges.currentStart)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), ranges.previousStart)
	// The previous window closes at the very end of its last day.
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, 999999999, time.UTC), ranges.previousEnd)
	assert.True(t, ranges.previousEnd.Before(ranges.currentStart))
}

func TestGetMonthRanges_JanuaryWrapsYear(t *testing.T) {
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	ranges := getMonthRanges(now)

	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), ranges.previousStart)
	assert.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 999999999, time.UTC), ranges.previousEnd)
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, engagementRate(5, 0))
	assert.Equal(t, 2.5, engagementRate(5, 2))
	assert.Equal(t, 0.33, engagementRate(1, 3))
}

func TestGetStatistics_UserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db, time.Now())

	_, err := svc.GetStatistics(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetStatistics_Aggregation(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newDashboardService(db, now)
	ctx := context.Background()

	feb := func(day int) time.Time { return time.Date(2025, time.February, day, 10, 0, 0, 0, time.UTC) }
	mar := func(day int) time.Time { return time.Date(2025, time.March, day, 10, 0, 0, 0, time.UTC) }

	alice := &model.User{
		ExternalID: "ext-alice",
		Email:      "alice@example.com",
		Name:       "Alice",
		CreatedAt:  time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(alice).Error)
	bob := newTestUser(t, db, "Bob")

	hobby := newTestHobby(t, db, "Chess")
	community := &model.Community{
		Name:      "Chess Club",
		HobbyID:   hobby.ID,
		CreatorID: alice.ID,
		CreatedAt: time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(community).Error)
	require.NoError(t, db.Create(&model.Member{
		UserID:      alice.ID,
		CommunityID: community.ID,
		Role:        model.RoleAdmin,
		CreatedAt:   feb(10),
	}).Error)

	posts := []*model.Post{
		{Title: "Openings", Content: "c", Tags: []string{}, AuthorID: alice.ID, CommunityID: community.ID, Published: true, CreatedAt: mar(5)},
		{Title: "Middlegame", Content: "c", Tags: []string{}, AuthorID: alice.ID, CommunityID: community.ID, Published: true, CreatedAt: mar(10)},
		{Title: "Endgame", Content: "c", Tags: []string{}, AuthorID: alice.ID, CommunityID: community.ID, Published: true, CreatedAt: feb(5)},
	}
	for _, p := range posts {
		require.NoError(t, db.Create(p).Error)
	}

	require.NoError(t, db.Create(&model.Comment{
		Content:   "nice",
		AuthorID:  alice.ID,
		PostID:    posts[2].ID,
		CreatedAt: mar(6),
	}).Error)

	require.NoError(t, db.Create(&model.Like{
		UserID:    bob.ID,
		PostID:    posts[0].ID,
		CreatedAt: mar(7),
	}).Error)

	activityDays := []time.Time{mar(5), mar(10), feb(10)}
	for _, day := range activityDays {
		require.NoError(t, db.Create(&model.Activity{
			Type:        model.ActivityPostCreated,
			Content:     "activity",
			UserID:      &alice.ID,
			CommunityID: &community.ID,
			CreatedAt:   day,
		}).Error)
	}

	stats, err := svc.GetStatistics(ctx, alice.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.CommunitiesJoined)
	assert.EqualValues(t, 3, stats.PostsCreated)
	assert.EqualValues(t, 1, stats.CommentsPosted)
	assert.EqualValues(t, 1, stats.LikesReceived)
	assert.EqualValues(t, 0, stats.LikesGiven)

	// March 5 and March 10 fall inside the rolling 30 days; February 10
	// does not.
	assert.EqualValues(t, 2, stats.ActiveDays)

	// 2 posts in March vs 1 in February.
	assert.Equal(t, 100, stats.PostsGrowth)
	// Membership dates from February; nothing joined in March.
	assert.Equal(t, -100, stats.CommunitiesGrowth)
	// 1 comment + 0 likes given in March vs nothing in February.
	assert.Equal(t, 100, stats.EngagementGrowth)
	// 2 active days in March vs 1 in February.
	assert.Equal(t, 100, stats.ActivityGrowth)

	assert.Equal(t, "Chess", stats.FavoriteHobbyName)
	assert.Equal(t, "Chess", stats.MostActiveHobbyName)

	// 1 like received + 1 comment posted over 3 posts.
	assert.EqualValues(t, 2, stats.TotalEngagement)
	assert.Equal(t, 0.67, stats.EngagementRate)

	assert.Equal(t, "2025-01-10T00:00:00Z", stats.JoinDate)
}

func TestGetStatistics_EmptyAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))

	alice := newTestUser(t, db, "Alice")

	stats, err := svc.GetStatistics(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Zero(t, stats.PostsCreated)
	assert.Zero(t, stats.CommunitiesJoined)
	assert.Zero(t, stats.PostsGrowth)
	assert.Zero(t, stats.EngagementGrowth)
	assert.Empty(t, stats.FavoriteHobbyName)
	assert.Empty(t, stats.MostActiveHobbyName)
	assert.Zero(t, stats.EngagementRate)
}

func TestGetEngagementSummary(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newDashboardService(db, now)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")
	hobby := newTestHobby(t, db, "Running")
	community := newTestCommunity(t, db, alice, hobby, "Trail Runners")

	recent := &model.Post{
		Title: "Intervals", Content: "c", Tags: []string{},
		AuthorID: alice.ID, CommunityID: community.ID, Published: true,
		CreatedAt: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	stale := &model.Post{
		Title: "Old race report", Content: "c", Tags: []string{},
		AuthorID: alice.ID, CommunityID: community.ID, Published: true,
		CreatedAt: time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(recent).Error)
	require.NoError(t, db.Create(stale).Error)

	require.NoError(t, db.Create(&model.Like{
		UserID: alice.ID, PostID: recent.ID,
		CreatedAt: time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&model.Comment{
		Content: "pace?", AuthorID: bob.ID, PostID: recent.ID,
		CreatedAt: time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
	}).Error)

	summary, err := svc.GetEngagementSummary(ctx, alice.ID)
	require.NoError(t, err)

	require.Len(t, summary.RecentPosts, 1)
	assert.Equal(t, "Intervals", summary.RecentPosts[0].Title)
	assert.EqualValues(t, 1, summary.RecentPosts[0].LikeCount)
	assert.EqualValues(t, 1, summary.RecentPosts[0].CommentCount)
	assert.EqualValues(t, 1, summary.RecentLikes)
	assert.EqualValues(t, 0, summary.RecentComments)
}
