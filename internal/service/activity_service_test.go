package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newActivityService(db *gorm.DB) ActivityService {
	return NewActivityService(
		repository.NewActivityRepository(db),
		repository.NewCommunityRepository(db),
		nil,
	)
}

func joinAsMember(t *testing.T, db *gorm.DB, user *model.User, community *model.Community) {
	t.Helper()
	require.NoError(t, db.Create(&model.Member{
		UserID:      user.ID,
		CommunityID: community.ID,
		Role:        model.RoleMember,
	}).Error)
}

func TestRecord_RejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)

	err := svc.Record(context.Background(), RecordActivityParams{Type: "post_archived"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	var count int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFeed_ScopedToMemberships(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")
	hobby := newTestHobby(t, db, "Chess")
	community := newTestCommunity(t, db, alice, hobby, "Chess Club")

	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostCreated,
		Content:     "Alice created a new post: Openings",
		UserID:      &alice.ID,
		CommunityID: &community.ID,
	}))

	aliceFeed, err := svc.Feed(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, aliceFeed.Activities, 1)

	// Bob is not a member, not the actor, not the recipient.
	bobFeed, err := svc.Feed(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, bobFeed.Activities)

	joinAsMember(t, db, bob, community)

	bobFeed, err = svc.Feed(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, bobFeed.Activities, 1)
	assert.Equal(t, "Alice created a new post: Openings", bobFeed.Activities[0].Content)
}

func TestFeed_IncludesDirectRecipient(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")

	// Bob has no memberships at all; the activity reaches him only
	// because he is the recipient.
	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostLiked,
		Content:     "Alice liked your post: Endgames",
		UserID:      &alice.ID,
		RecipientID: &bob.ID,
	}))

	feed, err := svc.Feed(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Activities, 1)
}

func TestFeed_OrderingAndPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	hobby := newTestHobby(t, db, "Pottery")
	community := newTestCommunity(t, db, alice, hobby, "Clay Circle")

	for i := 1; i <= 5; i++ {
		require.NoError(t, svc.Record(ctx, RecordActivityParams{
			Type:        model.ActivityPostCreated,
			Content:     fmt.Sprintf("post %d", i),
			UserID:      &alice.ID,
			CommunityID: &community.ID,
		}))
	}

	page1, err := svc.Feed(ctx, alice.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1.Activities, 2)
	assert.Equal(t, "post 5", page1.Activities[0].Content)
	assert.Equal(t, "post 4", page1.Activities[1].Content)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, 1, page1.CurrentPage)

	page3, err := svc.Feed(ctx, alice.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3.Activities, 1)
	assert.Equal(t, "post 1", page3.Activities[0].Content)

	// Past the end: empty page, not an error.
	page4, err := svc.Feed(ctx, alice.ID, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, page4.Activities)
	assert.Equal(t, 4, page4.CurrentPage)
}

func TestFeed_RequiresViewer(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)

	_, err := svc.Feed(context.Background(), uuid.Nil, 1, 10)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUnread_ExcludesOwnActions(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")
	hobby := newTestHobby(t, db, "Climbing")
	community := newTestCommunity(t, db, alice, hobby, "Crag Crew")
	joinAsMember(t, db, bob, community)

	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostCreated,
		Content:     "Alice created a new post: Beta",
		UserID:      &alice.ID,
		CommunityID: &community.ID,
	}))

	// Alice never sees her own action as a notification.
	aliceUnread, err := svc.Unread(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, aliceUnread.Activities)
	assert.Zero(t, aliceUnread.TotalUnread)

	bobUnread, err := svc.Unread(ctx, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, bobUnread.Activities, 1)
	assert.EqualValues(t, 1, bobUnread.TotalUnread)
}

func TestUnread_IncludesSystemActivities(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")

	// No actor on the row; the self-exclusion predicate must not drop it.
	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityUserJoined,
		Content:     "Welcome to the community",
		RecipientID: &alice.ID,
	}))

	unread, err := svc.Unread(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, unread.Activities, 1)
	assert.EqualValues(t, 1, unread.TotalUnread)
}

func TestUnread_TotalIndependentOfLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, RecordActivityParams{
			Type:        model.ActivityPostLiked,
			Content:     fmt.Sprintf("Alice liked your post: %d", i),
			UserID:      &alice.ID,
			RecipientID: &bob.ID,
		}))
	}

	unread, err := svc.Unread(ctx, bob.ID, 1)
	require.NoError(t, err)
	assert.Len(t, unread.Activities, 1)
	assert.EqualValues(t, 3, unread.TotalUnread)
}

func TestUnread_LimitClamped(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")

	for i := 0; i < MaxUnreadLimit+2; i++ {
		require.NoError(t, svc.Record(ctx, RecordActivityParams{
			Type:        model.ActivityPostLiked,
			Content:     fmt.Sprintf("Alice liked your post: %d", i),
			UserID:      &alice.ID,
			RecipientID: &bob.ID,
		}))
	}

	unread, err := svc.Unread(ctx, bob.ID, 10*MaxUnreadLimit)
	require.NoError(t, err)
	assert.Len(t, unread.Activities, MaxUnreadLimit)
	assert.EqualValues(t, MaxUnreadLimit+2, unread.TotalUnread)
}

func TestMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, RecordActivityParams{
			Type:        model.ActivityPostCommented,
			Content:     fmt.Sprintf("Alice commented on your post: %d", i),
			UserID:      &alice.ID,
			RecipientID: &bob.ID,
		}))
	}
	var activities []*model.Activity
	require.NoError(t, db.Order("id ASC").Find(&activities).Error)
	for _, a := range activities {
		ids = append(ids, a.ID)
	}

	// Clear only two of the three.
	require.NoError(t, svc.MarkRead(ctx, bob.ID, ids[:2]))

	unread, err := svc.Unread(ctx, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, unread.Activities, 1)
	assert.Equal(t, ids[2], unread.Activities[0].ID)

	// Marking the same ids again is a no-op.
	require.NoError(t, svc.MarkRead(ctx, bob.ID, ids[:2]))
	unread, err = svc.Unread(ctx, bob.ID, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread.TotalUnread)

	require.NoError(t, svc.MarkRead(ctx, bob.ID, nil))
	assert.ErrorIs(t, svc.MarkRead(ctx, uuid.Nil, ids), apperror.ErrUnauthorized)
}

func TestMarkRead_OnlyVisibleIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")
	carol := newTestUser(t, db, "Carol")

	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostLiked,
		Content:     "Alice liked your post: Endgames",
		UserID:      &alice.ID,
		RecipientID: &carol.ID,
	}))

	var activity model.Activity
	require.NoError(t, db.First(&activity).Error)

	// Bob cannot flip a notification addressed to Carol.
	require.NoError(t, svc.MarkRead(ctx, bob.ID, []uuid.UUID{activity.ID}))

	unread, err := svc.Unread(ctx, carol.ID, 10)
	require.NoError(t, err)
	require.Len(t, unread.Activities, 1)
	assert.False(t, unread.Activities[0].IsRead)
}

func TestMarkAllRead(t *testing.T) {
	db := newTestDB(t)
	svc := newActivityService(db)
	ctx := context.Background()

	alice := newTestUser(t, db, "Alice")
	bob := newTestUser(t, db, "Bob")
	hobby := newTestHobby(t, db, "Baking")
	community := newTestCommunity(t, db, alice, hobby, "Sourdough Society")
	joinAsMember(t, db, bob, community)

	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostCreated,
		Content:     "Alice created a new post: Starters",
		UserID:      &alice.ID,
		CommunityID: &community.ID,
	}))
	require.NoError(t, svc.Record(ctx, RecordActivityParams{
		Type:        model.ActivityPostCommented,
		Content:     "Alice commented on your post: Crumb",
		UserID:      &alice.ID,
		RecipientID: &bob.ID,
	}))

	unread, err := svc.Unread(ctx, bob.ID, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread.TotalUnread)

	require.NoError(t, svc.MarkAllRead(ctx, bob.ID))

	unread, err = svc.Unread(ctx, bob.ID, 10)
	require.NoError(t, err)
	assert.Zero(t, unread.TotalUnread)

	// Idempotent on an already-read set.
	require.NoError(t, svc.MarkAllRead(ctx, bob.ID))
}
