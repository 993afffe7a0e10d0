package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory sqlite database with the production
// schema. Each test gets its own named database so the gorm connection
// pool shares state within a test but not across tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Hobby{},
		&model.Community{},
		&model.Member{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Activity{},
	))

	return db
}

func newTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()

	user := &model.User{
		ExternalID: "ext-" + uuid.NewString(),
		Email:      fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Name:       name,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestHobby(t *testing.T, db *gorm.DB, name string) *model.Hobby {
	t.Helper()

	hobby := &model.Hobby{Name: name, Tags: []string{}}
	require.NoError(t, db.Create(hobby).Error)
	return hobby
}

// newTestCommunity creates a community plus the creator's ADMIN membership,
// the same shape the repository's transactional Create produces.
func newTestCommunity(t *testing.T, db *gorm.DB, creator *model.User, hobby *model.Hobby, name string) *model.Community {
	t.Helper()

	community := &model.Community{
		Name:      name,
		HobbyID:   hobby.ID,
		CreatorID: creator.ID,
	}
	require.NoError(t, db.Create(community).Error)
	require.NoError(t, db.Create(&model.Member{
		UserID:      creator.ID,
		CommunityID: community.ID,
		Role:        model.RoleAdmin,
	}).Error)
	return community
}

func newTestPost(t *testing.T, db *gorm.DB, author *model.User, community *model.Community, title string) *model.Post {
	t.Helper()

	post := &model.Post{
		Title:       title,
		Content:     "content of " + title,
		Tags:        []string{},
		AuthorID:    author.ID,
		CommunityID: community.ID,
		Published:   true,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func countActivities(t *testing.T, db *gorm.DB, activityType string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Activity{}).Where("type = ?", activityType).Count(&count).Error)
	return count
}
