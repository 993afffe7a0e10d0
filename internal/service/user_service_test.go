package service

import (
	"context"
	"testing"

	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureUser_LazyCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "ext-123")
	require.NoError(t, err)
	assert.Equal(t, "ext-123", user.ExternalID)
	assert.Equal(t, "User", user.Name)
	assert.NotEmpty(t, user.Email)

	// Idempotent: same external id resolves to the same row.
	again, err := svc.EnsureUser(ctx, "ext-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureUser_EmptySubject(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.EnsureUser(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestHandleWebhookEvent_CreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	require.NoError(t, svc.HandleWebhookEvent(ctx, dto.IdentityWebhookEvent{
		Type: "user.created",
		Data: dto.IdentityWebhookUser{
			ID:        "ext-9",
			Email:     "carol@example.com",
			FirstName: "Carol",
			LastName:  "Jones",
		},
	}))

	var user model.User
	require.NoError(t, db.Where("external_id = ?", "ext-9").First(&user).Error)
	assert.Equal(t, "Carol Jones", user.Name)
	assert.Equal(t, "carol@example.com", user.Email)

	require.NoError(t, svc.HandleWebhookEvent(ctx, dto.IdentityWebhookEvent{
		Type: "user.updated",
		Data: dto.IdentityWebhookUser{
			ID:        "ext-9",
			Email:     "carol.j@example.com",
			FirstName: "Carol",
			LastName:  "Jones-Smith",
		},
	}))

	require.NoError(t, db.Where("external_id = ?", "ext-9").First(&user).Error)
	assert.Equal(t, "Carol Jones-Smith", user.Name)
	assert.Equal(t, "carol.j@example.com", user.Email)
}

func TestHandleWebhookEvent_UpdateFillsPlaceholder(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	// First request arrived before the webhook; the placeholder row exists.
	placeholder, err := svc.EnsureUser(ctx, "ext-77")
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhookEvent(ctx, dto.IdentityWebhookEvent{
		Type: "user.updated",
		Data: dto.IdentityWebhookUser{
			ID:        "ext-77",
			Email:     "dan@example.com",
			FirstName: "Dan",
		},
	}))

	var user model.User
	require.NoError(t, db.Where("external_id = ?", "ext-77").First(&user).Error)
	assert.Equal(t, placeholder.ID, user.ID)
	assert.Equal(t, "Dan", user.Name)
	assert.Equal(t, "dan@example.com", user.Email)
}

func TestHandleWebhookEvent_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, "ext-55")
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhookEvent(ctx, dto.IdentityWebhookEvent{
		Type: "user.deleted",
		Data: dto.IdentityWebhookUser{ID: "ext-55"},
	}))

	err = db.Where("external_id = ?", "ext-55").First(&model.User{}).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHandleWebhookEvent_Invalid(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	err := svc.HandleWebhookEvent(ctx, dto.IdentityWebhookEvent{Type: "user.suspended"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	err = svc.HandleWebhookEvent(ctx, dto.IdentityWebhookEvent{Type: "user.created"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
