package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newHobbyService(db *gorm.DB) HobbyService {
	return NewHobbyService(repository.NewHobbyRepository(db), nil)
}

func TestCreateHobby(t *testing.T) {
	db := newTestDB(t)
	svc := newHobbyService(db)
	ctx := context.Background()

	hobby, err := svc.CreateHobby(ctx, dto.CreateHobbyRequest{Name: "  Chess  "})
	require.NoError(t, err)
	assert.Equal(t, "Chess", hobby.Name)
	assert.NotEqual(t, uuid.Nil, hobby.ID)

	// Names are unique.
	_, err = svc.CreateHobby(ctx, dto.CreateHobbyRequest{Name: "Chess"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateHobby_RequiresName(t *testing.T) {
	db := newTestDB(t)
	svc := newHobbyService(db)

	_, err := svc.CreateHobby(context.Background(), dto.CreateHobbyRequest{Name: "   "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetHobbies_SortedByName(t *testing.T) {
	db := newTestDB(t)
	svc := newHobbyService(db)
	ctx := context.Background()

	for _, name := range []string{"Woodworking", "Astronomy", "Chess"} {
		_, err := svc.CreateHobby(ctx, dto.CreateHobbyRequest{Name: name})
		require.NoError(t, err)
	}

	hobbies, err := svc.GetHobbies(ctx)
	require.NoError(t, err)
	require.Len(t, hobbies, 3)
	assert.Equal(t, "Astronomy", hobbies[0].Name)
	assert.Equal(t, "Chess", hobbies[1].Name)
	assert.Equal(t, "Woodworking", hobbies[2].Name)
}

func TestGetHobbyByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newHobbyService(db)

	_, err := svc.GetHobbyByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearchHobbies_FallsBackWithoutSearchBackend(t *testing.T) {
	db := newTestDB(t)
	svc := newHobbyService(db)
	ctx := context.Background()

	for _, name := range []string{"Baking", "Archery"} {
		_, err := svc.CreateHobby(ctx, dto.CreateHobbyRequest{Name: name})
		require.NoError(t, err)
	}

	// No search backend configured: the full listing is returned.
	hobbies, err := svc.SearchHobbies(ctx, "bak")
	require.NoError(t, err)
	assert.Len(t, hobbies, 2)

	// Blank queries take the same path.
	hobbies, err = svc.SearchHobbies(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, hobbies, 2)
}
