package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"gorm.io/gorm"
)

// UserService resolves identity-provider subjects to local user rows. Rows
// normally arrive through the provisioning webhook; EnsureUser covers the
// window where a request lands before the webhook does.
type UserService interface {
	EnsureUser(ctx context.Context, externalID string) (*model.User, error)
	HandleWebhookEvent(ctx context.Context, event dto.IdentityWebhookEvent) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) EnsureUser(ctx context.Context, externalID string) (*model.User, error) {
	if externalID == "" {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.userRepo.FindByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Placeholder profile until the webhook delivers the real one.
	placeholder := &model.User{
		ExternalID: externalID,
		Email:      fmt.Sprintf("user-%s@hobbyhub.local", externalID),
		Name:       "User",
	}
	if err := s.userRepo.Create(ctx, placeholder); err != nil {
		// A concurrent request or the webhook may have won the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.userRepo.FindByExternalID(ctx, externalID)
		}
		return nil, err
	}

	return placeholder, nil
}

func (s *userService) HandleWebhookEvent(ctx context.Context, event dto.IdentityWebhookEvent) error {
	switch event.Type {
	case "user.created", "user.updated":
		return s.upsertUser(ctx, event.Data)
	case "user.deleted":
		if event.Data.ID == "" {
			return apperror.Wrap(apperror.ErrInvalidInput, "missing user id in webhook payload")
		}
		return s.userRepo.DeleteByExternalID(ctx, event.Data.ID)
	default:
		return apperror.Wrap(apperror.ErrInvalidInput, fmt.Sprintf("unsupported webhook event type: %s", event.Type))
	}
}

func (s *userService) upsertUser(ctx context.Context, data dto.IdentityWebhookUser) error {
	if data.ID == "" {
		return apperror.Wrap(apperror.ErrInvalidInput, "missing user id in webhook payload")
	}

	name := strings.TrimSpace(data.FirstName + " " + data.LastName)
	if name == "" {
		name = "User"
	}
	email := data.Email
	if email == "" {
		email = fmt.Sprintf("user-%s@hobbyhub.local", data.ID)
	}

	existing, err := s.userRepo.FindByExternalID(ctx, data.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.userRepo.Create(ctx, &model.User{
			ExternalID: data.ID,
			Email:      email,
			Name:       name,
			AvatarURL:  data.ImageURL,
		})
	}

	existing.Email = email
	existing.Name = name
	existing.AvatarURL = data.ImageURL
	return s.userRepo.Update(ctx, existing)
}
