package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/dto"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/pkg/apperror"
	"gorm.io/gorm"
)

type HobbyService interface {
	CreateHobby(ctx context.Context, req dto.CreateHobbyRequest) (*dto.HobbyResponse, error)
	GetHobbies(ctx context.Context) ([]dto.HobbyResponse, error)
	GetHobbyByID(ctx context.Context, id uuid.UUID) (*dto.HobbyResponse, error)
	SearchHobbies(ctx context.Context, query string) ([]dto.HobbyResponse, error)
}

type hobbyService struct {
	hobbyRepo repository.HobbyRepository
	searchSvc SearchService
}

func NewHobbyService(hobbyRepo repository.HobbyRepository, searchSvc SearchService) HobbyService {
	return &hobbyService{
		hobbyRepo: hobbyRepo,
		searchSvc: searchSvc,
	}
}

func (s *hobbyService) CreateHobby(ctx context.Context, req dto.CreateHobbyRequest) (*dto.HobbyResponse, error) {
	hobby := &model.Hobby{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Tags:           req.Tags,
		Emoji:          req.Emoji,
		Difficulty:     req.Difficulty,
		TimeCommitment: req.TimeCommitment,
		CostRange:      req.CostRange,
		Location:       req.Location,
	}
	if hobby.Name == "" {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "hobby name is required")
	}
	if hobby.Tags == nil {
		hobby.Tags = []string{}
	}

	if err := s.hobbyRepo.Create(ctx, hobby); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrBadRequest, "a hobby with this name already exists")
		}
		return nil, err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexHobby(hobby); err != nil {
			log.Printf("Failed to index hobby %s: %v", hobby.ID, err)
		}
	}

	resp := dto.NewHobbyResponse(hobby)
	return &resp, nil
}

func (s *hobbyService) GetHobbies(ctx context.Context) ([]dto.HobbyResponse, error) {
	hobbies, err := s.hobbyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.HobbyResponse, 0, len(hobbies))
	for _, h := range hobbies {
		resp = append(resp, dto.NewHobbyResponse(h))
	}
	return resp, nil
}

func (s *hobbyService) GetHobbyByID(ctx context.Context, id uuid.UUID) (*dto.HobbyResponse, error) {
	hobby, err := s.hobbyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "hobby not found")
		}
		return nil, err
	}

	resp := dto.NewHobbyResponse(hobby)
	return &resp, nil
}

func (s *hobbyService) SearchHobbies(ctx context.Context, query string) ([]dto.HobbyResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" || s.searchSvc == nil {
		// Fall back to the full alphabetical listing.
		return s.GetHobbies(ctx)
	}

	ids, err := s.searchSvc.SearchHobbyIDs(query, 20)
	if err != nil {
		return nil, err
	}

	hobbies, err := s.hobbyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve search ranking.
	byID := make(map[uuid.UUID]*model.Hobby, len(hobbies))
	for _, h := range hobbies {
		byID[h.ID] = h
	}

	resp := make([]dto.HobbyResponse, 0, len(ids))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			resp = append(resp, dto.NewHobbyResponse(h))
		}
	}
	return resp, nil
}
