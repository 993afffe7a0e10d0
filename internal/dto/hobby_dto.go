package dto

import (
	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
)

type CreateHobbyRequest struct {
	Name           string   `json:"name" binding:"required,max=100"`
	Description    *string  `json:"description"`
	Tags           []string `json:"tags"`
	Emoji          *string  `json:"emoji"`
	Difficulty     *string  `json:"difficulty"`
	TimeCommitment *string  `json:"time_commitment"`
	CostRange      *string  `json:"cost_range"`
	Location       *string  `json:"location"`
}

type HobbyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Tags           []string  `json:"tags"`
	Emoji          *string   `json:"emoji,omitempty"`
	Difficulty     *string   `json:"difficulty,omitempty"`
	TimeCommitment *string   `json:"time_commitment,omitempty"`
	CostRange      *string   `json:"cost_range,omitempty"`
	Location       *string   `json:"location,omitempty"`
	CreatedAt      string    `json:"created_at"`
}

func NewHobbyResponse(h *model.Hobby) HobbyResponse {
	return HobbyResponse{
		ID:             h.ID,
		Name:           h.Name,
		Description:    h.Description,
		Tags:           h.Tags,
		Emoji:          h.Emoji,
		Difficulty:     h.Difficulty,
		TimeCommitment: h.TimeCommitment,
		CostRange:      h.CostRange,
		Location:       h.Location,
		CreatedAt:      FormatTime(h.CreatedAt),
	}
}
