package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
)

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

func NewAuthorResponse(u *model.User) AuthorResponse {
	if u == nil {
		return AuthorResponse{}
	}
	return AuthorResponse{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
