package dto

import (
	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
)

type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	HobbyID     string `json:"hobby_id" binding:"required,uuid"`
}

type CommunityResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HobbyID     uuid.UUID `json:"hobby_id"`
	HobbyName   string    `json:"hobby_name,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   string    `json:"created_at"`
}

func NewCommunityResponse(c *model.Community, memberCount int64) CommunityResponse {
	resp := CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		HobbyID:     c.HobbyID,
		ImageURL:    c.ImageURL,
		MemberCount: memberCount,
		CreatedAt:   FormatTime(c.CreatedAt),
	}
	if c.Hobby.ID != uuid.Nil {
		resp.HobbyName = c.Hobby.Name
	}
	return resp
}

type MembershipResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CommunityID uuid.UUID `json:"community_id"`
	Role        string    `json:"role"`
	CreatedAt   string    `json:"created_at"`
}

func NewMembershipResponse(m *model.Member) MembershipResponse {
	return MembershipResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		CommunityID: m.CommunityID,
		Role:        m.Role,
		CreatedAt:   FormatTime(m.CreatedAt),
	}
}
