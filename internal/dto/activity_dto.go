package dto

import (
	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
)

type ActivityResponse struct {
	ID            uuid.UUID              `json:"id"`
	Type          string                 `json:"type"`
	Content       string                 `json:"content"`
	UserID        *uuid.UUID             `json:"user_id,omitempty"`
	User          *AuthorResponse        `json:"user,omitempty"`
	CommunityID   *uuid.UUID             `json:"community_id,omitempty"`
	CommunityName string                 `json:"community_name,omitempty"`
	PostID        *uuid.UUID             `json:"post_id,omitempty"`
	PostTitle     string                 `json:"post_title,omitempty"`
	RecipientID   *uuid.UUID             `json:"recipient_id,omitempty"`
	IsRead        bool                   `json:"is_read"`
	Metadata      model.ActivityMetadata `json:"metadata,omitempty"`
	CreatedAt     string                 `json:"created_at"`
}

func NewActivityResponse(a *model.Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Content:     a.Content,
		UserID:      a.UserID,
		CommunityID: a.CommunityID,
		PostID:      a.PostID,
		RecipientID: a.RecipientID,
		IsRead:      a.IsRead,
		Metadata:    a.Metadata,
		CreatedAt:   FormatTime(a.CreatedAt),
	}
	if a.User != nil {
		author := NewAuthorResponse(a.User)
		resp.User = &author
	}
	if a.Community != nil {
		resp.CommunityName = a.Community.Name
	}
	if a.Post != nil {
		resp.PostTitle = a.Post.Title
	}
	return resp
}

type FeedResponse struct {
	Activities  []ActivityResponse `json:"activities"`
	TotalPages  int                `json:"total_pages"`
	CurrentPage int                `json:"current_page"`
}

type UnreadResponse struct {
	Activities  []ActivityResponse `json:"activities"`
	TotalUnread int64              `json:"total_unread"`
}

type MarkReadRequest struct {
	ActivityIDs []uuid.UUID `json:"activity_ids" binding:"required,min=1"`
}

type FeedFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
