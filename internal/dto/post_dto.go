package dto

import (
	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
)

type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required,max=255"`
	Content string   `json:"content" binding:"required,max=10000"`
	Tags    []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title   string   `json:"title" binding:"required,max=255"`
	Content string   `json:"content" binding:"required,max=10000"`
	Tags    []string `json:"tags"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type PostResponse struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Tags         []string          `json:"tags"`
	Author       AuthorResponse    `json:"author"`
	CommunityID  uuid.UUID         `json:"community_id"`
	LikeCount    int64             `json:"like_count"`
	CommentCount int64             `json:"comment_count"`
	LikedByMe    bool              `json:"liked_by_me"`
	Comments     []CommentResponse `json:"comments,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

type CommentResponse struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	PostID    uuid.UUID      `json:"post_id"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

func NewCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    NewAuthorResponse(&c.Author),
		PostID:    c.PostID,
		CreatedAt: FormatTime(c.CreatedAt),
		UpdatedAt: FormatTime(c.UpdatedAt),
	}
}

func NewPostResponse(p *model.Post, likeCount, commentCount int64, likedByMe bool) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Tags:         p.Tags,
		Author:       NewAuthorResponse(&p.Author),
		CommunityID:  p.CommunityID,
		LikeCount:    likeCount,
		CommentCount: commentCount,
		LikedByMe:    likedByMe,
		CreatedAt:    FormatTime(p.CreatedAt),
		UpdatedAt:    FormatTime(p.UpdatedAt),
	}
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}
