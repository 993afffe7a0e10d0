package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity types. The set is closed; Record rejects anything else.
const (
	ActivityPostCreated   = "post_created"
	ActivityPostCommented = "post_commented"
	ActivityPostLiked     = "post_liked"
	ActivityUserJoined    = "user_joined"
)

// ActivityMetadata is a constrained bag of scalar values attached to an
// activity for future extensibility.
type ActivityMetadata map[string]any

// Activity is an immutable append-only event record. Only IsRead ever
// changes after creation, and only through the recipient's mark-as-read.
type Activity struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Type        string           `gorm:"size:50;not null;index" json:"type"`
	Content     string           `gorm:"type:text" json:"content"`
	UserID      *uuid.UUID       `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CommunityID *uuid.UUID       `gorm:"type:uuid;index" json:"community_id,omitempty"`
	Community   *Community       `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	PostID      *uuid.UUID       `gorm:"type:uuid" json:"post_id,omitempty"`
	Post        *Post            `gorm:"foreignKey:PostID" json:"post,omitempty"`
	RecipientID *uuid.UUID       `gorm:"type:uuid;index" json:"recipient_id,omitempty"`
	IsRead      bool             `gorm:"default:false" json:"is_read"`
	Metadata    ActivityMetadata `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		// V7 is time-ordered, so ordering by (created_at, id) stays stable
		// even when two activities share a timestamp.
		a.ID, err = uuid.NewV7()
	}
	return
}

// ValidActivityType reports whether t belongs to the closed enumeration.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityPostCreated, ActivityPostCommented, ActivityPostLiked, ActivityUserJoined:
		return true
	}
	return false
}
