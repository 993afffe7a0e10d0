package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "member"
)

type Community struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	HobbyID     uuid.UUID `gorm:"type:uuid;not null;index" json:"hobby_id"`
	Hobby       Hobby     `gorm:"constraint:OnDelete:CASCADE" json:"hobby,omitempty"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null" json:"creator_id"`
	Creator     User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	Members     []Member  `gorm:"foreignKey:CommunityID" json:"members,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// Member links a user to a community with a role. One row per
// (user, community) pair, enforced at the storage layer.
type Member struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_user_community" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CommunityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_user_community" json:"community_id"`
	Role        string    `gorm:"size:20;not null;default:member" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
