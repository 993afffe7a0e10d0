package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors an account at the hosted identity provider. ExternalID is the
// provider's subject identifier; rows are created by the provisioning webhook
// or lazily on first authenticated request.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"size:100;uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	AvatarURL  *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}
