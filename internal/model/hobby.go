package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Hobby struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	Tags           []string  `gorm:"serializer:json" json:"tags"`
	Emoji          *string   `gorm:"size:20" json:"emoji,omitempty"`
	Difficulty     *string   `gorm:"size:50" json:"difficulty,omitempty"`
	TimeCommitment *string   `gorm:"size:50" json:"time_commitment,omitempty"`
	CostRange      *string   `gorm:"size:50" json:"cost_range,omitempty"`
	Location       *string   `gorm:"size:100" json:"location,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (h *Hobby) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID, err = uuid.NewV7()
	}
	return
}
