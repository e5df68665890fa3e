package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CookingSession struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id,omitempty"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	DishName  string    `json:"dish_name"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	TotalCost float64   `json:"total_cost"`
	Notes     *string   `json:"notes"`
}

func (CookingSession) TableName() string {
	return "cooking_sessions"
}

func (s *CookingSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type CookingSessionItem struct {
	ID           string  `gorm:"type:uuid;primary_key" json:"id,omitempty"`
	SessionID    string  `gorm:"type:uuid;index" json:"session_id"`
	ItemName     string  `json:"item_name"`
	QuantityUsed float64 `json:"quantity_used"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`

	Session *CookingSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (CookingSessionItem) TableName() string {
	return "cooking_session_items"
}

func (i *CookingSessionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
