package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID         string     `gorm:"type:uuid;primary_key" json:"id,omitempty"`
	UserID     string     `gorm:"type:uuid;index" json:"user_id"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	Category   *string    `json:"category"`
	ExpiryDate *string    `gorm:"type:text" json:"expiry_date"`
	PriceInfo  *float64   `json:"price_info"`
	AddedAt    time.Time  `gorm:"index" json:"added_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	Source     string     `json:"source"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
