package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsumptionLog struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id,omitempty"`
	UserID       string     `gorm:"type:uuid;index" json:"user_id"`
	LoggedAt     *time.Time `json:"logged_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	ItemName     string     `json:"item_name"`
	Cost         *float64   `json:"cost"`
	QuantityUsed float64    `json:"quantity_used"`
	Unit         string     `json:"unit"`
	Reason       string     `json:"reason"`
	DishName     *string    `json:"dish_name"`
	Notes        *string    `json:"notes"`
}

func (ConsumptionLog) TableName() string {
	return "consumption_logs"
}

func (l *ConsumptionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
