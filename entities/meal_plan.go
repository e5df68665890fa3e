package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealPlan struct {
	ID            string  `gorm:"type:uuid;primary_key" json:"id,omitempty"`
	UserID        string  `gorm:"type:uuid;index" json:"user_id"`
	Date          string  `gorm:"type:text;index" json:"date"`
	MealType      string  `json:"meal_type"`
	Person        string  `json:"person"`
	RecipeID      *string `json:"recipe_id"`
	CustomDish    *string `json:"custom_dish"`
	ExtraServings int     `json:"extra_servings"`
	LeftoverName  *string `json:"leftover_name"`
	Notes         *string `json:"notes"`
}

func (MealPlan) TableName() string {
	return "meal_plan"
}

func (m *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
