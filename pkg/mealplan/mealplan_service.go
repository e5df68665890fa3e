package mealplan

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/inventory"
	"context"
	"strings"
	"time"
)

type (
	MealPlanService interface {
		GetMealPlan(ctx context.Context, userID, from, to string) ([]domain.MealPlanItem, error)
		AddMeal(ctx context.Context, userID string, req domain.AddMealRequest) (domain.MealPlanItem, error)
		UpdateMeal(ctx context.Context, userID, mealID string, req domain.UpdateMealRequest) error
		DeleteMeal(ctx context.Context, userID, mealID string) error
		SaveLeftover(ctx context.Context, userID, mealID string, req domain.SaveLeftoverRequest) error
	}

	mealPlanService struct {
		repository MealPlanRepository
		inventory  inventory.InventoryRepository
		now        func() time.Time
	}
)

func NewMealPlanService(repository MealPlanRepository, inventory inventory.InventoryRepository) MealPlanService {
	return &mealPlanService{
		repository: repository,
		inventory:  inventory,
		now:        time.Now,
	}
}

// GetMealPlan lists meals between from and to inclusive. Missing bounds
// default to the current week starting on Monday.
func (s *mealPlanService) GetMealPlan(ctx context.Context, userID, from, to string) ([]domain.MealPlanItem, error) {
	start, end, err := s.dateRange(from, to)
	if err != nil {
		return []domain.MealPlanItem{}, err
	}
	return s.repository.ListRange(ctx, userID, start, end)
}

func (s *mealPlanService) AddMeal(ctx context.Context, userID string, req domain.AddMealRequest) (domain.MealPlanItem, error) {
	return s.repository.Add(ctx, entities.MealPlan{
		UserID:        userID,
		Date:          req.Date,
		MealType:      req.MealType,
		Person:        strings.TrimSpace(req.Person),
		RecipeID:      nonBlank(req.RecipeID),
		CustomDish:    nonBlank(req.CustomDish),
		ExtraServings: req.ExtraServings,
		Notes:         nonBlank(req.Notes),
	})
}

func (s *mealPlanService) UpdateMeal(ctx context.Context, userID, mealID string, req domain.UpdateMealRequest) error {
	columns := make(map[string]any)
	if req.Date != nil {
		columns["date"] = *req.Date
	}
	if req.MealType != nil {
		columns["meal_type"] = *req.MealType
	}
	if req.Person != nil {
		columns["person"] = strings.TrimSpace(*req.Person)
	}
	if req.RecipeID != nil {
		columns["recipe_id"] = nonBlank(req.RecipeID)
	}
	if req.CustomDish != nil {
		columns["custom_dish"] = nonBlank(req.CustomDish)
	}
	if req.ExtraServings != nil {
		columns["extra_servings"] = *req.ExtraServings
	}
	if req.LeftoverName != nil {
		columns["leftover_name"] = nonBlank(req.LeftoverName)
	}
	if req.Notes != nil {
		columns["notes"] = nonBlank(req.Notes)
	}
	if len(columns) == 0 {
		return domain.ErrEmptyMealPatch
	}
	return s.repository.Update(ctx, userID, mealID, columns)
}

func (s *mealPlanService) DeleteMeal(ctx context.Context, userID, mealID string) error {
	return s.repository.Delete(ctx, userID, mealID)
}

// SaveLeftover stores the meal's extra servings as an inventory item and marks
// the meal as saved.
func (s *mealPlanService) SaveLeftover(ctx context.Context, userID, mealID string, req domain.SaveLeftoverRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ErrEmptyItemName
	}
	if _, err := s.repository.Get(ctx, userID, mealID); err != nil {
		return err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	unit := req.Unit
	if unit == "" {
		unit = domain.UnitPiece
	}
	category := domain.CategoryLeftovers
	row := entities.InventoryItem{
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
		Category: &category,
		AddedAt:  s.now(),
		Source:   domain.SourceCookedRemainder,
	}
	if req.ExpiryDate != "" {
		expiry := req.ExpiryDate
		row.ExpiryDate = &expiry
	}

	if err := s.inventory.Insert(ctx, userID, []entities.InventoryItem{row}); err != nil {
		return err
	}
	s.inventory.Refresh(ctx, userID)
	return s.repository.Update(ctx, userID, mealID, map[string]any{"leftover_name": name})
}

func (s *mealPlanService) dateRange(from, to string) (string, string, error) {
	now := s.now()
	if from == "" {
		offset := (int(now.Weekday()) + 6) % 7
		from = now.AddDate(0, 0, -offset).Format(domain.DateLayout)
	}
	start, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return "", "", domain.ErrInvalidDateRange
	}
	if to == "" {
		to = start.AddDate(0, 0, 6).Format(domain.DateLayout)
	}
	end, err := time.Parse(domain.DateLayout, to)
	if err != nil || end.Before(start) {
		return "", "", domain.ErrInvalidDateRange
	}
	return from, to, nil
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
