package mealplan

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/store"
	"context"
	"errors"
	"fmt"
)

type (
	MealPlanRepository interface {
		ListRange(ctx context.Context, userID, from, to string) ([]domain.MealPlanItem, error)
		Get(ctx context.Context, userID, mealID string) (domain.MealPlanItem, error)
		Add(ctx context.Context, meal entities.MealPlan) (domain.MealPlanItem, error)
		Update(ctx context.Context, userID, mealID string, columns map[string]any) error
		Delete(ctx context.Context, userID, mealID string) error
	}

	mealPlanRepository struct {
		store store.Store
	}
)

func NewMealPlanRepository(s store.Store) MealPlanRepository {
	return &mealPlanRepository{store: s}
}

func (r *mealPlanRepository) ListRange(ctx context.Context, userID, from, to string) ([]domain.MealPlanItem, error) {
	var rows []entities.MealPlan
	err := r.store.Select(ctx, store.TableMealPlan,
		store.Where(store.Eq("user_id", userID), store.Gte("date", from), store.Lte("date", to)).
			OrderBy(store.Asc("date")),
		&rows,
	)
	if err != nil {
		return []domain.MealPlanItem{}, fmt.Errorf("fetch meal plan: %w", err)
	}

	meals := make([]domain.MealPlanItem, 0, len(rows))
	for _, row := range rows {
		meals = append(meals, mapRowToMeal(row))
	}
	return meals, nil
}

func (r *mealPlanRepository) Get(ctx context.Context, userID, mealID string) (domain.MealPlanItem, error) {
	var rows []entities.MealPlan
	err := r.store.Select(ctx, store.TableMealPlan, store.Where(ownerScope(userID, mealID)...), &rows)
	if err != nil {
		return domain.MealPlanItem{}, fmt.Errorf("fetch meal %s: %w", mealID, err)
	}
	if len(rows) == 0 {
		return domain.MealPlanItem{}, domain.ErrMealNotFound
	}
	return mapRowToMeal(rows[0]), nil
}

func (r *mealPlanRepository) Add(ctx context.Context, meal entities.MealPlan) (domain.MealPlanItem, error) {
	var created []entities.MealPlan
	if err := r.store.Insert(ctx, store.TableMealPlan, meal, &created); err != nil {
		return domain.MealPlanItem{}, fmt.Errorf("add meal: %w", err)
	}
	if len(created) == 0 {
		return mapRowToMeal(meal), nil
	}
	return mapRowToMeal(created[0]), nil
}

func (r *mealPlanRepository) Update(ctx context.Context, userID, mealID string, columns map[string]any) error {
	if err := r.store.Update(ctx, store.TableMealPlan, ownerScope(userID, mealID), columns); err != nil {
		return fmt.Errorf("update meal %s: %w", mealID, err)
	}
	return nil
}

func (r *mealPlanRepository) Delete(ctx context.Context, userID, mealID string) error {
	err := r.store.Delete(ctx, store.TableMealPlan, ownerScope(userID, mealID))
	if errors.Is(err, store.ErrNoRows) {
		return domain.ErrMealNotFound
	}
	if err != nil {
		return fmt.Errorf("delete meal %s: %w", mealID, err)
	}
	return nil
}

func ownerScope(userID, id string) []store.Filter {
	return []store.Filter{store.Eq("id", id), store.Eq("user_id", userID)}
}

func mapRowToMeal(row entities.MealPlan) domain.MealPlanItem {
	return domain.MealPlanItem{
		ID:            row.ID,
		UserID:        row.UserID,
		Date:          row.Date,
		MealType:      row.MealType,
		Person:        row.Person,
		RecipeID:      row.RecipeID,
		CustomDish:    row.CustomDish,
		ExtraServings: row.ExtraServings,
		LeftoverName:  row.LeftoverName,
		Notes:         row.Notes,
	}
}
