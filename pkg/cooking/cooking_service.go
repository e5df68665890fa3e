package cooking

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/inventory"
	"context"
	"log/slog"
	"strings"
)

type (
	CookingService interface {
		SuggestDeductions(ctx context.Context, userID, dish string) (domain.SuggestDeductionsResponse, error)
		Confirm(ctx context.Context, userID string, req domain.ConfirmCookingRequest) (domain.ReconcileResult, error)
		GetSessions(ctx context.Context, userID string) ([]domain.CookingSession, error)
	}

	DeductionSuggester interface {
		SuggestDeductions(ctx context.Context, dish string, inventory []domain.InventoryItem) ([]domain.DeductionSuggestion, error)
	}

	cookingService struct {
		inventory  inventory.InventoryRepository
		sessions   SessionRepository
		reconciler Reconciler
		suggester  DeductionSuggester
	}
)

func NewCookingService(inventory inventory.InventoryRepository, sessions SessionRepository, reconciler Reconciler, suggester DeductionSuggester) CookingService {
	return &cookingService{
		inventory:  inventory,
		sessions:   sessions,
		reconciler: reconciler,
		suggester:  suggester,
	}
}

func (s *cookingService) SuggestDeductions(ctx context.Context, userID, dish string) (domain.SuggestDeductionsResponse, error) {
	dish = strings.TrimSpace(dish)
	if dish == "" {
		return domain.SuggestDeductionsResponse{}, domain.ErrEmptyDishName
	}
	resp := domain.SuggestDeductionsResponse{Dish: dish, Suggestions: []domain.DeductionSuggestion{}}

	items, err := s.inventory.List(ctx, userID)
	if err != nil {
		return resp, err
	}
	if len(items) == 0 {
		return resp, nil
	}

	suggestions, err := s.suggester.SuggestDeductions(ctx, dish, items)
	if err != nil {
		slog.Error("deduction suggestion failed", "user_id", userID, "dish", dish, "err", err)
		return resp, domain.ErrSuggestionUnavailable
	}
	if suggestions != nil {
		resp.Suggestions = suggestions
	}
	return resp, nil
}

func (s *cookingService) Confirm(ctx context.Context, userID string, req domain.ConfirmCookingRequest) (domain.ReconcileResult, error) {
	dish := strings.TrimSpace(req.DishName)
	if dish == "" {
		return domain.ReconcileResult{}, domain.ErrEmptyDishName
	}
	return s.reconciler.Reconcile(ctx, userID, dish, req.Suggestions)
}

func (s *cookingService) GetSessions(ctx context.Context, userID string) ([]domain.CookingSession, error) {
	return s.sessions.List(ctx, userID)
}
