package cooking

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/consumption"
	"MatSmart-Lager/pkg/inventory"
	"MatSmart-Lager/pkg/metrics"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Reconciler turns confirmed deduction suggestions into a cooking session,
	// inventory changes and consumption logs. Writes run in a fixed order and
	// are not rolled back: a failure leaves the completed steps in place.
	Reconciler interface {
		Reconcile(ctx context.Context, userID, dishName string, suggestions []domain.DeductionSuggestion) (domain.ReconcileResult, error)
	}

	reconciler struct {
		inventory inventory.InventoryRepository
		logs      consumption.ConsumptionRepository
		sessions  SessionRepository
		now       func() time.Time
	}

	deduction struct {
		item   domain.InventoryItem
		amount float64
		cost   decimal.Decimal
	}
)

func NewReconciler(inventory inventory.InventoryRepository, logs consumption.ConsumptionRepository, sessions SessionRepository) Reconciler {
	return &reconciler{
		inventory: inventory,
		logs:      logs,
		sessions:  sessions,
		now:       time.Now,
	}
}

func (r *reconciler) Reconcile(ctx context.Context, userID, dishName string, suggestions []domain.DeductionSuggestion) (result domain.ReconcileResult, err error) {
	defer func() {
		metrics.RecordReconciliation(err)
		if err != nil {
			slog.Error("cooking reconciliation failed", "user_id", userID, "dish", dishName, "session_id", result.SessionID, "err", err)
			if result.ItemsUpdated+result.ItemsRemoved > 0 {
				r.inventory.Refresh(ctx, userID)
			}
			err = fmt.Errorf("%w: %w", domain.ErrReconcileFailed, err)
		}
	}()

	// the snapshot must match the store; the cache may predate a partial run
	snapshot, err := r.inventory.Load(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("%w: %w", domain.ErrInventoryUnavailable, err)
	}
	byID := make(map[string]domain.InventoryItem, len(snapshot))
	for _, item := range snapshot {
		byID[item.ID] = item
	}

	now := r.now()
	total := decimal.Zero
	deductions := make([]deduction, 0, len(suggestions))
	for _, s := range suggestions {
		item, ok := byID[s.ItemID]
		if !ok {
			result.Skipped = append(result.Skipped, s.ItemID)
			continue
		}
		cost := CostUsed(item, s.DeductAmount)
		total = total.Add(cost)
		deductions = append(deductions, deduction{item: item, amount: s.DeductAmount, cost: cost})
	}
	result.TotalCost = total.InexactFloat64()

	sessionID, err := r.sessions.CreateSession(ctx, userID, dishName, result.TotalCost, now)
	if err != nil {
		return result, err
	}
	result.SessionID = sessionID

	for _, d := range deductions {
		err := r.sessions.AddSessionItem(ctx, domain.CookingSessionItem{
			SessionID:    sessionID,
			ItemName:     d.item.Name,
			QuantityUsed: d.amount,
			Unit:         d.item.Unit,
			Cost:         d.cost.InexactFloat64(),
		})
		if err != nil {
			return result, err
		}
		result.ItemsAdded++
	}

	for _, d := range deductions {
		remaining := decimal.NewFromFloat(d.item.Quantity).Sub(decimal.NewFromFloat(d.amount))
		if remaining.LessThanOrEqual(decimal.Zero) {
			if err := r.inventory.Remove(ctx, userID, d.item.ID); err != nil {
				return result, err
			}
			result.ItemsRemoved++
			continue
		}
		if err := r.inventory.UpdateQuantity(ctx, userID, d.item.ID, remaining.InexactFloat64(), now); err != nil {
			return result, err
		}
		result.ItemsUpdated++
	}

	for _, d := range deductions {
		err := r.logs.Add(ctx, userID, domain.ConsumptionLog{
			Date:         now,
			ItemName:     d.item.Name,
			Cost:         d.cost.InexactFloat64(),
			QuantityUsed: d.amount,
			Unit:         d.item.Unit,
			Reason:       domain.ReasonCooked,
			DishName:     dishName,
		})
		if err != nil {
			return result, err
		}
		result.LogsAdded++
	}

	r.inventory.Refresh(ctx, userID)
	return result, nil
}

// CostUsed apportions the item's price to the deducted amount using the
// quantity before deduction. Items without a price or quantity cost nothing.
func CostUsed(item domain.InventoryItem, amount float64) decimal.Decimal {
	if item.PriceInfo == nil || item.Quantity <= 0 {
		return decimal.Zero
	}
	price := decimal.NewFromFloat(*item.PriceInfo)
	return price.Mul(decimal.NewFromFloat(amount)).Div(decimal.NewFromFloat(item.Quantity))
}
