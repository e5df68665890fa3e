package cooking

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/metrics"
	"MatSmart-Lager/pkg/store"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var errNoSessionID = errors.New("store returned no session id")

type (
	SessionRepository interface {
		// List reads the owner's sessions newest first, each with its items.
		// It always goes to the store, so a session left without items by a
		// failed confirm is visible on the next read.
		List(ctx context.Context, userID string) ([]domain.CookingSession, error)
		CreateSession(ctx context.Context, userID, dishName string, totalCost float64, createdAt time.Time) (string, error)
		AddSessionItem(ctx context.Context, item domain.CookingSessionItem) error
	}

	sessionRepository struct {
		store store.Store
	}
)

func NewSessionRepository(s store.Store) SessionRepository {
	return &sessionRepository{store: s}
}

func (r *sessionRepository) List(ctx context.Context, userID string) ([]domain.CookingSession, error) {
	if userID == "" {
		return []domain.CookingSession{}, domain.ErrMissingOwner
	}
	sessions, err := r.fetch(ctx, userID)
	metrics.RecordRefresh(store.TableCookingSessions, err)
	if err != nil {
		slog.Error("cooking session fetch failed", "user_id", userID, "err", err)
		return []domain.CookingSession{}, err
	}
	return sessions, nil
}

func (r *sessionRepository) fetch(ctx context.Context, userID string) ([]domain.CookingSession, error) {
	var rows []entities.CookingSession
	err := r.store.Select(ctx, store.TableCookingSessions,
		store.Where(store.Eq("user_id", userID)).OrderBy(store.Desc("created_at")),
		&rows,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch cooking sessions: %w", err)
	}

	sessions := make([]domain.CookingSession, 0, len(rows))
	for _, row := range rows {
		var itemRows []entities.CookingSessionItem
		err := r.store.Select(ctx, store.TableCookingSessionItems,
			store.Where(store.Eq("session_id", row.ID)),
			&itemRows,
		)
		if err != nil {
			return nil, fmt.Errorf("fetch items of session %s: %w", row.ID, err)
		}

		session := domain.CookingSession{
			ID:        row.ID,
			UserID:    row.UserID,
			DishName:  row.DishName,
			CreatedAt: row.CreatedAt,
			TotalCost: row.TotalCost,
			Items:     make([]domain.CookingSessionItem, 0, len(itemRows)),
		}
		if row.Notes != nil {
			session.Notes = *row.Notes
		}
		for _, item := range itemRows {
			session.Items = append(session.Items, domain.CookingSessionItem{
				ID:           item.ID,
				SessionID:    item.SessionID,
				ItemName:     item.ItemName,
				QuantityUsed: item.QuantityUsed,
				Unit:         item.Unit,
				Cost:         item.Cost,
			})
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *sessionRepository) CreateSession(ctx context.Context, userID, dishName string, totalCost float64, createdAt time.Time) (string, error) {
	var created []entities.CookingSession
	err := r.store.Insert(ctx, store.TableCookingSessions, entities.CookingSession{
		UserID:    userID,
		DishName:  dishName,
		CreatedAt: createdAt,
		TotalCost: totalCost,
	}, &created)
	if err != nil {
		return "", fmt.Errorf("create cooking session: %w", err)
	}
	if len(created) == 0 || created[0].ID == "" {
		return "", errNoSessionID
	}
	return created[0].ID, nil
}

func (r *sessionRepository) AddSessionItem(ctx context.Context, item domain.CookingSessionItem) error {
	err := r.store.Insert(ctx, store.TableCookingSessionItems, entities.CookingSessionItem{
		SessionID:    item.SessionID,
		ItemName:     item.ItemName,
		QuantityUsed: item.QuantityUsed,
		Unit:         item.Unit,
		Cost:         item.Cost,
	}, nil)
	if err != nil {
		return fmt.Errorf("add session item %q: %w", item.ItemName, err)
	}
	return nil
}
