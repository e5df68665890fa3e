package domain

import (
	"errors"
	"time"
)

const (
	ReasonCooked  = "cooked"
	ReasonExpired = "expired"
	ReasonSnack   = "snack"
)

var (
	Reasons = []string{ReasonCooked, ReasonExpired, ReasonSnack}

	MessageSuccessGetLogs   = "consumption logs retrieved successfully"
	MessageSuccessAddLog    = "consumption log added"
	MessageSuccessUpdateLog = "consumption log updated"
	MessageSuccessDeleteLog = "consumption log deleted"
	MessageSuccessGetStats  = "consumption statistics retrieved successfully"
	MessageFailedGetLogs    = "failed to retrieve consumption logs"
	MessageFailedAddLog     = "failed to add consumption log"
	MessageFailedUpdateLog  = "failed to update consumption log"
	MessageFailedDeleteLog  = "failed to delete consumption log"
	MessageFailedGetStats   = "failed to retrieve consumption statistics"

	ErrEmptyItemName  = errors.New("item name must not be empty")
	ErrInvalidLogDate = errors.New("invalid log date, use RFC3339 or YYYY-MM-DD")
	ErrNegativeAmount = errors.New("cost and quantity must not be negative")
	ErrEmptyLogPatch  = errors.New("no fields to update")
	ErrLogNotFound    = errors.New("consumption log not found")
)

type (
	ConsumptionLog struct {
		ID           string    `json:"id"`
		Date         time.Time `json:"date"`
		ItemName     string    `json:"item_name"`
		Cost         float64   `json:"cost"`
		QuantityUsed float64   `json:"quantity_used"`
		Unit         string    `json:"unit"`
		Reason       string    `json:"reason"`
		DishName     string    `json:"dish_name,omitempty"`
		Notes        string    `json:"notes,omitempty"`
	}

	// ConsumptionLogPatch carries only the fields that change; nil fields are
	// left untouched in the store.
	ConsumptionLogPatch struct {
		Date         *time.Time
		ItemName     *string
		Cost         *float64
		QuantityUsed *float64
		Unit         *string
		Reason       *string
		DishName     *string
		Notes        *string
	}

	ManualLogRequest struct {
		Date         string  `json:"date"`
		ItemName     string  `json:"item_name"`
		Cost         float64 `json:"cost" validate:"gte=0"`
		QuantityUsed float64 `json:"quantity_used" validate:"gte=0"`
		Unit         string  `json:"unit" validate:"omitempty,unit"`
		Reason       string  `json:"reason" validate:"omitempty,reason"`
		DishName     string  `json:"dish_name"`
		Notes        string  `json:"notes"`
	}

	UpdateLogRequest struct {
		Date         *string  `json:"date"`
		ItemName     *string  `json:"item_name"`
		Cost         *float64 `json:"cost" validate:"omitempty,gte=0"`
		QuantityUsed *float64 `json:"quantity_used" validate:"omitempty,gte=0"`
		Unit         *string  `json:"unit" validate:"omitempty,unit"`
		Reason       *string  `json:"reason" validate:"omitempty,reason"`
		DishName     *string  `json:"dish_name"`
		Notes        *string  `json:"notes"`
	}

	DailyCost struct {
		Date string  `json:"date"`
		Cost float64 `json:"cost"`
	}

	ConsumptionStats struct {
		LogCount   int                `json:"log_count"`
		TotalSpent float64            `json:"total_spent"`
		LastWeek   []DailyCost        `json:"last_week"`
		ByReason   map[string]float64 `json:"by_reason"`
	}
)

func (p ConsumptionLogPatch) IsEmpty() bool {
	return p.Date == nil && p.ItemName == nil && p.Cost == nil && p.QuantityUsed == nil &&
		p.Unit == nil && p.Reason == nil && p.DishName == nil && p.Notes == nil
}
