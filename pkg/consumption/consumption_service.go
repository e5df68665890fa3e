package consumption

import (
	"MatSmart-Lager/domain"
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const statsWindowDays = 7

type (
	ConsumptionService interface {
		GetLogs(ctx context.Context, userID string) ([]domain.ConsumptionLog, error)
		AddManualLog(ctx context.Context, userID string, req domain.ManualLogRequest) error
		UpdateLog(ctx context.Context, userID, logID string, req domain.UpdateLogRequest) error
		DeleteLog(ctx context.Context, userID, logID string) error
		GetStats(ctx context.Context, userID string) (domain.ConsumptionStats, error)
	}

	consumptionService struct {
		repository ConsumptionRepository
		now        func() time.Time
	}
)

func NewConsumptionService(repository ConsumptionRepository) ConsumptionService {
	return &consumptionService{
		repository: repository,
		now:        time.Now,
	}
}

func (s *consumptionService) GetLogs(ctx context.Context, userID string) ([]domain.ConsumptionLog, error) {
	_ = s.repository.Watch(ctx, userID)
	return s.repository.List(ctx, userID)
}

func (s *consumptionService) AddManualLog(ctx context.Context, userID string, req domain.ManualLogRequest) error {
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		return domain.ErrEmptyItemName
	}
	if req.Cost < 0 || req.QuantityUsed < 0 {
		return domain.ErrNegativeAmount
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return err
	}
	reason := req.Reason
	if reason == "" {
		reason = domain.ReasonSnack
	}

	return s.repository.Add(ctx, userID, domain.ConsumptionLog{
		Date:         date,
		ItemName:     name,
		Cost:         req.Cost,
		QuantityUsed: req.QuantityUsed,
		Unit:         req.Unit,
		Reason:       reason,
		DishName:     strings.TrimSpace(req.DishName),
		Notes:        strings.TrimSpace(req.Notes),
	})
}

func (s *consumptionService) UpdateLog(ctx context.Context, userID, logID string, req domain.UpdateLogRequest) error {
	patch := domain.ConsumptionLogPatch{
		Cost:         req.Cost,
		QuantityUsed: req.QuantityUsed,
		Unit:         req.Unit,
		Reason:       req.Reason,
		DishName:     req.DishName,
		Notes:        req.Notes,
	}
	if req.ItemName != nil {
		name := strings.TrimSpace(*req.ItemName)
		if name == "" {
			return domain.ErrEmptyItemName
		}
		patch.ItemName = &name
	}
	if req.Date != nil {
		date, err := s.parseDate(*req.Date)
		if err != nil {
			return err
		}
		patch.Date = &date
	}
	if (patch.Cost != nil && *patch.Cost < 0) || (patch.QuantityUsed != nil && *patch.QuantityUsed < 0) {
		return domain.ErrNegativeAmount
	}
	if patch.IsEmpty() {
		return domain.ErrEmptyLogPatch
	}
	return s.repository.Update(ctx, userID, logID, patch)
}

func (s *consumptionService) DeleteLog(ctx context.Context, userID, logID string) error {
	return s.repository.Delete(ctx, userID, logID)
}

func (s *consumptionService) GetStats(ctx context.Context, userID string) (domain.ConsumptionStats, error) {
	logs, err := s.repository.List(ctx, userID)
	if err != nil {
		return domain.ConsumptionStats{}, err
	}
	return Summarize(logs, s.now()), nil
}

// Summarize totals the logs overall, per reason and per day for the seven
// days ending today.
func Summarize(logs []domain.ConsumptionLog, now time.Time) domain.ConsumptionStats {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daily := make(map[string]decimal.Decimal, statsWindowDays)
	byReason := make(map[string]decimal.Decimal, len(domain.Reasons))
	for _, reason := range domain.Reasons {
		byReason[reason] = decimal.Zero
	}

	total := decimal.Zero
	for _, log := range logs {
		cost := decimal.NewFromFloat(log.Cost)
		total = total.Add(cost)
		byReason[log.Reason] = byReason[log.Reason].Add(cost)
		day := log.Date.In(now.Location()).Format(domain.DateLayout)
		daily[day] = daily[day].Add(cost)
	}

	stats := domain.ConsumptionStats{
		LogCount:   len(logs),
		TotalSpent: total.Round(2).InexactFloat64(),
		LastWeek:   make([]domain.DailyCost, 0, statsWindowDays),
		ByReason:   make(map[string]float64, len(byReason)),
	}
	for i := statsWindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(domain.DateLayout)
		stats.LastWeek = append(stats.LastWeek, domain.DailyCost{
			Date: day,
			Cost: daily[day].Round(2).InexactFloat64(),
		})
	}
	for reason, sum := range byReason {
		stats.ByReason[reason] = sum.Round(2).InexactFloat64()
	}
	return stats
}

// parseDate accepts RFC3339 timestamps and plain dates; empty means now.
func (s *consumptionService) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(domain.DateLayout, raw, s.now().Location()); err == nil {
		return t, nil
	}
	return time.Time{}, domain.ErrInvalidLogDate
}
