package consumption

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)

func newTestService(s store.Store) (*consumptionService, ConsumptionRepository) {
	repo := NewConsumptionRepository(s)
	svc := NewConsumptionService(repo).(*consumptionService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestAddManualLogRejectsBlankNameBeforeStore(t *testing.T) {
	s := memory.New()
	svc, _ := newTestService(s)

	for _, name := range []string{"", "   ", "\t\n"} {
		err := svc.AddManualLog(context.Background(), "u1", domain.ManualLogRequest{ItemName: name, Cost: 10})
		assert.ErrorIs(t, err, domain.ErrEmptyItemName)
	}
	assert.Empty(t, s.Calls())
}

func TestAddManualLogDefaults(t *testing.T) {
	s := memory.New()
	svc, repo := newTestService(s)
	ctx := context.Background()

	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Banan"}))

	logs, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Banan", logs[0].ItemName)
	assert.Equal(t, domain.ReasonSnack, logs[0].Reason)
	assert.Zero(t, logs[0].Cost)
	assert.Zero(t, logs[0].QuantityUsed)
	assert.True(t, logs[0].Date.Equal(fixedNow))

	calls := s.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, memory.Call{Op: memory.OpInsert, Table: store.TableConsumptionLogs}, calls[0])
	assert.Equal(t, memory.Call{Op: memory.OpSelect, Table: store.TableConsumptionLogs}, calls[1])
}

func TestAddManualLogParsesDates(t *testing.T) {
	svc, repo := newTestService(memory.New())
	ctx := context.Background()

	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Äpple", Date: "2024-05-01"}))
	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Päron", Date: "2024-05-03T09:15:00Z"}))
	err := svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Kiwi", Date: "igår"})
	assert.ErrorIs(t, err, domain.ErrInvalidLogDate)

	logs, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Päron", logs[0].ItemName)
	assert.Equal(t, "Äpple", logs[1].ItemName)
}

func TestAddLogFailureDoesNotPoisonReads(t *testing.T) {
	s := memory.New()
	svc, _ := newTestService(s)
	ctx := context.Background()
	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Bröd", Cost: 30}))

	boom := errors.New("insert failed")
	s.FailOn(memory.OpInsert, store.TableConsumptionLogs, boom)
	err := svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Ost"})
	assert.ErrorIs(t, err, boom)

	logs, err := svc.GetLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Bröd", logs[0].ItemName)

	stats, err := svc.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LogCount)
	assert.InDelta(t, 30.0, stats.TotalSpent, 1e-9)
}

func TestGetLogsRetriesAfterFailedLoad(t *testing.T) {
	s := memory.New()
	svc, _ := newTestService(s)
	ctx := context.Background()
	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Bröd"}))

	boom := errors.New("select failed")
	s.FailOn(memory.OpSelect, store.TableConsumptionLogs, boom)
	_, err := svc.GetLogs(ctx, "u1")
	assert.ErrorIs(t, err, boom)

	s.FailOn(memory.OpSelect, store.TableConsumptionLogs, nil)
	logs, err := svc.GetLogs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestUpdateLogSendsOnlyPresentFields(t *testing.T) {
	s := memory.New()
	svc, repo := newTestService(s)
	ctx := context.Background()

	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Ost", Cost: 20, Notes: "lagrad"}))
	logs, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	id := logs[0].ID

	cost := 25.5
	require.NoError(t, svc.UpdateLog(ctx, "u1", id, domain.UpdateLogRequest{Cost: &cost}))

	logs, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 25.5, logs[0].Cost)
	assert.Equal(t, "Ost", logs[0].ItemName)
	assert.Equal(t, "lagrad", logs[0].Notes)

	assert.ErrorIs(t, svc.UpdateLog(ctx, "u1", id, domain.UpdateLogRequest{}), domain.ErrEmptyLogPatch)
	blank := " "
	assert.ErrorIs(t, svc.UpdateLog(ctx, "u1", id, domain.UpdateLogRequest{ItemName: &blank}), domain.ErrEmptyItemName)
}

func TestDeleteLogIsOwnerScoped(t *testing.T) {
	s := memory.New()
	svc, repo := newTestService(s)
	ctx := context.Background()

	require.NoError(t, svc.AddManualLog(ctx, "u1", domain.ManualLogRequest{ItemName: "Ost"}))
	logs, err := repo.List(ctx, "u1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteLog(ctx, "u2", logs[0].ID), domain.ErrLogNotFound)
	assert.Len(t, s.Rows(store.TableConsumptionLogs), 1)

	require.NoError(t, svc.DeleteLog(ctx, "u1", logs[0].ID))
	logs, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSummarize(t *testing.T) {
	logs := []domain.ConsumptionLog{
		{Date: fixedNow, Cost: 10.1, Reason: domain.ReasonCooked},
		{Date: fixedNow.Add(-2 * time.Hour), Cost: 5.2, Reason: domain.ReasonSnack},
		{Date: fixedNow.AddDate(0, 0, -6), Cost: 3, Reason: domain.ReasonExpired},
		{Date: fixedNow.AddDate(0, 0, -30), Cost: 100, Reason: domain.ReasonCooked},
	}

	stats := Summarize(logs, fixedNow)
	assert.Equal(t, 4, stats.LogCount)
	assert.Equal(t, 118.3, stats.TotalSpent)
	require.Len(t, stats.LastWeek, 7)
	assert.Equal(t, domain.DailyCost{Date: "2024-05-04", Cost: 3}, stats.LastWeek[0])
	assert.Equal(t, domain.DailyCost{Date: "2024-05-10", Cost: 15.3}, stats.LastWeek[6])
	assert.Equal(t, 110.1, stats.ByReason[domain.ReasonCooked])
	assert.Equal(t, 5.2, stats.ByReason[domain.ReasonSnack])
	assert.Equal(t, 3.0, stats.ByReason[domain.ReasonExpired])
}
