package inventory

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDigestRecipients(t *testing.T) {
	got, err := ParseDigestRecipients(" u1:emma@example.com , u2:david@example.com,")
	require.NoError(t, err)
	assert.Equal(t, []DigestRecipient{
		{UserID: "u1", Email: "emma@example.com"},
		{UserID: "u2", Email: "david@example.com"},
	}, got)

	_, err = ParseDigestRecipients("u1")
	assert.Error(t, err)

	got, err = ParseDigestRecipients("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDigestSchedulerRunOnce(t *testing.T) {
	s := memory.New()
	mailer := &fakeMailer{}
	svc := newTestService(s, &fakeAnalyzer{}, WithMailer(mailer, ""))
	_, err := svc.AddItems(context.Background(), "u1", domain.AddItemsRequest{Items: []domain.ScannedItem{
		{Name: "Fil", Quantity: 1, Unit: domain.UnitLiter, ExpiryDate: "2024-05-02"},
	}})
	require.NoError(t, err)

	scheduler := NewDigestScheduler(svc, []DigestRecipient{
		{UserID: "u1", Email: "emma@example.com"},
		{UserID: "u2", Email: "david@example.com"},
	}, 3)
	scheduler.RunOnce()

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "emma@example.com", mailer.to)
	assert.Error(t, scheduler.Start("not a cron spec"))
}

func TestDigestSchedulerReadsCurrentStock(t *testing.T) {
	s := memory.New()
	mailer := &fakeMailer{}
	svc := newTestService(s, &fakeAnalyzer{}, WithMailer(mailer, ""))
	scheduler := NewDigestScheduler(svc, []DigestRecipient{{UserID: "u1", Email: "emma@example.com"}}, 3)

	scheduler.RunOnce()
	require.Zero(t, mailer.sent)

	// written by another instance, so nothing here refreshes the cache
	require.NoError(t, s.Insert(context.Background(), store.TableInventoryItems, entities.InventoryItem{
		UserID:     "u1",
		Name:       "Fil",
		Quantity:   1,
		Unit:       domain.UnitLiter,
		ExpiryDate: ptr("2024-05-02"),
		AddedAt:    fixedNow,
		Source:     domain.SourceManual,
	}, nil))

	scheduler.RunOnce()
	assert.Equal(t, 1, mailer.sent)
	assert.Contains(t, mailer.body, "Fil")
}
