package mailing

import (
	"testing"
	"time"

	"MatSmart-Lager/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderExpiryDigest(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	items := []domain.InventoryItem{
		{Name: "Mjölk", Quantity: 1, Unit: "l", ExpiryDate: "2024-05-02"},
		{Name: "<Yoghurt>", Quantity: 2, Unit: "st", ExpiryDate: "2024-05-03"},
	}

	body, err := RenderExpiryDigest(items, 3, "https://matsmart.example", now)
	require.NoError(t, err)

	assert.Contains(t, body, "2 varor går ut inom 3 dagar")
	assert.Contains(t, body, "Mjölk")
	assert.Contains(t, body, "&lt;Yoghurt&gt;")
	assert.Contains(t, body, `href="https://matsmart.example"`)
	assert.Contains(t, body, "2024-05-01 08:00")
}

func TestNewMailerWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer(MailConfig{}))
	assert.NotNil(t, NewMailer(MailConfig{SMTPHost: "smtp.example", SMTPPort: "587"}))
}
