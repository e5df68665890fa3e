package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const digestJobTimeout = 2 * time.Minute

type (
	// DigestRecipient is a household member who gets the scheduled digest.
	DigestRecipient struct {
		UserID string
		Email  string
	}

	DigestScheduler struct {
		cron       *cron.Cron
		service    InventoryService
		recipients []DigestRecipient
		days       int
	}
)

// ParseDigestRecipients reads "user-id:email" pairs separated by commas.
func ParseDigestRecipients(raw string) ([]DigestRecipient, error) {
	var recipients []DigestRecipient
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		userID, email, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(userID) == "" || strings.TrimSpace(email) == "" {
			return nil, fmt.Errorf("invalid digest recipient %q, want user-id:email", pair)
		}
		recipients = append(recipients, DigestRecipient{
			UserID: strings.TrimSpace(userID),
			Email:  strings.TrimSpace(email),
		})
	}
	return recipients, nil
}

func NewDigestScheduler(service InventoryService, recipients []DigestRecipient, days int) *DigestScheduler {
	return &DigestScheduler{
		cron:       cron.New(),
		service:    service,
		recipients: recipients,
		days:       days,
	}
}

// Start schedules the digest with a standard five-field cron spec.
func (d *DigestScheduler) Start(spec string) error {
	if _, err := d.cron.AddFunc(spec, d.RunOnce); err != nil {
		return fmt.Errorf("schedule expiry digest: %w", err)
	}
	d.cron.Start()
	slog.Info("expiry digest scheduled", "spec", spec, "recipients", len(d.recipients))
	return nil
}

func (d *DigestScheduler) Stop() {
	<-d.cron.Stop().Done()
}

// RunOnce sends the digest to every recipient; one failure does not stop the
// others.
func (d *DigestScheduler) RunOnce() {
	for _, r := range d.recipients {
		ctx, cancel := context.WithTimeout(context.Background(), digestJobTimeout)
		resp, err := d.service.SendExpiryDigest(ctx, r.UserID, r.Email, d.days)
		cancel()
		if err != nil {
			slog.Error("scheduled expiry digest failed", "user_id", r.UserID, "err", err)
			continue
		}
		slog.Info("scheduled expiry digest", "user_id", r.UserID, "items", resp.ItemCount)
	}
}
