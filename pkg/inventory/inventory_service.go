package inventory

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/internal/utils/mailing"
	"MatSmart-Lager/internal/utils/storage"
	"MatSmart-Lager/pkg/barcode"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	scanFolder        = "scans"
	DefaultDigestDays = 3
)

type (
	InventoryService interface {
		GetInventory(ctx context.Context, userID string) (domain.InventoryResponse, error)
		AddItems(ctx context.Context, userID string, req domain.AddItemsRequest) (int, error)
		RemoveItem(ctx context.Context, userID, itemID string) error
		AnalyzeImage(ctx context.Context, userID string, data []byte, filename, contentType string) (domain.ScanResult, error)
		LookupBarcode(ctx context.Context, code string) (domain.ScannedItem, error)
		SendExpiryDigest(ctx context.Context, userID, email string, days int) (domain.ExpiryDigestResponse, error)
	}

	// ImageAnalyzer extracts grocery items from a receipt or product photo.
	ImageAnalyzer interface {
		AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ScanResult, error)
	}

	inventoryService struct {
		repository InventoryRepository
		analyzer   ImageAnalyzer
		barcodes   barcode.Lookup
		s3         storage.AwsS3
		mailer     mailing.Mailer
		appURL     string
		now        func() time.Time
	}

	ServiceOption func(*inventoryService)
)

// WithStorage uploads analyzed images; without it scans are not archived.
func WithStorage(s3 storage.AwsS3) ServiceOption {
	return func(s *inventoryService) { s.s3 = s3 }
}

func WithMailer(mailer mailing.Mailer, appURL string) ServiceOption {
	return func(s *inventoryService) {
		s.mailer = mailer
		s.appURL = appURL
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *inventoryService) { s.now = now }
}

func NewInventoryService(repository InventoryRepository, analyzer ImageAnalyzer, barcodes barcode.Lookup, opts ...ServiceOption) InventoryService {
	s := &inventoryService{
		repository: repository,
		analyzer:   analyzer,
		barcodes:   barcodes,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *inventoryService) GetInventory(ctx context.Context, userID string) (domain.InventoryResponse, error) {
	if err := s.repository.Watch(ctx, userID); err != nil {
		slog.Warn("inventory live updates unavailable", "user_id", userID, "err", err)
	}

	items, err := s.repository.List(ctx, userID)
	if err != nil {
		return domain.InventoryResponse{Items: []domain.InventoryItem{}}, err
	}

	return domain.InventoryResponse{
		Items:      items,
		TotalItems: len(items),
		TotalValue: TotalValue(items),
	}, nil
}

func (s *inventoryService) AddItems(ctx context.Context, userID string, req domain.AddItemsRequest) (int, error) {
	if len(req.Items) == 0 {
		return 0, domain.ErrNoItemsToAdd
	}
	source := req.Source
	if source == "" {
		source = domain.SourceScan
	}

	now := s.now()
	rows := make([]entities.InventoryItem, 0, len(req.Items))
	for _, item := range req.Items {
		rows = append(rows, newInventoryRow(item, source, now))
	}

	if err := s.repository.Insert(ctx, userID, rows); err != nil {
		return 0, err
	}
	s.repository.Refresh(ctx, userID)
	return len(rows), nil
}

func (s *inventoryService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if err := s.repository.Remove(ctx, userID, itemID); err != nil {
		return err
	}
	s.repository.Refresh(ctx, userID)
	return nil
}

func (s *inventoryService) AnalyzeImage(ctx context.Context, userID string, data []byte, filename, contentType string) (domain.ScanResult, error) {
	mimeType := storage.DetectImageType(contentType, filename, data)
	if !slices.Contains(storage.AllowImage, mimeType) {
		return domain.ScanResult{}, domain.ErrInvalidImageFormat
	}

	var imageURL string
	if s.s3 != nil {
		name := fmt.Sprintf("%s-%s", userID, uuid.NewString())
		key, err := s.s3.UploadFile(ctx, name, data, mimeType, scanFolder, storage.AllowImage...)
		if err != nil {
			slog.Warn(domain.MessageFailedUploadScanImage, "user_id", userID, "err", err)
		} else {
			imageURL = s.s3.GetPublicLinkKey(key)
		}
	}

	result, err := s.analyzer.AnalyzeImage(ctx, data, mimeType)
	if err != nil {
		slog.Error("image analysis failed", "user_id", userID, "err", err)
		return domain.ScanResult{}, domain.ErrSuggestionUnavailable
	}
	result.ImageURL = imageURL
	if result.Items == nil {
		result.Items = []domain.ScannedItem{}
	}
	return result, nil
}

func (s *inventoryService) LookupBarcode(ctx context.Context, code string) (domain.ScannedItem, error) {
	return s.barcodes.Lookup(ctx, code)
}

func (s *inventoryService) SendExpiryDigest(ctx context.Context, userID, email string, days int) (domain.ExpiryDigestResponse, error) {
	if s.mailer == nil {
		return domain.ExpiryDigestResponse{}, domain.ErrMailNotConfigured
	}
	if strings.TrimSpace(email) == "" {
		return domain.ExpiryDigestResponse{}, domain.ErrMissingEmail
	}
	if days <= 0 {
		days = DefaultDigestDays
	}

	items, err := s.repository.Load(ctx, userID)
	if err != nil {
		return domain.ExpiryDigestResponse{}, err
	}
	now := s.now()
	expiring := ExpiringWithin(items, now, days)
	resp := domain.ExpiryDigestResponse{Email: email, ItemCount: len(expiring), Items: expiring}
	if len(expiring) == 0 {
		return resp, nil
	}

	body, err := mailing.RenderExpiryDigest(expiring, days, s.appURL, now)
	if err != nil {
		return domain.ExpiryDigestResponse{}, fmt.Errorf("render expiry digest: %w", err)
	}
	if err := s.mailer.Send(email, mailing.ExpiryDigestSubject, body); err != nil {
		return domain.ExpiryDigestResponse{}, fmt.Errorf("send expiry digest: %w", err)
	}
	return resp, nil
}

// TotalValue sums the known prices of the items.
func TotalValue(items []domain.InventoryItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		if item.PriceInfo != nil {
			total = total.Add(decimal.NewFromFloat(*item.PriceInfo))
		}
	}
	return total.Round(2).InexactFloat64()
}

// ExpiringWithin returns the items that expire today or within days, soonest
// first. Items already past their date or without a date are left out.
func ExpiringWithin(items []domain.InventoryItem, now time.Time, days int) []domain.InventoryItem {
	type dated struct {
		item domain.InventoryItem
		left int
	}
	var found []dated
	for _, item := range items {
		left, ok := item.DaysUntilExpiry(now)
		if !ok || left < 0 || left > days {
			continue
		}
		found = append(found, dated{item: item, left: left})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].left < found[j].left })

	out := make([]domain.InventoryItem, 0, len(found))
	for _, d := range found {
		out = append(out, d.item)
	}
	return out
}

func newInventoryRow(item domain.ScannedItem, source string, now time.Time) entities.InventoryItem {
	category := item.Category
	if category == "" {
		category = domain.CategoryOther
	}
	unit := item.Unit
	if unit == "" {
		unit = domain.UnitPiece
	}
	row := entities.InventoryItem{
		Name:      strings.TrimSpace(item.Name),
		Quantity:  item.Quantity,
		Unit:      unit,
		Category:  &category,
		PriceInfo: item.PriceInfo,
		AddedAt:   now,
		Source:    source,
	}
	if item.ExpiryDate != "" {
		expiry := item.ExpiryDate
		row.ExpiryDate = &expiry
	}
	return row
}
