package domain

import (
	"errors"
	"time"
)

const (
	UnitPiece      = "st"
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "l"
	UnitDeciliter  = "dl"
	UnitCentiliter = "cl"
	UnitMilliliter = "ml"
	UnitPackage    = "pkt"

	CategoryFruitVegetables = "Frukt & Grönt"
	CategoryDairy           = "Mejeri"
	CategoryPantry          = "Skafferi"
	CategoryFrozen          = "Frys"
	CategoryChilled         = "Kyl"
	CategoryDrinks          = "Dryck"
	CategoryMeatFish        = "Kött & Fisk"
	CategoryOther           = "Övrigt"
	CategoryLeftovers       = "Matlådor"

	SourceScan            = "scan"
	SourceReceipt         = "receipt"
	SourceManual          = "manual"
	SourceCookedRemainder = "cooked_remainder"
	SourceBarcode         = "barcode"

	DateLayout = "2006-01-02"
)

var (
	Units = []string{UnitPiece, UnitKilogram, UnitGram, UnitLiter, UnitDeciliter, UnitCentiliter, UnitMilliliter, UnitPackage}
	// ScanCategories are the categories a scanned product can be filed under.
	ScanCategories = []string{
		CategoryFruitVegetables, CategoryDairy, CategoryPantry, CategoryFrozen,
		CategoryChilled, CategoryDrinks, CategoryMeatFish, CategoryOther,
	}
	Categories = append(append([]string{}, ScanCategories...), CategoryLeftovers)

	MessageSuccessGetInventory    = "inventory retrieved successfully"
	MessageSuccessAddItems        = "items added to inventory"
	MessageSuccessRemoveItem      = "item removed from inventory"
	MessageSuccessAnalyzeImage    = "image analyzed successfully"
	MessageSuccessLookupBarcode   = "barcode product found"
	MessageSuccessSendDigest      = "expiry digest sent"
	MessageFailedGetInventory     = "failed to retrieve inventory"
	MessageFailedAddItems         = "failed to add items to inventory"
	MessageFailedRemoveItem       = "failed to remove item from inventory"
	MessageFailedAnalyzeImage     = "failed to analyze image"
	MessageFailedLookupBarcode    = "failed to look up barcode"
	MessageFailedSendDigest       = "failed to send expiry digest"
	MessageFailedUploadScanImage  = "failed to upload scan image"
	MessageInventoryEmptyForScan  = "no items detected in image"
	MessageNoExpiringItemsInRange = "no items expire in the requested window"

	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrBarcodeNotFound       = errors.New("product not found for barcode")
	ErrInvalidBarcode        = errors.New("barcode must contain only digits")
	ErrInvalidImageFormat    = errors.New("invalid image format")
	ErrNoItemsToAdd          = errors.New("no items to add")
	ErrMissingEmail          = errors.New("no email address for the current user")
	ErrMailNotConfigured     = errors.New("mail delivery is not configured")
)

type (
	InventoryItem struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Quantity   float64   `json:"quantity"`
		Unit       string    `json:"unit"`
		Category   string    `json:"category"`
		ExpiryDate string    `json:"expiry_date"`
		PriceInfo  *float64  `json:"price_info,omitempty"`
		AddedDate  time.Time `json:"added_date"`
		Source     string    `json:"source"`
	}

	ScannedItem struct {
		Name       string   `json:"name" validate:"required,notblank"`
		Quantity   float64  `json:"quantity" validate:"gt=0"`
		Unit       string   `json:"unit" validate:"required,unit"`
		Category   string   `json:"category" validate:"omitempty,category"`
		ExpiryDate string   `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
		PriceInfo  *float64 `json:"price_info,omitempty" validate:"omitempty,gte=0"`
	}

	AddItemsRequest struct {
		Source string        `json:"source" validate:"omitempty,oneof=scan receipt manual barcode"`
		Items  []ScannedItem `json:"items" validate:"required,min=1,dive"`
	}

	InventoryResponse struct {
		Items      []InventoryItem `json:"items"`
		TotalItems int             `json:"total_items"`
		TotalValue float64         `json:"total_value"`
	}

	ScanResult struct {
		DetectedType string        `json:"detected_type"`
		TotalCost    *float64      `json:"total_cost,omitempty"`
		Items        []ScannedItem `json:"items"`
		ImageURL     string        `json:"image_url,omitempty"`
	}

	ExpiryDigestRequest struct {
		Days int `json:"days" validate:"omitempty,min=1,max=60"`
	}

	ExpiryDigestResponse struct {
		Email     string          `json:"email"`
		ItemCount int             `json:"item_count"`
		Items     []InventoryItem `json:"items"`
	}
)

// DaysUntilExpiry rounds up like a calendar countdown; ok is false when the
// item has no parseable expiry date.
func (i InventoryItem) DaysUntilExpiry(now time.Time) (days int, ok bool) {
	if i.ExpiryDate == "" {
		return 0, false
	}
	expiry, err := time.ParseInLocation(DateLayout, i.ExpiryDate, now.Location())
	if err != nil {
		return 0, false
	}
	hours := expiry.Sub(now).Hours()
	days = int(hours / 24)
	if hours > 0 && float64(days*24) < hours {
		days++
	}
	return days, true
}
