// Package barcode looks products up in the OpenFoodFacts database.
package barcode

import (
	"MatSmart-Lager/domain"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://world.openfoodfacts.org"

var (
	digitsPattern   = regexp.MustCompile(`^[0-9]{6,14}$`)
	quantityPattern = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)`)
)

type (
	Lookup interface {
		Lookup(ctx context.Context, code string) (domain.ScannedItem, error)
	}

	openFoodFacts struct {
		baseURL    string
		httpClient *http.Client
		now        func() time.Time
	}

	productResponse struct {
		Status  int `json:"status"`
		Product struct {
			ProductName    string   `json:"product_name"`
			ProductNameSV  string   `json:"product_name_sv"`
			CategoriesTags []string `json:"categories_tags"`
			Quantity       string   `json:"quantity"`
		} `json:"product"`
	}
)

func NewLookup(baseURL string, httpClient *http.Client) Lookup {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &openFoodFacts{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (o *openFoodFacts) Lookup(ctx context.Context, code string) (domain.ScannedItem, error) {
	code = strings.TrimSpace(code)
	if !digitsPattern.MatchString(code) {
		return domain.ScannedItem{}, domain.ErrInvalidBarcode
	}

	url := fmt.Sprintf("%s/api/v0/product/%s.json", o.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ScannedItem{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return domain.ScannedItem{}, fmt.Errorf("openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ScannedItem{}, domain.ErrBarcodeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ScannedItem{}, fmt.Errorf("openfoodfacts error: %s", resp.Status)
	}

	var product productResponse
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return domain.ScannedItem{}, fmt.Errorf("decode product: %w", err)
	}
	if product.Status != 1 {
		return domain.ScannedItem{}, domain.ErrBarcodeNotFound
	}

	name := product.Product.ProductNameSV
	if name == "" {
		name = product.Product.ProductName
	}
	if name == "" {
		name = "Okänd vara"
	}
	quantity, unit := ParseQuantity(product.Product.Quantity)
	price := 0.0

	return domain.ScannedItem{
		Name:       name,
		Quantity:   quantity,
		Unit:       unit,
		Category:   GuessCategory(product.Product.CategoriesTags),
		ExpiryDate: o.now().AddDate(0, 0, 7).Format(domain.DateLayout),
		PriceInfo:  &price,
	}, nil
}

// GuessCategory maps OpenFoodFacts category tags onto the pantry categories.
func GuessCategory(tags []string) string {
	cats := strings.ToLower(strings.Join(tags, " "))
	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(cats, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("dairy", "milk", "cheese"):
		return domain.CategoryDairy
	case containsAny("fruit", "vegetable"):
		return domain.CategoryFruitVegetables
	case containsAny("meat", "fish"):
		return domain.CategoryMeatFish
	case containsAny("beverage", "drink"):
		return domain.CategoryDrinks
	case containsAny("pantry", "pasta", "rice"):
		return domain.CategoryPantry
	default:
		return domain.CategoryOther
	}
}

// ParseQuantity reads strings like "1,5 kg" or "500 ml". Anything it cannot
// read becomes 1 st.
func ParseQuantity(raw string) (float64, string) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return 1, domain.UnitPiece
	}

	var unit string
	switch {
	case strings.Contains(q, "kg"):
		unit = domain.UnitKilogram
	case strings.Contains(q, "ml"):
		unit = domain.UnitMilliliter
	case strings.Contains(q, "cl"):
		unit = domain.UnitCentiliter
	case strings.Contains(q, "dl"):
		unit = domain.UnitDeciliter
	case strings.Contains(q, "g"):
		unit = domain.UnitGram
	case strings.Contains(q, "l"):
		unit = domain.UnitLiter
	default:
		return 1, domain.UnitPiece
	}

	m := quantityPattern.FindStringSubmatch(q)
	if m == nil {
		return 1, domain.UnitPiece
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || value <= 0 {
		return 1, domain.UnitPiece
	}
	return value, unit
}
