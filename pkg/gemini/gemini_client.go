// Package gemini wraps the Gemini generateContent REST API for the three
// suggestion operations: image extraction, ingredient deduction and recipes.
package gemini

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/metrics"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type (
	Client interface {
		AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ScanResult, error)
		SuggestDeductions(ctx context.Context, dish string, inventory []domain.InventoryItem) ([]domain.DeductionSuggestion, error)
		SuggestRecipes(ctx context.Context, inventory []domain.InventoryItem, now time.Time) ([]domain.Recipe, error)
	}

	Config struct {
		APIKey            string
		Model             string
		BaseURL           string
		HTTPClient        *http.Client
		RequestsPerMinute int
	}

	geminiClient struct {
		apiKey     string
		model      string
		baseURL    string
		httpClient *http.Client
		limiter    *rate.Limiter
	}

	generateResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
)

func NewClient(cfg Config) Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	return &geminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (g *geminiClient) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (result domain.ScanResult, err error) {
	defer func() { metrics.RecordSuggestionCall("analyze_image", err) }()

	parts := []map[string]any{
		{
			"inline_data": map[string]any{
				"mime_type": mimeType,
				"data":      base64.StdEncoding.EncodeToString(image),
			},
		},
		{"text": analyzeImagePrompt},
	}
	text, err := g.generateContent(ctx, parts, scanSchema())
	if err != nil {
		return domain.ScanResult{}, err
	}

	var raw struct {
		DetectedType string   `json:"detectedType"`
		TotalCost    *float64 `json:"totalCost"`
		Items        []struct {
			Name       string   `json:"name"`
			Quantity   float64  `json:"quantity"`
			Unit       string   `json:"unit"`
			Category   string   `json:"category"`
			ExpiryDate string   `json:"expiryDate"`
			PriceInfo  *float64 `json:"priceInfo"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return domain.ScanResult{}, fmt.Errorf("failed to parse Gemini response: %w - Raw response: %s", err, text)
	}

	result = domain.ScanResult{
		DetectedType: raw.DetectedType,
		TotalCost:    raw.TotalCost,
		Items:        make([]domain.ScannedItem, 0, len(raw.Items)),
	}
	if result.DetectedType != domain.DetectedTypeReceipt {
		result.DetectedType = domain.DetectedTypeFoodObject
	}
	for _, it := range raw.Items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		item := domain.ScannedItem{
			Name:       strings.TrimSpace(it.Name),
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Category:   it.Category,
			ExpiryDate: it.ExpiryDate,
			PriceInfo:  it.PriceInfo,
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if !slices.Contains(domain.Units, item.Unit) {
			item.Unit = domain.UnitPiece
		}
		if !slices.Contains(domain.ScanCategories, item.Category) {
			item.Category = domain.CategoryOther
		}
		if _, err := time.Parse(domain.DateLayout, item.ExpiryDate); err != nil {
			item.ExpiryDate = ""
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (g *geminiClient) SuggestDeductions(ctx context.Context, dish string, inventory []domain.InventoryItem) (suggestions []domain.DeductionSuggestion, err error) {
	defer func() { metrics.RecordSuggestionCall("suggest_deductions", err) }()

	type inventoryContext struct {
		ID   string  `json:"id"`
		Name string  `json:"name"`
		Qty  float64 `json:"qty"`
		Unit string  `json:"unit"`
	}
	contextItems := make([]inventoryContext, 0, len(inventory))
	for _, item := range inventory {
		contextItems = append(contextItems, inventoryContext{ID: item.ID, Name: item.Name, Qty: item.Quantity, Unit: item.Unit})
	}
	inventoryJSON, err := json.Marshal(contextItems)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(deductionPrompt, dish, inventoryJSON)
	text, err := g.generateContent(ctx, []map[string]any{{"text": prompt}}, deductionSchema())
	if err != nil {
		return nil, err
	}

	var raw []struct {
		ItemID          string  `json:"itemId"`
		Name            string  `json:"name"`
		CurrentQuantity float64 `json:"currentQuantity"`
		DeductAmount    float64 `json:"deductAmount"`
		Unit            string  `json:"unit"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w - Raw response: %s", err, text)
	}

	suggestions = make([]domain.DeductionSuggestion, 0, len(raw))
	for _, s := range raw {
		suggestions = append(suggestions, domain.DeductionSuggestion{
			ItemID:          s.ItemID,
			Name:            s.Name,
			CurrentQuantity: s.CurrentQuantity,
			DeductAmount:    s.DeductAmount,
			Unit:            s.Unit,
		})
	}
	return suggestions, nil
}

func (g *geminiClient) SuggestRecipes(ctx context.Context, inventory []domain.InventoryItem, now time.Time) (recipes []domain.Recipe, err error) {
	defer func() { metrics.RecordSuggestionCall("suggest_recipes", err) }()

	prompt := fmt.Sprintf(recipePrompt, recipeContext(inventory, now))
	text, err := g.generateContent(ctx, []map[string]any{{"text": prompt}}, recipeSchema())
	if err != nil {
		return nil, err
	}

	var raw []struct {
		ID                 string   `json:"id"`
		Title              string   `json:"title"`
		Description        string   `json:"description"`
		Ingredients        []string `json:"ingredients"`
		MissingIngredients []string `json:"missingIngredients"`
		Instructions       []string `json:"instructions"`
		CookTime           string   `json:"cookTime"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w - Raw response: %s", err, text)
	}

	recipes = make([]domain.Recipe, 0, len(raw))
	for _, r := range raw {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		recipes = append(recipes, domain.Recipe{
			ID:                 id,
			Title:              r.Title,
			Description:        r.Description,
			Ingredients:        r.Ingredients,
			MissingIngredients: r.MissingIngredients,
			Instructions:       r.Instructions,
			CookTime:           r.CookTime,
		})
	}
	return recipes, nil
}

// recipeContext renders the inventory with a daysLeft countdown per item;
// items without a known expiry carry null.
func recipeContext(inventory []domain.InventoryItem, now time.Time) string {
	type item struct {
		Name     string `json:"name"`
		Qty      string `json:"qty"`
		DaysLeft *int   `json:"daysLeft"`
	}
	items := make([]item, 0, len(inventory))
	for _, inv := range inventory {
		it := item{Name: inv.Name, Qty: fmt.Sprintf("%g %s", inv.Quantity, inv.Unit)}
		if days, ok := inv.DaysUntilExpiry(now); ok {
			it.DaysLeft = &days
		}
		items = append(items, it)
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func (g *geminiClient) generateContent(ctx context.Context, parts []map[string]any, schema map[string]any) (string, error) {
	if g.apiKey == "" {
		return "", domain.ErrGeminiNotConfigured
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	requestBody := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}
	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	geminiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var geminiResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", err
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrGeminiEmptyResponse
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	slog.Debug("gemini response", "model", g.model, "bytes", len(text))
	return text, nil
}

// cleanJSON strips markdown code fences the model sometimes wraps JSON in.
func cleanJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
