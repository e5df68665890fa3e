package gemini

import "MatSmart-Lager/domain"

func stringEnum(values []string) map[string]any {
	return map[string]any{"type": "STRING", "enum": values}
}

func scanSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"detectedType": stringEnum([]string{domain.DetectedTypeReceipt, domain.DetectedTypeFoodObject}),
			"totalCost":    map[string]any{"type": "NUMBER", "description": "Total cost on the receipt or estimated sum"},
			"items": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"name":       map[string]any{"type": "STRING"},
						"quantity":   map[string]any{"type": "NUMBER"},
						"unit":       stringEnum(domain.Units),
						"category":   stringEnum(domain.ScanCategories),
						"expiryDate": map[string]any{"type": "STRING", "description": "YYYY-MM-DD"},
						"priceInfo":  map[string]any{"type": "NUMBER", "description": "Price for this specific quantity"},
					},
					"required": []string{"name", "quantity", "unit", "category", "expiryDate"},
				},
			},
		},
		"required": []string{"detectedType", "items"},
	}
}

func deductionSchema() map[string]any {
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"itemId":          map[string]any{"type": "STRING", "description": "The id from the inventory list"},
				"name":            map[string]any{"type": "STRING"},
				"currentQuantity": map[string]any{"type": "NUMBER"},
				"deductAmount":    map[string]any{"type": "NUMBER"},
				"unit":            map[string]any{"type": "STRING"},
			},
			"required": []string{"itemId", "name", "deductAmount"},
		},
	}
}

func recipeSchema() map[string]any {
	stringList := map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}}
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"id":                 map[string]any{"type": "STRING"},
				"title":              map[string]any{"type": "STRING"},
				"description":        map[string]any{"type": "STRING"},
				"ingredients":        stringList,
				"missingIngredients": stringList,
				"instructions":       stringList,
				"cookTime":           map[string]any{"type": "STRING"},
			},
			"required": []string{"title", "ingredients", "instructions", "cookTime"},
		},
	}
}
