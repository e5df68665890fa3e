package domain

import "errors"

const (
	DetectedTypeReceipt    = "receipt"
	DetectedTypeFoodObject = "food_object"
)

var (
	ErrGeminiNotConfigured   = errors.New("gemini api key is not configured")
	ErrGeminiEmptyResponse   = errors.New("gemini returned no content")
	ErrGeminiProcessingError = errors.New("gemini processing failed")
)
