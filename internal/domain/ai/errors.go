package ai

import "errors"

var (
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("ai returned empty response")
)
