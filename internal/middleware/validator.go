package middleware

import (
	"fmt"
	"regexp"
)

// Input validation and sanitization utilities

// MaxTypeBytes caps the caller-defined type label.
const MaxTypeBytes = 256

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateAnalysisType checks the caller-defined category label (url, file, message, ...).
// Any non-empty string is accepted; it is embedded into the prompt as is.
func ValidateAnalysisType(t string) error {
	if t == "" {
		return fmt.Errorf("type is required")
	}
	if len(t) > MaxTypeBytes {
		return fmt.Errorf("type too long: %d bytes (max %d)", len(t), MaxTypeBytes)
	}
	return nil
}

// ValidateContent checks the size of the content payload. Empty content is
// valid and still gets classified. maxBytes <= 0 disables the size check.
func ValidateContent(content string, maxBytes int) error {
	if maxBytes > 0 && len(content) > maxBytes {
		return fmt.Errorf("content too large: %d bytes (max %d)", len(content), maxBytes)
	}
	return nil
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}
	if !tenantPattern.MatchString(tenant) {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateAnalysisID validates a journal analysis id (uuid)
func ValidateAnalysisID(id string) error {
	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidatePage validates pagination page
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
