package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	domai "github.com/bryanwahyu/verdict-gate/internal/domain/ai"
)

const DefaultModel = "gemini-2.5-flash-lite"

// Client generates text with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. baseURL is optional and only used to
// point at a proxy or a test server.
func NewClient(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: cli, model: model}, nil
}

func (c *Client) Name() string { return "gemini" }

// Generate sends prompt as a single user turn and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domai.ErrEmptyResponse
	}
	return text, nil
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusTooManyRequests
	}
	return false
}
