package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/telemetry"
)

const (
	backendName    = "gemini"
	DefaultModel   = "gemini-1.5-flash"
	defaultTimeout = 120 * time.Second
)

// Config configures the Gemini client. BaseURL is only set to point at a
// test server or proxy.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Gemini generateContent API through the genai SDK.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a client. The API key is required.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Name implements llm.Backend.
func (c *Client) Name() string { return backendName }

// Generate implements llm.Backend. The system and user prompts are sent as
// two text parts of a single user turn.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(system),
			genai.NewPartFromText(user),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", mapError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no response")
	}
	if resp.UsageMetadata != nil {
		telemetry.Info("llm.response", map[string]any{
			"backend":           backendName,
			"model":             c.model,
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":      resp.UsageMetadata.TotalTokenCount,
		})
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned no response")
	}
	return text, nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return fmt.Errorf("gemini request: %w", err)
		}
		apiErr = *apiErrPtr
	}
	telemetry.Warn("llm.http_error", map[string]any{
		"backend": backendName,
		"status":  apiErr.Code,
		"body":    apiErr.Message,
	})
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return llm.ErrRateLimited
	case http.StatusServiceUnavailable:
		return llm.ErrSecondaryUnavailable
	case http.StatusBadRequest:
		return llm.ErrSecondaryBadRequest
	default:
		return &llm.BackendError{Backend: backendName, Status: apiErr.Code, Body: apiErr.Message}
	}
}

var _ llm.Backend = (*Client)(nil)
