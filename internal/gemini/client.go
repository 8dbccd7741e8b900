// Package gemini is the adapter for the generative content API.
//
// Every operation is one or two plain request/response calls — no retries,
// no streaming, no partial results. A failure anywhere aborts the whole
// operation and surfaces as an *APIError carrying the provider's own
// classification, so the HTTP layer can answer 429 for quota errors and
// 500 for the rest.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

// Error types reported to clients in the uniform error shape.
const (
	ErrorTypeRateLimit = "RATE_LIMIT"
	ErrorTypeAPI       = "API_ERROR"
	ErrorTypeUnknown   = "UNKNOWN_ERROR"
)

// Client calls the generateContent endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithModel selects a different model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client with the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is the uniform upstream-failure shape. Type distinguishes
// rate limiting from a structured API error from everything else.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Type       string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: %s: %s", e.Type, e.Message)
}

// request/response wire shapes for generateContent. Only the fields we
// use; the API returns considerably more.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends one prompt and returns the generated text verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encoding request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{
			Message: "An unexpected error occurred",
			Details: err.Error(),
			Type:    ErrorTypeUnknown,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("gemini: decoding response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    "the model returned no content",
			Details:    "Please try again later",
			Type:       ErrorTypeAPI,
		}
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// apiError classifies a non-200 response into the uniform shape.
func (c *Client) apiError(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    "API rate limit exceeded. Please try again later or upgrade your plan.",
			Details:    "You have exceeded the quota for the generative content API. Wait for the quota to reset or upgrade your plan.",
			Type:       ErrorTypeRateLimit,
		}
	}

	var body apiErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    body.Error.Message,
			Details:    "Please try again later",
			Type:       ErrorTypeAPI,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    "An unexpected error occurred",
		Details:    http.StatusText(resp.StatusCode),
		Type:       ErrorTypeUnknown,
	}
}
