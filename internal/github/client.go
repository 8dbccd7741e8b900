// Package github is a thin read-only adapter over the GitHub REST API.
//
// It lists repository contents and fetches file bodies using a static
// server-held token. Failures are passed through with GitHub's own status
// code and message so the client sees exactly what the provider said —
// this adapter adds no retries, caching, or interpretation.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com"

// Client calls the GitHub contents API.
//
// The zero http.Client from oauth2.NewClient attaches the token to every
// request; a StaticTokenSource fits because the token is a long-lived PAT
// from configuration, not a per-user OAuth grant.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option customizes a Client. Used by tests to point at an httptest server.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient overrides the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client authenticated with the given token.
func New(token string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "token"})
	c := &Client{
		httpClient: oauth2.NewClient(context.Background(), src),
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError carries GitHub's status code and message through to the HTTP
// layer, which relays both verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API returned %d: %s", e.StatusCode, e.Message)
}

// Entry is one item of a directory listing from the contents API. We keep
// the raw shape GitHub returns because clients feed it straight back into
// the documentation and diagram routes.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"` // "file" or "dir"
	Size        int64  `json:"size"`
	SHA         string `json:"sha"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url"`
}

// ParseRepoURL extracts owner and repo from a github.com URL such as
// "https://github.com/owner/repo". Trailing path segments (tree/branch,
// .git) are tolerated; a URL without both parts is an error.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimPrefix(repoURL, "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	if trimmed == repoURL {
		return "", "", fmt.Errorf("github: not a github.com URL: %s", repoURL)
	}

	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("github: URL must look like https://github.com/owner/repo")
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// ListContents returns the directory listing at path ("" for the root).
func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	var entries []Entry
	if err := c.getContents(ctx, owner, repo, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// fileContent is the contents-API response for a single file.
type fileContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFileContent fetches one file and returns its decoded body. GitHub
// base64-encodes file bodies (with embedded newlines) in this API.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	var fc fileContent
	if err := c.getContents(ctx, owner, repo, path, &fc); err != nil {
		return "", err
	}

	if fc.Encoding != "base64" {
		return fc.Content, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(fc.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("github: decoding file content: %w", err)
	}
	return string(decoded), nil
}

// getContents performs one contents-API call and decodes into out.
func (c *Client) getContents(ctx context.Context, owner, repo, path string, out any) error {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: calling contents API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decoding contents response: %w", err)
	}

	return nil
}

// apiError extracts GitHub's error message from a non-200 response.
func (c *Client) apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
}
