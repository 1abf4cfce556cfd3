package shortio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the Short.io API root
const DefaultBaseURL = "https://api.short.io"

// Client defines the interface for interacting with Short.io API
type Client interface {
	CreateShortLink(ctx context.Context, originalURL string) (string, error)
}

type clientImpl struct {
	apiKey  string
	domain  string
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// NewClient creates a new Short.io client. An empty baseURL uses DefaultBaseURL.
func NewClient(apiKey, domain, baseURL string, log *zap.SugaredLogger) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &clientImpl{
		apiKey:  apiKey,
		domain:  domain,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type linkRequest struct {
	OriginalURL string `json:"originalURL"`
	Domain      string `json:"domain"`
}

type linkResponse struct {
	ShortURL string `json:"shortURL"`
}

func (c *clientImpl) CreateShortLink(ctx context.Context, originalURL string) (string, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/links", linkRequest{OriginalURL: originalURL, Domain: c.domain})
	if err != nil {
		return "", fmt.Errorf("error creating short link: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", fmt.Errorf("error from Short.io API (%d): %s", status, body)
	}

	var link linkResponse
	if err := json.Unmarshal(body, &link); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if link.ShortURL == "" {
		return "", fmt.Errorf("error from Short.io API: empty shortURL in %s", body)
	}

	c.log.Infof("Created short link: %s -> %s", originalURL, link.ShortURL)
	return link.ShortURL, nil
}

// do sends an authorized JSON request to path and returns the raw body and status code
func (c *clientImpl) do(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
