package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the Airtable REST API root
const DefaultBaseURL = "https://api.airtable.com/v0"

// Client defines the interface for interacting with Airtable API
type Client interface {
	RecordExists(ctx context.Context, table, leadHash string) (bool, error)
	CreateRecord(ctx context.Context, table string, fields map[string]interface{}) error
}

type clientImpl struct {
	apiKey  string
	baseID  string
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// NewClient creates a new Airtable client. An empty baseURL uses DefaultBaseURL.
func NewClient(apiKey, baseID, baseURL string, log *zap.SugaredLogger) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &clientImpl{
		apiKey:  apiKey,
		baseID:  baseID,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

func (c *clientImpl) RecordExists(ctx context.Context, table, leadHash string) (bool, error) {
	params := url.Values{}
	params.Set("filterByFormula", fmt.Sprintf("{hash}=%q", leadHash))
	params.Set("maxRecords", "1")
	recordsURL := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.baseID, url.PathEscape(table), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recordsURL, nil)
	if err != nil {
		return false, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("error checking Airtable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("error from Airtable API: %s", string(body))
	}

	var response struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("error parsing response: %w", err)
	}

	exists := len(response.Records) > 0
	c.log.Debugf("Airtable record check for hash %s in table %s: exists=%v", leadHash, table, exists)
	return exists, nil
}

func (c *clientImpl) CreateRecord(ctx context.Context, table string, fields map[string]interface{}) error {
	recordsURL := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	payload := map[string]interface{}{
		"records": []map[string]interface{}{
			{"fields": fields},
		},
		"typecast": true,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, recordsURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error creating Airtable record: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error from Airtable API: %s", string(body))
	}

	c.log.Infof("Created lead record in Airtable table %s", table)
	return nil
}
