package textmagic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the TextMagic REST API root
const DefaultBaseURL = "https://rest.textmagic.com/api/v2"

// Client defines the interface for interacting with TextMagic API
type Client interface {
	GetOrCreateContact(ctx context.Context, phone, name string) (string, error)
	SendMessage(ctx context.Context, contactID, message string) error
}

// Options configures a TextMagic client
type Options struct {
	Username    string
	APIKey      string
	BaseURL     string
	ListID      string
	CountryCode string
}

type clientImpl struct {
	apiKey      string
	username    string
	baseURL     string
	listID      string
	countryCode string
	http        *http.Client
	log         *zap.SugaredLogger
}

// NewClient creates a new TextMagic client
func NewClient(opts Options, log *zap.SugaredLogger) Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &clientImpl{
		apiKey:      opts.APIKey,
		username:    opts.Username,
		baseURL:     baseURL,
		listID:      opts.ListID,
		countryCode: opts.CountryCode,
		http:        &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// nationalLength is the digit count of a local mobile number without country code
const nationalLength = 10

// NormalizePhone strips formatting and prefixes the country code when missing.
// Numbers written with a leading + or 00 already carry their country code.
func NormalizePhone(phone, countryCode string) string {
	phone = strings.TrimSpace(phone)
	international := strings.HasPrefix(phone, "+") || strings.HasPrefix(phone, "00")

	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
	phone = replacer.Replace(phone)
	if international {
		return strings.TrimPrefix(phone, "00")
	}
	if countryCode == "" {
		return phone
	}

	phone = strings.TrimLeft(phone, "0")
	if len(phone) > nationalLength && strings.HasPrefix(phone, countryCode) {
		return phone
	}
	return countryCode + phone
}

func (c *clientImpl) GetOrCreateContact(ctx context.Context, phone, name string) (string, error) {
	phone = NormalizePhone(phone, c.countryCode)

	contactID, found, err := c.searchContact(ctx, phone)
	if err != nil {
		return "", err
	}
	if found {
		c.log.Debugf("Found existing TextMagic contact with ID: %s", contactID)
		return contactID, nil
	}

	firstName, lastName := splitName(name)
	payload := map[string]interface{}{
		"phone":     phone,
		"firstName": firstName,
		"lastName":  lastName,
	}
	if c.listID != "" {
		payload["lists"] = c.listID
	}

	createBody, status, err := c.do(ctx, http.MethodPost, c.baseURL+"/contacts", payload)
	if err != nil {
		return "", fmt.Errorf("error creating contact: %w", err)
	}

	// A concurrent registration may have created the contact since the search
	if status == http.StatusBadRequest {
		var errorResponse struct {
			Errors struct {
				Fields struct {
					Phone []string `json:"phone"`
				} `json:"fields"`
			} `json:"errors"`
		}
		if err := json.Unmarshal(createBody, &errorResponse); err == nil {
			for _, msg := range errorResponse.Errors.Fields.Phone {
				if strings.Contains(msg, "already exists in your contacts") {
					contactID, found, err := c.searchContact(ctx, phone)
					if err != nil {
						return "", err
					}
					if !found {
						return "", fmt.Errorf("contact with phone %s not found", phone)
					}
					return contactID, nil
				}
			}
		}
		return "", fmt.Errorf("error from TextMagic API: %s", string(createBody))
	}

	if status != http.StatusCreated {
		return "", fmt.Errorf("error from TextMagic API: %s", string(createBody))
	}

	var createResponse struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(createBody, &createResponse); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	contactID = strconv.Itoa(createResponse.ID)
	c.log.Infof("Created new TextMagic contact with ID: %s", contactID)
	return contactID, nil
}

func (c *clientImpl) SendMessage(ctx context.Context, contactID, message string) error {
	payload := map[string]interface{}{
		"contacts": contactID,
		"text":     message,
	}

	body, status, err := c.do(ctx, http.MethodPost, c.baseURL+"/messages", payload)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	if status != http.StatusCreated && status != http.StatusOK {
		return fmt.Errorf("error from TextMagic API: %s", string(body))
	}

	c.log.Infof("Sent message to TextMagic contact ID: %s", contactID)
	return nil
}

func (c *clientImpl) searchContact(ctx context.Context, phone string) (string, bool, error) {
	searchURL := fmt.Sprintf("%s/contacts/search?query=%s", c.baseURL, url.QueryEscape(phone))

	body, status, err := c.do(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("error searching for contact: %w", err)
	}
	if status != http.StatusOK {
		return "", false, fmt.Errorf("error from TextMagic API: %s", string(body))
	}

	var searchResponse struct {
		Total     int `json:"total"`
		Resources []struct {
			ID int `json:"id"`
		} `json:"resources"`
	}
	if err := json.Unmarshal(body, &searchResponse); err != nil {
		return "", false, fmt.Errorf("error parsing response: %w", err)
	}

	if len(searchResponse.Resources) == 0 {
		return "", false, nil
	}
	return strconv.Itoa(searchResponse.Resources[0].ID), true, nil
}

// do sends an authenticated request and returns the raw body and status code
func (c *clientImpl) do(ctx context.Context, method, target string, payload interface{}) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("error creating payload: %w", err)
		}
		reader = bytes.NewBuffer(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Add("Content-Type", "application/json")

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

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
