package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cuptime/webinar-landing/pkg/models"
)

var (
	ErrUnavailable = errors.New("intake endpoint unavailable")
	ErrRejected    = errors.New("intake endpoint rejected the lead")
)

// KeyStyle selects how lead fields are named in the request body
type KeyStyle string

const (
	// KeyStyleField sends name/email/phone/experience/expectations
	KeyStyleField KeyStyle = "field"
	// KeyStyleQuestion sends the form's question labels as keys
	KeyStyleQuestion KeyStyle = "question"
)

// Question labels used as keys by spreadsheet scripts that mirror the form
const (
	QuestionName         = "Full Name"
	QuestionEmail        = "Email Address"
	QuestionPhone        = "Phone Number"
	QuestionExperience   = "Business Experience"
	QuestionExpectations = "What do you expect from the webinar?"
)

// Client defines the interface for sending leads to the intake endpoint
type Client interface {
	SubmitLead(ctx context.Context, lead models.Lead) error
}

type clientImpl struct {
	url      string
	keyStyle KeyStyle
	http     *http.Client
	log      *zap.SugaredLogger
}

// NewClient creates a new intake client posting to url. Every call is bounded by timeout.
func NewClient(url string, keyStyle KeyStyle, timeout time.Duration, log *zap.SugaredLogger) Client {
	return &clientImpl{
		url:      url,
		keyStyle: keyStyle,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Payload builds the request body for a lead in the given key style
func Payload(lead models.Lead, style KeyStyle) map[string]string {
	if style == KeyStyleQuestion {
		return map[string]string{
			QuestionName:         lead.Name,
			QuestionEmail:        lead.Email,
			QuestionPhone:        lead.Phone,
			QuestionExperience:   lead.Experience,
			QuestionExpectations: lead.Expectations,
		}
	}
	return map[string]string{
		"name":         lead.Name,
		"email":        lead.Email,
		"phone":        lead.Phone,
		"experience":   lead.Experience,
		"expectations": lead.Expectations,
	}
}

func (c *clientImpl) SubmitLead(ctx context.Context, lead models.Lead) error {
	jsonPayload, err := json.Marshal(Payload(lead, c.keyStyle))
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: error reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, snippet(body))
	}

	if err := confirm(body); err != nil {
		return err
	}

	c.log.Infof("Intake accepted lead (status %d)", resp.StatusCode)
	return nil
}

// confirm accepts an empty body or a JSON object whose status or result reports success
func confirm(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var response struct {
		Status  string `json:"status"`
		Result  string `json:"result"`
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("%w: unrecognized response: %s", ErrRejected, snippet(body))
	}

	for _, indicator := range []string{response.Status, response.Result} {
		switch strings.ToLower(strings.TrimSpace(indicator)) {
		case "success", "ok":
			return nil
		}
	}

	reason := response.Message
	if reason == "" && response.Error != nil {
		reason = fmt.Sprint(response.Error)
	}
	if reason == "" {
		reason = snippet(body)
	}
	return fmt.Errorf("%w: %s", ErrRejected, reason)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
