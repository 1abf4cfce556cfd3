package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	GinMode        string `env:"GIN_MODE" envDefault:"release"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT"`

	// Intake endpoint receiving the lead
	IntakeURL      string        `env:"INTAKE_URL,required,notEmpty"`
	IntakeKeyStyle string        `env:"INTAKE_KEY_STYLE" envDefault:"field"`
	IntakeTimeout  time.Duration `env:"INTAKE_TIMEOUT" envDefault:"10s"`

	// Payment step the registrant is sent to after a confirmed submission
	PaymentFormURL string        `env:"PAYMENT_FORM_URL" envDefault:"https://docs.google.com/forms/d/e/1FAIpQLSfrREEvw5j8BN0A7h7S3Jwb1pz163QjjgqEzQymUIla9pvboA/viewform?usp=header"`
	RedirectDelay  time.Duration `env:"REDIRECT_DELAY" envDefault:"2s"`

	WebinarStart   time.Time     `env:"WEBINAR_START" envDefault:"2025-06-22T11:00:00+05:30"`
	EarlyBirdCycle time.Duration `env:"EARLY_BIRD_CYCLE" envDefault:"30m"`

	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Lead mirror and payment reminder, all optional
	AirtableAPIKey        string        `env:"AIRTABLE_API_KEY"`
	AirtableBaseID        string        `env:"AIRTABLE_BASE_ID"`
	AirtableBaseURL       string        `env:"AIRTABLE_BASE_URL"`
	AirtableLeadsTable    string        `env:"AIRTABLE_LEADS_TABLE" envDefault:"Webinar Leads"`
	AirtablePaymentsTable string        `env:"AIRTABLE_PAYMENTS_TABLE" envDefault:"Webinar Payments"`
	TextMagicUsername     string        `env:"TEXTMAGIC_USERNAME"`
	TextMagicAPIKey       string        `env:"TEXTMAGIC_API_KEY"`
	TextMagicBaseURL      string        `env:"TEXTMAGIC_BASE_URL"`
	TextMagicListID       string        `env:"TEXTMAGIC_LIST_ID"`
	TextMagicCountryCode  string        `env:"TEXTMAGIC_COUNTRY_CODE" envDefault:"91"`
	ShortIOAPIKey         string        `env:"SHORTIO_API_KEY"`
	ShortIODomain         string        `env:"SHORTIO_DOMAIN"`
	ShortIOBaseURL        string        `env:"SHORTIO_BASE_URL"`
	FollowupDelay         time.Duration `env:"FOLLOWUP_DELAY" envDefault:"15m"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env parsing cannot
func (c *Config) Validate() error {
	var errs []error

	if err := checkURL("INTAKE_URL", c.IntakeURL); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("PAYMENT_FORM_URL", c.PaymentFormURL); err != nil {
		errs = append(errs, err)
	}
	if c.IntakeKeyStyle != "field" && c.IntakeKeyStyle != "question" {
		errs = append(errs, fmt.Errorf("INTAKE_KEY_STYLE must be field or question, got %q", c.IntakeKeyStyle))
	}
	if c.IntakeTimeout <= 0 {
		errs = append(errs, errors.New("INTAKE_TIMEOUT must be positive"))
	}
	if c.RedirectDelay < 0 {
		errs = append(errs, errors.New("REDIRECT_DELAY must not be negative"))
	}
	if c.EarlyBirdCycle < time.Second {
		errs = append(errs, errors.New("EARLY_BIRD_CYCLE must be at least 1s"))
	}
	for _, origin := range c.CORSAllowedOrigins {
		if err := checkURL("CORS_ALLOWED_ORIGINS", origin); err != nil {
			errs = append(errs, err)
		}
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.FollowupDelay < 0 {
		errs = append(errs, errors.New("FOLLOWUP_DELAY must not be negative"))
	}

	return errors.Join(errs...)
}

// AirtableEnabled reports whether leads should be mirrored to Airtable
func (c *Config) AirtableEnabled() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != ""
}

// TextMagicEnabled reports whether payment reminders can be texted
func (c *Config) TextMagicEnabled() bool {
	return c.TextMagicUsername != "" && c.TextMagicAPIKey != ""
}

// ShortIOEnabled reports whether reminder links should be shortened
func (c *Config) ShortIOEnabled() bool {
	return c.ShortIOAPIKey != "" && c.ShortIODomain != ""
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}
