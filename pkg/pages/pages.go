package pages

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/cuptime/webinar-landing/pkg/models"
)

// LandingTemplate is the name of the landing page template
const LandingTemplate = "landing.tmpl"

//go:embed templates/*.tmpl
var templateFiles embed.FS

// LandingData is everything the landing page renders
type LandingData struct {
	Content   Content
	Countdown models.CountdownResponse
	State     models.FormState
	Errors    models.ValidationErrors
	Status    models.SubmissionStatus
	Notice    *models.Notice

	// Set once a registration is confirmed
	RedirectURL          string
	RedirectDelaySeconds int
}

// Submitted reports whether the success block replaces the form
func (d LandingData) Submitted() bool {
	return d.Status == models.StatusSubmitted
}

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
