package models

import "strings"

// SubmissionStatus is the transient state of the registration form
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSubmitted  SubmissionStatus = "submitted"
	StatusFailed     SubmissionStatus = "failed"
)

// NoticeLevel is the severity of a visitor-facing notification
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a visible, non-blocking notification shown next to the form
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// RegistrationResponse is returned by the JSON registration API
type RegistrationResponse struct {
	Status          SubmissionStatus `json:"status"`
	Errors          ValidationErrors `json:"errors,omitempty"`
	Notice          *Notice          `json:"notice,omitempty"`
	RedirectURL     string           `json:"redirectUrl,omitempty"`
	RedirectAfterMs int64            `json:"redirectAfterMs,omitempty"`
}

// FieldEditRequest is the body of a single field edit
type FieldEditRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// FieldEditResponse returns the errors still recorded after an edit
type FieldEditResponse struct {
	Status SubmissionStatus `json:"status"`
	Errors ValidationErrors `json:"errors"`
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
