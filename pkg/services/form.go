package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cuptime/webinar-landing/pkg/models"
)

var (
	ErrUnknownField         = errors.New("unknown form field")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrInvalidForm          = errors.New("form failed validation")
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// FormValidator is the rule set the submit transition is guarded by
type FormValidator interface {
	Validate(state models.FormState) models.ValidationErrors
}

// Form is one visitor's registration form: values, recorded errors,
// submission status and the last notice shown. Transitions return a new
// Form and never modify the receiver.
type Form struct {
	State  models.FormState
	Errors models.ValidationErrors
	Status models.SubmissionStatus
	Notice *models.Notice
}

// NewForm returns an empty form in the Idle state
func NewForm() Form {
	return Form{
		Errors: models.ValidationErrors{},
		Status: models.StatusIdle,
	}
}

// Edit sets a single field and clears that field's error, if any.
// Other errors are kept; nothing is re-validated.
func (f Form) Edit(field, value string) (Form, error) {
	next := f.clone()

	switch field {
	case models.FieldName:
		next.State.Name = value
	case models.FieldEmail:
		next.State.Email = value
	case models.FieldPhone:
		next.State.Phone = value
	case models.FieldExperience:
		next.State.Experience = value
	case models.FieldExpectations:
		next.State.Expectations = value
	case models.FieldPaymentScreenshot:
		next.State.PaymentScreenshot = value
	case models.FieldAgreeToTerms, models.FieldShowQR:
		checked, err := parseCheckbox(value)
		if err != nil {
			return f, fmt.Errorf("%w: %s=%q", ErrInvalidFieldValue, field, value)
		}
		if field == models.FieldAgreeToTerms {
			next.State.AgreeToTerms = checked
		} else {
			next.State.ShowQR = checked
		}
	default:
		return f, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	delete(next.Errors, field)
	if next.Status == models.StatusSubmitted {
		// Editing after a completed registration starts a new one
		next.Status = models.StatusIdle
	}
	return next, nil
}

// Apply sets every field from state, treating each changed field as an Edit
func (f Form) Apply(state models.FormState) Form {
	next := f.clone()
	cur := f.State

	changed := map[string]bool{
		models.FieldName:              cur.Name != state.Name,
		models.FieldEmail:             cur.Email != state.Email,
		models.FieldPhone:             cur.Phone != state.Phone,
		models.FieldExperience:        cur.Experience != state.Experience,
		models.FieldExpectations:      cur.Expectations != state.Expectations,
		models.FieldAgreeToTerms:      cur.AgreeToTerms != state.AgreeToTerms,
		models.FieldShowQR:            cur.ShowQR != state.ShowQR,
		models.FieldPaymentScreenshot: cur.PaymentScreenshot != state.PaymentScreenshot,
	}

	next.State = state
	for field, diff := range changed {
		if diff {
			delete(next.Errors, field)
		}
	}
	if next.Status == models.StatusSubmitted {
		next.Status = models.StatusIdle
	}
	return next
}

// BeginSubmit moves an Idle form to Submitting when it passes validation.
// On validation failure the form stays Idle with its errors populated.
func (f Form) BeginSubmit(v FormValidator) (Form, error) {
	if f.Status == models.StatusSubmitting {
		return f, ErrSubmissionInProgress
	}

	next := f.clone()
	next.Notice = nil
	next.Errors = v.Validate(f.State)
	if len(next.Errors) > 0 {
		next.Status = models.StatusIdle
		return next, ErrInvalidForm
	}

	next.Status = models.StatusSubmitting
	return next, nil
}

// Succeed completes a submission: fields reset, status Submitted
func (f Form) Succeed(message string) Form {
	next := NewForm()
	next.Status = models.StatusSubmitted
	next.Notice = &models.Notice{Level: models.NoticeSuccess, Message: message}
	return next
}

// Fail returns the form to Idle with the values kept and an error notice attached
func (f Form) Fail(message string) Form {
	next := f.clone()
	next.Status = models.StatusIdle
	next.Notice = &models.Notice{Level: models.NoticeError, Message: message}
	return next
}

func (f Form) clone() Form {
	next := f
	next.Errors = f.Errors.Clone()
	if f.Notice != nil {
		n := *f.Notice
		next.Notice = &n
	}
	return next
}

func parseCheckbox(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "on":
		return true, nil
	case "off", "":
		return false, nil
	}
	return strconv.ParseBool(value)
}
