package models

// FormState represents the registration form as the visitor fills it in
type FormState struct {
	Name         string `json:"name" form:"name" validate:"notblank"`
	Email        string `json:"email" form:"email" validate:"notblank,leademail"`
	Phone        string `json:"phone" form:"phone" validate:"notblank"`
	Experience   string `json:"experience" form:"experience" validate:"max=2000"`
	Expectations string `json:"expectations" form:"expectations" validate:"max=2000"`
	AgreeToTerms bool   `json:"agreeToTerms" form:"agreeToTerms" validate:"required"`

	// UI toggle for the payment QR code, never sent to the intake endpoint
	ShowQR bool `json:"showQR" form:"showQR"`
	// File name picked by the visitor; the file itself is never uploaded
	PaymentScreenshot string `json:"paymentScreenshot,omitempty" form:"paymentScreenshot"`
}

// Field names accepted by the field-edit handler
const (
	FieldName              = "name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldExperience        = "experience"
	FieldExpectations      = "expectations"
	FieldAgreeToTerms      = "agreeToTerms"
	FieldShowQR            = "showQR"
	FieldPaymentScreenshot = "paymentScreenshot"
)

// ValidationErrors maps a field name to a human-readable message.
// Only fields currently failing validation are present.
type ValidationErrors map[string]string

// Clone returns a copy that can be modified without touching the receiver
func (e ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Lead is the projection of a submitted form sent to the intake endpoint
type Lead struct {
	Name         string
	Email        string
	Phone        string
	Experience   string
	Expectations string
}

// LeadFromState builds a Lead from the trimmed form values
func LeadFromState(s FormState) Lead {
	return Lead{
		Name:         trim(s.Name),
		Email:        trim(s.Email),
		Phone:        trim(s.Phone),
		Experience:   trim(s.Experience),
		Expectations: trim(s.Expectations),
	}
}
