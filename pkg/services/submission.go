package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cuptime/webinar-landing/pkg/clients/intake"
	"github.com/cuptime/webinar-landing/pkg/config"
	"github.com/cuptime/webinar-landing/pkg/models"
	"github.com/cuptime/webinar-landing/pkg/utils"
)

var ErrSubmissionFailed = errors.New("registration could not be submitted")

// Visitor-facing messages for the terminal transitions
const (
	MessageSubmitted = "You're being redirected! Hang tight, you're headed to the payment form."
	MessageFailed    = "We couldn't submit your registration. Please check your connection and try again."
	MessageInFlight  = "Your registration is already being submitted. Please wait a moment."
)

// Submission outcomes reported to the observer
const (
	OutcomeValidationFailed = "validation_failed"
	OutcomeInProgress       = "in_progress"
	OutcomeIntakeFailed     = "intake_failed"
	OutcomeSubmitted        = "submitted"
)

// SubmissionObserver is told the outcome of every submit attempt
type SubmissionObserver interface {
	ObserveSubmission(outcome string)
}

// RegistrationService defines the interface for the registration submit workflow
type RegistrationService interface {
	// Begin validates the form and moves it to Submitting
	Begin(form Form) (Form, error)
	// Complete sends a Submitting form to the intake endpoint and settles it
	Complete(ctx context.Context, form Form, nav Navigator) (Form, error)
	// Submit runs Begin then Complete
	Submit(ctx context.Context, form Form, nav Navigator) (Form, error)
	// PaymentURL is where a confirmed registrant is navigated to
	PaymentURL() string
}

type registrationServiceImpl struct {
	intakeClient intake.Client
	validator    FormValidator
	followup     FollowupService
	observer     SubmissionObserver
	paymentURL   string
	timeout      time.Duration
	log          *zap.SugaredLogger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	intakeClient intake.Client,
	validator FormValidator,
	followup FollowupService,
	observer SubmissionObserver,
	cfg *config.Config,
	log *zap.SugaredLogger,
) RegistrationService {
	return &registrationServiceImpl{
		intakeClient: intakeClient,
		validator:    validator,
		followup:     followup,
		observer:     observer,
		paymentURL:   cfg.PaymentFormURL,
		timeout:      cfg.IntakeTimeout,
		log:          log,
		inflight:     make(map[string]struct{}),
	}
}

func (s *registrationServiceImpl) PaymentURL() string {
	return s.paymentURL
}

func (s *registrationServiceImpl) Begin(form Form) (Form, error) {
	next, err := form.BeginSubmit(s.validator)
	switch {
	case errors.Is(err, ErrInvalidForm):
		s.observe(OutcomeValidationFailed)
	case errors.Is(err, ErrSubmissionInProgress):
		s.observe(OutcomeInProgress)
	}
	return next, err
}

func (s *registrationServiceImpl) Submit(ctx context.Context, form Form, nav Navigator) (Form, error) {
	next, err := s.Begin(form)
	if err != nil {
		return next, err
	}
	return s.Complete(ctx, next, nav)
}

// Complete handles the Submitting state: one intake call, then Submitted or back to Idle
func (s *registrationServiceImpl) Complete(ctx context.Context, form Form, nav Navigator) (Form, error) {
	if form.Status != models.StatusSubmitting {
		return form, fmt.Errorf("complete called in %s state", form.Status)
	}

	lead := models.LeadFromState(form.State)
	key := utils.LeadKey(lead.Email, lead.Phone)
	phoneHash := utils.PhoneHash(lead.Phone)

	if !s.acquire(key) {
		s.log.Infof("Refusing duplicate submission for %s while one is in flight", phoneHash)
		s.observe(OutcomeInProgress)
		return form.Fail(MessageInFlight), ErrSubmissionInProgress
	}
	defer s.release(key)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.log.Infof("Submitting registration for %s", phoneHash)
	if err := s.intakeClient.SubmitLead(ctx, lead); err != nil {
		s.log.Errorf("Error submitting registration for %s: %v", phoneHash, err)
		s.observe(OutcomeIntakeFailed)
		return form.Fail(MessageFailed), fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.observe(OutcomeSubmitted)
	s.log.Infof("Registration confirmed for %s", phoneHash)

	done := form.Succeed(MessageSubmitted)
	nav.Navigate(s.paymentURL)
	if s.followup != nil {
		s.followup.ProcessRegistration(lead)
	}
	return done, nil
}

func (s *registrationServiceImpl) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *registrationServiceImpl) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

func (s *registrationServiceImpl) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveSubmission(outcome)
	}
}
