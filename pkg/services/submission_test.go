package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cuptime/webinar-landing/pkg/clients/intake"
	"github.com/cuptime/webinar-landing/pkg/config"
	"github.com/cuptime/webinar-landing/pkg/models"
	"github.com/cuptime/webinar-landing/pkg/validation"
)

const testPaymentURL = "https://forms.example.com/pay"

type fakeIntake struct {
	calls atomic.Int32
	err   error
	block chan struct{}
	leads chan models.Lead
}

func (f *fakeIntake) SubmitLead(ctx context.Context, lead models.Lead) error {
	f.calls.Add(1)
	if f.leads != nil {
		f.leads <- lead
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

type fakeFollowup struct {
	mu    sync.Mutex
	leads []models.Lead
}

func (f *fakeFollowup) ProcessRegistration(lead models.Lead) {
	f.mu.Lock()
	f.leads = append(f.leads, lead)
	f.mu.Unlock()
}

func (f *fakeFollowup) Close() {}

type fakeObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeObserver) ObserveSubmission(outcome string) {
	f.mu.Lock()
	f.outcomes = append(f.outcomes, outcome)
	f.mu.Unlock()
}

func newTestService(in intake.Client, fu FollowupService, obs SubmissionObserver) RegistrationService {
	cfg := &config.Config{PaymentFormURL: testPaymentURL, IntakeTimeout: time.Second}
	return NewRegistrationService(in, validation.New(), fu, obs, cfg, zap.NewNop().Sugar())
}

func TestSubmit_Success(t *testing.T) {
	in := &fakeIntake{}
	fu := &fakeFollowup{}
	obs := &fakeObserver{}
	svc := newTestService(in, fu, obs)
	nav := &Redirect{}

	form := filledForm()
	form.State.Name = "  Asha  "
	got, err := svc.Submit(context.Background(), form, nav)

	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	assert.Equal(t, models.FormState{}, got.State)
	assert.Equal(t, testPaymentURL, nav.URL)
	assert.Equal(t, int32(1), in.calls.Load())
	require.Len(t, fu.leads, 1)
	assert.Equal(t, "Asha", fu.leads[0].Name)
	assert.Equal(t, []string{OutcomeSubmitted}, obs.outcomes)
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	in := &fakeIntake{}
	obs := &fakeObserver{}
	svc := newTestService(in, nil, obs)
	navigated := false
	nav := NavigatorFunc(func(string) { navigated = true })

	form := filledForm()
	form.State.AgreeToTerms = false
	got, err := svc.Submit(context.Background(), form, nav)

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, models.StatusIdle, got.Status)
	assert.Equal(t, models.ValidationErrors{"agreeToTerms": "You must agree to the terms"}, got.Errors)
	assert.Zero(t, in.calls.Load())
	assert.False(t, navigated)
	assert.Equal(t, []string{OutcomeValidationFailed}, obs.outcomes)
}

func TestSubmit_IntakeFailurePreservesValues(t *testing.T) {
	in := &fakeIntake{err: intake.ErrRejected}
	fu := &fakeFollowup{}
	obs := &fakeObserver{}
	svc := newTestService(in, fu, obs)
	nav := &Redirect{}

	form := filledForm()
	got, err := svc.Submit(context.Background(), form, nav)

	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.ErrorIs(t, err, intake.ErrRejected)
	assert.Equal(t, models.StatusIdle, got.Status)
	assert.Equal(t, form.State, got.State)
	require.NotNil(t, got.Notice)
	assert.Equal(t, models.NoticeError, got.Notice.Level)
	assert.Empty(t, nav.URL)
	assert.Empty(t, fu.leads)
	assert.Equal(t, []string{OutcomeIntakeFailed}, obs.outcomes)
}

func TestSubmit_TimesOut(t *testing.T) {
	in := &fakeIntake{block: make(chan struct{})}
	cfg := &config.Config{PaymentFormURL: testPaymentURL, IntakeTimeout: 20 * time.Millisecond}
	svc := NewRegistrationService(in, validation.New(), nil, nil, cfg, zap.NewNop().Sugar())

	got, err := svc.Submit(context.Background(), filledForm(), &Redirect{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.StatusIdle, got.Status)
}

func TestSubmit_RefusesConcurrentDuplicate(t *testing.T) {
	in := &fakeIntake{block: make(chan struct{}), leads: make(chan models.Lead, 2)}
	svc := newTestService(in, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), filledForm(), &Redirect{})
		done <- err
	}()
	<-in.leads // first submission is in flight

	got, err := svc.Submit(context.Background(), filledForm(), &Redirect{})
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.Equal(t, models.StatusIdle, got.Status)

	close(in.block)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), in.calls.Load())
}

func TestSubmit_AllowsResubmitAfterFailure(t *testing.T) {
	in := &fakeIntake{err: errors.New("boom")}
	svc := newTestService(in, nil, nil)

	failed, err := svc.Submit(context.Background(), filledForm(), &Redirect{})
	require.Error(t, err)

	in.err = nil
	got, err := svc.Submit(context.Background(), failed, &Redirect{})

	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	assert.Equal(t, int32(2), in.calls.Load())
}

func TestComplete_RequiresSubmitting(t *testing.T) {
	in := &fakeIntake{}
	svc := newTestService(in, nil, nil)

	_, err := svc.Complete(context.Background(), filledForm(), &Redirect{})

	assert.Error(t, err)
	assert.Zero(t, in.calls.Load())
}

func TestBegin_RefusesSubmittingForm(t *testing.T) {
	obs := &fakeObserver{}
	svc := newTestService(&fakeIntake{}, nil, obs)
	form := filledForm()
	form.Status = models.StatusSubmitting

	_, err := svc.Begin(form)

	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.Equal(t, []string{OutcomeInProgress}, obs.outcomes)
}
