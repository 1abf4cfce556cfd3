package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cuptime/webinar-landing/pkg/config"
	"github.com/cuptime/webinar-landing/pkg/models"
	"github.com/cuptime/webinar-landing/pkg/utils"
)

type fakeAirtable struct {
	mu       sync.Mutex
	existing map[string]bool // table -> present
	created  []map[string]interface{}
	err      error
}

func (f *fakeAirtable) RecordExists(ctx context.Context, table, leadHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[table], f.err
}

func (f *fakeAirtable) CreateRecord(ctx context.Context, table string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, fields)
	return nil
}

type fakeTextMagic struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeTextMagic) GetOrCreateContact(ctx context.Context, phone, name string) (string, error) {
	return "42", nil
}

func (f *fakeTextMagic) SendMessage(ctx context.Context, contactID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

type fakeShortIO struct {
	err error
}

func (f *fakeShortIO) CreateShortLink(ctx context.Context, originalURL string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://go.example/x", nil
}

var followupLead = models.Lead{Name: "Asha Rao", Email: "asha@example.com", Phone: "+91 98765 43210"}

// waitFollowups lets queued work finish before Close cancels it
func waitFollowups(svc FollowupService) {
	svc.(*followupServiceImpl).wg.Wait()
	svc.Close()
}

func followupConfig(delay time.Duration) *config.Config {
	return &config.Config{
		AirtableLeadsTable:    "Leads",
		AirtablePaymentsTable: "Payments",
		PaymentFormURL:        testPaymentURL,
		FollowupDelay:         delay,
	}
}

func TestFollowup_MirrorsLead(t *testing.T) {
	at := &fakeAirtable{existing: map[string]bool{}}
	svc := NewFollowupService(at, nil, nil, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	require.Len(t, at.created, 1)
	assert.Equal(t, "Asha Rao", at.created[0]["name"])
	assert.Equal(t, utils.PhoneHash(followupLead.Phone), at.created[0]["hash"])
}

func TestFollowup_SkipsExistingLead(t *testing.T) {
	at := &fakeAirtable{existing: map[string]bool{"Leads": true}}
	svc := NewFollowupService(at, nil, nil, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	assert.Empty(t, at.created)
}

func TestFollowup_SendsReminderWithShortLink(t *testing.T) {
	at := &fakeAirtable{existing: map[string]bool{}}
	tm := &fakeTextMagic{}
	svc := NewFollowupService(at, tm, &fakeShortIO{}, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	require.Len(t, tm.messages, 1)
	assert.Contains(t, tm.messages[0], "Hello Asha!")
	assert.Contains(t, tm.messages[0], "https://go.example/x")
}

func TestFollowup_FallsBackToLongLink(t *testing.T) {
	at := &fakeAirtable{existing: map[string]bool{}}
	tm := &fakeTextMagic{}
	svc := NewFollowupService(at, tm, &fakeShortIO{err: errors.New("down")}, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	require.Len(t, tm.messages, 1)
	assert.Contains(t, tm.messages[0], testPaymentURL)
}

func TestFollowup_NoReminderWhenPaid(t *testing.T) {
	at := &fakeAirtable{existing: map[string]bool{"Payments": true}}
	tm := &fakeTextMagic{}
	svc := NewFollowupService(at, tm, nil, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	assert.Len(t, at.created, 1)
	assert.Empty(t, tm.messages)
}

func TestFollowup_CloseCancelsPendingReminder(t *testing.T) {
	at := &fakeAirtable{existing: map[string]bool{}}
	tm := &fakeTextMagic{}
	svc := NewFollowupService(at, tm, nil, followupConfig(time.Hour), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)

	done := make(chan struct{})
	go func() {
		svc.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the pending reminder")
	}
	assert.Empty(t, tm.messages)
}

func TestFollowup_AirtableErrorStops(t *testing.T) {
	at := &fakeAirtable{err: errors.New("unauthorized")}
	tm := &fakeTextMagic{}
	svc := NewFollowupService(at, tm, nil, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	assert.Empty(t, at.created)
	assert.Empty(t, tm.messages)
}

func TestFollowup_DisabledWithoutAirtable(t *testing.T) {
	tm := &fakeTextMagic{}
	svc := NewFollowupService(nil, tm, nil, followupConfig(0), zap.NewNop().Sugar())

	svc.ProcessRegistration(followupLead)
	waitFollowups(svc)

	assert.Empty(t, tm.messages)
}
