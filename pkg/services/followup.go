package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cuptime/webinar-landing/pkg/clients/airtable"
	"github.com/cuptime/webinar-landing/pkg/clients/shortio"
	"github.com/cuptime/webinar-landing/pkg/clients/textmagic"
	"github.com/cuptime/webinar-landing/pkg/config"
	"github.com/cuptime/webinar-landing/pkg/models"
	"github.com/cuptime/webinar-landing/pkg/utils"
)

// FollowupService defines the interface for post-registration work
type FollowupService interface {
	// ProcessRegistration starts followup for a confirmed lead without blocking
	ProcessRegistration(lead models.Lead)
	// Close cancels pending followups and waits for them to stop
	Close()
}

type followupServiceImpl struct {
	airtableClient  airtable.Client
	textMagicClient textmagic.Client
	shortIOClient   shortio.Client
	config          *config.Config
	log             *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFollowupService creates a new followup service. Any client may be nil,
// which disables the steps that need it.
func NewFollowupService(
	airtableClient airtable.Client,
	textMagicClient textmagic.Client,
	shortIOClient shortio.Client,
	config *config.Config,
	log *zap.SugaredLogger,
) FollowupService {
	ctx, cancel := context.WithCancel(context.Background())
	return &followupServiceImpl{
		airtableClient:  airtableClient,
		textMagicClient: textMagicClient,
		shortIOClient:   shortIOClient,
		config:          config,
		log:             log,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func (s *followupServiceImpl) ProcessRegistration(lead models.Lead) {
	if s.airtableClient == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.process(s.ctx, lead)
	}()
}

func (s *followupServiceImpl) Close() {
	s.cancel()
	s.wg.Wait()
}

// process mirrors the lead into Airtable and, when texting is configured,
// schedules a payment reminder
func (s *followupServiceImpl) process(ctx context.Context, lead models.Lead) {
	phoneHash := utils.PhoneHash(lead.Phone)

	exists, err := s.airtableClient.RecordExists(ctx, s.config.AirtableLeadsTable, phoneHash)
	if err != nil {
		s.log.Errorf("Error checking leads table for %s: %v", phoneHash, err)
		return
	}

	if exists {
		s.log.Infof("Skipping lead mirror for %s as they already exist in the leads table", phoneHash)
	} else {
		record := map[string]interface{}{
			"name":          lead.Name,
			"email":         lead.Email,
			"phone":         lead.Phone,
			"experience":    lead.Experience,
			"expectations":  lead.Expectations,
			"hash":          phoneHash,
			"registered_at": time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.airtableClient.CreateRecord(ctx, s.config.AirtableLeadsTable, record); err != nil {
			s.log.Errorf("Error creating lead record for %s: %v", phoneHash, err)
			return
		}
	}

	if s.textMagicClient != nil {
		s.scheduleReminder(ctx, lead, phoneHash)
	}
}

// scheduleReminder waits for the followup delay then texts a payment link
// to registrants who have not shown up in the payments table
func (s *followupServiceImpl) scheduleReminder(ctx context.Context, lead models.Lead, phoneHash string) {
	s.log.Infof("Setting payment reminder timer for %s", phoneHash)

	timer := time.NewTimer(s.config.FollowupDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.log.Infof("Payment reminder for %s cancelled", phoneHash)
		return
	case <-timer.C:
	}

	paid, err := s.airtableClient.RecordExists(ctx, s.config.AirtablePaymentsTable, phoneHash)
	if err != nil {
		s.log.Errorf("Error checking payments table for %s: %v", phoneHash, err)
		return
	}
	if paid {
		s.log.Infof("Skipping reminder for %s as they already exist in the payments table", phoneHash)
		return
	}

	link := s.config.PaymentFormURL
	if s.shortIOClient != nil {
		short, err := s.shortIOClient.CreateShortLink(ctx, link)
		if err != nil {
			s.log.Warnf("Error creating short link, sending full URL: %v", err)
		} else {
			link = short
		}
	}

	contactID, err := s.textMagicClient.GetOrCreateContact(ctx, lead.Phone, lead.Name)
	if err != nil {
		s.log.Errorf("Error with TextMagic API for %s: %v", phoneHash, err)
		return
	}

	message := fmt.Sprintf("Hello %s! Your seat at the Franchise Masterclass is waiting. Complete your payment here: %s", firstName(lead.Name), link)
	if err := s.textMagicClient.SendMessage(ctx, contactID, message); err != nil {
		s.log.Errorf("Error sending reminder to %s: %v", phoneHash, err)
		return
	}

	s.log.Infof("Sent payment reminder to %s", phoneHash)
}

func firstName(name string) string {
	if parts := strings.Fields(name); len(parts) > 0 {
		return parts[0]
	}
	return "there"
}
