package services

import (
	"time"

	"github.com/cuptime/webinar-landing/pkg/models"
)

// CountdownService derives the hero timers from wall-clock time
type CountdownService struct {
	webinarStart   time.Time
	earlyBirdCycle time.Duration
	now            func() time.Time
}

func NewCountdownService(webinarStart time.Time, earlyBirdCycle time.Duration) *CountdownService {
	return &CountdownService{
		webinarStart:   webinarStart,
		earlyBirdCycle: earlyBirdCycle,
		now:            time.Now,
	}
}

// Webinar returns the time left until the webinar starts, all zero once it has
func (s *CountdownService) Webinar(now time.Time) models.Countdown {
	left := s.webinarStart.Sub(now)
	if left <= 0 {
		return models.Countdown{Started: true}
	}

	day := 24 * time.Hour
	return models.Countdown{
		Days:    int64(left / day),
		Hours:   int64(left % day / time.Hour),
		Minutes: int64(left % time.Hour / time.Minute),
		Seconds: int64(left % time.Minute / time.Second),
	}
}

// EarlyBird returns the time left in the current pricing window.
// Windows repeat back to back from the Unix epoch.
func (s *CountdownService) EarlyBird(now time.Time) models.EarlyBird {
	if s.earlyBirdCycle <= 0 {
		return models.EarlyBird{}
	}
	left := s.earlyBirdCycle - time.Duration(now.UnixNano())%s.earlyBirdCycle

	return models.EarlyBird{
		Hours:   int64(left / time.Hour),
		Minutes: int64(left % time.Hour / time.Minute),
		Seconds: int64(left % time.Minute / time.Second),
	}
}

// Snapshot returns both timers at the current time
func (s *CountdownService) Snapshot() models.CountdownResponse {
	now := s.now()
	return models.CountdownResponse{
		Webinar:   s.Webinar(now),
		EarlyBird: s.EarlyBird(now),
	}
}
