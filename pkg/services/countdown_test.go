package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cuptime/webinar-landing/pkg/models"
)

var webinarStart = time.Date(2025, 6, 22, 11, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

func TestCountdown_Webinar(t *testing.T) {
	s := NewCountdownService(webinarStart, 30*time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want models.Countdown
	}{
		{
			name: "days ahead",
			now:  webinarStart.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)),
			want: models.Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5},
		},
		{
			name: "sub-second remainder truncates",
			now:  webinarStart.Add(-1500 * time.Millisecond),
			want: models.Countdown{Seconds: 1},
		},
		{
			name: "exactly at start",
			now:  webinarStart,
			want: models.Countdown{Started: true},
		},
		{
			name: "after start",
			now:  webinarStart.Add(time.Hour),
			want: models.Countdown{Started: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Webinar(tt.now))
		})
	}
}

func TestCountdown_EarlyBird(t *testing.T) {
	s := NewCountdownService(webinarStart, 30*time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want models.EarlyBird
	}{
		{
			name: "cycle boundary resets to full window",
			now:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			want: models.EarlyBird{Minutes: 30},
		},
		{
			name: "mid window",
			now:  time.Date(2025, 6, 1, 10, 12, 30, 0, time.UTC),
			want: models.EarlyBird{Minutes: 17, Seconds: 30},
		},
		{
			name: "last second",
			now:  time.Date(2025, 6, 1, 10, 29, 59, 0, time.UTC),
			want: models.EarlyBird{Seconds: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.EarlyBird(tt.now))
		})
	}
}

func TestCountdown_EarlyBirdLongCycle(t *testing.T) {
	s := NewCountdownService(webinarStart, 3*time.Hour)

	got := s.EarlyBird(time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC))

	assert.Equal(t, models.EarlyBird{Hours: 2}, got)
}

func TestCountdown_EarlyBirdShortCycles(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 250_000, time.UTC)

	tests := []struct {
		name  string
		cycle time.Duration
	}{
		{name: "sub millisecond", cycle: 500 * time.Microsecond},
		{name: "zero", cycle: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCountdownService(webinarStart, tt.cycle)

			assert.NotPanics(t, func() {
				assert.Equal(t, models.EarlyBird{}, s.EarlyBird(now))
			})
		})
	}
}

func TestCountdown_Snapshot(t *testing.T) {
	s := NewCountdownService(webinarStart, 30*time.Minute)
	s.now = func() time.Time { return webinarStart.Add(-time.Minute) }

	got := s.Snapshot()

	assert.Equal(t, models.Countdown{Minutes: 1}, got.Webinar)
	assert.Equal(t, models.EarlyBird{Minutes: 1}, got.EarlyBird)
}
