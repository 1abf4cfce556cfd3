package pages

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuptime/webinar-landing/pkg/models"
)

func render(t *testing.T, data LandingData) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, LandingTemplate, data))
	return buf.String()
}

func TestLanding_RendersFormWithErrors(t *testing.T) {
	out := render(t, LandingData{
		Content: DefaultContent(),
		State:   models.FormState{Name: "<Asha>", Email: "bad"},
		Errors:  models.ValidationErrors{"email": "Email is invalid"},
		Status:  models.StatusIdle,
	})

	assert.Contains(t, out, `id="registration-form"`)
	assert.Contains(t, out, "Email is invalid")
	assert.Contains(t, out, `value="&lt;Asha&gt;"`)
	assert.NotContains(t, out, "http-equiv=\"refresh\"")
}

func TestLanding_RendersSuccessRedirect(t *testing.T) {
	out := render(t, LandingData{
		Content:              DefaultContent(),
		Errors:               models.ValidationErrors{},
		Status:               models.StatusSubmitted,
		Notice:               &models.Notice{Level: models.NoticeSuccess, Message: "Done"},
		RedirectURL:          "https://forms.example.com/pay",
		RedirectDelaySeconds: 2,
	})

	assert.Contains(t, out, `id="registration-success"`)
	assert.Contains(t, out, `content="2;url=https://forms.example.com/pay"`)
	assert.Contains(t, out, "Done")
	assert.NotContains(t, out, `id="registration-form"`)
}

func TestLanding_WebinarStarted(t *testing.T) {
	out := render(t, LandingData{
		Content:   DefaultContent(),
		Countdown: models.CountdownResponse{Webinar: models.Countdown{Started: true}},
	})

	assert.Contains(t, out, "The webinar is live now.")
	assert.NotContains(t, out, `id="webinar-timer"`)
}

func TestLanding_ErrorNotice(t *testing.T) {
	out := render(t, LandingData{
		Content: DefaultContent(),
		Notice:  &models.Notice{Level: models.NoticeError, Message: "Try again"},
	})

	assert.Contains(t, out, `class="notice notice-error"`)
	assert.Contains(t, out, "Try again")
}
