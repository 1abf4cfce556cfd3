package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cuptime/webinar-landing/pkg/config"
	"github.com/cuptime/webinar-landing/pkg/models"
	"github.com/cuptime/webinar-landing/pkg/pages"
	"github.com/cuptime/webinar-landing/pkg/services"
)

// SessionCookie carries the visitor's form session id
const SessionCookie = "lead_session"

// Handlers contains all HTTP handlers for the landing page and its API
type Handlers struct {
	registrationService services.RegistrationService
	sessions            *services.SessionStore
	countdown           *services.CountdownService
	content             pages.Content
	redirectDelay       time.Duration
	sessionTTL          time.Duration
	log                 *zap.SugaredLogger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	registrationService services.RegistrationService,
	sessions *services.SessionStore,
	countdown *services.CountdownService,
	content pages.Content,
	cfg *config.Config,
	log *zap.SugaredLogger,
) *Handlers {
	return &Handlers{
		registrationService: registrationService,
		sessions:            sessions,
		countdown:           countdown,
		content:             content,
		redirectDelay:       cfg.RedirectDelay,
		sessionTTL:          cfg.SessionTTL,
		log:                 log,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.LandingPage)
	r.POST("/register", h.SubmitRegistration)
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.GET("/countdown", h.Countdown)
	api.POST("/registration/fields", h.EditField)
	api.POST("/registrations", h.CreateRegistration)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Countdown returns the webinar and early-bird timers
func (h *Handlers) Countdown(c *gin.Context) {
	c.JSON(http.StatusOK, h.countdown.Snapshot())
}

// LandingPage renders the page from the visitor's current form
func (h *Handlers) LandingPage(c *gin.Context) {
	id, form := h.session(c)

	if form.Status == models.StatusSubmitted {
		// The success view is shown once; a reload starts a fresh form
		h.sessions.Save(id, services.NewForm())
		h.render(c, http.StatusOK, form, h.registrationService.PaymentURL())
		return
	}

	h.render(c, http.StatusOK, form, "")
}

// SubmitRegistration handles the full form post from the landing page
func (h *Handlers) SubmitRegistration(c *gin.Context) {
	var state models.FormState
	if err := c.ShouldBind(&state); err != nil {
		h.log.Warnf("Error binding registration form: %v", err)
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	id, _ := h.session(c)
	next, err := h.update(id, func(f services.Form) (services.Form, error) {
		return h.registrationService.Begin(f.Apply(state))
	})

	switch {
	case errors.Is(err, services.ErrInvalidForm):
		h.render(c, http.StatusUnprocessableEntity, next, "")
		return
	case errors.Is(err, services.ErrSubmissionInProgress):
		next.Notice = &models.Notice{Level: models.NoticeInfo, Message: services.MessageInFlight}
		h.render(c, http.StatusConflict, next, "")
		return
	case err != nil:
		h.log.Errorf("Error starting registration: %v", err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	redirect := &services.Redirect{}
	final, err := h.registrationService.Complete(c.Request.Context(), next, redirect)
	if err != nil {
		h.sessions.Save(id, final)
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrSubmissionInProgress) {
			status = http.StatusConflict
		}
		h.render(c, status, final, "")
		return
	}

	h.sessions.Save(id, final)
	if h.redirectDelay == 0 {
		c.Redirect(http.StatusSeeOther, redirect.URL)
		return
	}
	h.render(c, http.StatusOK, final, redirect.URL)
}

// EditField applies a single field edit to the visitor's form
func (h *Handlers) EditField(c *gin.Context) {
	var req models.FieldEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	id, _ := h.session(c)
	next, err := h.update(id, func(f services.Form) (services.Form, error) {
		if f.Status == models.StatusSubmitting {
			return f, services.ErrSubmissionInProgress
		}
		return f.Edit(req.Field, req.Value)
	})

	switch {
	case errors.Is(err, services.ErrUnknownField), errors.Is(err, services.ErrInvalidFieldValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": services.MessageInFlight})
		return
	case err != nil:
		h.log.Errorf("Error editing field %s: %v", req.Field, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, models.FieldEditResponse{
		Status: next.Status,
		Errors: next.Errors,
	})
}

// CreateRegistration submits a registration posted as JSON
func (h *Handlers) CreateRegistration(c *gin.Context) {
	var state models.FormState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	redirect := &services.Redirect{}
	form, err := h.registrationService.Submit(c.Request.Context(), services.NewForm().Apply(state), redirect)

	resp := models.RegistrationResponse{
		Status: form.Status,
		Errors: form.Errors,
		Notice: form.Notice,
	}

	switch {
	case err == nil:
		resp.RedirectURL = redirect.URL
		resp.RedirectAfterMs = h.redirectDelay.Milliseconds()
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, services.ErrInvalidForm):
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(err, services.ErrSubmissionInProgress):
		resp.Notice = &models.Notice{Level: models.NoticeInfo, Message: services.MessageInFlight}
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, services.ErrSubmissionFailed):
		resp.Status = models.StatusFailed
		c.JSON(http.StatusBadGateway, resp)
	default:
		h.log.Errorf("Error creating registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// session returns the visitor's session, starting one when the cookie is missing or stale
func (h *Handlers) session(c *gin.Context) (string, services.Form) {
	if id, err := c.Cookie(SessionCookie); err == nil {
		if form, err := h.sessions.Get(id); err == nil {
			return id, form
		}
	}

	id, form := h.sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(h.sessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	return id, form
}

// update runs fn on the session form, recreating a session swept in between
func (h *Handlers) update(id string, fn func(services.Form) (services.Form, error)) (services.Form, error) {
	next, err := h.sessions.Update(id, fn)
	if errors.Is(err, services.ErrSessionExpired) {
		h.sessions.Save(id, services.NewForm())
		return h.sessions.Update(id, fn)
	}
	return next, err
}

func (h *Handlers) render(c *gin.Context, status int, form services.Form, redirectURL string) {
	c.HTML(status, pages.LandingTemplate, pages.LandingData{
		Content:              h.content,
		Countdown:            h.countdown.Snapshot(),
		State:                form.State,
		Errors:               form.Errors,
		Status:               form.Status,
		Notice:               form.Notice,
		RedirectURL:          redirectURL,
		RedirectDelaySeconds: int(h.redirectDelay.Round(time.Second) / time.Second),
	})
}
