package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cuptime/webinar-landing/pkg/api"
	"github.com/cuptime/webinar-landing/pkg/clients/airtable"
	"github.com/cuptime/webinar-landing/pkg/clients/intake"
	"github.com/cuptime/webinar-landing/pkg/clients/shortio"
	"github.com/cuptime/webinar-landing/pkg/clients/textmagic"
	"github.com/cuptime/webinar-landing/pkg/config"
	"github.com/cuptime/webinar-landing/pkg/logging"
	"github.com/cuptime/webinar-landing/pkg/middleware"
	"github.com/cuptime/webinar-landing/pkg/pages"
	"github.com/cuptime/webinar-landing/pkg/services"
	"github.com/cuptime/webinar-landing/pkg/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Initialize API clients
	intakeClient := intake.NewClient(cfg.IntakeURL, intake.KeyStyle(cfg.IntakeKeyStyle), cfg.IntakeTimeout, logger)

	var airtableClient airtable.Client
	if cfg.AirtableEnabled() {
		airtableClient = airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableBaseURL, logger)
	}
	var textMagicClient textmagic.Client
	if cfg.TextMagicEnabled() {
		textMagicClient = textmagic.NewClient(textmagic.Options{
			Username:    cfg.TextMagicUsername,
			APIKey:      cfg.TextMagicAPIKey,
			BaseURL:     cfg.TextMagicBaseURL,
			ListID:      cfg.TextMagicListID,
			CountryCode: cfg.TextMagicCountryCode,
		}, logger)
	}
	var shortIOClient shortio.Client
	if cfg.ShortIOEnabled() {
		shortIOClient = shortio.NewClient(cfg.ShortIOAPIKey, cfg.ShortIODomain, cfg.ShortIOBaseURL, logger)
	}
	logger.Infow("Followup integrations",
		"airtable", cfg.AirtableEnabled(),
		"textmagic", cfg.TextMagicEnabled(),
		"shortio", cfg.ShortIOEnabled(),
	)

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize services
	followupService := services.NewFollowupService(airtableClient, textMagicClient, shortIOClient, cfg, logger)
	defer followupService.Close()

	registrationService := services.NewRegistrationService(
		intakeClient,
		validation.New(),
		followupService,
		metrics,
		cfg,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := services.NewSessionStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	countdown := services.NewCountdownService(cfg.WebinarStart, cfg.EarlyBirdCycle)

	tmpl, err := pages.Templates()
	if err != nil {
		logger.Fatalf("Error loading templates: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Handler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins...))
	router.SetHTMLTemplate(tmpl)

	// Initialize handlers
	handlers := api.NewHandlers(registrationService, sessions, countdown, pages.DefaultContent(), cfg, logger)

	// Register routes
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
}
