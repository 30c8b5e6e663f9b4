package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"voluntapp/config"
	delivery "voluntapp/internal/delivery/http"
	"voluntapp/internal/delivery/http/controllers"
	"voluntapp/internal/delivery/http/middleware"

	"voluntapp/internal/adapters/auth"
	"voluntapp/internal/adapters/email"
	"voluntapp/internal/adapters/geocoder"
	"voluntapp/internal/repository/postgres"
	"voluntapp/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title VoluntApp API
// @version 1.0
// @description Volunteer opportunity marketplace: discovery feed, opportunity management, and application lifecycle.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	opportunityRepo := postgres.NewOpportunityRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	geo := geocoder.NewStatic()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry, serviceTimeout)
	userService := services.NewUserService(userRepo, geo, logger, serviceTimeout)
	opportunityService := services.NewOpportunityService(opportunityRepo, userRepo, geo, logger, serviceTimeout)
	discoveryService := services.NewDiscoveryService(opportunityRepo, userRepo, serviceTimeout)
	applicationService := services.NewApplicationService(applicationRepo, opportunityRepo, userRepo, emailService, logger, serviceTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:        controllers.NewAuthController(logger, authService),
		User:        controllers.NewUserController(logger, userService),
		Opportunity: controllers.NewOpportunityController(logger, opportunityService),
		Discovery:   controllers.NewDiscoveryController(logger, discoveryService),
		Application: controllers.NewApplicationController(logger, applicationService),
	}, verifier, logger)

	handler := middleware.LoggingMiddleware(logger, mux)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
