package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/famhub/family-idm/pkg/client"
	"github.com/famhub/family-idm/pkg/config"
	"github.com/famhub/family-idm/pkg/login"
	loginapi "github.com/famhub/family-idm/pkg/login/api"
	"github.com/famhub/family-idm/pkg/notification"
	"github.com/famhub/family-idm/pkg/onboarding"
	onboardingapi "github.com/famhub/family-idm/pkg/onboarding/api"
	"github.com/famhub/family-idm/pkg/otp"
	otpapi "github.com/famhub/family-idm/pkg/otp/api"
	"github.com/famhub/family-idm/pkg/sessions"
	sessionsapi "github.com/famhub/family-idm/pkg/sessions/api"
	"github.com/famhub/family-idm/pkg/tokens"
	"github.com/famhub/family-idm/pkg/user"
)

type Config struct {
	AppConfig      app.AppConfig
	DatabaseConfig config.DatabaseConfig
	JWTConfig      config.JWTConfig
	OTPConfig      config.OTPConfig
	EmailConfig    config.EmailConfig
	SMSFrom        string `env:"SMS_FROM" env-default:"family-idm"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded configuration from .env file")
	}

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	pool, err := dbutils.NewDbPool(context.Background(), cfg.DatabaseConfig.ToDbConfig())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.DatabaseConfig.Database, "host", cfg.DatabaseConfig.Host, "err", err)
		os.Exit(-1)
	}

	accessExpiry, err := cfg.JWTConfig.ParseAccessTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse access token expiry", "err", err)
		os.Exit(-1)
	}
	refreshExpiry, err := cfg.JWTConfig.ParseRefreshTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse refresh token expiry", "err", err)
		os.Exit(-1)
	}
	otpTTL, err := cfg.OTPConfig.ParseTTL()
	if err != nil {
		slog.Error("Failed to parse otp ttl", "err", err)
		os.Exit(-1)
	}

	notificationManager := notification.NewNotificationManager()
	emailNotifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
		Host:     cfg.EmailConfig.Host,
		Port:     cfg.EmailConfig.Port,
		Username: cfg.EmailConfig.Username,
		Password: cfg.EmailConfig.Password,
		From:     cfg.EmailConfig.From,
		TLS:      cfg.EmailConfig.TLS,
	})
	if err != nil {
		slog.Error("Failed to create email notifier", "err", err)
		os.Exit(-1)
	}
	notificationManager.RegisterNotifier(notification.EmailSystem, emailNotifier)
	notificationManager.RegisterNotifier(notification.SMSSystem, notification.NewSMSNotifier(cfg.SMSFrom))
	registerNotificationTemplates(notificationManager)

	tokenService := tokens.NewService(
		tokens.NewJwtTokenGenerator(cfg.JWTConfig.AccessSecret, cfg.JWTConfig.Issuer, cfg.JWTConfig.Audience),
		tokens.NewJwtTokenGenerator(cfg.JWTConfig.RefreshSecret, cfg.JWTConfig.Issuer, cfg.JWTConfig.Audience),
		tokens.WithAccessTokenExpiry(accessExpiry),
		tokens.WithRefreshTokenExpiry(refreshExpiry),
	)

	userRepo := user.NewPostgresRepository(pool)
	sessionRepo := sessions.NewPostgresRepository(pool)
	otpRepo := otp.NewPostgresRepository(pool)
	onboardingRepo := onboarding.NewPostgresRepository(pool)

	sessionService := sessions.NewService(sessionRepo, tokenService)
	otpService := otp.NewService(otpRepo, userRepo, sessionService, notificationManager,
		otp.WithTTL(otpTTL),
		otp.WithCodeLength(cfg.OTPConfig.CodeLength),
	)
	loginService := login.NewService(userRepo, sessionService)
	onboardingService := onboarding.NewService(onboardingRepo)

	otpHandle := otpapi.NewHandle(otpService)
	loginHandle := loginapi.NewHandle(loginService)
	sessionsHandle := sessionsapi.NewHandle(sessionService)
	onboardingHandle := onboardingapi.NewHandle(onboardingService)

	server.R.Route("/auth", func(r chi.Router) {
		r.Route("/otp", func(r chi.Router) {
			otpapi.Routes(r, otpHandle)
		})
		loginapi.Routes(r, loginHandle)
		sessionsapi.Routes(r, sessionsHandle)
	})

	accessAuth := jwtauth.New("HS256", []byte(cfg.JWTConfig.AccessSecret), nil)
	server.R.Group(func(r chi.Router) {
		r.Use(client.Verifier(accessAuth))
		r.Use(jwtauth.Authenticator(accessAuth))
		r.Use(client.AuthUserMiddleware)

		loginapi.AuthRoutes(r, loginHandle)
		onboardingapi.Routes(r, onboardingHandle)
	})

	server.Run()
}

// registerNotificationTemplates wires the default OTP code templates for
// both delivery channels.
func registerNotificationTemplates(nm *notification.NotificationManager) {
	nm.RegisterNotification(notification.OtpCodeNotice, notification.EmailSystem, notification.NoticeTemplate{
		Subject: "Your verification code",
		Text:    "Your verification code is {{.Code}}. It expires shortly; do not share it.",
		Html:    "<p>Your verification code is <strong>{{.Code}}</strong>.</p><p>It expires shortly; do not share it.</p>",
	})
	nm.RegisterNotification(notification.OtpCodeNotice, notification.SMSSystem, notification.NoticeTemplate{
		Text: "Your verification code is {{.Code}}",
	})
}
