package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ciclexpress/website/internal/handler"
	"github.com/ciclexpress/website/internal/logging"
	"github.com/ciclexpress/website/internal/repository"
	"github.com/ciclexpress/website/internal/service"
	"github.com/ciclexpress/website/pkg/auth"
	"github.com/ciclexpress/website/pkg/fakepayment"
	"github.com/ciclexpress/website/pkg/mailer"
	"github.com/ciclexpress/website/pkg/recaptcha"
	"github.com/joho/godotenv"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	dbPath := envOr("DB_PATH", "data/ciclexpress.db")
	baseURL := envOr("BASE_URL", "http://localhost:8080")
	templateDir := envOr("TEMPLATE_DIR", "web/templates")
	staticDir := envOr("STATIC_DIR", "web/static")
	addr := ":" + envOr("PORT", "8080")

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "dev-secret-change-in-production-32bytes"
		slog.Warn("SESSION_SECRET not set, using development default")
	}
	sessionSecretBytes := auth.SessionSecretBytes(sessionSecret)

	db, err := repository.Open(dbPath)
	if err != nil {
		logging.Fatal("failed to open database", "error", err, "path", dbPath)
	}
	defer db.Close()

	userRepo := repository.NewSQLiteUserRepository(db)
	contactRepo := repository.NewSQLiteContactRepository(db)
	paymentRepo := repository.NewSQLitePaymentRepository(db)

	mail := mailer.New(mailer.Config{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       envOr("SMTP_PORT", "587"),
		Username:   os.Getenv("SMTP_USER"),
		Password:   os.Getenv("SMTP_PASS"),
		From:       envOr("MAIL_FROM", "no-reply@ciclexpress.com"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	})

	// reCAPTCHA（未設定の場合は検証をスキップ）
	var verifier recaptcha.Verifier
	if secret := os.Getenv("RECAPTCHA_SECRET_KEY"); secret != "" {
		verifier = recaptcha.NewClient(secret)
	}

	charger := fakepayment.NewClient(
		os.Getenv("FAKEPAYMENT_API_KEY"),
		os.Getenv("FAKEPAYMENT_URL"),
	)

	authService := service.NewAuthService(userRepo)
	contactService := service.NewContactService(contactRepo, mail)
	paymentService := service.NewPaymentService(paymentRepo, charger, mail)

	render, err := handler.NewRenderer(templateDir)
	if err != nil {
		logging.Fatal("failed to load templates", "error", err, "dir", templateDir)
	}

	pageHandler := handler.NewPageHandler(render)
	contactHandler := handler.NewContactHandler(render, contactService, verifier, os.Getenv("RECAPTCHA_SITE_KEY"))
	paymentHandler := handler.NewPaymentHandler(render, paymentService, userRepo)
	authHandler := handler.NewAuthHandler(render, authService, handler.AuthConfig{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		BaseURL:            baseURL,
		SessionSecret:      sessionSecret,
		SecureCookies:      os.Getenv("SECURE_COOKIES") == "true",
		RecaptchaSiteKey:   os.Getenv("RECAPTCHA_SITE_KEY"),
	})
	adminHandler := handler.NewAdminHandler(render, contactService, paymentService, userRepo)

	isAdmin := func(ctx context.Context, userID string) bool {
		u, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return false
		}
		return u.IsAdmin
	}

	withSession := auth.WithSession(sessionSecretBytes)
	requireAdmin := auth.RequireAdmin(sessionSecretBytes, isAdmin)
	contactLimiter := handler.NewRateLimiter(5, "/contacto")
	paymentLimiter := handler.NewRateLimiter(10, "/payment")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", pageHandler.Home)
	mux.HandleFunc("GET /servicios", pageHandler.Services)
	mux.HandleFunc("GET /informacion", pageHandler.About)

	mux.HandleFunc("GET /contacto", contactHandler.ShowForm)
	mux.Handle("POST /contact/add", contactLimiter.Middleware(http.HandlerFunc(contactHandler.Submit)))

	mux.Handle("GET /payment", withSession(http.HandlerFunc(paymentHandler.ShowForm)))
	mux.Handle("POST /payment/add",
		paymentLimiter.Middleware(withSession(http.HandlerFunc(paymentHandler.Submit))))

	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("GET /logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	mux.Handle("GET /admin", requireAdmin(http.HandlerFunc(adminHandler.Dashboard)))
	mux.Handle("GET /admin/contacts", requireAdmin(http.HandlerFunc(adminHandler.Contacts)))
	mux.Handle("GET /admin/payments", requireAdmin(http.HandlerFunc(adminHandler.Payments)))
	mux.Handle("POST /admin/replies/send/{messageId}", requireAdmin(http.HandlerFunc(adminHandler.SendReply)))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
