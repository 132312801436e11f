package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/paisatrack/backend/internal/config"
	"github.com/paisatrack/backend/internal/gateway"
	"github.com/paisatrack/backend/internal/handler"
	"github.com/paisatrack/backend/internal/logger"
	"github.com/paisatrack/backend/internal/metrics"
	"github.com/paisatrack/backend/internal/rates"
	"github.com/paisatrack/backend/internal/repository"
	"github.com/paisatrack/backend/internal/scheduler"
	"github.com/paisatrack/backend/internal/service"
)

// @title PaisaTrack API
// @version 1.0
// @description Personal finance calculation API: debts, savings goals, investments, recurring obligations, financial health and UPI payments.

// @contact.name API Support
// @contact.email support@paisatrack.in

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logger
	logger := logger.Setup(cfg.Env)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	savingsRepo := repository.NewSavingsRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	rateRepo := repository.NewRateRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	recurringService := service.NewRecurringService(recurringRepo)
	debtService := service.NewDebtService(debtRepo)
	savingsService := service.NewSavingsService(savingsRepo, userRepo)
	investmentService := service.NewInvestmentService(investmentRepo)
	healthService := service.NewHealthService(userRepo, debtRepo, recurringRepo)

	razorpay := gateway.NewRazorpay(cfg.RazorpayKey, cfg.RazorpaySecret, cfg.RazorpayBaseURL)
	paymentService := service.NewPaymentService(paymentRepo, razorpay)

	scraper := rates.NewScraper(rateRepo, rates.DefaultSources)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	recurringHandler := handler.NewRecurringHandler(recurringService)
	debtHandler := handler.NewDebtHandler(debtService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	investmentHandler := handler.NewInvestmentHandler(investmentService)
	healthHandler := handler.NewHealthHandler(healthService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	ratesHandler := handler.NewRatesHandler(rateRepo)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(handler.MetricsMiddleware)
	// CORS - allow frontend origin from env or default
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger documentation (doc.json is generated by swag init)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Prometheus metrics
	r.Handle("/metrics", metrics.Handler())

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)

	// Interest rates (public - no auth required)
	r.Get("/api/interest-rates", ratesHandler.List)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)

		// Current user
		r.Get("/api/auth/me", authHandler.Me)
		r.Put("/api/auth/settings", authHandler.UpdateSettings)

		// Recurring Transactions
		r.Get("/api/recurring", recurringHandler.List)
		r.Post("/api/recurring", recurringHandler.Create)
		r.Get("/api/recurring/monthly-net", recurringHandler.MonthlyNet)
		r.Get("/api/recurring/{id}", recurringHandler.Get)
		r.Put("/api/recurring/{id}", recurringHandler.Update)
		r.Delete("/api/recurring/{id}", recurringHandler.Delete)
		r.Put("/api/recurring/{id}/active", recurringHandler.SetActive)

		// Debt Management
		r.Get("/api/debts", debtHandler.List)
		r.Post("/api/debts", debtHandler.Create)
		r.Get("/api/debts/summary", debtHandler.Summary)
		r.Get("/api/debts/{id}", debtHandler.Get)
		r.Put("/api/debts/{id}", debtHandler.Update)
		r.Delete("/api/debts/{id}", debtHandler.Delete)
		r.Get("/api/debts/{id}/payoff-date", debtHandler.PayoffDate)

		// Savings Goals
		r.Get("/api/savings-goals", savingsHandler.List)
		r.Post("/api/savings-goals", savingsHandler.Create)
		r.Get("/api/savings-goals/summary", savingsHandler.Summary)
		r.Get("/api/savings-goals/{id}", savingsHandler.Get)
		r.Put("/api/savings-goals/{id}", savingsHandler.Update)
		r.Delete("/api/savings-goals/{id}", savingsHandler.Delete)
		r.Post("/api/savings-goals/{id}/contribute", savingsHandler.Contribute)
		r.Get("/api/savings-goals/{id}/streak", savingsHandler.Streak)
		r.Get("/api/savings-goals/{id}/contributions", savingsHandler.Contributions)
		r.Get("/api/savings-goals/{id}/milestones", savingsHandler.Milestones)
		r.Post("/api/savings-goals/{id}/milestones", savingsHandler.AddMilestone)
		r.Post("/api/savings-goals/{id}/milestones/{milestoneId}/achieve", savingsHandler.AchieveMilestone)

		// Investments
		r.Get("/api/investments", investmentHandler.List)
		r.Post("/api/investments", investmentHandler.Create)
		r.Get("/api/investments/portfolio/summary", investmentHandler.PortfolioSummary)
		r.Get("/api/investments/portfolio/risk-score", investmentHandler.RiskScore)
		r.Get("/api/investments/portfolio/rebalance", investmentHandler.Rebalance)
		r.Post("/api/investments/risk-profile", investmentHandler.AssessRiskProfile)
		r.Get("/api/investments/{id}", investmentHandler.Get)
		r.Put("/api/investments/{id}", investmentHandler.Update)
		r.Delete("/api/investments/{id}", investmentHandler.Delete)

		// Financial Health
		r.Get("/api/financial-health", healthHandler.Calculate)

		// Payments
		r.Get("/api/payments", paymentHandler.List)
		r.Post("/api/payments/initiate", paymentHandler.Initiate)
		r.Post("/api/payments/verify", paymentHandler.Verify)
		r.Get("/api/payments/{id}", paymentHandler.Get)
		r.Post("/api/payments/{id}/refund", paymentHandler.Refund)
	})

	// Background jobs: due recurring transactions, auto-save contributions
	// and the FD-rate scrape
	var jobScheduler *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		schedCfg := scheduler.Config{
			RecurringSchedule: cfg.RecurringSchedule,
			RatesSchedule:     cfg.RatesSchedule,
			Timeout:           cfg.JobTimeout,
			Enabled:           cfg.SchedulerEnabled,
		}
		jobScheduler = scheduler.New(schedCfg,
			recurringService.ProcessDue,
			savingsService.ProcessAutoSaves,
			scraper.ScrapeAll,
			logger,
		)
		if err := jobScheduler.Start(); err != nil {
			logger.Error("Failed to start scheduler", slog.String("error", err.Error()))
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	// Create server
	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		// Stop scheduler first
		if jobScheduler != nil {
			ctx := jobScheduler.Stop()
			<-ctx.Done()
			logger.Info("Scheduler stopped")
		}

		// Shutdown HTTP server
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}
