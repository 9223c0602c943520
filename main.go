package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"condo-portal/internal/audit"
	"condo-portal/internal/auth"
	rostersource "condo-portal/internal/billing/adapters/residents"
	billingapp "condo-portal/internal/billing/application"
	billing "condo-portal/internal/billing/domain"
	billingrepo "condo-portal/internal/billing/infrastructure/postgres"
	billinghttp "condo-portal/internal/billing/interfaces"
	billingnotify "condo-portal/internal/billing/notify"
	documentsapp "condo-portal/internal/documents/application"
	documentsrepo "condo-portal/internal/documents/infrastructure/postgres"
	documentshttp "condo-portal/internal/documents/interfaces/http"
	noticesapp "condo-portal/internal/notices/application"
	noticesrepo "condo-portal/internal/notices/infrastructure/postgres"
	noticeshttp "condo-portal/internal/notices/interfaces/http"
	noticesnotify "condo-portal/internal/notices/notify"
	"condo-portal/internal/observability/metrics"
	residentsapp "condo-portal/internal/residents/application"
	residentsrepo "condo-portal/internal/residents/infrastructure/postgres"
	residentshttp "condo-portal/internal/residents/interfaces/http"
	"condo-portal/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	policy, err := billingapp.LoadPolicy()
	if err != nil {
		logger.Fatalf("billing policy error: %v", err)
	}

	if cfg.RunMigrations {
		if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatalf("migrations error: %v", err)
		}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	residentRepo := residentsrepo.NewRepository(db)
	residentService, err := residentsapp.NewService(residentRepo)
	if err != nil {
		logger.Fatalf("residents service error: %v", err)
	}
	residentHandler, err := residentshttp.NewHandler(residentService, auditRepo)
	if err != nil {
		logger.Fatalf("residents handler error: %v", err)
	}

	configRepo := billingrepo.NewConfigRepository(db)
	feeRepo := billingrepo.NewFeeRepository(db)
	roster, err := rostersource.NewRosterAdapter(residentRepo)
	if err != nil {
		logger.Fatalf("roster adapter error: %v", err)
	}

	configService, err := billingapp.NewConfigService(configRepo, billing.SystemClock{})
	if err != nil {
		logger.Fatalf("config service error: %v", err)
	}
	batchService, err := billingapp.NewBatchService(feeRepo, configRepo, roster, billing.SystemClock{}, billingapp.WithDefaultDueDay(policy.DueDay))
	if err != nil {
		logger.Fatalf("batch service error: %v", err)
	}
	ledgerService, err := billingapp.NewLedgerService(feeRepo, billing.SystemClock{})
	if err != nil {
		logger.Fatalf("ledger service error: %v", err)
	}
	paymentService, err := billingapp.NewPaymentService(feeRepo)
	if err != nil {
		logger.Fatalf("payment service error: %v", err)
	}
	billingHandler, err := billinghttp.NewBillingHandler(configService, batchService, ledgerService, paymentService, auditRepo)
	if err != nil {
		logger.Fatalf("billing handler error: %v", err)
	}

	if policy.Reminders.WebhookURL != "" && policy.Reminders.DailyAt != "" {
		notifier := billingnotify.NewWebhookNotifier(policy.Reminders.WebhookURL)
		scheduler := billingapp.NewReminderScheduler(feeRepo, notifier, policy.Reminders.DailyAt, billing.SystemClock{}, logger)
		go scheduler.Start(context.Background())
	}

	noticeRepo, err := noticesrepo.NewRepository(db)
	if err != nil {
		logger.Fatalf("notices repository error: %v", err)
	}
	noticeBroker := noticeshttp.NewSSEBroker()
	noticePublishers := []noticesapp.Publisher{noticeBroker}
	if cfg.NoticeWebhookURL != "" {
		noticePublishers = append(noticePublishers, noticesnotify.NewWebhookPublisher(cfg.NoticeWebhookURL, logger))
	}
	noticeService, err := noticesapp.NewService(noticeRepo, noticePublishers...)
	if err != nil {
		logger.Fatalf("notices service error: %v", err)
	}
	noticeHandler, err := noticeshttp.NewHandler(noticeService, noticeshttp.NewStreamHandler(noticeBroker), auditRepo)
	if err != nil {
		logger.Fatalf("notices handler error: %v", err)
	}

	documentRepo, err := documentsrepo.NewRepository(db)
	if err != nil {
		logger.Fatalf("documents repository error: %v", err)
	}
	documentService, err := documentsapp.NewService(documentRepo)
	if err != nil {
		logger.Fatalf("documents service error: %v", err)
	}
	documentHandler, err := documentshttp.NewHandler(documentService, auditRepo)
	if err != nil {
		logger.Fatalf("documents handler error: %v", err)
	}

	authPolicy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), authPolicy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/billing/", billingHandler)
	mux.Handle("/api/v1/residents", residentHandler)
	mux.Handle("/api/v1/residents/", residentHandler)
	mux.Handle("/api/v1/notices", noticeHandler)
	mux.Handle("/api/v1/notices/", noticeHandler)
	mux.Handle("/api/v1/documents", documentHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL      string
	HTTPAddr         string
	JWTSecret        string
	RunMigrations    bool
	NoticeWebhookURL string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		RunMigrations:    getenvDefault("RUN_MIGRATIONS", "true") == "true",
		NoticeWebhookURL: getenvDefault("NOTICE_WEBHOOK_URL", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		metrics.ObserveHTTP(r.Method, resp.status, time.Since(start))
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush keeps the SSE notice stream working through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
