package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"rental-cloud/internal/audit"
	"rental-cloud/internal/auth"
	chargesapp "rental-cloud/internal/charges/application"
	chargesrepo "rental-cloud/internal/charges/infrastructure/postgres"
	chargesinterfaces "rental-cloud/internal/charges/interfaces"
	leasingapp "rental-cloud/internal/leasing/application"
	leasing "rental-cloud/internal/leasing/domain"
	leasingrepo "rental-cloud/internal/leasing/infrastructure/postgres"
	leasinginterfaces "rental-cloud/internal/leasing/interfaces"
	masterdatarepo "rental-cloud/internal/masterdata/infrastructure/postgres"
	"rental-cloud/internal/observability/metrics"
	"rental-cloud/internal/reconciliation"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	reconCfg, err := reconciliation.LoadConfig()
	if err != nil {
		logger.Fatalf("reconciliation config error: %v", err)
	}
	epsilon, err := reconCfg.Epsilon()
	if err != nil {
		logger.Fatalf("reconciliation tolerance error: %v", err)
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

	leaseRepo := leasingrepo.NewLeaseRepository(db)
	revisionRepo := leasingrepo.NewRentRevisionRepository(db)
	paymentRepo := leasingrepo.NewPaymentRepository(db)
	propertyRepo := masterdatarepo.NewPropertyRepository(db)
	documentRepo := chargesrepo.NewFinancialDocumentRepository(db)
	shareRepo := chargesrepo.NewChargeShareRepository(db)
	readingRepo := chargesrepo.NewWaterReadingRepository(db)

	calculator, err := leasing.NewLedgerCalculator(epsilon, reconCfg.WindowMonths)
	if err != nil {
		logger.Fatalf("ledger calculator error: %v", err)
	}

	leaseService, err := leasingapp.NewLeaseService(leaseRepo, revisionRepo, paymentRepo, leasingapp.SystemClock{})
	if err != nil {
		logger.Fatalf("lease service error: %v", err)
	}
	ledgerService, err := leasingapp.NewLedgerService(leaseRepo, revisionRepo, paymentRepo, calculator, leasingapp.SystemClock{})
	if err != nil {
		logger.Fatalf("ledger service error: %v", err)
	}
	leaseHandler, err := leasinginterfaces.NewLeaseHandler(leaseService, ledgerService, reconCfg.Currency, auditRepo)
	if err != nil {
		logger.Fatalf("lease handler error: %v", err)
	}

	settlementService, err := chargesapp.NewSettlementService(propertyRepo, leaseRepo, revisionRepo, documentRepo, shareRepo, readingRepo, chargesapp.SystemClock{})
	if err != nil {
		logger.Fatalf("settlement service error: %v", err)
	}
	chargeService, err := chargesapp.NewChargeService(documentRepo, shareRepo, readingRepo, chargesapp.SystemClock{})
	if err != nil {
		logger.Fatalf("charge service error: %v", err)
	}
	propertyHandler, err := chargesinterfaces.NewPropertyChargeHandler(settlementService, chargeService, shareRepo, readingRepo, reconCfg.Currency, auditRepo)
	if err != nil {
		logger.Fatalf("property handler error: %v", err)
	}
	documentHandler, err := chargesinterfaces.NewBuildingDocumentHandler(chargeService, documentRepo, auditRepo)
	if err != nil {
		logger.Fatalf("document handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/leases", leaseHandler)
	mux.Handle("/api/v1/leases/", leaseHandler)
	mux.Handle("/api/v1/properties/", propertyHandler)
	mux.Handle("/api/v1/buildings/", documentHandler)
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
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
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
