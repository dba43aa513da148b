package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aleksandergalganski/employee-api/internal/config"
	"github.com/aleksandergalganski/employee-api/internal/db"
	"github.com/aleksandergalganski/employee-api/internal/httpapi"
	"github.com/aleksandergalganski/employee-api/internal/metrics"
	"github.com/aleksandergalganski/employee-api/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s %s", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func main() {
	// -- Logger --
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// -- Configs preload --
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	// -- Connect to DB --
	database, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalf("database connection error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logger.Fatalf("database migration error: %v", err)
	}

	// -- Metrics --
	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewMetrics(registry)

	employeeService := service.NewEmployeeService(database)
	handler := httpapi.NewHandler(employeeService, logger)

	// -- Router --
	mux := http.NewServeMux()
	mux.Handle("/employees", handler)
	mux.Handle("/employees/", handler)
	mux.HandleFunc("/healthcheck", healthcheck)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(logger, httpMetrics.Middleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// -- Startup --
	logger.Printf("starting server, listening to port %s...", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
}
