package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/clt-simulator/internal/config"
	"github.com/Dan9191/clt-simulator/internal/handler"
	"github.com/Dan9191/clt-simulator/internal/integrations/facta"
	"github.com/Dan9191/clt-simulator/internal/metrics"
	"github.com/Dan9191/clt-simulator/internal/middleware"
	"github.com/Dan9191/clt-simulator/internal/repository"
	"github.com/Dan9191/clt-simulator/internal/scheduler"
	"github.com/Dan9191/clt-simulator/internal/service"
	"github.com/Dan9191/clt-simulator/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize layers
	tokens := facta.NewTokenProvider(cfg, logger, m)
	factaClient := facta.NewClient(cfg, tokens, logger, m)
	repo := repository.NewRepository()

	var reporter service.Reporter
	if cfg.ReportEmailTo != "" {
		reporter = email.NewSender(cfg, logger)
	}
	svc := service.NewService(factaClient, tokens, repo, reporter, logger, m)
	h := handler.NewHandler(svc, logger)

	jobs := scheduler.New(logger, cfg.FactaTimeout)
	if err := jobs.AddTokenWarmup(cfg.TokenWarmupSchedule, tokens); err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}
	jobs.Start()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Recover(logger), middleware.RequestLogger(logger))
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg))
	api.HandleFunc("/test-connection", h.TestConnection).Methods("GET")
	api.HandleFunc("/simulate-single", h.SimulateSingle).Methods("POST")
	api.HandleFunc("/simulate", h.Simulate).Methods("POST")
	api.HandleFunc("/export-csv", h.ExportCSV).Methods("GET")
	api.HandleFunc("/export-excel", h.ExportExcel).Methods("GET")
	api.HandleFunc("/export-xml", h.ExportXML).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// batches run synchronously inside the request
		WriteTimeout: 15 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jobs.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}
