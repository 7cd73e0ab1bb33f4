// Package main provides the fulfillment webhook server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sxdsl/tthc-chatbot-go/internal/buildinfo"
	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/config"
	"github.com/sxdsl/tthc-chatbot-go/internal/dialog"
	"github.com/sxdsl/tthc-chatbot-go/internal/logger"
	"github.com/sxdsl/tthc-chatbot-go/internal/matcher"
	"github.com/sxdsl/tthc-chatbot-go/internal/metrics"
	"github.com/sxdsl/tthc-chatbot-go/internal/sentry"
	"github.com/sxdsl/tthc-chatbot-go/internal/timeouts"
	"github.com/sxdsl/tthc-chatbot-go/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting TTHC chatbot server")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed, continuing without it")
	} else if sentry.IsEnabled() {
		log.Info("Sentry error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	source, err := catalog.NewSheetsSource(context.Background(), catalog.SheetsConfig{
		SheetID:         cfg.SheetID,
		ValuesRange:     cfg.ValuesRange(),
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		APIKey:          cfg.GoogleAPIKey,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create sheets source")
	}
	cache := catalog.NewCache(source, cfg.RefreshTTL, log, m)
	log.WithField("sheet_id", cfg.SheetID).
		WithField("range", cfg.ValuesRange()).
		WithField("ttl", cfg.RefreshTTL).
		Info("Catalog source created")

	searcher := matcher.New(cache, matcher.Config{
		Threshold: cfg.MatchThreshold,
		Anchors:   cfg.MatchAnchors,
		Limit:     cfg.MatchLimit,
	})
	machine := dialog.NewMachine(cache, searcher, log, cfg.MatchLimit)
	webhookHandler := webhook.NewHandler(machine, m, log)
	log.Info("Webhook handler created")

	// Warm the catalog before serving. A failure is not fatal: the first
	// request retries and answers the busy fallback meanwhile.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), timeouts.CatalogWarm)
	if err := cache.EnsureFresh(warmCtx); err != nil {
		log.WithError(err).Warn("Initial catalog load failed")
	} else {
		log.WithField("records", cache.Len()).Info("Catalog warmed")
	}
	warmCancel()

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, cfg, webhookHandler, cache, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  timeouts.HTTPRead,
		WriteTimeout: timeouts.HTTPWrite,
		IdleTimeout:  timeouts.HTTPIdle,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if sentry.IsEnabled() {
		sentry.Flush(timeouts.SentryFlush)
	}

	log.Info("Server stopped")
}
