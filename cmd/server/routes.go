// Package main provides the fulfillment webhook server entry point.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/config"
	"github.com/sxdsl/tthc-chatbot-go/internal/timeouts"
	"github.com/sxdsl/tthc-chatbot-go/internal/webhook"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, cfg *config.Config, webhookHandler *webhook.Handler, cache *catalog.Cache, registry *prometheus.Registry) {
	rootHandler := func(c *gin.Context) {
		c.String(http.StatusOK, "SXDSL TTHC Webhook OK")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe. Never checks dependencies, only that the process
	// answers.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe. Ready once a catalog snapshot is loaded; an empty
	// cache gets one bounded refresh attempt.
	readyHandler := func(c *gin.Context) {
		if cache.Len() == 0 {
			checkCtx, cancel := context.WithTimeout(c.Request.Context(), timeouts.ReadinessCheck)
			defer cancel()
			if err := cache.EnsureFresh(checkCtx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"reason": err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"records":   cache.Len(),
			"loaded_at": cache.LoadedAt().UTC().Format(time.RFC3339),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Dialogflow fulfillment endpoint
	router.POST("/fulfillment", webhookHandler.Handle)

	// Prometheus metrics endpoint, Basic Auth when a password is set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
