package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires the forecast endpoints. A nil gatherer disables /metrics.
func NewRouter(h *ForecastHandler, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery(logger))

	router.GET("/", h.Index)
	router.GET("/predict", h.Predict)
	router.GET("/features", h.Features)
	router.GET("/healthz", h.Health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return router
}
