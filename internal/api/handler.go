package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockForecaster/internal/forecast"
	"StockForecaster/internal/model"
)

// Forecaster is the pipeline behind the HTTP endpoints.
type Forecaster interface {
	Forecast(ctx context.Context, symbol string) (*model.Forecast, error)
	Features(ctx context.Context, symbol string) (*model.FeatureRow, error)
	DefaultSymbol() string
	ModelKind() string
}

// ForecastHandler handles forecast HTTP requests
type ForecastHandler struct {
	service Forecaster
	logger  *zap.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(service Forecaster, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{
		service: service,
		logger:  logger,
	}
}

type predictResponse struct {
	Code       string  `json:"code"`
	Prediction float64 `json:"prediction"`
	AsOf       string  `json:"as_of"`
}

type featuresResponse struct {
	Code   string             `json:"code"`
	Date   string             `json:"date"`
	Names  []string           `json:"names"`
	Values []float64          `json:"values"`
	ByName map[string]float64 `json:"by_name"`
}

type errorBody struct {
	Code    model.ErrorCode `json:"code"`
	Message string          `json:"message"`
}

type errorResponse struct {
	Code  string    `json:"code"`
	Error errorBody `json:"error"`
}

// StatusFor maps a pipeline error code to an HTTP status.
func StatusFor(code model.ErrorCode) int {
	switch code {
	case model.CodeInvalidSymbol:
		return http.StatusBadRequest
	case model.CodeEmptySeries:
		return http.StatusNotFound
	case model.CodeInsufficientHistory:
		return http.StatusUnprocessableEntity
	case model.CodeSchemaMismatch, model.CodeUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Index describes the service.
// GET /
func (h *ForecastHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":      "stock-forecaster",
		"default_code": h.service.DefaultSymbol(),
	})
}

// Predict runs the full pipeline.
// GET /predict?code=9104.T
func (h *ForecastHandler) Predict(c *gin.Context) {
	symbol := c.DefaultQuery("code", h.service.DefaultSymbol())

	fc, err := h.service.Forecast(c.Request.Context(), symbol)
	if err != nil {
		h.sendError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, predictResponse{
		Code:       fc.Symbol,
		Prediction: fc.Prediction,
		AsOf:       fc.AsOf.Format(time.DateOnly),
	})
}

// Features returns the assembled feature row without inference.
// GET /features?code=9104.T
func (h *ForecastHandler) Features(c *gin.Context) {
	symbol := c.DefaultQuery("code", h.service.DefaultSymbol())

	row, err := h.service.Features(c.Request.Context(), symbol)
	if err != nil {
		h.sendError(c, symbol, err)
		return
	}
	byName := make(map[string]float64, len(row.Names))
	for i, n := range row.Names {
		byName[n] = row.Values[i]
	}
	c.JSON(http.StatusOK, featuresResponse{
		Code:   row.Symbol,
		Date:   row.Date.Format(time.DateOnly),
		Names:  row.Names,
		Values: row.Values,
		ByName: byName,
	})
}

// Health reports liveness and the loaded model.
// GET /healthz
func (h *ForecastHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  h.service.ModelKind(),
	})
}

func (h *ForecastHandler) sendError(c *gin.Context, symbol string, err error) {
	code, msg := forecast.Describe(err)
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("symbol", symbol), zap.Error(err))
	}
	c.JSON(status, errorResponse{
		Code:  symbol,
		Error: errorBody{Code: code, Message: msg},
	})
}
