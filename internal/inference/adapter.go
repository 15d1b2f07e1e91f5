package inference

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"StockForecaster/internal/metrics"
	"StockForecaster/internal/model"
)

// Model is a loaded regression model.
// Predict receives one row per sample, columns in feature schema order, and returns one output per row.
type Model interface {
	Predict(rows [][]float64) ([]float64, error)
}

// Adapter invokes a Model on a single feature row and normalizes its result.
type Adapter struct {
	model   Model
	metrics *metrics.Metrics
}

// NewAdapter wraps m. The model is shared read-only between requests.
func NewAdapter(m Model, met *metrics.Metrics) *Adapter {
	return &Adapter{model: m, metrics: met}
}

// Kind reports the model implementation, e.g. "onnx" or "linear".
func (a *Adapter) Kind() string {
	if k, ok := a.model.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return fmt.Sprintf("%T", a.model)
}

// Close releases model resources if the model holds any.
func (a *Adapter) Close() error {
	if c, ok := a.model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Predict returns the model output for row rounded to two decimal places.
// Every model fault is reported as PredictionFailed with the underlying text.
func (a *Adapter) Predict(row *model.FeatureRow) (float64, error) {
	if row == nil || len(row.Values) != len(model.FeatureSchema) {
		n := 0
		if row != nil {
			n = len(row.Values)
		}
		return 0, predictionFailed(fmt.Errorf("feature row has %d values, model expects %d", n, len(model.FeatureSchema)))
	}

	start := time.Now()
	out, err := a.invoke(row.Values)
	a.metrics.ObserveInference(time.Since(start))
	if err != nil {
		return 0, predictionFailed(err)
	}
	if len(out) == 0 {
		return 0, predictionFailed(fmt.Errorf("model returned no output"))
	}
	y := out[0]
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, predictionFailed(fmt.Errorf("model returned non-finite value %v", y))
	}
	return Round2(y), nil
}

// invoke is the only place model code runs.
func (a *Adapter) invoke(values []float64) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panic: %v", r)
		}
	}()
	input := make([]float64, len(values))
	copy(input, values)
	return a.model.Predict([][]float64{input})
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func predictionFailed(err error) error {
	return model.NewPipelineError(model.CodePredictionFailed,
		fmt.Sprintf("error during prediction: %v", err), err)
}
