package inference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"StockForecaster/internal/model"
)

// LinearModel is a linear regression over the feature schema, loaded from YAML:
//
//	intercept: 1.5
//	coefficients:
//	  Close: 0.98
//	  MA_5: 0.02
type LinearModel struct {
	Intercept float64
	Weights   []float64 // aligned with model.FeatureSchema
}

type linearFile struct {
	Intercept    float64            `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
}

// NewLinearModel builds a model from named coefficients. Absent features weigh zero.
func NewLinearModel(intercept float64, coefficients map[string]float64) (*LinearModel, error) {
	index := make(map[string]int, len(model.FeatureSchema))
	for i, name := range model.FeatureSchema {
		index[name] = i
	}
	weights := make([]float64, len(model.FeatureSchema))
	for name, w := range coefficients {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("coefficient for unknown feature %q", name)
		}
		weights[i] = w
	}
	return &LinearModel{Intercept: intercept, Weights: weights}, nil
}

// LoadLinearModel reads a YAML coefficient file.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read linear model: %w", err)
	}
	var lf linearFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse linear model: %w", err)
	}
	return NewLinearModel(lf.Intercept, lf.Coefficients)
}

func (m *LinearModel) Kind() string { return "linear" }

func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for r, row := range rows {
		if len(row) != len(m.Weights) {
			return nil, fmt.Errorf("row %d: expected %d features, got %d", r, len(m.Weights), len(row))
		}
		y := m.Intercept
		for i, x := range row {
			y += m.Weights[i] * x
		}
		out[r] = y
	}
	return out, nil
}
