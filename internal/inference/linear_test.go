package inference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModelPredict(t *testing.T) {
	m, err := NewLinearModel(2, map[string]float64{"Close": 1.5, "MACD_signal": -1})
	require.NoError(t, err)

	row := make([]float64, 15)
	row[0] = 100 // Close
	row[14] = 4  // MACD_signal
	out, err := m.Predict([][]float64{row, make([]float64, 15)})
	require.NoError(t, err)
	assert.Equal(t, []float64{148, 2}, out)
}

func TestLinearModelRejects(t *testing.T) {
	_, err := NewLinearModel(0, map[string]float64{"Adj Close": 1})
	assert.Error(t, err)

	m, err := NewLinearModel(0, nil)
	require.NoError(t, err)
	_, err = m.Predict([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func TestLoadLinearModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linear.yaml")
	require.NoError(t, os.WriteFile(path, []byte("intercept: 0.5\ncoefficients:\n  Close: 1.0\n  MA_5: 0.5\n"), 0o644))

	m, err := Load(KindLinear, ONNXOptions{Path: path})
	require.NoError(t, err)
	lm := m.(*LinearModel)
	assert.Equal(t, 0.5, lm.Intercept)
	assert.Equal(t, 1.0, lm.Weights[0])
	assert.Equal(t, 0.5, lm.Weights[6])
}

func TestLoadUnknownKind(t *testing.T) {
	_, err := Load("pickle", ONNXOptions{})
	assert.Error(t, err)

	_, err = Load(KindLinear, ONNXOptions{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
