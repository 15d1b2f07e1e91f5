package inference

import (
	"fmt"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"

	"StockForecaster/internal/model"
)

var envMu sync.Mutex

// ONNXModel wraps an ONNX Runtime session for regression inference.
// Input is a float32 tensor [rows, features]; output is [rows, 1].
type ONNXModel struct {
	session    *onnxruntime.DynamicAdvancedSession
	inputName  string
	outputName string
}

// ONNXOptions locates the model and the runtime library.
type ONNXOptions struct {
	Path       string
	Library    string // path to the onnxruntime shared library
	InputName  string
	OutputName string
}

// initEnvironment initializes the runtime once per process.
func initEnvironment(library string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if onnxruntime.IsInitialized() {
		return nil
	}
	if library != "" {
		onnxruntime.SetSharedLibraryPath(library)
	}
	return onnxruntime.InitializeEnvironment()
}

// LoadONNXModel loads an ONNX model from file.
func LoadONNXModel(opts ONNXOptions) (*ONNXModel, error) {
	if opts.InputName == "" {
		opts.InputName = "input"
	}
	if opts.OutputName == "" {
		opts.OutputName = "variable"
	}
	if err := initEnvironment(opts.Library); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(opts.Path,
		[]string{opts.InputName}, []string{opts.OutputName}, options)
	if err != nil {
		return nil, fmt.Errorf("load onnx model %s: %w", opts.Path, err)
	}
	return &ONNXModel{
		session:    session,
		inputName:  opts.InputName,
		outputName: opts.OutputName,
	}, nil
}

func (m *ONNXModel) Kind() string { return "onnx" }

// Predict runs the session on rows.
func (m *ONNXModel) Predict(rows [][]float64) ([]float64, error) {
	if m.session == nil {
		return nil, fmt.Errorf("model session is closed")
	}
	width := len(model.FeatureSchema)
	flat := make([]float32, 0, len(rows)*width)
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: expected %d features, got %d", r, width, len(row))
		}
		for _, v := range row {
			flat = append(flat, float32(v))
		}
	}

	input, err := onnxruntime.NewTensor(onnxruntime.NewShape(int64(len(rows)), int64(width)), flat)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := onnxruntime.NewEmptyTensor[float32](onnxruntime.NewShape(int64(len(rows)), 1))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := m.session.Run([]onnxruntime.Value{input}, []onnxruntime.Value{output}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	data := output.GetData()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out, nil
}

// Close destroys the session.
func (m *ONNXModel) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
