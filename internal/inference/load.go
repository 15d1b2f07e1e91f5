package inference

import "fmt"

// Model kinds.
const (
	KindONNX   = "onnx"
	KindLinear = "linear"
)

// Load builds the model named by kind.
func Load(kind string, opts ONNXOptions) (Model, error) {
	switch kind {
	case KindONNX:
		m, err := LoadONNXModel(opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindLinear:
		m, err := LoadLinearModel(opts.Path)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
}
