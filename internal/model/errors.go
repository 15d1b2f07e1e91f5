package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies pipeline failures.
type ErrorCode string

const (
	CodeEmptySeries         ErrorCode = "EmptySeries"
	CodeSchemaMismatch      ErrorCode = "SchemaMismatch"
	CodeInsufficientHistory ErrorCode = "InsufficientHistory"
	CodePredictionFailed    ErrorCode = "PredictionFailed"
	CodeInvalidSymbol       ErrorCode = "InvalidSymbol"
	CodeUpstreamUnavailable ErrorCode = "UpstreamUnavailable"
	CodeInternal            ErrorCode = "Internal"
)

// PipelineError is the structured failure reported at the pipeline boundary.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError creates a PipelineError.
func NewPipelineError(code ErrorCode, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first PipelineError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
