package filter

import (
	"fmt"
)

type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Line       int // 0 if unknown
		Column     int
		Err        error
	}

	// EvaluationError indicates a compiled filter failed on a single item
	EvaluationError struct {
		Expression string
		Title      string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compilation error at %d:%d in '%s': %s", e.Line, e.Column, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating '%s' on '%s': %v", e.Expression, e.Title, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
