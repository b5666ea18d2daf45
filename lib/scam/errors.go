package scam

import (
	"fmt"
)

// ConfigError is a fatal error of the scam corpus or registry setup, the detector refuses to run with it.
type ConfigError struct {
	Checker string // checker name, empty for corpus-wide errors
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Checker == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error, checker %q: %v", e.Checker, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// EvalError is a non-fatal error of a single item evaluation, e.g. OCR failure for one image.
// The part which failed is skipped, the rest of the item is still evaluated.
type EvalError struct {
	Source string // what failed, image label or checker name
	Err    error
}

func (e *EvalError) Error() string { return fmt.Sprintf("evaluation of %s failed: %v", e.Source, e.Err) }

func (e *EvalError) Unwrap() error { return e.Err }
