// Package errs defines the error kinds surfaced by the order desk core.
// Callers are expected to show the kind and reason to the operator as is.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindFormat          Kind = "format"
	KindExtraction      Kind = "extraction"
	KindValidation      Kind = "validation"
	KindPrintIneligible Kind = "print_ineligible"
	KindNotFound        Kind = "not_found"
)

// FormatError reports money or date text that cannot be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %q: %s", e.Input, e.Reason)
}

// ExtractionError reports a malformed payload from the text-understanding step.
// Raw keeps the payload untouched for operator inspection.
type ExtractionError struct {
	Raw    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction error: " + e.Reason
}

// ValidationError reports a rejected write: missing required fields or a broken
// financial invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// PrintIneligibleError carries the gate reason for one order.
type PrintIneligibleError struct {
	OrderCode string
	Reason    string
}

func (e *PrintIneligibleError) Error() string {
	return fmt.Sprintf("order %s cannot be printed: %s", e.OrderCode, e.Reason)
}

// NotFoundError reports an unknown order, item or customer.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// BatchError collects every per-order failure of a batch operation.
type BatchError struct {
	Errors []error
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d order(s) rejected: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *BatchError) Unwrap() []error { return e.Errors }

func Format(input, reason string) error {
	return &FormatError{Input: input, Reason: reason}
}

func Extraction(raw, reason string) error {
	return &ExtractionError{Raw: raw, Reason: reason}
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// KindOf returns the kind of the first taxonomy error found in err's chain,
// or "" for infrastructure errors.
func KindOf(err error) Kind {
	var (
		fe *FormatError
		ee *ExtractionError
		ve *ValidationError
		pe *PrintIneligibleError
		ne *NotFoundError
		be *BatchError
	)
	// a batch unwraps to its members, so it has to be matched first
	switch {
	case errors.As(err, &be):
		return KindPrintIneligible
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ne):
		return KindNotFound
	case errors.As(err, &pe):
		return KindPrintIneligible
	case errors.As(err, &ee):
		return KindExtraction
	case errors.As(err, &fe):
		return KindFormat
	}
	return ""
}
