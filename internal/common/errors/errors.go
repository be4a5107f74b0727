// Package errors provides standardized error handling for the catalog export pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeMalformedDocument      ErrorCode = "MALFORMED_DOCUMENT"
	ErrCodeFieldResolutionMiss    ErrorCode = "FIELD_RESOLUTION_MISS"
	ErrCodeRowWriteFailed         ErrorCode = "ROW_WRITE_FAILED"
	ErrCodeSinkOpenFailed         ErrorCode = "SINK_OPEN_FAILED"
	ErrCodePostProcessFailed      ErrorCode = "POST_PROCESS_FAILED"
)

// StandardError represents a structured application error.
//
// RowScoped errors affect the current row only: the writer logs them, skips
// the row and keeps consuming documents. Non-row-scoped errors (sink open,
// post-processing) surface to the caller.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	RowScoped bool                   `json:"rowScoped"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewSchemaValidationFailedError marks a row skipped because the catalog item
// failed structured validation. Details carries the per-field report.
func NewSchemaValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidationFailed,
		Message:   "Catalog item failed schema validation",
		Details:   details,
		RowScoped: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedDocumentError marks a row skipped because result.items[0] was
// missing or unreachable in the incoming document.
func NewMalformedDocumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedDocument,
		Message:   "Catalog document has no reachable result.items[0]",
		Details:   details,
		RowScoped: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFieldResolutionMissError records a single output field left blank after
// all fallbacks were exhausted. Never aborts the row.
func NewFieldResolutionMissError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFieldResolutionMiss,
		Message:   "No fallback resolved a value for field",
		Details:   fmt.Sprintf("field: %s", field),
		RowScoped: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRowWriteFailedError records a sink rejection of one assembled row.
func NewRowWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRowWriteFailed,
		Message:   "CSV sink rejected row",
		Details:   err.Error(),
		RowScoped: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSinkOpenFailedError reports that the output table could not be opened.
func NewSinkOpenFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSinkOpenFailed,
		Message:   "Failed to open output table",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		RowScoped: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPostProcessFailedError reports a failed column-shaping pass.
func NewPostProcessFailedError(pass string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePostProcessFailed,
		Message:   "Post-processing pass failed",
		Details:   fmt.Sprintf("pass: %s, error: %s", pass, err.Error()),
		RowScoped: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRowScoped reports whether err is a StandardError confined to one row.
func IsRowScoped(err error) bool {
	se, ok := err.(*StandardError)
	return ok && se.RowScoped
}
