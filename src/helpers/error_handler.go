package helpers

import (
	"errors"
	"fmt"

	"stock-trend/src/logger"
)

// -----------------------------------------------------------------------------
// Sentinel errors
// -----------------------------------------------------------------------------

var (
	ErrInvalidTicker    = errors.New("invalid ticker symbol")
	ErrInsufficientData = errors.New("not enough price history")
	ErrEmptyTrainingSet = errors.New("training partition is empty")
	ErrEmptyHoldout     = errors.New("holdout partition is empty")
	ErrFeatureMismatch  = errors.New("feature vector length mismatch")
	ErrModelNotFitted   = errors.New("model has not been fitted")
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type TrendError struct {
	Message string
	Cause   error
}

func (e *TrendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TrendError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks at the transport edge
type DataSourceError struct{ TrendError }
type ModelError struct{ TrendError }
type ValidationError struct{ TrendError }

// -----------------------------------------------------------------------------

func NewDataSourceError(msg string, cause error) error {
	return &DataSourceError{TrendError{Message: msg, Cause: cause}}
}

func NewModelError(msg string, cause error) error {
	return &ModelError{TrendError{Message: msg, Cause: cause}}
}

func NewValidationError(msg string, cause error) error {
	return &ValidationError{TrendError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------

// IsClientError reports whether err was caused by the request itself (bad ticker, no data)
// rather than by the service.
func IsClientError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInvalidTicker) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrEmptyTrainingSet) ||
		errors.Is(err, ErrEmptyHoldout)
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{Logger: log.Named("ErrorHandler")}
}

// -----------------------------------------------------------------------------

// Handle logs err with the place it surfaced. Client errors are logged as warnings.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	if IsClientError(err) {
		e.Logger.Warning("%s: %v", context, err)
		return
	}
	e.Logger.Error("Error in %s: %v", context, err)
}
