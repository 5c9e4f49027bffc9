package apperror

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Condition classifies a terminal-side checkout or fetch failure.
type Condition string

const (
	CondNetworkTimeout    Condition = "network_timeout"
	CondNetworkFailure    Condition = "network_failure"
	CondInvalidResponse   Condition = "invalid_response"
	CondValidation        Condition = "validation_error"
	CondEmptyCart         Condition = "empty_cart"
	CondSaveFailed        Condition = "save_failed"
	CondStockAdjustFailed Condition = "stock_adjust_failed"
	CondReceiptFailed     Condition = "receipt_render_failed"
)

// BodyExcerptLimit bounds how much of a raw response body is carried on a
// FlowError for diagnostics.
const BodyExcerptLimit = 1000

// FlowError is a terminal-side failure with enough diagnostic context
// (HTTP status, truncated response body) to render a useful message without
// a separate log viewer.
type FlowError struct {
	Cond    Condition
	Message string
	Status  int    // HTTP status when the failure came from a response, else 0
	Body    string // truncated raw response body, may be empty
	Err     error  // underlying transport or decode error, may be nil
}

func (e *FlowError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = msg + ": " + e.Body
	}
	return msg
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// NewFlowError creates a FlowError with a bare message.
func NewFlowError(cond Condition, message string) *FlowError {
	return &FlowError{Cond: cond, Message: message}
}

// NewFlowErrorf creates a FlowError with a formatted message.
func NewFlowErrorf(cond Condition, format string, args ...interface{}) *FlowError {
	return &FlowError{Cond: cond, Message: fmt.Sprintf(format, args...)}
}

// WrapFlowError creates a FlowError wrapping an underlying error.
func WrapFlowError(cond Condition, message string, err error) *FlowError {
	return &FlowError{Cond: cond, Message: message, Err: err}
}

// WithResponse attaches the HTTP status and a truncated body excerpt.
func (e *FlowError) WithResponse(status int, body string) *FlowError {
	e.Status = status
	e.Body = Truncate(body, BodyExcerptLimit)
	return e
}

// ConditionOf returns the condition of err, or an empty Condition when err is
// not a FlowError.
func ConditionOf(err error) Condition {
	if fe, ok := AsFlowError(err); ok {
		return fe.Cond
	}
	return ""
}

// IsCondition reports whether err is a FlowError with the given condition.
func IsCondition(err error, cond Condition) bool {
	return ConditionOf(err) == cond
}

// AsFlowError unwraps err into a FlowError if possible.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Truncate clips s to at most n bytes, appending an ellipsis when clipped.
// The clip lands on a rune boundary; the result, ellipsis included, never
// exceeds n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	const ellipsis = "…"
	if n < len(ellipsis) {
		return ""
	}
	cut := n - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
