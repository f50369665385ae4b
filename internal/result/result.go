// Package result defines the outcome type shared by every tool, probe and
// locator. A Result is either a success, a recoverable failure carrying a
// reason, or a fatal configuration error. Producers only report; callers
// decide whether a failure should stop the build.
package result

import (
	"errors"
	"fmt"
)

// Status classifies a Result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
)

// Result is the outcome of a single configuration step.
type Result struct {
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// ErrorDetail describes a fatal error in a serialisable form.
type ErrorDetail struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

// Success returns a successful Result.
func Success(message string, data map[string]any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}

// Failure returns a recoverable failure. The reason is kept in Message.
func Failure(reason string, data map[string]any) Result {
	return Result{Status: StatusFailure, Message: reason, Data: data}
}

// Failuref is Failure with a formatted reason and no data.
func Failuref(format string, args ...any) Result {
	return Failure(fmt.Sprintf(format, args...), nil)
}

// Fatal wraps err as a fatal configuration error. errType is a short
// machine-readable category such as "not_found" or "config".
func Fatal(errType string, err error) Result {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result{
		Status:  StatusError,
		Message: err.Error(),
		Error:   &ErrorDetail{Type: errType, Message: err.Error()},
		err:     err,
	}
}

func (r Result) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result) IsFailure() bool { return r.Status == StatusFailure }
func (r Result) IsError() bool   { return r.Status == StatusError }

// Err returns the wrapped error of a fatal Result, or nil. For results
// decoded from JSON the original error is gone and a new one is built from
// the detail.
func (r Result) Err() error {
	if !r.IsError() {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	if r.Error != nil {
		return errors.New(r.Error.Message)
	}
	return errors.New(r.Message)
}

// Escalate promotes a recoverable failure to a fatal error. Successes and
// errors are returned unchanged.
func (r Result) Escalate() Result {
	if !r.IsFailure() {
		return r
	}
	out := Fatal("failure", errors.New(r.Message))
	out.Data = r.Data
	return out
}
