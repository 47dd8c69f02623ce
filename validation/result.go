// Package validation holds the reusable field rules shared by request
// validators and the result envelope they produce.
package validation

import (
	"encoding/json"
	"fmt"
)

// Status is the envelope status reported to callers.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Errors accumulates rule violations in the order they were found.
type Errors struct {
	list []string
}

// Add records a violation.
func (e *Errors) Add(msg string) {
	e.list = append(e.list, msg)
}

// Addf records a formatted violation.
func (e *Errors) Addf(format string, args ...interface{}) {
	e.Add(fmt.Sprintf(format, args...))
}

func (e *Errors) Len() int { return len(e.list) }

// List returns a copy of the recorded violations.
func (e *Errors) List() []string {
	out := make([]string, len(e.list))
	copy(out, e.list)
	return out
}

// Result is either a success carrying Data or a failure carrying at least one
// error. Use Success and Failure to build one.
type Result[T any] struct {
	Status Status
	Data   T
	Errors []string
}

// Success wraps data in a success envelope.
func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

// Failure wraps errs in an error envelope.
func Failure[T any](errs ...string) Result[T] {
	return Result[T]{Status: StatusError, Errors: errs}
}

// OK reports whether r is a success.
func (r Result[T]) OK() bool { return r.Status == StatusSuccess }

// MarshalJSON emits {"status":"success","data":...} or
// {"status":"error","errors":[...]}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.OK() {
		return json.Marshal(struct {
			Status Status `json:"status"`
			Data   T      `json:"data"`
		}{r.Status, r.Data})
	}
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return json.Marshal(struct {
		Status Status   `json:"status"`
		Errors []string `json:"errors"`
	}{StatusError, errs})
}

// Envelope is a Result of any data type.
type Envelope interface {
	OK() bool
	json.Marshaler
}
