package xrange

import (
	"errors"
)

// ErrNotSniffable is returned by Sniff for values it cannot make sense of.
var ErrNotSniffable = errors.New("could not sniff range type")

// ErrTainted is returned if a Browser range is normalized more than once.
var ErrTainted = errors.New("browser range may only be normalized once")

// RangeError signals that a range cannot be resolved against the current
// state of a document. Kind tells which part of the range failed
// ("start", "end", "startoffset", "endoffset", "empty").
type RangeError struct {
	Kind    string
	Message string
	Parent  error
}

func (e *RangeError) Error() string {
	return e.Message
}

// Unwrap returns the error which caused the range error, if any.
func (e *RangeError) Unwrap() error {
	return e.Parent
}

// IsRangeError is true if err is or wraps a *RangeError.
func IsRangeError(err error) bool {
	var rerr *RangeError
	return errors.As(err, &rerr)
}
