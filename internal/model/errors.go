package model

import "errors"

var (
	// ErrEmptySeries means there were no usable data points.
	ErrEmptySeries = errors.New("empty series")
	// ErrDivisionByZero means a base price used as a divisor was zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInsufficientData means the series is too short for the requested computation.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrConfiguration means a window, horizon or other parameter is invalid.
	ErrConfiguration = errors.New("invalid configuration")
)

// ErrorKind returns a short label for err, used in logs, metrics and skip reports.
// Errors that do not wrap a core kind are attributed to the data source.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "source"
	}
}
