package scheduler

import (
	"errors"

	"github.com/kilianp07/powerplan/core/model"
)

var (
	// ErrInvalidHour is returned when a priority window bound is outside [0,23].
	ErrInvalidHour = errors.New("hour must be between 0 and 23")
	// ErrInvalidWindow is returned for a non-positive scheduled window length.
	ErrInvalidWindow = errors.New("window length must be positive")
	// ErrInvalidRate is returned for a non-positive or non-finite rate.
	ErrInvalidRate = errors.New("rate per kWh must be positive")
	// ErrInvalidBudget mirrors model.ErrInvalidBudget.
	ErrInvalidBudget = model.ErrInvalidBudget
)

// IsInvalidInput reports whether err was caused by a caller-supplied value.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidHour) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrInvalidBudget)
}
