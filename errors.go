package kmeans1d

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyPoints is returned when the point set has no values.
	ErrEmptyPoints = errors.New("point set is empty")

	// ErrEmptyCentroids is returned when the centroid set has no values.
	ErrEmptyCentroids = errors.New("centroid set is empty")

	// ErrAssignmentLength is returned when the assignment slice does not
	// have one slot per point.
	ErrAssignmentLength = errors.New("assignment length does not match point count")
)

// ConfigError reports a single rejected configuration field.
//
// errors.Is(err, ErrInvalidConfig) holds for every ConfigError.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s must be positive, got %v", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
