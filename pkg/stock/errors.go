package stock

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Concrete errors carry the offending values.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrResource      = errors.New("resource limit exceeded")
)

// ConfigError reports a parameter that must be positive and finite but is
// not. It is raised before any grid allocation and never defaulted away.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be positive"
	}
	return fmt.Sprintf("invalid %s %g: %s", e.Field, e.Value, reason)
}

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// ResourceError reports a grid that would exceed the configured memory
// ceiling at the requested resolution.
type ResourceError struct {
	Voxels     float64
	Limit      int64
	Resolution float64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resolution %g mm needs %.0f voxels, limit is %d", e.Resolution, e.Voxels, e.Limit)
}

// Is makes errors.Is(err, ErrResource) match.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResource
}

// CheckPositive returns a *ConfigError when v is not a finite value > 0.
func CheckPositive(field string, v float64) error {
	if !finite(v) {
		return &ConfigError{Field: field, Value: v, Reason: "must be finite"}
	}
	if v <= 0 {
		return &ConfigError{Field: field, Value: v}
	}
	return nil
}
