package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors used across layers.
var (
	ErrGenerationFailed   = errors.New("recipe generation failed")
	ErrMalformedResponse  = errors.New("model response is not a valid recipe")
	ErrRateLimited        = errors.New("rate limited by provider")
	ErrUnsupportedImage   = errors.New("unsupported image")
	ErrInvalidMealType    = errors.New("invalid meal type")
	ErrNoListeners        = errors.New("no speech listeners connected")
	ErrBackendUnavailable = errors.New("speech backend unavailable")
)

// QuotaErrorKind is the fixed kind tag carried by every QuotaError.
const QuotaErrorKind = "quota_exceeded"

// QuotaError is returned when the provider kept rejecting requests for
// quota reasons after every retry. Callers render it differently from a
// generic failure.
type QuotaError struct {
	Kind        string        `json:"kind"`
	Message     string        `json:"message"`
	ResetWindow time.Duration `json:"-"`
	Suggestion  string        `json:"suggestion"`
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %s (resets in about %s)", e.Kind, e.Message, e.ResetWindow)
}
