package speech

import (
	"context"

	"github.com/hammamikhairi/chefai/internal/logger"
)

var _ Speaker = (*Silent)(nil)

// Silent is a Speaker that only logs. Used when no synthesizer is available
// so playback control still works.
type Silent struct {
	log *logger.Logger
}

// NewSilent creates a silent speaker.
func NewSilent(log *logger.Logger) *Silent {
	return &Silent{log: log.Named("silent")}
}

// Speak logs the text and returns immediately.
func (s *Silent) Speak(ctx context.Context, text string, gate *Gate) error {
	if !gate.Wait(ctx) {
		return ctx.Err()
	}
	s.log.Debug("would say %q", text)
	return nil
}
