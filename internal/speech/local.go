package speech

import (
	"github.com/hammamikhairi/chefai/internal/logger"
)

// LocalSetup holds what the local backend is allowed to use.
type LocalSetup struct {
	// Synth is the buffered-strategy synthesizer; nil skips that strategy.
	Synth  Synthesizer
	Cache  *AudioCache
	Direct *DirectSpeaker

	// Probe and OpenOutput default to HasPlaybackDevice and NewPlayer.
	Probe      func() (bool, error)
	OpenOutput func(*logger.Logger) (AudioOutput, error)
}

// NewLocalSpeaker picks the local speaking strategy: buffered playback when
// a synthesizer is configured and an audio device opens, otherwise the
// blocking system synthesizer, otherwise a silent speaker.
func NewLocalSpeaker(setup LocalSetup, log *logger.Logger) Speaker {
	log = log.Named("speech")
	probe := setup.Probe
	if probe == nil {
		probe = HasPlaybackDevice
	}
	open := setup.OpenOutput
	if open == nil {
		open = func(l *logger.Logger) (AudioOutput, error) { return NewPlayer(l) }
	}

	if setup.Synth != nil {
		ok, err := probe()
		switch {
		case err != nil:
			log.Warn("audio probe failed, falling back to direct synthesis: %v", err)
		case !ok:
			log.Warn("no playback device found, falling back to direct synthesis")
		default:
			out, err := open(log)
			if err == nil {
				log.Info("using buffered playback (%s)", setup.Synth.Voice())
				return NewBufferedSpeaker(setup.Synth, out, setup.Cache, log)
			}
			log.Warn("audio output unavailable, falling back to direct synthesis: %v", err)
		}
	}

	direct := setup.Direct
	if direct == nil {
		direct = NewDirectSpeaker(log)
	}
	if direct.Available() {
		log.Info("using direct synthesis (%s)", direct.bin)
		return direct
	}
	log.Warn("no speech synthesizer available, reading silently")
	return NewSilent(log)
}
