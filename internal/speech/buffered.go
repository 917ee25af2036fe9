package speech

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/chefai/internal/logger"
)

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// Voice names the voice used; it keys the audio cache.
	Voice() string
}

// AudioOutput plays a WAV buffer to completion, pausing while gate is
// paused and returning as soon as ctx is cancelled.
type AudioOutput interface {
	Play(ctx context.Context, wav []byte, gate *Gate) error
}

var _ Speaker = (*BufferedSpeaker)(nil)

// BufferedSpeaker synthesizes each utterance into a buffer, then plays it.
type BufferedSpeaker struct {
	synth Synthesizer
	cache *AudioCache
	out   AudioOutput
	log   *logger.Logger
}

// NewBufferedSpeaker wires a synthesizer to an audio output. cache may be nil.
func NewBufferedSpeaker(synth Synthesizer, out AudioOutput, cache *AudioCache, log *logger.Logger) *BufferedSpeaker {
	return &BufferedSpeaker{synth: synth, cache: cache, out: out, log: log.Named("buffered")}
}

// Speak synthesizes text (or takes it from the cache) and blocks while it plays.
func (b *BufferedSpeaker) Speak(ctx context.Context, text string, gate *Gate) error {
	audio, err := b.audioFor(ctx, text)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return b.out.Play(ctx, audio, gate)
}

func (b *BufferedSpeaker) audioFor(ctx context.Context, text string) ([]byte, error) {
	voice := b.synth.Voice()
	if b.cache != nil {
		if audio, ok := b.cache.Get(voice, text); ok {
			return audio, nil
		}
	}
	audio, err := b.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	if b.cache != nil {
		b.cache.Put(voice, text, audio)
	}
	return audio, nil
}
