package speech

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/chefai/internal/logger"
)

var _ AudioOutput = (*Player)(nil)

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

// Player plays WAV audio through oto.
type Player struct {
	ctx *oto.Context
	log *logger.Logger
}

// NewPlayer initializes the system audio context. It fails when no audio
// device can be opened.
func NewPlayer(log *logger.Logger) (*Player, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}

	log = log.Named("player")
	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: otoCtx, log: log}, nil
}

// Play blocks until the buffer has been played. Pausing gate pauses the
// oto player mid-buffer; cancelling ctx stops it within one poll interval.
func (p *Player) Play(ctx context.Context, wav []byte, gate *Gate) error {
	pcm, err := decodeWAV(wav, SampleRate)
	if err != nil {
		return err
	}

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()
	p.log.Debug("playing %d bytes of PCM", len(pcm))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			p.log.Debug("interrupted")
			return ctx.Err()
		case <-ticker.C:
		}

		if gate.Paused() {
			player.Pause()
			if !gate.Wait(ctx) {
				return ctx.Err()
			}
			player.Play()
			continue
		}
		if !player.IsPlaying() {
			return nil
		}
	}
}
