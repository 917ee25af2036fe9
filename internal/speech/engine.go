package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// Compile-time interface check.
var _ domain.SpeechBackend = (*Engine)(nil)

// Speaker renders one piece of text audibly and blocks until it is done.
// Implementations must return promptly once ctx is cancelled and should
// honour gate between (or within) utterances.
type Speaker interface {
	Speak(ctx context.Context, text string, gate *Gate) error
}

// Engine is the local read-aloud backend. It owns at most one playback
// worker; control calls only flip state and signal, never wait on audio.
type Engine struct {
	speaker Speaker
	log     *logger.Logger

	ctl sync.Mutex // serializes Play/Stop/Close against each other

	mu       sync.Mutex
	state    domain.PlaybackState
	cursor   int
	segments []string
	gate     *Gate
	cancel   context.CancelFunc
	done     chan struct{}
	gen      uint64 // bumped whenever a worker is superseded
}

// NewEngine creates an idle engine speaking through sp.
func NewEngine(sp Speaker, log *logger.Logger) *Engine {
	return &Engine{
		speaker: sp,
		log:     log.Named("speech"),
		state:   domain.PlaybackIdle,
	}
}

// Play starts reading segments from index from. A running worker is
// stopped first and waited for.
func (e *Engine) Play(segments []string, from int) error {
	if len(segments) == 0 {
		return errors.New("nothing to play")
	}
	if from < 0 || from >= len(segments) {
		return fmt.Errorf("start segment %d out of range [0,%d)", from, len(segments))
	}

	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.stopLocked()
	e.mu.Lock()
	prev := e.done
	e.mu.Unlock()
	if prev != nil {
		<-prev
	}

	ctx, cancel := context.WithCancel(context.Background())
	gate := NewGate()
	done := make(chan struct{})
	segs := append([]string(nil), segments...)

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.state = domain.PlaybackPlaying
	e.cursor = from
	e.segments = segs
	e.gate = gate
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	e.log.Info("playing %d segments from %d", len(segs), from)
	go e.run(ctx, gen, segs, from, gate, done)
	return nil
}

// Pause suspends playback. No-op unless playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.PlaybackPlaying {
		return
	}
	e.gate.Pause()
	e.state = domain.PlaybackPaused
	e.log.Debug("paused at segment %d", e.cursor)
}

// Resume continues a paused session from the current segment. No-op unless paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.PlaybackPaused {
		return
	}
	e.gate.Resume()
	e.state = domain.PlaybackPlaying
	e.log.Debug("resumed at segment %d", e.cursor)
}

// Stop ends the session and rewinds to the first segment. Idempotent.
func (e *Engine) Stop() {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	e.stopLocked()
}

// stopLocked cancels the worker without waiting for it. Caller holds e.ctl.
func (e *Engine) stopLocked() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.PlaybackPlaying && e.state != domain.PlaybackPaused {
		return
	}
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.cursor = 0
	e.state = domain.PlaybackStopped
	e.log.Debug("stopped")
}

// Close stops playback and waits for the worker to exit.
func (e *Engine) Close() {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	e.stopLocked()
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Status reports the current state and segment position.
func (e *Engine) Status() domain.PlaybackStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.PlaybackStatus{State: e.state, Cursor: e.cursor, Total: len(e.segments)}
}

// SelfTest speaks SelfTestPhrase directly, outside any session.
func (e *Engine) SelfTest(ctx context.Context) error {
	if err := e.speaker.Speak(ctx, SelfTestPhrase, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// run is the playback worker.
func (e *Engine) run(ctx context.Context, gen uint64, segments []string, from int, gate *Gate, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("playback worker panicked: %v", r)
			e.finish(gen)
		}
	}()

	for i := from; i < len(segments); i++ {
		if !gate.Wait(ctx) {
			return
		}
		if !e.advance(gen, i) {
			return
		}
		if err := e.speaker.Speak(ctx, segments[i], gate); err != nil {
			if ctx.Err() != nil {
				return
			}
			e.log.Warn("segment %d failed, skipping: %v", i, err)
		}
	}
	e.finish(gen)
}

// advance moves the cursor on behalf of worker gen. It returns false when
// that worker has been superseded.
func (e *Engine) advance(gen uint64, i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return false
	}
	e.cursor = i
	return true
}

// finish returns the engine to Idle once worker gen ends on its own.
func (e *Engine) finish(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.state = domain.PlaybackIdle
	e.cursor = 0
	e.log.Debug("playback finished")
}
