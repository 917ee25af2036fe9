package speech

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// Op names a browser speech command.
type Op string

const (
	OpSpeak  Op = "speak"
	OpPause  Op = "pause"
	OpResume Op = "resume"
	OpStop   Op = "stop"
)

// Command is one fire-and-forget instruction for the browser's speech
// engine. It travels as JSON, never as interpolated script.
type Command struct {
	Seq    uint64  `json:"seq"`
	Op     Op      `json:"op"`
	Text   string  `json:"text,omitempty"`
	Lang   string  `json:"lang,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
	Pitch  float64 `json:"pitch,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

// Encode serializes cmd for transport. encoding/json escapes quotes,
// backslashes, control characters and <, >, & so the payload is safe inside
// an SSE data line or an HTML script element.
func (c Command) Encode() ([]byte, error) {
	return json.Marshal(c)
}

var _ domain.SpeechBackend = (*Remote)(nil)

// Remote drives speech in connected browsers. It cannot observe playback,
// so Status always reports PlaybackUnknown.
type Remote struct {
	hub  *Hub
	lang string
	log  *logger.Logger
	seq  atomic.Uint64

	mu    sync.Mutex
	total int
}

// NewRemote creates a remote backend publishing to hub. lang is the
// preferred voice language tag.
func NewRemote(hub *Hub, lang string, log *logger.Logger) *Remote {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Remote{hub: hub, lang: lang, log: log.Named("remote")}
}

// Hub returns the command hub browsers subscribe to.
func (r *Remote) Hub() *Hub { return r.hub }

// Play asks listeners to speak segments[from:] as one utterance.
func (r *Remote) Play(segments []string, from int) error {
	if len(segments) == 0 {
		return errors.New("nothing to play")
	}
	if from < 0 || from >= len(segments) {
		from = 0
	}
	r.mu.Lock()
	r.total = len(segments)
	r.mu.Unlock()

	r.send(r.speak(FullText(segments[from:])))
	return nil
}

// Pause asks listeners to pause.
func (r *Remote) Pause() { r.send(Command{Op: OpPause}) }

// Resume asks listeners to resume.
func (r *Remote) Resume() { r.send(Command{Op: OpResume}) }

// Stop asks listeners to cancel speech.
func (r *Remote) Stop() { r.send(Command{Op: OpStop}) }

// Status is always unknown; the browser never reports back.
func (r *Remote) Status() domain.PlaybackStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.PlaybackStatus{State: domain.PlaybackUnknown, Total: r.total}
}

// SelfTest sends SelfTestPhrase. It fails with ErrNoListeners when no
// browser is connected to hear it.
func (r *Remote) SelfTest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.hub.Listeners() == 0 {
		return domain.ErrNoListeners
	}
	if r.send(r.speak(SelfTestPhrase)) == 0 {
		return domain.ErrNoListeners
	}
	return nil
}

func (r *Remote) speak(text string) Command {
	return Command{
		Op:     OpSpeak,
		Text:   text,
		Lang:   r.lang,
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
	}
}

func (r *Remote) send(cmd Command) int {
	cmd.Seq = r.seq.Add(1)
	n := r.hub.Publish(cmd)
	if n == 0 {
		r.log.Debug("%s dropped: no listeners", cmd.Op)
	} else {
		r.log.Debug("%s sent to %d listener(s)", cmd.Op, n)
	}
	return n
}
