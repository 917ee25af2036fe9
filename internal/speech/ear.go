package speech

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// earState is the Ear's listening mode.
type earState int

const (
	// earDormant scans short clips for a wake phrase.
	earDormant earState = iota
	// earListening captures the command that follows the wake phrase.
	earListening
)

// DefaultWakeWords trigger active listening when heard anywhere in a
// dormant clip (case-insensitive). A bare "chef" is left out because
// recipe text read aloud says it.
var DefaultWakeWords = []string{
	"hola chef",
	"hola, chef",
	"oye chef",
	"oye, chef",
	"hey chef",
	"hey, chef",
	"ok chef",
	"okey chef",
}

// envAnnotation matches whisper sound annotations such as "(música)",
// "[laughter]" or "(speaking French)".
var envAnnotation = regexp.MustCompile(`[\(\[]\p{L}[\p{L}\s]*[\)\]]`)

// whisperJunk is stripped from anywhere in a transcription.
var whisperJunk = []string{
	"[BLANK_AUDIO]",
	"[BLANK AUDIO]",
	"(silence)",
	"[silence]",
	"(silencio)",
	"(no speech)",
	"[Music]",
	"(music)",
	"(música)",
	"[Música]",
	"(typing)",
	"(inaudible)",
	"(applause)",
	"(aplausos)",
}

// whisperHallucinations are whole transcriptions whisper invents on silence.
var whisperHallucinations = []string{
	"...",
	"you",
	"thank you.",
	"thanks for watching!",
	"gracias.",
	"¡gracias!",
	"gracias por ver el video.",
	"subtítulos realizados por la comunidad de amara.org",
	"sous-titres réalisés para la communauté d'amara.org",
}

// Playback is the part of the read-aloud engine the Ear needs. It is
// paused on a wake phrase and polled so commands are not recorded over
// the speaker.
type Playback interface {
	Pause()
	Status() domain.PlaybackStatus
}

// recordFunc records for d and returns the raw transcription.
type recordFunc func(ctx context.Context, d time.Duration) string

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each active-listening chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) {
		if d > 0 {
			e.recordDuration = d
		}
	}
}

// WithDormantDuration sets how long each wake-phrase clip lasts.
// Shorter clips react faster but cost more CPU.
func WithDormantDuration(d time.Duration) EarOption {
	return func(e *Ear) {
		if d > 0 {
			e.dormantDuration = d
		}
	}
}

// WithListenTimeout caps how long one command may take.
func WithListenTimeout(d time.Duration) EarOption {
	return func(e *Ear) {
		if d > 0 {
			e.listenTimeout = d
		}
	}
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) {
		if dir != "" {
			e.tempDir = dir
		}
	}
}

// WithWakeWords overrides DefaultWakeWords.
func WithWakeWords(words ...string) EarOption {
	return func(e *Ear) {
		if len(words) > 0 {
			e.wakeWords = words
		}
	}
}

// WithPlayback lets the Ear pause read-aloud when it hears a wake phrase.
func WithPlayback(p Playback) EarOption {
	return func(e *Ear) { e.playback = p }
}

// WithOnWake registers a hook run when a wake phrase starts a listening
// window, e.g. to tell the user the chef is listening.
func WithOnWake(fn func()) EarOption {
	return func(e *Ear) { e.onWake = fn }
}

// Ear turns spoken commands into text lines using a local Whisper model.
//
// While dormant it transcribes short clips and drops everything that does
// not contain a wake phrase. A wake phrase pauses read-aloud; any words
// after it are sent at once, otherwise the Ear listens for a command
// until the user goes quiet or the listen timeout passes.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
	playback   Playback
	onWake     func()
	record     recordFunc

	wakeWords       []string
	recordDuration  time.Duration
	dormantDuration time.Duration
	listenTimeout   time.Duration
	grace           time.Duration
	poll            time.Duration

	mu     sync.Mutex
	state  earState
	textCh chan string
}

// NewEar creates a voice listener backed by the whisper-cli binary at
// whisperBin and the GGML model at modelPath.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:      whisperBin,
		modelPath:       modelPath,
		tempDir:         ".chefai-stt",
		log:             log.Named("ear"),
		wakeWords:       DefaultWakeWords,
		recordDuration:  2 * time.Second,
		dormantDuration: 3 * time.Second,
		listenTimeout:   15 * time.Second,
		grace:           500 * time.Millisecond,
		poll:            200 * time.Millisecond,
		state:           earDormant,
		textCh:          make(chan string, 8),
	}
	e.record = e.whisperRecord
	for _, opt := range opts {
		opt(e)
	}

	if _, err := exec.LookPath(e.whisperBin); err != nil {
		e.log.Error("whisper binary %q not found in PATH: %v", e.whisperBin, err)
	}
	return e
}

// C returns the channel of recognised commands.
func (e *Ear) C() <-chan string {
	return e.textCh
}

// Run listens until ctx is cancelled. Call it in a goroutine.
func (e *Ear) Run(ctx context.Context) {
	e.log.Info("started (dormant=%s, active=%s, timeout=%s, wake=%v)",
		e.dormantDuration, e.recordDuration, e.listenTimeout, e.wakeWords)

	for ctx.Err() == nil {
		switch e.getState() {
		case earDormant:
			e.doDormant(ctx)
		case earListening:
			e.doListening(ctx)
		}
	}
	e.log.Info("stopped")
}

func (e *Ear) getState() earState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Ear) setState(s earState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Ear) playing() bool {
	return e.playback != nil && e.playback.Status().State == domain.PlaybackPlaying
}

// waitQuiet blocks while read-aloud is playing so the command is not
// recorded over the speaker.
func (e *Ear) waitQuiet(ctx context.Context) {
	for e.playing() {
		if !sleepCtx(ctx, e.poll) {
			return
		}
	}
}

// ── Dormant mode ─────────────────────────────────────────────────

// doDormant records one clip and looks for a wake phrase. Dormant clips
// are recorded during playback too so the user can interrupt reading.
func (e *Ear) doDormant(ctx context.Context) {
	text := cleanTranscription(e.record(ctx, e.dormantDuration))
	if text == "" || ctx.Err() != nil {
		return
	}
	e.log.Debug("dormant: heard %q", text)

	rest, ok := e.stripWakeWord(text)
	if !ok {
		return
	}
	e.log.Info("wake phrase in %q", text)

	if e.playing() {
		e.playback.Pause()
		e.log.Debug("paused read-aloud")
	}

	// Wake phrase and command in one breath, e.g. "hola chef, repite".
	if rest = cleanTranscription(rest); rest != "" && !isJustWakeWord(rest) {
		e.log.Info("immediate command: %q", rest)
		e.send(ctx, rest)
		return
	}

	if e.onWake != nil {
		e.onWake()
	}
	e.setState(earListening)
}

// ── Active listening mode ────────────────────────────────────────

// How many empty chunks end a listening window, before and after the
// user started talking.
const (
	graceEmpty      = 4
	postSpeechEmpty = 2
)

// doListening records chunks until silence or the listen timeout, then
// sends what it heard and returns to dormant.
func (e *Ear) doListening(ctx context.Context) {
	defer e.setState(earDormant)

	e.waitQuiet(ctx)
	if !sleepCtx(ctx, e.grace) {
		return
	}

	command := e.collect(ctx)
	if command == "" {
		e.log.Debug("listening ended with no input")
		return
	}
	e.log.Info("heard command: %q", command)
	e.send(ctx, command)
}

func (e *Ear) collect(ctx context.Context) string {
	deadline := time.Now().Add(e.listenTimeout)
	var parts []string
	empty := 0
	for ctx.Err() == nil {
		if time.Now().After(deadline) {
			e.log.Debug("listen timeout reached")
			break
		}

		chunk := cleanTranscription(e.record(ctx, e.recordDuration))
		if chunk == "" {
			empty++
			limit := graceEmpty
			if len(parts) > 0 {
				limit = postSpeechEmpty
			}
			if empty >= limit {
				break
			}
			continue
		}
		empty = 0

		// The user may repeat the wake phrase mid-sentence.
		if chunk = e.removeWakeWords(chunk); chunk != "" && !isJustWakeWord(chunk) {
			e.log.Debug("listen: chunk %q", chunk)
			parts = append(parts, chunk)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// send delivers a command without the sentence punctuation whisper adds.
func (e *Ear) send(ctx context.Context, text string) {
	text = strings.TrimRight(text, " .!?")
	if text == "" {
		return
	}
	select {
	case e.textCh <- text:
	case <-ctx.Done():
	}
}

// ── Wake phrase matching ─────────────────────────────────────────

// stripWakeWord reports whether text contains a wake phrase and returns
// the words after it, trimmed of joining punctuation.
func (e *Ear) stripWakeWord(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range e.wakeWords {
		wl := strings.ToLower(w)
		idx := strings.Index(lower, wl)
		if idx < 0 {
			continue
		}
		// Lowering may change byte lengths outside ASCII; offsets into
		// text are only valid when it did not.
		rest := lower[idx+len(wl):]
		if len(lower) == len(text) {
			rest = text[idx+len(wl):]
		}
		return strings.TrimLeft(strings.TrimSpace(rest), " ,.!?¡¿"), true
	}
	return "", false
}

// removeWakeWords deletes every wake phrase from text.
func (e *Ear) removeWakeWords(text string) string {
	lower := strings.ToLower(text)
	for _, w := range e.wakeWords {
		lower = strings.ReplaceAll(lower, strings.ToLower(w), "")
	}
	return strings.Join(strings.Fields(lower), " ")
}

// isJustWakeWord reports whether s is only spaces and punctuation.
func isJustWakeWord(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(" ,.!?¡¿", r) {
			return false
		}
	}
	return true
}

// ── Recording ────────────────────────────────────────────────────

// whisperRecord captures one clip from the default microphone and returns
// whisper's transcription of it.
func (e *Ear) whisperRecord(ctx context.Context, d time.Duration) string {
	var (
		result string
		wg     sync.WaitGroup
	)
	wg.Add(1)
	var once sync.Once
	callback := func(text string) {
		once.Do(func() {
			result = text
			wg.Done()
		})
	}

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav", callback, verbose)
	if err != nil {
		e.log.Error("transcriber init failed: %v", err)
		sleepCtx(ctx, 2*time.Second)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("recording start failed: %v", err)
		sleepCtx(ctx, 2*time.Second)
		return ""
	}

	completed := sleepCtx(ctx, d)
	t.Stop()
	wg.Wait()
	if !completed {
		return ""
	}
	return result
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ── Transcription cleanup ────────────────────────────────────────

// cleanTranscription flattens newlines and removes whisper artifacts:
// blank-audio markers, sound annotations, timestamp prefixes and
// transcriptions that are a known silence hallucination.
func cleanTranscription(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = strings.TrimSpace(s)

	// Timestamp prefix, e.g. "[00:00:00.000 --> 00:00:02.000]".
	if strings.HasPrefix(s, "[") {
		if idx := strings.Index(s, "]"); idx != -1 && idx < 40 && strings.Contains(s[:idx], "-->") {
			s = s[idx+1:]
		}
	}

	for _, j := range whisperJunk {
		s = strings.ReplaceAll(s, j, "")
		s = strings.ReplaceAll(s, strings.ToLower(j), "")
		s = strings.ReplaceAll(s, strings.ToUpper(j), "")
	}
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	lower := strings.ToLower(s)
	for _, h := range whisperHallucinations {
		if lower == h {
			return ""
		}
	}
	return s
}
