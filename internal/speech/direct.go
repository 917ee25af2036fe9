package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/hammamikhairi/chefai/internal/logger"
)

var _ Speaker = (*DirectSpeaker)(nil)

// DirectSpeaker runs one blocking system synthesizer process per utterance
// (espeak-ng on Linux, say on macOS). Pauses take effect between utterances;
// cancelling ctx kills the running process.
type DirectSpeaker struct {
	bin  string
	lang string
	log  *logger.Logger
}

// DirectOption configures the DirectSpeaker.
type DirectOption func(*DirectSpeaker)

// WithBinary overrides the synthesizer executable. Arguments follow the
// espeak-ng convention unless the binary is named "say".
func WithBinary(bin string) DirectOption {
	return func(d *DirectSpeaker) {
		if bin != "" {
			d.bin = bin
		}
	}
}

// WithVoiceLanguage sets the language passed to espeak-ng (-v).
func WithVoiceLanguage(lang string) DirectOption {
	return func(d *DirectSpeaker) {
		if lang != "" {
			d.lang = lang
		}
	}
}

// NewDirectSpeaker picks the platform synthesizer.
func NewDirectSpeaker(log *logger.Logger, opts ...DirectOption) *DirectSpeaker {
	bin := "espeak-ng"
	if runtime.GOOS == "darwin" {
		bin = "say"
	}
	d := &DirectSpeaker{bin: bin, lang: "es", log: log.Named("direct")}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Available reports whether the synthesizer binary is on PATH.
func (d *DirectSpeaker) Available() bool {
	_, err := exec.LookPath(d.bin)
	return err == nil
}

// Speak blocks until the process exits.
func (d *DirectSpeaker) Speak(ctx context.Context, text string, gate *Gate) error {
	if !gate.Wait(ctx) {
		return ctx.Err()
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, d.bin, d.argv(text)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	d.log.Debug("%s: %s", d.bin, truncateForLog(text, 60))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return fmt.Errorf("%s failed: %w (stderr: %s)", d.bin, err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("running %s: %w", d.bin, err)
	}
	return nil
}

func (d *DirectSpeaker) argv(text string) []string {
	if filepath.Base(d.bin) == "say" {
		return []string{text}
	}
	// espeak-ng speed is words per minute; 175 is its default.
	speed := strconv.Itoa(int(175 * DefaultRate))
	return []string{"-v", d.lang, "-s", speed, "--", text}
}
