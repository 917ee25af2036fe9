package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hammamikhairi/chefai/internal/logger"
)

var _ Synthesizer = (*PiperTTS)(nil)

// PiperTTS synthesizes speech with a local Piper binary. Each call writes
// to its own temporary WAV file, removed before Synthesize returns.
type PiperTTS struct {
	bin    string
	model  string
	tmpDir string
	log    *logger.Logger
}

// NewPiperTTS creates a Piper synthesizer. bin defaults to "piper"; model
// is the path to the .onnx voice. tmpDir may be empty for os.TempDir.
func NewPiperTTS(bin, model, tmpDir string, log *logger.Logger) *PiperTTS {
	if bin == "" {
		bin = "piper"
	}
	return &PiperTTS{bin: bin, model: model, tmpDir: tmpDir, log: log.Named("piper")}
}

// Voice returns the cache key component for this synthesizer.
func (p *PiperTTS) Voice() string { return "piper/" + filepath.Base(p.model) }

// Synthesize pipes text into Piper and reads back the WAV it wrote.
func (p *PiperTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if p.model == "" {
		return nil, errors.New("piper model path is required (set PIPER_MODEL)")
	}

	f, err := os.CreateTemp(p.tmpDir, "chefai-*.wav")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, p.bin, "--model", p.model, "--output_file", path)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("piper failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading piper output: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("piper produced no audio")
	}
	p.log.Debug("got %d bytes of audio", len(audio))
	return audio, nil
}
