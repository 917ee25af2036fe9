package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hammamikhairi/chefai/internal/logger"
)

type countingSynth struct {
	calls int
	err   error
}

func (s *countingSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("wav:" + text), nil
}

func (s *countingSynth) Voice() string { return "test-voice" }

type recordingOutput struct {
	played []string
}

func (o *recordingOutput) Play(ctx context.Context, wav []byte, gate *Gate) error {
	if !gate.Wait(ctx) {
		return ctx.Err()
	}
	o.played = append(o.played, string(wav))
	return nil
}

func TestBufferedSpeakerUsesCache(t *testing.T) {
	synth := &countingSynth{}
	out := &recordingOutput{}
	sp := NewBufferedSpeaker(synth, out, NewAudioCache("", 0, quiet), quiet)

	for i := 0; i < 3; i++ {
		if err := sp.Speak(context.Background(), "Paso 1", nil); err != nil {
			t.Fatalf("speak %d: %v", i, err)
		}
	}
	if synth.calls != 1 {
		t.Fatalf("expected one synthesis, got %d", synth.calls)
	}
	if len(out.played) != 3 || out.played[2] != "wav:Paso 1" {
		t.Fatalf("unexpected playback %q", out.played)
	}
}

func TestBufferedSpeakerSynthesisError(t *testing.T) {
	synth := &countingSynth{err: errors.New("quota")}
	out := &recordingOutput{}
	sp := NewBufferedSpeaker(synth, out, nil, quiet)

	if err := sp.Speak(context.Background(), "hola", nil); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(out.played) != 0 {
		t.Fatal("nothing should play when synthesis fails")
	}
}

func TestNewLocalSpeakerSelection(t *testing.T) {
	missing := NewDirectSpeaker(quiet, WithBinary(filepath.Join(t.TempDir(), "no-such-espeak")))
	okOutput := func(*logger.Logger) (AudioOutput, error) { return &recordingOutput{}, nil }
	badOutput := func(*logger.Logger) (AudioOutput, error) { return nil, errors.New("no device") }

	tests := []struct {
		name  string
		setup LocalSetup
		want  string
	}{
		{"buffered", LocalSetup{Synth: &countingSynth{}, Direct: missing, Probe: func() (bool, error) { return true, nil }, OpenOutput: okOutput}, "*speech.BufferedSpeaker"},
		{"no device", LocalSetup{Synth: &countingSynth{}, Direct: missing, Probe: func() (bool, error) { return false, nil }, OpenOutput: okOutput}, "*speech.Silent"},
		{"probe error", LocalSetup{Synth: &countingSynth{}, Direct: missing, Probe: func() (bool, error) { return false, errors.New("x") }, OpenOutput: okOutput}, "*speech.Silent"},
		{"output fails", LocalSetup{Synth: &countingSynth{}, Direct: missing, Probe: func() (bool, error) { return true, nil }, OpenOutput: badOutput}, "*speech.Silent"},
		{"no synth", LocalSetup{Direct: missing, Probe: func() (bool, error) { return true, nil }, OpenOutput: okOutput}, "*speech.Silent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := NewLocalSpeaker(tt.setup, quiet)
			if got := fmt.Sprintf("%T", sp); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDirectSpeaker(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	dir := t.TempDir()
	record := filepath.Join(dir, "args.txt")
	bin := filepath.Join(dir, "espeak-ng")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\n", record)
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	d := NewDirectSpeaker(quiet, WithBinary(bin), WithVoiceLanguage("es"))
	if !d.Available() {
		t.Fatal("fake binary should be available")
	}
	if err := d.Speak(context.Background(), "Paso 1: hervir el agua.", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := os.ReadFile(record)
	if !strings.Contains(string(got), "-v es") || !strings.Contains(string(got), "Paso 1: hervir el agua.") {
		t.Fatalf("unexpected arguments %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Speak(ctx, "never", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
