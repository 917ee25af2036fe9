package speech

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/chefai/internal/logger"
)

var quiet = logger.New(logger.LevelOff, nil)

// fakePiper writes a shell script that mimics piper's --output_file flag
// and records the path it was given.
func fakePiper(t *testing.T, exitCode int) (bin, record, src string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	dir := t.TempDir()
	src = filepath.Join(dir, "src.wav")
	record = filepath.Join(dir, "record.txt")
	if err := os.WriteFile(src, encodeWAV(int16ToBytes([]int16{1, 2, 3}), 1, SampleRate), 0o644); err != nil {
		t.Fatal(err)
	}
	script := fmt.Sprintf(`#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output_file) out="$2"; shift ;;
  esac
  shift
done
cat > /dev/null
cp %q "$out"
echo "$out" > %q
echo "piper says hi" >&2
exit %d
`, src, record, exitCode)
	bin = filepath.Join(dir, "piper")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin, record, src
}

func recordedPath(t *testing.T, record string) string {
	t.Helper()
	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("fake piper did not run: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func TestPiperSynthesize(t *testing.T) {
	bin, record, src := fakePiper(t, 0)
	p := NewPiperTTS(bin, "/models/es_ES-davefx-medium.onnx", t.TempDir(), quiet)

	audio, err := p.Synthesize(context.Background(), "Paso uno: mezclar.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := os.ReadFile(src)
	if string(audio) != string(want) {
		t.Fatal("audio differs from what piper wrote")
	}

	out := recordedPath(t, record)
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("temp file %s not removed: %v", out, err)
	}
	if p.Voice() != "piper/es_ES-davefx-medium.onnx" {
		t.Fatalf("unexpected voice %q", p.Voice())
	}
}

func TestPiperFailureCleansUp(t *testing.T) {
	bin, record, _ := fakePiper(t, 3)
	p := NewPiperTTS(bin, "voice.onnx", t.TempDir(), quiet)

	_, err := p.Synthesize(context.Background(), "hola")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "piper says hi") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	out := recordedPath(t, record)
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("temp file %s not removed after failure: %v", out, err)
	}
}

func TestPiperRequiresModel(t *testing.T) {
	if _, err := NewPiperTTS("", "", "", quiet).Synthesize(context.Background(), "hola"); err == nil {
		t.Fatal("expected error without a model")
	}
}

func TestAzureSSMLEscaping(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "k" {
			t.Errorf("missing subscription key")
		}
		if f := r.Header.Get("X-Microsoft-OutputFormat"); f != "riff-16khz-16bit-mono-pcm" {
			t.Errorf("unexpected output format %q", f)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Write([]byte("RIFFWAVE"))
	}))
	defer srv.Close()

	c := NewAzureClient("k", "westeurope", quiet,
		WithEndpoint(srv.URL), WithAudioFormat("riff-16khz-16bit-mono-pcm"), WithHTTPTimeout(5*time.Second))
	audio, err := c.Synthesize(context.Background(), `Sal & pimienta <al gusto> "fino"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "RIFFWAVE" {
		t.Fatalf("unexpected audio %q", audio)
	}

	if strings.Contains(body, "<al gusto>") || !strings.Contains(body, "&amp;") {
		t.Fatalf("text not escaped: %s", body)
	}
	var doc struct{}
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("SSML is not well-formed: %v\n%s", err, body)
	}
	if !strings.Contains(body, DefaultVoice) || !strings.Contains(body, "xml:lang='es-ES'") {
		t.Fatalf("voice or language missing: %s", body)
	}
}

func TestAzureErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewAzureClient("k", "westeurope", quiet, WithEndpoint(srv.URL))
	if _, err := c.Synthesize(context.Background(), "hola"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenAITTS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(b), `"response_format":"wav"`) {
			t.Errorf("expected wav format, got %s", b)
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF-openai"))
	}))
	defer srv.Close()

	o := NewOpenAITTS("sk-test", srv.URL+"/v1", quiet, WithOpenAIVoice("alloy"))
	audio, err := o.Synthesize(context.Background(), "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "RIFF-openai" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if o.Voice() != "openai/tts-1/alloy" {
		t.Fatalf("unexpected voice %q", o.Voice())
	}
}
