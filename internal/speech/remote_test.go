package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

func newTestRemote() *Remote {
	log := logger.New(logger.LevelOff, nil)
	return NewRemote(NewHub(log), "", log)
}

func TestRemoteCommandEscaping(t *testing.T) {
	tricky := "Say \"hola\" `now`\\n </script><script>alert('x')</script>\nline two & more"
	r := newTestRemote()
	_, ch := r.Hub().Subscribe()

	if err := r.Play([]string{tricky, "Step 1: fin."}, 0); err != nil {
		t.Fatalf("play: %v", err)
	}
	cmd := <-ch
	payload, err := cmd.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if bytes.Contains(payload, []byte("</script>")) {
		t.Fatalf("payload contains a raw closing script tag: %s", payload)
	}
	if bytes.ContainsAny(payload, "\n\r") {
		t.Fatalf("payload contains a raw newline: %s", payload)
	}

	var back Command
	if err := json.Unmarshal(payload, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Text != tricky+" Step 1: fin." {
		t.Fatalf("text did not survive the round trip: %q", back.Text)
	}
	if back.Op != OpSpeak || back.Lang != DefaultLanguage || back.Rate != DefaultRate {
		t.Fatalf("unexpected command %+v", back)
	}
}

func TestRemoteControlCommands(t *testing.T) {
	r := newTestRemote()
	_, ch := r.Hub().Subscribe()

	r.Play([]string{"a", "b", "c"}, 1)
	r.Pause()
	r.Resume()
	r.Stop()

	want := []Op{OpSpeak, OpPause, OpResume, OpStop}
	var lastSeq uint64
	for i, op := range want {
		cmd := <-ch
		if cmd.Op != op {
			t.Fatalf("command %d: expected %s, got %s", i, op, cmd.Op)
		}
		if cmd.Seq <= lastSeq {
			t.Fatalf("command %d: sequence not increasing (%d after %d)", i, cmd.Seq, lastSeq)
		}
		lastSeq = cmd.Seq
		if i == 0 && cmd.Text != "b c" {
			t.Fatalf("expected text from segment 1, got %q", cmd.Text)
		}
	}

	st := r.Status()
	if st.State != domain.PlaybackUnknown || st.Total != 3 {
		t.Fatalf("expected unknown status, got %+v", st)
	}
}

func TestRemoteSelfTest(t *testing.T) {
	r := newTestRemote()
	if err := r.SelfTest(context.Background()); !errors.Is(err, domain.ErrNoListeners) {
		t.Fatalf("expected ErrNoListeners, got %v", err)
	}

	id, ch := r.Hub().Subscribe()
	if err := r.SelfTest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd := <-ch; cmd.Text != SelfTestPhrase {
		t.Fatalf("expected self-test phrase, got %q", cmd.Text)
	}

	r.Hub().Unsubscribe(id)
	if _, open := <-ch; open {
		t.Fatal("expected channel closed after unsubscribe")
	}
	if n := r.Hub().Listeners(); n != 0 {
		t.Fatalf("expected 0 listeners, got %d", n)
	}
}

func TestHubDropsForLaggingListener(t *testing.T) {
	hub := NewHub(logger.New(logger.LevelOff, nil))
	hub.Subscribe()
	for i := 0; i < subscriberBuffer; i++ {
		if n := hub.Publish(Command{Op: OpPause}); n != 1 {
			t.Fatalf("publish %d: expected delivery, got %d", i, n)
		}
	}
	if n := hub.Publish(Command{Op: OpStop}); n != 0 {
		t.Fatalf("expected full listener to be skipped, got %d", n)
	}
}
