package speech

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hammamikhairi/chefai/internal/logger"
)

func TestAudioCacheKeyIncludesVoice(t *testing.T) {
	c := NewAudioCache("", 0, logger.New(logger.LevelOff, nil))
	c.Put("v1", "hola", []byte("one"))

	if got, ok := c.Get("v1", "hola"); !ok || string(got) != "one" {
		t.Fatalf("expected hit, got %q %v", got, ok)
	}
	if _, ok := c.Get("v2", "hola"); ok {
		t.Fatal("different voice must miss")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("expected 1/1, got %d/%d", hits, misses)
	}
}

func TestAudioCacheEvictsOldest(t *testing.T) {
	c := NewAudioCache("", 2, logger.New(logger.LevelOff, nil))
	c.Put("v", "a", []byte("a"))
	c.Put("v", "b", []byte("b"))
	c.Put("v", "c", []byte("c"))

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("v", "a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := c.Get("v", "c"); !ok {
		t.Fatal("newest entry missing")
	}
}

func TestAudioCacheDisk(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.LevelOff, nil)

	first := NewAudioCache(dir, 0, log)
	first.Put("v", "paso uno", []byte("wav"))

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one file on disk, got %v (%v)", entries, err)
	}

	second := NewAudioCache(dir, 0, log)
	if got, ok := second.Get("v", "paso uno"); !ok || string(got) != "wav" {
		t.Fatalf("expected warm start from disk, got %q %v", got, ok)
	}
	if second.Len() != 1 {
		t.Fatal("disk hit should be promoted to memory")
	}
}

func TestTruncateForLogRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"corto", 10, "corto"},
		{"añadir la cebolla", 17, "añadir la cebolla"},
		{"ññññññññññ", 6, "ñññ..."},
		{"Añade el jamón y remueve", 10, "Añade e..."},
	}
	for _, tt := range tests {
		got := truncateForLog(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncateForLog(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateForLog(%q, %d) produced invalid UTF-8 %q", tt.in, tt.n, got)
		}
	}

	long := strings.Repeat("é", 80)
	if got := truncateForLog(long, 40); !utf8.ValidString(got) || utf8.RuneCountInString(got) != 40 {
		t.Errorf("expected 40 valid runes, got %d (%q)", utf8.RuneCountInString(got), got)
	}
}
