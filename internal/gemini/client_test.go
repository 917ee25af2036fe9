package gemini

import (
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		msg       string
		wantQuota bool
	}{
		{"Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED", true},
		{"You exceeded your current quota", true},
		{"Error 400, Message: API key not valid", false},
		{"dial tcp: lookup generativelanguage.googleapis.com: no such host", false},
	}
	for _, tt := range tests {
		err := classify(errors.New(tt.msg))
		if got := errors.Is(err, domain.ErrRateLimited); got != tt.wantQuota {
			t.Errorf("classify(%q) rate limited = %v, want %v", tt.msg, got, tt.wantQuota)
		}
	}
}

func TestReplyTextEmpty(t *testing.T) {
	for _, resp := range []*genai.GenerateContentResponse{nil, {}, {Candidates: []*genai.Candidate{{}}}} {
		if got := replyText(resp); got != "" {
			t.Errorf("replyText(%+v) = %q, want empty", resp, got)
		}
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(t.Context(), "", logger.New(logger.LevelOff, nil))
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewOptions(t *testing.T) {
	c, err := New(t.Context(), "test-key", logger.New(logger.LevelOff, nil),
		WithModel("gemini-2.0-flash"), WithJSONMode(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.model != "gemini-2.0-flash" {
		t.Fatalf("expected model override, got %q", c.model)
	}
	if c.jsonMode {
		t.Fatal("expected JSON mode off")
	}
}
