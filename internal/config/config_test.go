package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Mode
	}{
		{"empty", map[string]string{}, ModeLocal},
		{"explicit hosted", map[string]string{"CHEF_MODE": "hosted"}, ModeHosted},
		{"explicit local beats marker", map[string]string{"CHEF_MODE": "local", "SPACE_ID": "user/app"}, ModeLocal},
		{"bad explicit ignored", map[string]string{"CHEF_MODE": "banana", "DYNO": "web.1"}, ModeHosted},
		{"headless true", map[string]string{"STREAMLIT_SERVER_HEADLESS": "true"}, ModeHosted},
		{"headless false", map[string]string{"CHEF_HEADLESS": "false"}, ModeLocal},
		{"cloud run", map[string]string{"K_SERVICE": "chefai"}, ModeHosted},
		{"render", map[string]string{"RENDER": "true"}, ModeHosted},
		{"blank marker", map[string]string{"FLY_APP_NAME": "  "}, ModeLocal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMode(mapLookup(tt.env)); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{"GOOGLE_API_KEY": "g"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Provider != ProviderGemini || cfg.Model.GeminiModel != "gemini-1.5-flash" {
		t.Fatalf("unexpected model config %+v", cfg.Model)
	}
	if cfg.Model.MaxAttempts != 3 || cfg.Addr != ":8080" || cfg.Speech.TTS != TTSAuto {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateListsEverything(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		"CHEF_MODEL_PROVIDER": "anthropic",
		"CHEF_TTS":            "azure",
	}))
	if err != nil {
		t.Fatal(err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, key := range []string{"ANTHROPIC_API_KEY", "AZURE_SPEECH_KEY", "AZURE_SPEECH_REGION"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should mention %s: %v", key, err)
		}
	}
}

func TestFromEnvInvalidAttempts(t *testing.T) {
	if _, err := FromEnv(mapLookup(map[string]string{"CHEF_MAX_ATTEMPTS": "zero"})); err == nil {
		t.Fatal("expected error for a non-numeric attempt count")
	}
}

func TestResolveTTS(t *testing.T) {
	tests := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{}, TTSSystem},
		{map[string]string{"AZURE_SPEECH_KEY": "k", "AZURE_SPEECH_REGION": "r"}, TTSAzure},
		{map[string]string{"OPENAI_API_KEY": "sk"}, TTSOpenAI},
		{map[string]string{"PIPER_MODEL": "es.onnx"}, TTSPiper},
		{map[string]string{"CHEF_TTS": "system", "OPENAI_API_KEY": "sk"}, TTSSystem},
	}
	for _, tt := range tests {
		cfg, err := FromEnv(mapLookup(tt.env))
		if err != nil {
			t.Fatal(err)
		}
		if got := cfg.ResolveTTS(); got != tt.want {
			t.Errorf("%v: expected %s, got %s", tt.env, tt.want, got)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CHEF_TEST_ONLY_KEY=from-file\nTAVILY_API_KEY=tvly-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TAVILY_API_KEY", "tvly-env")
	t.Cleanup(func() { os.Unsetenv("CHEF_TEST_ONLY_KEY") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if os.Getenv("CHEF_TEST_ONLY_KEY") != "from-file" {
		t.Fatal(".env values were not loaded")
	}
	if cfg.Search.TavilyKey != "tvly-env" {
		t.Fatalf("environment should win over .env, got %q", cfg.Search.TavilyKey)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}
