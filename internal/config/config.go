// Package config reads runtime settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Model providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Speech synthesizers for the local backend.
const (
	TTSAuto   = "auto"
	TTSAzure  = "azure"
	TTSOpenAI = "openai"
	TTSPiper  = "piper"
	TTSSystem = "system"
)

type Config struct {
	Mode     Mode
	Addr     string
	Model    ModelConfig
	Search   SearchConfig
	Speech   SpeechConfig
	Language string // language the recipe is written in
}

type ModelConfig struct {
	Provider string

	GoogleKey   string
	GeminiModel string

	GPTEndpoint string
	GPTKey      string
	GPTModel    string

	AnthropicKey   string
	AnthropicModel string

	MaxAttempts int
}

type SearchConfig struct {
	TavilyKey string
}

type SpeechConfig struct {
	TTS  string
	Lang string

	AzureKey    string
	AzureRegion string
	AzureVoice  string

	OpenAIKey   string
	OpenAIVoice string

	PiperBin   string
	PiperModel string

	SystemBin string
	CacheDir  string
}

// Load reads envFile (missing files are fine) and then the process
// environment. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup LookupFunc) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	attempts, err := strconv.Atoi(get("CHEF_MAX_ATTEMPTS", "3"))
	if err != nil || attempts < 1 {
		return Config{}, fmt.Errorf("invalid CHEF_MAX_ATTEMPTS %q", get("CHEF_MAX_ATTEMPTS", ""))
	}

	cfg := Config{
		Mode:     DetectMode(lookup),
		Addr:     get("CHEF_ADDR", ":8080"),
		Language: get("CHEF_LANGUAGE", "Spanish"),
		Model: ModelConfig{
			Provider:       strings.ToLower(get("CHEF_MODEL_PROVIDER", ProviderGemini)),
			GoogleKey:      get("GOOGLE_API_KEY", get("GEMINI_API_KEY", "")),
			GeminiModel:    get("GEMINI_MODEL", "gemini-1.5-flash"),
			GPTEndpoint:    get("GPT_CHAT_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
			GPTKey:         get("GPT_CHAT_KEY", get("OPENAI_API_KEY", "")),
			GPTModel:       get("GPT_CHAT_MODEL", "gpt-4o-mini"),
			AnthropicKey:   get("ANTHROPIC_API_KEY", ""),
			AnthropicModel: get("ANTHROPIC_MODEL", ""),
			MaxAttempts:    attempts,
		},
		Search: SearchConfig{
			TavilyKey: get("TAVILY_API_KEY", ""),
		},
		Speech: SpeechConfig{
			TTS:         strings.ToLower(get("CHEF_TTS", TTSAuto)),
			Lang:        get("CHEF_SPEECH_LANG", "es-ES"),
			AzureKey:    get("AZURE_SPEECH_KEY", ""),
			AzureRegion: get("AZURE_SPEECH_REGION", ""),
			AzureVoice:  get("AZURE_SPEECH_VOICE", ""),
			OpenAIKey:   get("OPENAI_API_KEY", ""),
			OpenAIVoice: get("OPENAI_TTS_VOICE", ""),
			PiperBin:    get("PIPER_BIN", "piper"),
			PiperModel:  get("PIPER_MODEL", ""),
			SystemBin:   get("CHEF_SPEECH_BIN", ""),
			CacheDir:    get("CHEF_CACHE_DIR", ".chefai-cache"),
		},
	}
	return cfg, nil
}

// Validate reports every missing or invalid setting for the chosen
// provider and synthesizer at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Model.Provider {
	case ProviderGemini:
		if c.Model.GoogleKey == "" {
			problems = append(problems, "GOOGLE_API_KEY")
		}
	case ProviderOpenAI:
		if c.Model.GPTKey == "" {
			problems = append(problems, "GPT_CHAT_KEY")
		}
		if c.Model.GPTEndpoint == "" {
			problems = append(problems, "GPT_CHAT_ENDPOINT")
		}
	case ProviderAnthropic:
		if c.Model.AnthropicKey == "" {
			problems = append(problems, "ANTHROPIC_API_KEY")
		}
	default:
		problems = append(problems, fmt.Sprintf("CHEF_MODEL_PROVIDER (unknown %q)", c.Model.Provider))
	}

	switch c.Speech.TTS {
	case TTSAuto, TTSSystem:
	case TTSAzure:
		if c.Speech.AzureKey == "" {
			problems = append(problems, "AZURE_SPEECH_KEY")
		}
		if c.Speech.AzureRegion == "" {
			problems = append(problems, "AZURE_SPEECH_REGION")
		}
	case TTSOpenAI:
		if c.Speech.OpenAIKey == "" {
			problems = append(problems, "OPENAI_API_KEY")
		}
	case TTSPiper:
		if c.Speech.PiperModel == "" {
			problems = append(problems, "PIPER_MODEL")
		}
	default:
		problems = append(problems, fmt.Sprintf("CHEF_TTS (unknown %q)", c.Speech.TTS))
	}

	if len(problems) > 0 {
		return fmt.Errorf("missing or invalid settings: %s", strings.Join(problems, ", "))
	}
	return nil
}

// ResolveTTS turns "auto" into the first synthesizer with credentials.
func (c *Config) ResolveTTS() string {
	if c.Speech.TTS != TTSAuto {
		return c.Speech.TTS
	}
	switch {
	case c.Speech.AzureKey != "" && c.Speech.AzureRegion != "":
		return TTSAzure
	case c.Speech.OpenAIKey != "":
		return TTSOpenAI
	case c.Speech.PiperModel != "":
		return TTSPiper
	default:
		return TTSSystem
	}
}
