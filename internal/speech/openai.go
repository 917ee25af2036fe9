package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hammamikhairi/chefai/internal/logger"
)

var _ Synthesizer = (*OpenAITTS)(nil)

// OpenAITTS synthesizes speech with OpenAI's audio/speech endpoint.
type OpenAITTS struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
	log    *logger.Logger
}

// OpenAIOption configures OpenAITTS.
type OpenAIOption func(*OpenAITTS)

// WithOpenAIVoice selects the voice (alloy, nova, ...).
func WithOpenAIVoice(v string) OpenAIOption {
	return func(o *OpenAITTS) {
		if v != "" {
			o.voice = openai.SpeechVoice(v)
		}
	}
}

// WithOpenAIModel selects the speech model.
func WithOpenAIModel(m string) OpenAIOption {
	return func(o *OpenAITTS) {
		if m != "" {
			o.model = openai.SpeechModel(m)
		}
	}
}

// NewOpenAITTS creates a synthesizer. baseURL may be empty for api.openai.com.
func NewOpenAITTS(apiKey, baseURL string, log *logger.Logger, opts ...OpenAIOption) *OpenAITTS {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	o := &OpenAITTS{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.TTSModel1,
		voice:  openai.VoiceNova,
		log:    log.Named("openai-tts"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Voice returns the cache key component for this synthesizer.
func (o *OpenAITTS) Voice() string { return "openai/" + string(o.model) + "/" + string(o.voice) }

// Synthesize returns WAV audio for text.
func (o *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	o.log.Debug("synthesizing %d chars with %s", len(text), o.voice)
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          o.model,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatWav,
		Speed:          DefaultRate + 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}
