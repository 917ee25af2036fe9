// Package gemini sends recipe prompts to Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hammamikhairi/chefai/internal/chef"
	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// DefaultModel is the multimodal model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

var _ chef.Transport = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithJSONMode asks the API for an application/json response body.
func WithJSONMode(on bool) Option {
	return func(c *Client) { c.jsonMode = on }
}

// Client is a chef.Transport backed by the Gemini API.
type Client struct {
	api      *genai.Client
	model    string
	jsonMode bool
	log      *logger.Logger
}

// New creates a Gemini transport. The API key is required.
func New(ctx context.Context, apiKey string, log *logger.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	c := &Client{
		api:      api,
		model:    DefaultModel,
		jsonMode: true,
		log:      log.Named("gemini"),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Complete sends the prompt and the photo as one user turn and returns the
// model's text.
func (c *Client) Complete(ctx context.Context, prompt string, img domain.Image) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(img.Data, img.MIMEType),
		}, genai.RoleUser),
	}

	var cfg *genai.GenerateContentConfig
	if c.jsonMode {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	c.log.Debug("generate %s (%d prompt chars, %s %d bytes)", c.model, len(prompt), img.MIMEType, len(img.Data))
	resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", classify(err)
	}

	text := replyText(resp)
	if strings.TrimSpace(text) == "" {
		c.log.Warn("generate %s returned no text", c.model)
	}
	return text, nil
}

// replyText returns the candidate text, "" when the model sent none. An
// empty reply is a content problem for the parser, not a transport failure.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}

// classify tags quota failures with domain.ErrRateLimited so the chef's
// retry policy sees them without parsing provider text itself.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota") {
		return fmt.Errorf("gemini: %w: %v", domain.ErrRateLimited, err)
	}
	return fmt.Errorf("gemini: %w", err)
}
