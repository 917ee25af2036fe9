// Package claude sends recipe prompts to Anthropic's Messages API.
package claude

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hammamikhairi/chefai/internal/chef"
	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// DefaultModel is used when CHEF model configuration leaves it empty.
const DefaultModel = "claude-sonnet-4-20250514"

var _ chef.Transport = (*Client)(nil)

// Client is a chef.Transport backed by Claude.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	log       *logger.Logger
}

// New creates a Claude transport. Extra request options (base URL, retries)
// are passed straight to the SDK.
func New(apiKey, model string, log *logger.Logger, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		api:       anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 4096,
		log:       log.Named("claude"),
	}
}

// Complete sends the photo followed by the prompt as one user message.
func (c *Client) Complete(ctx context.Context, prompt string, img domain.Image) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MIMEType, base64.StdEncoding.EncodeToString(img.Data)),
				anthropic.NewTextBlock(prompt),
			),
		},
	}

	c.log.Debug("messages.new %s (%d prompt chars)", c.model, len(prompt))
	resp, err := c.api.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("claude: %w: %v", domain.ErrRateLimited, err)
		}
		return "", fmt.Errorf("claude: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("claude: response had no text blocks")
	}
	return sb.String(), nil
}
