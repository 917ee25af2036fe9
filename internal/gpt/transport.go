package gpt

import (
	"context"

	"github.com/hammamikhairi/chefai/internal/chef"
	"github.com/hammamikhairi/chefai/internal/domain"
)

var _ chef.Transport = (*Client)(nil)

// Complete implements chef.Transport: the prompt and photo go out as a
// single multimodal user message.
func (c *Client) Complete(ctx context.Context, prompt string, img domain.Image) (string, error) {
	return c.Chat(ctx, []Message{ImageMessage(prompt, img)})
}
