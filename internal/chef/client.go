// Package chef generates structured recipes from a photo of ingredients.
// It owns the prompt, the strict output contract and the retry policy; the
// model provider sits behind the Transport interface.
package chef

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// Retry and quota defaults.
const (
	MaxAttempts      = 3
	BaseDelay        = 6 * time.Second
	QuotaResetWindow = time.Hour
	DefaultLanguage  = "Spanish"
)

// Transport sends one prompt plus image to a multimodal model and returns
// its raw text reply.
type Transport interface {
	Complete(ctx context.Context, prompt string, img domain.Image) (string, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Compile-time interface check.
var _ domain.RecipeGenerator = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithMaxAttempts overrides the number of transport attempts per request.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the retry base delay.
func WithBaseDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.baseDelay = d }
}

// WithLanguage sets the language the recipe text is written in.
func WithLanguage(lang string) ClientOption {
	return func(c *Client) { c.language = lang }
}

// WithUsage attaches a request counter.
func WithUsage(u *Usage) ClientOption {
	return func(c *Client) { c.usage = u }
}

// WithSleep replaces the backoff sleeper. Tests use it to record waits.
func WithSleep(fn SleepFunc) ClientOption {
	return func(c *Client) { c.sleep = fn }
}

// Client produces recipes through a Transport. It keeps no per-call state
// and may be called repeatedly in sequence.
type Client struct {
	transport   Transport
	log         *logger.Logger
	usage       *Usage
	sleep       SleepFunc
	maxAttempts int
	baseDelay   time.Duration
	language    string
}

// NewClient creates a recipe client on top of the given transport.
func NewClient(transport Transport, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		transport:   transport,
		log:         log.Named("chef"),
		sleep:       sleepContext,
		maxAttempts: MaxAttempts,
		baseDelay:   BaseDelay,
		language:    DefaultLanguage,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate asks the model for a recipe of the given meal type built from
// the ingredients in img.
//
// It returns a *domain.QuotaError when the provider is still out of quota
// after the last attempt. Every other failure wraps domain.ErrGenerationFailed;
// unparseable output also wraps domain.ErrMalformedResponse and is never retried.
func (c *Client) Generate(ctx context.Context, img domain.Image, meal domain.MealType) (*domain.Recipe, error) {
	prompt := BuildPrompt(meal, c.language)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if c.usage != nil {
			c.usage.Record()
		}
		c.log.Debug("attempt %d/%d (meal=%s, image=%d bytes)", attempt, c.maxAttempts, meal, len(img.Data))

		raw, err := c.transport.Complete(ctx, prompt, img)
		if err == nil {
			recipe, perr := ParseRecipe(raw)
			if perr != nil {
				c.log.Error("could not parse recipe JSON: %v\nraw: %s", perr, raw)
				return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, perr)
			}
			c.log.Info("generated %q (%d ingredients, %d steps)", recipe.Name, len(recipe.RecipeIngredients), len(recipe.Instructions))
			return recipe, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, ctxErr)
		}

		lastErr = err
		quota := IsQuotaError(err)
		if attempt == c.maxAttempts {
			if quota {
				c.log.Warn("quota exhausted after %d attempts: %v", attempt, err)
				return nil, newQuotaError()
			}
			break
		}

		delay := c.baseDelay
		if quota {
			delay = c.baseDelay * time.Duration(attempt)
			c.log.Warn("quota error on attempt %d, retrying in %s: %v", attempt, delay, err)
		} else {
			c.log.Warn("transport error on attempt %d, retrying in %s: %v", attempt, delay, err)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
	}

	c.log.Error("giving up after %d attempts: %v", c.maxAttempts, lastErr)
	return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, lastErr)
}

func newQuotaError() *domain.QuotaError {
	return &domain.QuotaError{
		Kind:        domain.QuotaErrorKind,
		Message:     "The recipe service is out of quota right now.",
		ResetWindow: QuotaResetWindow,
		Suggestion:  "Come back in about an hour, or upgrade the API plan for a higher limit.",
	}
}

// quotaStatus matches a 429 status embedded in provider error text.
var quotaStatus = regexp.MustCompile(`\b429\b`)

var quotaKeywords = []string{"quota", "exceeded", "rate limit", "ratelimit", "resource_exhausted", "too many requests"}

// IsQuotaError reports whether err signals quota exhaustion: a transport
// mapped it to ErrRateLimited, or its message carries a 429 status or a
// quota keyword. Timeouts are never quota errors even though their text
// says "deadline exceeded".
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	if isTimeout(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	if quotaStatus.MatchString(msg) {
		return true
	}
	for _, kw := range quotaKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "client.timeout") || strings.Contains(msg, "deadline exceeded")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
