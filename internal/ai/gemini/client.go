package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/prepedge/prepedge/internal/logger"
)

const (
	defaultModel     = "gemini-2.5-flash"
	defaultTimeout   = 60 * time.Second
	defaultMaxLogLen = 200
	providerName     = "gemini"
)

// contentGenerator is the slice of the genai SDK the client depends on.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client exposes Gemini behind the pipeline's Completer contract: one prompt
// in, flattened text out. Every call runs under a bounded timeout with a
// single terminal failure and no automatic retry.
type Client struct {
	models    contentGenerator
	modelName string
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds every model call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxLogLength limits prompt/response previews in debug logs.
func WithMaxLogLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxLogLen = n
		}
	}
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, log *zap.Logger, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	inner, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	c := &Client{
		models:    inner.Models,
		modelName: model,
		timeout:   defaultTimeout,
		maxLogLen: defaultMaxLogLen,
		logger:    logger.WithAI(log, providerName, model),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Complete sends the prompt to Gemini and returns the flattened textual response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := flattenCandidates(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	c.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

func flattenCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
