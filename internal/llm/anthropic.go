package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Anthropic's Claude models
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, &APICallError{Provider: ProviderAnthropic, Message: "API key is required"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier)
}

// GenerateJSON generates JSON content using the specified model tier.
// Claude has no JSON response mode; the prompt carries the shape and the
// reply is cleaned of fences and preamble.
func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *AnthropicClient) generate(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &APICallError{Provider: ProviderAnthropic, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	maxTokens := c.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(c.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &APICallError{Provider: ProviderAnthropic, Message: "failed to generate content", Cause: err}
	}

	return extractAnthropicText(message)
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *AnthropicClient) Close() error {
	return nil
}

// extractAnthropicText concatenates the text blocks of a message
func extractAnthropicText(message *anthropic.Message) (string, error) {
	if message == nil {
		return "", &APICallError{Provider: ProviderAnthropic, Message: "nil message"}
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &APICallError{Provider: ProviderAnthropic, Message: "no text blocks in response"}
	}
	return text, nil
}
