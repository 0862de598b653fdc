package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client for OpenAI and OpenAI-compatible endpoints
// (Qwen, vLLM, Ollama) via the Chat Completions API.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, &APICallError{Provider: ProviderOpenAI, Message: "API key is required"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	params, err := c.buildParams(prompt, tier)
	if err != nil {
		return "", err
	}
	return c.complete(ctx, params)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	params, err := c.buildParams(prompt, tier)
	if err != nil {
		return "", err
	}
	obj := shared.NewResponseFormatJSONObjectParam()
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{OfJSONObject: &obj}

	text, err := c.complete(ctx, params)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) buildParams(prompt string, tier ModelTier) (openai.ChatCompletionNewParams, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return openai.ChatCompletionNewParams{}, &APICallError{Provider: ProviderOpenAI, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.config.Temperature),
	}
	if c.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(c.config.MaxTokens)
	}
	return params, nil
}

func (c *OpenAIClient) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &APICallError{Provider: ProviderOpenAI, Message: "failed to generate content", Cause: err}
	}
	return extractOpenAIText(resp)
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *OpenAIClient) Close() error {
	return nil
}

// extractOpenAIText returns the first choice's message content
func extractOpenAIText(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", &APICallError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &APICallError{Provider: ProviderOpenAI, Message: "empty message content"}
	}
	return text, nil
}
