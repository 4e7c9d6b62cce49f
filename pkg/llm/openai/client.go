// Package openai implements the LLM interface on top of the official
// OpenAI Go SDK.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
	"github.com/mcmp-ai/assistant/pkg/retry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Client wraps the OpenAI chat completions API.
type Client struct {
	client        openai.Client
	apiKey        string
	model         string
	baseURL       string
	logger        logging.Logger
	retryExecutor *retry.Executor
}

// Option configures the client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint, e.g. for a proxy.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetry enables retries with the given policy options.
func WithRetry(opts ...retry.Option) Option {
	return func(c *Client) {
		c.retryExecutor = retry.NewExecutor(retry.NewPolicy(opts...))
	}
}

// NewClient creates an OpenAI client. The API key is required.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	c := &Client{
		apiKey: apiKey,
		model:  DefaultModel,
		logger: logging.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(c.baseURL))
	}
	c.client = openai.NewClient(reqOpts...)

	return c, nil
}

// Name implements interfaces.LLM.
func (c *Client) Name() string {
	return "openai"
}

// Generate produces a completion for a single prompt.
func (c *Client) Generate(ctx context.Context, prompt string, options ...interfaces.GenerateOption) (string, error) {
	resp, err := c.Chat(ctx, []interfaces.Message{
		{Role: interfaces.MessageRoleUser, Content: prompt},
	}, nil, options...)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Chat sends a conversation, optionally advertising tools, and returns the
// model's reply including any requested tool calls.
func (c *Client) Chat(ctx context.Context, messages []interfaces.Message, tools []interfaces.ToolDefinition, options ...interfaces.GenerateOption) (*interfaces.ChatResponse, error) {
	params := &interfaces.GenerateOptions{}
	for _, opt := range options {
		opt(params)
	}

	reqMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if params.SystemMessage != "" {
		reqMessages = append(reqMessages, openai.SystemMessage(params.SystemMessage))
	}
	for _, msg := range messages {
		converted, err := convertMessage(msg)
		if err != nil {
			return nil, err
		}
		reqMessages = append(reqMessages, converted)
	}

	req := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: reqMessages,
	}
	if params.LLMConfig != nil {
		if params.LLMConfig.Temperature > 0 {
			req.Temperature = openai.Float(params.LLMConfig.Temperature)
		}
		if params.LLMConfig.MaxTokens > 0 {
			req.MaxTokens = openai.Int(int64(params.LLMConfig.MaxTokens))
		}
	}
	if len(tools) > 0 {
		req.Tools = convertTools(tools)
	}

	c.logger.Debug(ctx, "Sending chat request to OpenAI", map[string]interface{}{
		"model":    c.model,
		"messages": len(reqMessages),
		"tools":    len(tools),
	})

	var resp *openai.ChatCompletion
	operation := func() error {
		var err error
		resp, err = c.client.Chat.Completions.New(ctx, req)
		return err
	}

	var err error
	if c.retryExecutor != nil {
		err = c.retryExecutor.Execute(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		c.logger.Error(ctx, "OpenAI chat request failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no completion choices returned")
	}

	choice := resp.Choices[0]
	out := &interfaces.ChatResponse{
		Content:    choice.Message.Content,
		Model:      resp.Model,
		StopReason: string(choice.FinishReason),
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, interfaces.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func convertMessage(msg interfaces.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case interfaces.MessageRoleSystem:
		return openai.SystemMessage(msg.Content), nil
	case interfaces.MessageRoleUser:
		return openai.UserMessage(msg.Content), nil
	case interfaces.MessageRoleAssistant:
		if len(msg.ToolCalls) > 0 {
			assistantMsg := openai.ChatCompletionMessage{
				Role:    "assistant",
				Content: msg.Content,
			}
			for _, tc := range msg.ToolCalls {
				assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, openai.ChatCompletionMessageToolCallUnion{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageFunctionToolCallFunction{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			return assistantMsg.ToParam(), nil
		}
		return openai.AssistantMessage(msg.Content), nil
	case interfaces.MessageRoleTool:
		return openai.ToolMessage(msg.Content, msg.ToolCallID), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("openai: unsupported message role %q", msg.Role)
	}
}

func convertTools(tools []interfaces.ToolDefinition) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		out = append(out, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(tool.Description),
			Parameters:  tool.InputSchema,
		}))
	}
	return out
}
