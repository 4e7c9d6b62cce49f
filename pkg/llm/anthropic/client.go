// Package anthropic implements the LLM interface against the Anthropic
// Messages API, with optional AWS Bedrock transport.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
	"github.com/mcmp-ai/assistant/pkg/retry"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-3-5-sonnet-latest"

	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 2048
)

// Message is a single conversation turn in the Anthropic wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is a tool definition in the Anthropic wire format.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ContentBlock is one block of a response. Type is "text" or "tool_use".
type ContentBlock struct {
	Type  string                 `json:"type"`
	Text  string                 `json:"text,omitempty"`
	ID    string                 `json:"id,omitempty"`
	Name  string                 `json:"name,omitempty"`
	Input map[string]interface{} `json:"input,omitempty"`
}

// CompletionRequest is the Messages API request body.
type CompletionRequest struct {
	Model         string    `json:"model,omitempty"`
	Messages      []Message `json:"messages"`
	MaxTokens     int       `json:"max_tokens,omitempty"`
	Temperature   float64   `json:"temperature,omitempty"`
	TopP          float64   `json:"top_p,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	System        string    `json:"system,omitempty"`
	Tools         []Tool    `json:"tools,omitempty"`
}

// CompletionResponse is the Messages API response body.
type CompletionResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Client talks to the Anthropic Messages API directly over HTTP, or through
// AWS Bedrock when a BedrockConfig is attached.
type Client struct {
	apiKey        string
	model         string
	baseURL       string
	httpClient    *http.Client
	logger        logging.Logger
	retryExecutor *retry.Executor
	bedrock       *BedrockConfig
}

// Option configures the client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
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

// WithBedrock routes requests through AWS Bedrock instead of the Anthropic
// API. No Anthropic API key is needed in this mode.
func WithBedrock(bedrock *BedrockConfig) Option {
	return func(c *Client) {
		c.bedrock = bedrock
	}
}

// NewClient creates an Anthropic client. An API key is required unless the
// client is configured with WithBedrock.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:     apiKey,
		model:      DefaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logging.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" && c.bedrock == nil {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	return c, nil
}

// Name implements interfaces.LLM.
func (c *Client) Name() string {
	return "anthropic"
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

	req := CompletionRequest{
		Model:     c.model,
		Messages:  convertMessages(messages),
		MaxTokens: defaultMaxTokens,
		System:    params.SystemMessage,
	}
	if params.LLMConfig != nil {
		req.Temperature = params.LLMConfig.Temperature
		req.TopP = params.LLMConfig.TopP
		if params.LLMConfig.MaxTokens > 0 {
			req.MaxTokens = params.LLMConfig.MaxTokens
		}
		req.StopSequences = params.LLMConfig.StopSequences
	}
	for _, tool := range tools {
		req.Tools = append(req.Tools, Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	c.logger.Debug(ctx, "Sending chat request to Anthropic", map[string]interface{}{
		"model":    req.Model,
		"messages": len(req.Messages),
		"tools":    len(req.Tools),
		"bedrock":  c.bedrock != nil,
	})

	var resp *CompletionResponse
	operation := func() error {
		var err error
		resp, err = c.complete(ctx, &req)
		return err
	}

	var err error
	if c.retryExecutor != nil {
		err = c.retryExecutor.Execute(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		c.logger.Error(ctx, "Anthropic chat request failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	out := &interfaces.ChatResponse{
		Model:      resp.Model,
		StopReason: resp.StopReason,
	}
	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			args, err := json.Marshal(block.Input)
			if err != nil {
				return nil, fmt.Errorf("anthropic: failed to marshal tool input: %w", err)
			}
			out.ToolCalls = append(out.ToolCalls, interfaces.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(args),
			})
		}
	}
	out.Content = text.String()
	return out, nil
}

func (c *Client) complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if c.bedrock != nil {
		return c.bedrock.InvokeModel(ctx, c.model, req)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic: API returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp CompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("anthropic: failed to parse response: %w", err)
	}
	return &resp, nil
}

// convertMessages flattens the provider-neutral history into Anthropic wire
// messages. Assistant tool calls and tool results are replayed as text so the
// transcript stays valid for the Messages API.
func convertMessages(messages []interfaces.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case interfaces.MessageRoleSystem:
			// System prompts travel in the request's System field.
			continue
		case interfaces.MessageRoleAssistant:
			content := msg.Content
			if len(msg.ToolCalls) > 0 {
				calls, err := json.Marshal(msg.ToolCalls)
				if err == nil {
					if content != "" {
						content += "\n"
					}
					content += fmt.Sprintf("Requested tool calls: %s", string(calls))
				}
			}
			if strings.TrimSpace(content) == "" {
				continue
			}
			out = append(out, Message{Role: "assistant", Content: content})
		case interfaces.MessageRoleTool:
			out = append(out, Message{
				Role:    "user",
				Content: fmt.Sprintf("Here are the tool results for call %s: %s", msg.ToolCallID, msg.Content),
			})
		default:
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			out = append(out, Message{Role: "user", Content: msg.Content})
		}
	}
	return out
}
