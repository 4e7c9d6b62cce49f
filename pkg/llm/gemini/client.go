// Package gemini implements the LLM interface on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
	"github.com/mcmp-ai/assistant/pkg/retry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client wraps the Gemini generate-content API.
type Client struct {
	client        *genai.Client
	model         string
	logger        logging.Logger
	retryExecutor *retry.Executor
}

// Option configures the client.
type Option func(*Client)

// WithModel sets the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
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

// NewClient creates a Gemini client. The API key is required.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	c := &Client{
		client: client,
		model:  DefaultModel,
		logger: logging.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements interfaces.LLM.
func (c *Client) Name() string {
	return "gemini"
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
// model's reply including any requested function calls.
func (c *Client) Chat(ctx context.Context, messages []interfaces.Message, tools []interfaces.ToolDefinition, options ...interfaces.GenerateOption) (*interfaces.ChatResponse, error) {
	params := &interfaces.GenerateOptions{}
	for _, opt := range options {
		opt(params)
	}

	cfg := &genai.GenerateContentConfig{}
	if params.SystemMessage != "" {
		cfg.SystemInstruction = genai.NewContentFromText(params.SystemMessage, genai.RoleUser)
	}
	if params.LLMConfig != nil {
		if params.LLMConfig.Temperature > 0 {
			cfg.Temperature = genai.Ptr(float32(params.LLMConfig.Temperature))
		}
		if params.LLMConfig.MaxTokens > 0 {
			cfg.MaxOutputTokens = int32(params.LLMConfig.MaxTokens)
		}
	}
	if len(tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, tool := range tools {
			schema, err := convertSchema(tool.InputSchema)
			if err != nil {
				return nil, fmt.Errorf("gemini: tool %s: %w", tool.Name, err)
			}
			declarations = append(declarations, &genai.FunctionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  schema,
			})
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	contents, err := convertMessages(messages)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "Sending chat request to Gemini", map[string]interface{}{
		"model":    c.model,
		"messages": len(contents),
		"tools":    len(tools),
	})

	var resp *genai.GenerateContentResponse
	operation := func() error {
		var err error
		resp, err = c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
		return err
	}

	if c.retryExecutor != nil {
		err = c.retryExecutor.Execute(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		c.logger.Error(ctx, "Gemini chat request failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("gemini: generate content failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini: no candidates returned")
	}

	candidate := resp.Candidates[0]
	out := &interfaces.ChatResponse{
		Model:      c.model,
		StopReason: string(candidate.FinishReason),
	}
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			out.Content += part.Text
		}
		if part.FunctionCall != nil {
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return nil, fmt.Errorf("gemini: failed to marshal function args: %w", err)
			}
			id := part.FunctionCall.ID
			if id == "" {
				id = part.FunctionCall.Name
			}
			out.ToolCalls = append(out.ToolCalls, interfaces.ToolCall{
				ID:        id,
				Name:      part.FunctionCall.Name,
				Arguments: string(args),
			})
		}
	}
	return out, nil
}

func convertMessages(messages []interfaces.Message) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case interfaces.MessageRoleSystem:
			// System prompts travel as the SystemInstruction.
			continue
		case interfaces.MessageRoleUser:
			out = append(out, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case interfaces.MessageRoleAssistant:
			parts := []*genai.Part{}
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				var args map[string]any
				if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
					args = map[string]any{}
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{Name: tc.Name, Args: args},
				})
			}
			if len(parts) == 0 {
				continue
			}
			out = append(out, genai.NewContentFromParts(parts, genai.RoleModel))
		case interfaces.MessageRoleTool:
			out = append(out, genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromFunctionResponse(msg.ToolCallID, map[string]any{"result": msg.Content}),
			}, genai.RoleUser))
		default:
			return nil, fmt.Errorf("gemini: unsupported message role %q", msg.Role)
		}
	}
	return out, nil
}

// convertSchema maps a JSON-schema style map onto the GenAI schema type.
// Only the subset tool definitions produce (object with typed string
// properties, enums and required lists) is handled.
func convertSchema(schema map[string]interface{}) (*genai.Schema, error) {
	out := &genai.Schema{Type: genai.TypeObject}

	props, _ := schema["properties"].(map[string]interface{})
	if len(props) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			spec, ok := raw.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid property spec for %q", name)
			}
			prop := &genai.Schema{}
			if t, ok := spec["type"].(string); ok {
				prop.Type = mapSchemaType(t)
			}
			if d, ok := spec["description"].(string); ok {
				prop.Description = d
			}
			if enum, ok := spec["enum"].([]string); ok {
				prop.Enum = enum
			} else if enum, ok := spec["enum"].([]interface{}); ok {
				for _, v := range enum {
					if s, ok := v.(string); ok {
						prop.Enum = append(prop.Enum, s)
					}
				}
			}
			out.Properties[name] = prop
		}
	}

	if required, ok := schema["required"].([]string); ok {
		out.Required = required
	} else if required, ok := schema["required"].([]interface{}); ok {
		for _, v := range required {
			if s, ok := v.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}
	return out, nil
}

func mapSchemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
