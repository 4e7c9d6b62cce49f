package interfaces

import (
	"context"
)

// Message roles
const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleTool      = "tool"
)

// Message represents a single turn in a conversation. ToolCallID links a
// tool message back to the tool call that produced it; ToolCalls carries the
// calls an assistant turn requested.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a model-issued request to invoke a named tool. Arguments is the
// raw JSON argument object as produced by the provider.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatResponse is the provider-neutral result of one chat completion call.
// ToolCalls is non-empty when the model requested tool invocations instead of
// (or in addition to) producing text.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
	Model     string
	StopReason string
}

// ParameterSpec defines a parameter for a tool
type ParameterSpec struct {
	Type        string
	Description string
	Required    bool
	Default     interface{}
	Enum        []string
}

// ToolDefinition is the provider-independent description of a callable tool.
// Schema follows the JSON-Schema object shape so each provider can translate
// it to its native function-calling format without loss.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Tool represents a callable structured-data lookup
type Tool interface {
	// Name returns the name of the tool
	Name() string

	// Description returns a description of what the tool does
	Description() string

	// Parameters returns the parameters that the tool accepts
	Parameters() map[string]ParameterSpec

	// Execute executes the tool with the given JSON argument object
	Execute(ctx context.Context, args string) (string, error)
}

// LLM is the capability every chat backend must provide. Adding a backend
// means implementing this interface in its own subpackage; nothing outside
// the provider factory changes.
type LLM interface {
	// Name returns the provider identifier (e.g. "openai", "anthropic")
	Name() string

	// Generate generates text from a single prompt
	Generate(ctx context.Context, prompt string, options ...GenerateOption) (string, error)

	// Chat sends a conversation (plus an optional tool catalog) to the model
	// and returns its response, including any requested tool calls
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition, options ...GenerateOption) (*ChatResponse, error)
}

// GenerateOptions contains options for text generation
type GenerateOptions struct {
	SystemMessage string
	LLMConfig     *LLMConfig
}

// LLMConfig contains configuration for LLM generation
type LLMConfig struct {
	Temperature   float64
	TopP          float64
	MaxTokens     int
	StopSequences []string
}

// GenerateOption represents an option for text generation
type GenerateOption func(*GenerateOptions)

// WithSystemMessage sets the system message for generation
func WithSystemMessage(message string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemMessage = message
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temperature float64) GenerateOption {
	return func(o *GenerateOptions) {
		if o.LLMConfig == nil {
			o.LLMConfig = &LLMConfig{}
		}
		o.LLMConfig.Temperature = temperature
	}
}

// WithMaxTokens sets the maximum number of tokens to generate
func WithMaxTokens(maxTokens int) GenerateOption {
	return func(o *GenerateOptions) {
		if o.LLMConfig == nil {
			o.LLMConfig = &LLMConfig{}
		}
		o.LLMConfig.MaxTokens = maxTokens
	}
}

// Document represents a document to be stored in a vector store
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult represents one ranked match from a vector store query. ID is
// stable for the underlying object and is the dedup key during retrieval.
type SearchResult struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float32
}

// VectorStore is the opaque similarity index the retriever runs against
type VectorStore interface {
	// Store upserts documents into the index
	Store(ctx context.Context, documents []Document) error

	// Search returns the topK closest matches for one query
	Search(ctx context.Context, query string, topK int) ([]SearchResult, error)

	// MultiSearch issues one batched lookup for several queries and returns
	// one ranked result list per query, in query order
	MultiSearch(ctx context.Context, queries []string, topK int) ([][]SearchResult, error)
}

// Chunk is a retrieved piece of context text with provenance metadata.
// SourceQuery records which sub-query surfaced it.
type Chunk struct {
	ID          string
	Text        string
	Metadata    map[string]string
	SourceQuery string
}
