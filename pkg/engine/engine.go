// Package engine drives the full answer pipeline: retrieval, graph context,
// prompt composition, the provider chat call and the bounded tool-call loop.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/mcmp-ai/assistant/pkg/graph"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
	"github.com/mcmp-ai/assistant/pkg/prompt"
	"github.com/mcmp-ai/assistant/pkg/retrieval"
	"github.com/mcmp-ai/assistant/pkg/tools"
)

// defaultMaxToolRounds bounds tool round-trips per answer. The bound is
// uniform across providers.
const defaultMaxToolRounds = 2

const graphDepth = 1

// Engine answers user questions. It is the only surface the UI layer
// consumes.
type Engine struct {
	llm           interfaces.LLM
	retriever     *retrieval.Retriever
	graph         *graph.Index
	registry      *tools.Registry
	composer      *prompt.Composer
	logger        logging.Logger
	maxToolRounds int
	clock         func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithRegistry enables tool calling through the given registry.
func WithRegistry(registry *tools.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxToolRounds bounds how many tool round-trips one answer may use.
func WithMaxToolRounds(rounds int) Option {
	return func(e *Engine) {
		if rounds >= 0 {
			e.maxToolRounds = rounds
		}
	}
}

// WithClock overrides the time source used for the prompt date.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an engine. The LLM, retriever, graph index and composer are
// all required; construction fails rather than deferring the error to the
// first answer.
func New(llm interfaces.LLM, retriever *retrieval.Retriever, index *graph.Index, composer *prompt.Composer, opts ...Option) (*Engine, error) {
	if llm == nil {
		return nil, fmt.Errorf("engine: LLM is required")
	}
	if retriever == nil {
		return nil, fmt.Errorf("engine: retriever is required")
	}
	if index == nil {
		return nil, fmt.Errorf("engine: graph index is required")
	}
	if composer == nil {
		return nil, fmt.Errorf("engine: prompt composer is required")
	}

	e := &Engine{
		llm:           llm,
		retriever:     retriever,
		graph:         index,
		composer:      composer,
		logger:        logging.New(),
		maxToolRounds: defaultMaxToolRounds,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Answer produces a natural-language answer for the query, continuing the
// given conversation history. Provider and tool failures never escape as
// errors: they surface inline as "Error: <detail>" so a chat session
// survives transient outages.
func (e *Engine) Answer(ctx context.Context, query string, history []interfaces.Message) string {
	e.logger.Info(ctx, "Generating response", map[string]interface{}{"query": query})

	chunks, err := e.retriever.Retrieve(ctx, query)
	if err != nil {
		// Degrade to an uncontextualized answer rather than failing the turn.
		e.logger.Warn(ctx, "Context retrieval failed, answering without chunks", map[string]interface{}{
			"error": err.Error(),
		})
		chunks = nil
	}

	graphText := e.graph.ToText(e.graph.Subgraph(query, graphDepth))

	var defs []interfaces.ToolDefinition
	if e.registry != nil {
		defs = e.registry.Definitions()
	}

	in := prompt.Input{
		Query:     query,
		Date:      e.clock(),
		GraphText: graphText,
		Chunks:    chunks,
		Tools:     defs,
	}
	system := e.composer.BuildSystem(in)

	messages := make([]interfaces.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, interfaces.Message{
		Role:    interfaces.MessageRoleUser,
		Content: e.composer.BuildUser(in),
	})

	for round := 0; round <= e.maxToolRounds; round++ {
		// The last round drops the tool catalog to force a conclusion.
		callTools := defs
		if round == e.maxToolRounds {
			callTools = nil
		}

		resp, err := e.llm.Chat(ctx, messages, callTools, interfaces.WithSystemMessage(system))
		if err != nil {
			e.logger.Error(ctx, "Model call failed", map[string]interface{}{
				"error": err.Error(),
				"round": round,
			})
			return fmt.Sprintf("Error: %v", err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content
		}

		e.logger.Debug(ctx, "Model requested tools", map[string]interface{}{
			"round": round,
			"calls": len(resp.ToolCalls),
		})

		messages = append(messages, interfaces.Message{
			Role:      interfaces.MessageRoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := e.executeTool(ctx, call)
			messages = append(messages, interfaces.Message{
				Role:       interfaces.MessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	// Unreachable: the final round never returns tool calls because it is
	// issued without a tool catalog. Kept as a terminal guard.
	return "Error: tool round limit exceeded"
}

func (e *Engine) executeTool(ctx context.Context, call interfaces.ToolCall) string {
	if e.registry == nil {
		return `{"error": "no tools available"}`
	}
	return e.registry.Execute(ctx, call.Name, call.Arguments)
}
