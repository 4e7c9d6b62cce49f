// Package tools exposes the institute's structured-data lookups as callable,
// schema-described functions, independent of any provider's function-calling
// format.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
)

// Registry holds the fixed tool catalog and dispatches calls by name
type Registry struct {
	tools  map[string]interfaces.Tool
	order  []string
	logger logging.Logger
	mu     sync.RWMutex
}

// Option represents an option for configuring the registry
type Option func(*Registry)

// WithLogger sets the logger for the registry
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new tool registry
func NewRegistry(options ...Option) *Registry {
	registry := &Registry{
		tools:  make(map[string]interfaces.Tool),
		logger: logging.New(),
	}

	for _, option := range options {
		option(registry)
	}

	return registry
}

// Register registers a tool with the registry
func (r *Registry) Register(tool interfaces.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get returns a tool by name
func (r *Registry) Get(name string) (interfaces.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order
func (r *Registry) List() []interfaces.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]interfaces.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Definitions renders the catalog as provider-neutral tool definitions with
// JSON-Schema-shaped input schemas.
func (r *Registry) Definitions() []interfaces.ToolDefinition {
	list := r.List()
	definitions := make([]interfaces.ToolDefinition, 0, len(list))
	for _, tool := range list {
		definitions = append(definitions, Definition(tool))
	}
	return definitions
}

// Execute dispatches a tool call and always returns a JSON result string.
// Unknown names and tool failures come back as {"error": ...} so the
// orchestrator can hand them to the model instead of aborting the turn.
func (r *Registry) Execute(ctx context.Context, name, args string) string {
	tool, ok := r.Get(name)
	if !ok {
		r.logger.Warn(ctx, "Unknown tool requested", map[string]interface{}{"tool": name})
		return errorResult(fmt.Sprintf("tool %s not found", name))
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		r.logger.Warn(ctx, "Tool execution failed", map[string]interface{}{
			"tool":  name,
			"error": err.Error(),
		})
		return errorResult(err.Error())
	}

	return result
}

func errorResult(message string) string {
	payload, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return `{"error": "internal error"}`
	}
	return string(payload)
}

// Definition builds the JSON-Schema-like definition for one tool
func Definition(tool interfaces.Tool) interfaces.ToolDefinition {
	properties := make(map[string]interface{})
	required := []string{}

	for name, param := range tool.Parameters() {
		spec := map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Default != nil {
			spec["default"] = param.Default
		}
		if param.Enum != nil {
			spec["enum"] = param.Enum
		}
		properties[name] = spec
		if param.Required {
			required = append(required, name)
		}
	}

	return interfaces.ToolDefinition{
		Name:        tool.Name(),
		Description: tool.Description(),
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
