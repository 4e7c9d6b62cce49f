// Package graphsearch implements the search_graph tool, a thin wrapper over
// the institutional graph index.
package graphsearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcmp-ai/assistant/pkg/graph"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
)

// Fallback is returned when the query matches nothing in the graph
const Fallback = "No matching entities found in the institutional graph."

// Tool implements interfaces.Tool for graph lookups
type Tool struct {
	index *graph.Index
	depth int
}

// Input represents the input for the graph search tool
type Input struct {
	Query string `json:"query"`
}

// New creates a new graph search tool
func New(index *graph.Index) *Tool {
	return &Tool{index: index, depth: 1}
}

// Name implements interfaces.Tool.Name
func (t *Tool) Name() string {
	return "search_graph"
}

// Description implements interfaces.Tool.Description
func (t *Tool) Description() string {
	return "Look up institutional relationships: who leads what, which groups belong to which unit, and how people and organizational units are connected."
}

// Parameters implements interfaces.Tool.Parameters
func (t *Tool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"query": {
			Type:        "string",
			Description: "Entity name or keyword to look up in the institutional graph.",
			Required:    true,
		},
	}
}

// Execute implements interfaces.Tool.Execute
func (t *Tool) Execute(ctx context.Context, args string) (string, error) {
	var input Input
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("failed to parse input: %w", err)
	}

	text := t.index.ToText(t.index.Subgraph(input.Query, t.depth))
	if text == "" {
		return Fallback, nil
	}
	return text, nil
}
