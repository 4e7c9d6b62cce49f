// Package research implements the search_research tool over the institute's
// research taxonomy.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/records"
)

// Tool implements interfaces.Tool for research-area search
type Tool struct {
	store *records.Store
}

// Input represents the input for the research search tool
type Input struct {
	Topic string `json:"topic,omitempty"`
}

// Result is one research-area row returned to the model
type Result struct {
	Area        string   `json:"area"`
	Description string   `json:"description"`
	PeopleCount int      `json:"people_count"`
	Subtopics   []string `json:"subtopics"`
}

// New creates a new research search tool
func New(store *records.Store) *Tool {
	return &Tool{store: store}
}

// Name implements interfaces.Tool.Name
func (t *Tool) Name() string {
	return "search_research"
}

// Description implements interfaces.Tool.Description
func (t *Tool) Description() string {
	return "Explore research topics, areas, and projects at the institute."
}

// Parameters implements interfaces.Tool.Parameters
func (t *Tool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"topic": {
			Type:        "string",
			Description: "Research topic to filter by (e.g., 'Philosophy of Physics', 'Decision Theory').",
		},
	}
}

// Execute implements interfaces.Tool.Execute. An empty topic returns the
// full top-level taxonomy.
func (t *Tool) Execute(ctx context.Context, args string) (string, error) {
	var input Input
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("failed to parse input: %w", err)
	}

	topic := strings.ToLower(input.Topic)

	results := []Result{}
	for _, area := range t.store.Research() {
		if topic != "" && !strings.Contains(strings.ToLower(area.Name), topic) {
			continue
		}

		subtopics := area.Subtopics
		if subtopics == nil {
			subtopics = []string{}
		}

		results = append(results, Result{
			Area:        area.Name,
			Description: area.Description,
			PeopleCount: len(area.People),
			Subtopics:   subtopics,
		})
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(payload), nil
}
