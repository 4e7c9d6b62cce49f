// Package people implements the search_people tool over the scraped
// people-directory records.
package people

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/records"
)

const maxResults = 10

// Tool implements interfaces.Tool for people search
type Tool struct {
	store *records.Store
}

// Input represents the input for the people search tool
type Input struct {
	Query      string `json:"query"`
	RoleFilter string `json:"role_filter,omitempty"`
}

// Result is one person row returned to the model
type Result struct {
	Name              string `json:"name"`
	Role              string `json:"role"`
	Chair             string `json:"chair"`
	URL               string `json:"url"`
	ImageURL          string `json:"image_url,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Room              string `json:"room,omitempty"`
	Website           string `json:"website,omitempty"`
	Description       string `json:"description"`
	ResearchInterests string `json:"research_interests,omitempty"`
}

// New creates a new people search tool
func New(store *records.Store) *Tool {
	return &Tool{store: store}
}

// Name implements interfaces.Tool.Name
func (t *Tool) Name() string {
	return "search_people"
}

// Description implements interfaces.Tool.Description
func (t *Tool) Description() string {
	return "Search for people, faculty, and researchers at the institute. Use this to find contact info, roles, or research interests of specific individuals."
}

// Parameters implements interfaces.Tool.Parameters
func (t *Tool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"query": {
			Type:        "string",
			Description: "Name or keyword to search for (e.g., 'Julian Nida-Ruemelin', 'Logic').",
			Required:    true,
		},
		"role_filter": {
			Type:        "string",
			Description: "Optional filter for role (e.g., 'Chair', 'Postdoc', 'Fellow').",
		},
	}
}

// Execute implements interfaces.Tool.Execute. Matching is case-insensitive
// substring against name and description, in record order, capped at 10.
func (t *Tool) Execute(ctx context.Context, args string) (string, error) {
	var input Input
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("failed to parse input: %w", err)
	}

	query := strings.ToLower(input.Query)
	roleFilter := strings.ToLower(input.RoleFilter)

	results := []Result{}
	for _, person := range t.store.People() {
		role := person.Role()

		if roleFilter != "" && !strings.Contains(strings.ToLower(role), roleFilter) {
			continue
		}

		name := strings.ToLower(person.Name)
		description := strings.ToLower(person.Description)
		if !strings.Contains(name, query) && !strings.Contains(description, query) {
			continue
		}

		displayRole := role
		if displayRole == "" {
			displayRole = "Unknown"
		}
		chair := person.Metadata["chair"]
		if chair == "" {
			chair = "Unknown"
		}

		results = append(results, Result{
			Name:              person.Name,
			Role:              displayRole,
			Chair:             chair,
			URL:               person.URL,
			ImageURL:          person.ImageURL,
			Email:             person.Metadata["email"],
			Phone:             person.Metadata["phone"],
			Room:              person.Metadata["room"],
			Website:           person.Metadata["website"],
			Description:       person.Description,
			ResearchInterests: person.Metadata["research_interests_text"],
		})

		if len(results) == maxResults {
			break
		}
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(payload), nil
}
