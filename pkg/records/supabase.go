package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// SupabaseSource reads the scraper's collections from Supabase tables
// (people, research, events) carrying the same JSON shapes as the files.
type SupabaseSource struct {
	client *supabase.Client
}

// NewSupabaseSource creates a source over a Supabase project
func NewSupabaseSource(url, apiKey string) (*SupabaseSource, error) {
	client, err := supabase.NewClient(url, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &SupabaseSource{client: client}, nil
}

// People implements Source.People
func (s *SupabaseSource) People(ctx context.Context) ([]Person, error) {
	var people []Person
	if err := s.selectAll("people", &people); err != nil {
		return nil, err
	}
	return people, nil
}

// Research implements Source.Research
func (s *SupabaseSource) Research(ctx context.Context) ([]ResearchArea, error) {
	var areas []ResearchArea
	if err := s.selectAll("research", &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// Events implements Source.Events
func (s *SupabaseSource) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := s.selectAll("events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *SupabaseSource) selectAll(table string, out interface{}) error {
	resp, _, err := s.client.From(table).Select("*", "", false).Execute()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("failed to parse %s rows: %w", table, err)
	}
	return nil
}
