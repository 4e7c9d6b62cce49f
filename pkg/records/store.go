package records

import (
	"context"
	"fmt"
)

// Store loads all collections from a Source once and serves them read-only
// for the lifetime of the engine.
type Store struct {
	people   []Person
	research []ResearchArea
	events   []Event
}

// NewStore loads every collection from source. Individual load failures are
// fatal here: the engine should refuse to start over unreadable data rather
// than answer from a silently partial corpus.
func NewStore(ctx context.Context, source Source) (*Store, error) {
	people, err := source.People(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load people records: %w", err)
	}
	research, err := source.Research(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load research records: %w", err)
	}
	events, err := source.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event records: %w", err)
	}

	return &Store{people: people, research: research, events: events}, nil
}

// People returns the people records in scrape order
func (s *Store) People() []Person {
	return s.people
}

// Research returns the research taxonomy in scrape order
func (s *Store) Research() []ResearchArea {
	return s.research
}

// Events returns the event records in scrape order
func (s *Store) Events() []Event {
	return s.events
}
