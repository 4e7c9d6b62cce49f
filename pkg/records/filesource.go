package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSource reads the scraper's JSON output files from a data directory:
// people.json, research.json and raw_events.json.
type FileSource struct {
	dir string
}

// NewFileSource creates a source over the given data directory
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// People implements Source.People
func (s *FileSource) People(ctx context.Context) ([]Person, error) {
	var people []Person
	if err := s.load("people.json", &people); err != nil {
		return nil, err
	}
	return people, nil
}

// Research implements Source.Research
func (s *FileSource) Research(ctx context.Context) ([]ResearchArea, error) {
	var areas []ResearchArea
	if err := s.load("research.json", &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// Events implements Source.Events
func (s *FileSource) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := s.load("raw_events.json", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// load unmarshals one collection file into out. A missing file leaves out
// untouched: an absent collection is empty, not broken.
func (s *FileSource) load(filename string, out interface{}) error {
	path := filepath.Join(s.dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
