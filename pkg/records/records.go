// Package records models the structured records produced by the external
// scraping subsystem and loads them read-only for the answering pipeline.
package records

import "context"

// Person is one scraped people-directory record. Metadata carries the
// heterogeneous per-page fields (role, chair, email, room, ...) as-is.
type Person struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url"`
	Metadata    Metadata `json:"metadata"`
}

// Role returns the person's role, falling back to the scraper's "position"
// key when "role" is absent.
func (p Person) Role() string {
	if role := p.Metadata["role"]; role != "" {
		return role
	}
	return p.Metadata["position"]
}

// ResearchArea is one node of the institute's research taxonomy
type ResearchArea struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	People      []string `json:"people"`
	Subtopics   []string `json:"subtopics"`
}

// Event is one scraped event record. Metadata carries date, time_start,
// time_end, location and speaker when the scraper found them.
type Event struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Abstract    string   `json:"abstract"`
	Description string   `json:"description"`
	ScrapedAt   string   `json:"scraped_at"`
	Metadata    Metadata `json:"metadata"`
}

// Date returns the event's raw date string (expected YYYY-MM-DD)
func (e Event) Date() string {
	return e.Metadata["date"]
}

// Source loads the three record collections from wherever the scraper
// published them. Implementations must treat a missing collection as empty,
// not as an error.
type Source interface {
	People(ctx context.Context) ([]Person, error)
	Research(ctx context.Context) ([]ResearchArea, error)
	Events(ctx context.Context) ([]Event, error)
}
