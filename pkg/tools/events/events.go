// Package events implements the get_events tool over the scraped event
// records, with relative presets and explicit date-range filtering.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/records"
)

const (
	maxResults = 10
	dateLayout = "2006-01-02"

	// sortKeyUnparsable sorts events with unusable dates after every real date
	sortKeyUnparsable = "9999-99-99"
)

// Tool implements interfaces.Tool for event search
type Tool struct {
	store *records.Store
	now   func() time.Time
}

// Input represents the input for the events tool
type Input struct {
	DateRange  string `json:"date_range,omitempty"`
	Query      string `json:"query,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	TypeFilter string `json:"type_filter,omitempty"`
}

// Result is one event row returned to the model
type Result struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Speaker     string `json:"speaker,omitempty"`
	URL         string `json:"url"`
	Abstract    string `json:"abstract,omitempty"`
	Description string `json:"description,omitempty"`
}

// Option represents an option for configuring the events tool
type Option func(*Tool)

// WithClock overrides the time source used for relative date presets
func WithClock(now func() time.Time) Option {
	return func(t *Tool) {
		t.now = now
	}
}

// New creates a new events tool
func New(store *records.Store, options ...Option) *Tool {
	tool := &Tool{
		store: store,
		now:   time.Now,
	}

	for _, option := range options {
		option(tool)
	}

	return tool
}

// Name implements interfaces.Tool.Name
func (t *Tool) Name() string {
	return "get_events"
}

// Description implements interfaces.Tool.Description
func (t *Tool) Description() string {
	return "Get a list of upcoming or past events, talks, and workshops. Can filter by specific date ranges."
}

// Parameters implements interfaces.Tool.Parameters
func (t *Tool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"date_range": {
			Type:        "string",
			Description: "Preset relative time range. Default is 'upcoming'. Ignored if specific dates are provided.",
			Enum:        []string{"upcoming", "today", "this_week"},
		},
		"query": {
			Type:        "string",
			Description: "Optional keyword search in title, abstract, or description.",
		},
		"start_date": {
			Type:        "string",
			Description: "Start date for filtering events (format: YYYY-MM-DD). Useful for queries like 'events after Oct 5th' or 'events in December'.",
		},
		"end_date": {
			Type:        "string",
			Description: "End date for filtering events (format: YYYY-MM-DD). Use with start_date for specific ranges.",
		},
		"type_filter": {
			Type:        "string",
			Description: "Filter by event type (e.g., 'Talk', 'Workshop').",
		},
	}
}

// Execute implements interfaces.Tool.Execute. Explicit start/end dates take
// precedence over the relative presets; events whose date cannot be parsed
// pass date filtering untouched (fail-open) and sort last.
func (t *Tool) Execute(ctx context.Context, args string) (string, error) {
	var input Input
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("failed to parse input: %w", err)
	}

	now := t.now()

	var startAt, endAt *time.Time
	if input.StartDate != "" {
		if parsed, err := time.Parse(dateLayout, input.StartDate); err == nil {
			startAt = &parsed
		}
	}
	if input.EndDate != "" {
		if parsed, err := time.Parse(dateLayout, input.EndDate); err == nil {
			// Inclusive through the end of the day
			end := parsed.Add(24*time.Hour - time.Second)
			endAt = &end
		}
	}

	query := strings.ToLower(input.Query)
	typeFilter := strings.ToLower(input.TypeFilter)

	results := []Result{}
	for _, event := range t.store.Events() {
		if query != "" {
			text := strings.ToLower(event.Title + " " + event.Abstract + " " + event.Description)
			if !strings.Contains(text, query) {
				continue
			}
		}

		if typeFilter != "" && !strings.Contains(strings.ToLower(event.Title), typeFilter) {
			continue
		}

		if !t.matchesDate(event.Date(), input.DateRange, startAt, endAt, now) {
			continue
		}

		meta := event.Metadata
		results = append(results, Result{
			Title:       event.Title,
			Date:        event.Date(),
			Time:        fmt.Sprintf("%s - %s", meta["time_start"], meta["time_end"]),
			Location:    meta["location"],
			Speaker:     meta["speaker"],
			URL:         event.URL,
			Abstract:    event.Abstract,
			Description: event.Description,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return sortKey(results[a].Date) < sortKey(results[b].Date)
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(payload), nil
}

// matchesDate applies the date filters to one event. Explicit bounds win
// over presets; an empty or unparsable event date always passes.
func (t *Tool) matchesDate(dateStr, dateRange string, startAt, endAt *time.Time, now time.Time) bool {
	if dateStr == "" {
		return true
	}

	eventDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return true
	}

	if startAt != nil || endAt != nil {
		if startAt != nil && eventDate.Before(*startAt) {
			return false
		}
		if endAt != nil && eventDate.After(*endAt) {
			return false
		}
		return true
	}

	switch dateRange {
	case "today":
		return eventDate.Year() == now.Year() && eventDate.YearDay() == now.YearDay()
	case "this_week":
		// Whole-day delta, floored
		days := math.Floor(eventDate.Sub(now).Hours() / 24)
		return days >= 0 && days <= 7
	case "upcoming", "":
		return !eventDate.Before(now)
	default:
		// Unrecognized presets apply no date filter
		return true
	}
}

func sortKey(date string) string {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return sortKeyUnparsable
	}
	return date
}
