package research

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcmp-ai/assistant/pkg/records"
)

type fixtureSource struct {
	areas []records.ResearchArea
}

func (f *fixtureSource) People(ctx context.Context) ([]records.Person, error) { return nil, nil }
func (f *fixtureSource) Research(ctx context.Context) ([]records.ResearchArea, error) {
	return f.areas, nil
}
func (f *fixtureSource) Events(ctx context.Context) ([]records.Event, error) { return nil, nil }

var fixtures = []records.ResearchArea{
	{
		Name:        "Philosophy of Physics",
		Description: "Foundations of spacetime and quantum theory.",
		People:      []string{"a", "b"},
		Subtopics:   []string{"Spacetime", "Quantum Foundations"},
	},
	{
		Name:        "Decision Theory",
		Description: "Rational choice under uncertainty.",
		People:      []string{"c"},
	},
}

func newTool(t *testing.T, areas []records.ResearchArea) *Tool {
	t.Helper()
	store, err := records.NewStore(context.Background(), &fixtureSource{areas: areas})
	require.NoError(t, err)
	return New(store)
}

func run(t *testing.T, tool *Tool, input Input) []Result {
	t.Helper()
	args, err := json.Marshal(input)
	require.NoError(t, err)

	out, err := tool.Execute(context.Background(), string(args))
	require.NoError(t, err)

	var results []Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	return results
}

func TestEmptyTopicReturnsFullTaxonomy(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{})

	require.Len(t, results, 2)
	assert.Equal(t, "Philosophy of Physics", results[0].Area)
	assert.Equal(t, 2, results[0].PeopleCount)
}

func TestTopicSubstringMatch(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Topic: "decision"})

	require.Len(t, results, 1)
	assert.Equal(t, "Decision Theory", results[0].Area)
}

func TestMissingSubtopicsEncodeAsEmptyArray(t *testing.T) {
	tool := newTool(t, fixtures)

	args, err := json.Marshal(Input{Topic: "decision"})
	require.NoError(t, err)

	out, err := tool.Execute(context.Background(), string(args))
	require.NoError(t, err)
	assert.Contains(t, out, `"subtopics":[]`)
}

func TestUnknownTopicReturnsEmptyList(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Topic: "astrology"})

	assert.Empty(t, results)
}
