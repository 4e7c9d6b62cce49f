package people

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcmp-ai/assistant/pkg/records"
)

type fixtureSource struct {
	people []records.Person
}

func (f *fixtureSource) People(ctx context.Context) ([]records.Person, error) {
	return f.people, nil
}
func (f *fixtureSource) Research(ctx context.Context) ([]records.ResearchArea, error) {
	return nil, nil
}
func (f *fixtureSource) Events(ctx context.Context) ([]records.Event, error) { return nil, nil }

func newTool(t *testing.T, people []records.Person) *Tool {
	t.Helper()
	store, err := records.NewStore(context.Background(), &fixtureSource{people: people})
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

var fixtures = []records.Person{
	{
		Name:        "Prof. Dr. Clara Bonatti",
		Description: "Works on formal epistemology.",
		URL:         "https://example.org/bonatti",
		Metadata:    records.Metadata{"role": "Chair", "email": "bonatti@example.org"},
	},
	{
		Name:        "Dr. Jonas Weber",
		Description: "Postdoc in decision theory.",
		Metadata:    records.Metadata{"position": "Postdoc"},
	},
	{
		Name:        "Maria Lang",
		Description: "Researches modal logic.",
		Metadata:    records.Metadata{},
	},
}

func TestSearchByName(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: "Bonatti"})

	require.Len(t, results, 1)
	assert.Equal(t, "Prof. Dr. Clara Bonatti", results[0].Name)
	assert.Equal(t, "Chair", results[0].Role)
	assert.Equal(t, "bonatti@example.org", results[0].Email)
}

func TestSearchNoMatchReturnsEmptyList(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: "NoSuchPerson"})

	assert.Empty(t, results)
}

func TestSearchMatchesDescription(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: "modal logic"})

	require.Len(t, results, 1)
	assert.Equal(t, "Maria Lang", results[0].Name)
}

func TestRoleFallsBackToPosition(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: "Weber"})

	require.Len(t, results, 1)
	assert.Equal(t, "Postdoc", results[0].Role)
}

func TestMissingRoleAndChairDisplayUnknown(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: "Lang"})

	require.Len(t, results, 1)
	assert.Equal(t, "Unknown", results[0].Role)
	assert.Equal(t, "Unknown", results[0].Chair)
}

func TestRoleFilter(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: "d", RoleFilter: "postdoc"})

	require.Len(t, results, 1)
	assert.Equal(t, "Dr. Jonas Weber", results[0].Name)
}

func TestEmptyQueryMatchesEveryone(t *testing.T) {
	tool := newTool(t, fixtures)

	results := run(t, tool, Input{Query: ""})

	assert.Len(t, results, len(fixtures))
}
