package records

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileSourceLoadsCollections(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "people.json", `[
		{"name": "Clara Bonatti", "description": "Epistemology", "url": "https://example.org/cb",
		 "metadata": {"role": "Chair", "room": 101, "active": true}}
	]`)
	writeFixture(t, dir, "research.json", `[
		{"name": "Decision Theory", "description": "Choice", "people": ["cb"], "subtopics": ["Risk"]}
	]`)
	writeFixture(t, dir, "raw_events.json", `[
		{"title": "Colloquium", "url": "https://example.org/e1", "scraped_at": "2026-02-01",
		 "metadata": {"date": "2026-02-15", "speaker": "Clara Bonatti"}}
	]`)

	store, err := NewStore(context.Background(), NewFileSource(dir))
	require.NoError(t, err)

	require.Len(t, store.People(), 1)
	require.Len(t, store.Research(), 1)
	require.Len(t, store.Events(), 1)

	person := store.People()[0]
	assert.Equal(t, "Chair", person.Role())
	assert.Equal(t, "101", person.Metadata["room"])
	assert.Equal(t, "true", person.Metadata["active"])

	assert.Equal(t, "2026-02-15", store.Events()[0].Date())
}

func TestFileSourceMissingFilesAreEmpty(t *testing.T) {
	store, err := NewStore(context.Background(), NewFileSource(t.TempDir()))
	require.NoError(t, err)

	assert.Empty(t, store.People())
	assert.Empty(t, store.Research())
	assert.Empty(t, store.Events())
}

func TestFileSourceMalformedJSONIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "people.json", "{not valid json")

	_, err := NewStore(context.Background(), NewFileSource(dir))
	assert.Error(t, err)
}

func TestPersonRoleFallsBackToPosition(t *testing.T) {
	p := Person{Metadata: Metadata{"position": "Postdoc"}}
	assert.Equal(t, "Postdoc", p.Role())

	p = Person{Metadata: Metadata{"role": "Chair", "position": "Professor"}}
	assert.Equal(t, "Chair", p.Role())

	p = Person{Metadata: Metadata{}}
	assert.Equal(t, "", p.Role())
}

func TestMetadataCoercesScalars(t *testing.T) {
	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(`{
		"s": "text", "i": 3, "f": 2.5, "b": false, "n": null,
		"nested": {"dropped": true}, "list": [1, 2]
	}`), &m))

	assert.Equal(t, "text", m["s"])
	assert.Equal(t, "3", m["i"])
	assert.Equal(t, "2.5", m["f"])
	assert.Equal(t, "false", m["b"])
	assert.Equal(t, "", m["n"])
	_, hasNested := m["nested"]
	assert.False(t, hasNested)
	_, hasList := m["list"]
	assert.False(t, hasList)
}
