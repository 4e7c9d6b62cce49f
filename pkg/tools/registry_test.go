package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
)

type stubTool struct {
	name   string
	params map[string]interfaces.ParameterSpec
	result string
	err    error
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return s.name + " description" }
func (s *stubTool) Parameters() map[string]interfaces.ParameterSpec {
	return s.params
}
func (s *stubTool) Execute(ctx context.Context, args string) (string, error) {
	return s.result, s.err
}

func TestRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "alpha"})

	tool, ok := registry.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", tool.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "zeta"})
	registry.Register(&stubTool{name: "alpha"})
	registry.Register(&stubTool{name: "mid"})

	list := registry.List()
	require.Len(t, list, 3)
	assert.Equal(t, "zeta", list[0].Name())
	assert.Equal(t, "alpha", list[1].Name())
	assert.Equal(t, "mid", list[2].Name())
}

func TestDefinitionShape(t *testing.T) {
	tool := &stubTool{
		name: "search",
		params: map[string]interfaces.ParameterSpec{
			"query": {Type: "string", Description: "what to find", Required: true},
			"range": {Type: "string", Enum: []string{"upcoming", "today"}},
		},
	}

	def := Definition(tool)

	assert.Equal(t, "search", def.Name)
	assert.Equal(t, "object", def.InputSchema["type"])

	properties, ok := def.InputSchema["properties"].(map[string]interface{})
	require.True(t, ok)
	query, ok := properties["query"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "what to find", query["description"])

	rangeSpec, ok := properties["range"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"upcoming", "today"}, rangeSpec["enum"])

	assert.Equal(t, []string{"query"}, def.InputSchema["required"])
}

func TestExecuteUnknownToolReturnsErrorResult(t *testing.T) {
	registry := NewRegistry()

	out := registry.Execute(context.Background(), "nope", "{}")

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload["error"], "nope")
}

func TestExecuteToolFailureReturnsErrorResult(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "broken", err: errors.New("backend unavailable")})

	out := registry.Execute(context.Background(), "broken", "{}")

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "backend unavailable", payload["error"])
}

func TestExecutePassesThroughToolResult(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "ok", result: `[{"title":"x"}]`})

	out := registry.Execute(context.Background(), "ok", "{}")

	assert.Equal(t, `[{"title":"x"}]`, out)
}
