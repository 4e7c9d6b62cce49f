package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `provider: anthropic
model: claude-3-5-haiku-latest
persona_path: custom/persona.md
top_k: 5
max_tool_rounds: 1
`

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profileYAML), 0o644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", profile.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", profile.Model)
	assert.Equal(t, "custom/persona.md", profile.PersonaPath)
	assert.Equal(t, 5, profile.TopK)
	assert.Equal(t, 1, profile.MaxToolRounds)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProfileApplyOverlaysNonEmptyValues(t *testing.T) {
	cfg := LoadFromEnv()
	original := cfg.LLM.OpenAI.Model

	profile := &Profile{
		Provider:      "anthropic",
		Model:         "claude-3-5-haiku-latest",
		TopK:          7,
		MaxToolRounds: 1,
	}
	profile.Apply(cfg)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Anthropic.Model)
	assert.Equal(t, original, cfg.LLM.OpenAI.Model)
	assert.Equal(t, 7, cfg.Engine.TopK)
	assert.Equal(t, 1, cfg.Engine.MaxToolRounds)
}

func TestProfileApplyLeavesUnsetFieldsAlone(t *testing.T) {
	cfg := LoadFromEnv()
	personaPath := cfg.Prompt.PersonaPath

	(&Profile{}).Apply(cfg)

	assert.Equal(t, personaPath, cfg.Prompt.PersonaPath)
}
