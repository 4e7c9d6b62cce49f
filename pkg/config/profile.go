package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Profile is an optional YAML description of one assistant deployment:
// which provider and models to use, where the persona file lives, and the
// retrieval/tool-loop bounds. Environment variables still win for secrets.
type Profile struct {
	Provider           string `mapstructure:"provider"`
	Model              string `mapstructure:"model"`
	DecompositionModel string `mapstructure:"decomposition_model"`
	PersonaPath        string `mapstructure:"persona_path"`
	GraphPath          string `mapstructure:"graph_path"`
	DataDir            string `mapstructure:"data_dir"`
	TopK               int    `mapstructure:"top_k"`
	MaxToolRounds      int    `mapstructure:"max_tool_rounds"`
}

// LoadProfile reads an assistant profile from a YAML file
func LoadProfile(path string) (*Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var profile Profile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	return &profile, nil
}

// Apply overlays the non-empty profile values onto config
func (p *Profile) Apply(config *Config) {
	if p.Provider != "" {
		config.LLM.Provider = p.Provider
	}
	if p.Model != "" {
		switch config.LLM.Provider {
		case "anthropic":
			config.LLM.Anthropic.Model = p.Model
		case "gemini":
			config.LLM.Gemini.Model = p.Model
		default:
			config.LLM.OpenAI.Model = p.Model
		}
	}
	if p.DecompositionModel != "" {
		config.LLM.OpenAI.DecompositionModel = p.DecompositionModel
	}
	if p.PersonaPath != "" {
		config.Prompt.PersonaPath = p.PersonaPath
	}
	if p.GraphPath != "" {
		config.Graph.Path = p.GraphPath
	}
	if p.DataDir != "" {
		config.Records.DataDir = p.DataDir
	}
	if p.TopK > 0 {
		config.Engine.TopK = p.TopK
	}
	if p.MaxToolRounds > 0 {
		config.Engine.MaxToolRounds = p.MaxToolRounds
	}
}
