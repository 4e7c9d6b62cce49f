package config

import (
	"os"
	"strconv"
	"time"
)

// Config represents the global configuration for the assistant engine
type Config struct {
	// LLM configuration
	LLM struct {
		// Provider selects the chat backend: "openai", "anthropic" or "gemini"
		Provider string

		// OpenAI configuration
		OpenAI struct {
			APIKey             string
			Model              string
			DecompositionModel string
			EmbeddingModel     string
			BaseURL            string
			Temperature        float64
			Timeout            time.Duration
		}

		// Anthropic configuration
		Anthropic struct {
			APIKey      string
			Model       string
			BaseURL     string
			Temperature float64
			Timeout     time.Duration
			// UseBedrock routes requests through AWS Bedrock instead of the
			// Anthropic API; credentials come from the ambient AWS config
			UseBedrock    bool
			BedrockModel  string
			BedrockRegion string
		}

		// Gemini configuration
		Gemini struct {
			APIKey      string
			Model       string
			Temperature float64
		}
	}

	// VectorStore configuration
	VectorStore struct {
		Host   string
		Scheme string
		APIKey string
		Class  string
	}

	// Cache configuration for decomposition results
	Cache struct {
		Enabled  bool
		RedisURL string
		Password string
		DB       int
		TTL      time.Duration
	}

	// Records configuration: where the scraped institutional records live
	Records struct {
		// Source is "file" or "supabase"
		Source   string
		DataDir  string
		Supabase struct {
			URL    string
			APIKey string
		}
	}

	// Graph configuration
	Graph struct {
		Path string
	}

	// Prompt configuration
	Prompt struct {
		PersonaPath string
	}

	// Engine configuration
	Engine struct {
		TopK          int
		MaxToolRounds int
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	config := &Config{}

	config.LLM.Provider = getEnv("LLM_PROVIDER", "openai")

	config.LLM.OpenAI.APIKey = getEnv("OPENAI_API_KEY", "")
	config.LLM.OpenAI.Model = getEnv("OPENAI_MODEL", "gpt-4o")
	config.LLM.OpenAI.DecompositionModel = getEnv("OPENAI_DECOMPOSITION_MODEL", "gpt-4o-mini")
	config.LLM.OpenAI.EmbeddingModel = getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small")
	config.LLM.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", "")
	config.LLM.OpenAI.Temperature = getEnvFloat("OPENAI_TEMPERATURE", 0.0)
	config.LLM.OpenAI.Timeout = time.Duration(getEnvInt("OPENAI_TIMEOUT", 60)) * time.Second

	config.LLM.Anthropic.APIKey = getEnv("ANTHROPIC_API_KEY", "")
	config.LLM.Anthropic.Model = getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest")
	config.LLM.Anthropic.BaseURL = getEnv("ANTHROPIC_BASE_URL", "")
	config.LLM.Anthropic.Temperature = getEnvFloat("ANTHROPIC_TEMPERATURE", 0.0)
	config.LLM.Anthropic.Timeout = time.Duration(getEnvInt("ANTHROPIC_TIMEOUT", 60)) * time.Second
	config.LLM.Anthropic.UseBedrock = getEnvBool("ANTHROPIC_USE_BEDROCK", false)
	config.LLM.Anthropic.BedrockModel = getEnv("ANTHROPIC_BEDROCK_MODEL", "anthropic.claude-3-5-sonnet-20241022-v2:0")
	config.LLM.Anthropic.BedrockRegion = getEnv("AWS_REGION", "us-east-1")

	config.LLM.Gemini.APIKey = getEnv("GEMINI_API_KEY", "")
	config.LLM.Gemini.Model = getEnv("GEMINI_MODEL", "gemini-2.0-flash")
	config.LLM.Gemini.Temperature = getEnvFloat("GEMINI_TEMPERATURE", 0.0)

	config.VectorStore.Host = getEnv("WEAVIATE_HOST", "localhost:8080")
	config.VectorStore.Scheme = getEnv("WEAVIATE_SCHEME", "http")
	config.VectorStore.APIKey = getEnv("WEAVIATE_API_KEY", "")
	config.VectorStore.Class = getEnv("WEAVIATE_CLASS", "InstituteDocument")

	config.Cache.Enabled = getEnvBool("DECOMPOSITION_CACHE_ENABLED", false)
	config.Cache.RedisURL = getEnv("REDIS_URL", "localhost:6379")
	config.Cache.Password = getEnv("REDIS_PASSWORD", "")
	config.Cache.DB = getEnvInt("REDIS_DB", 0)
	config.Cache.TTL = time.Duration(getEnvInt("DECOMPOSITION_CACHE_TTL", 3600)) * time.Second

	config.Records.Source = getEnv("RECORDS_SOURCE", "file")
	config.Records.DataDir = getEnv("DATA_DIR", "data")
	config.Records.Supabase.URL = getEnv("SUPABASE_URL", "")
	config.Records.Supabase.APIKey = getEnv("SUPABASE_API_KEY", "")

	config.Graph.Path = getEnv("GRAPH_PATH", "data/graph/institute_graph.md")
	config.Prompt.PersonaPath = getEnv("PERSONA_PATH", "prompts/personality.md")

	config.Engine.TopK = getEnvInt("RETRIEVAL_TOP_K", 3)
	config.Engine.MaxToolRounds = getEnvInt("MAX_TOOL_ROUNDS", 2)

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

// Global instance of the configuration
var globalConfig *Config

func init() {
	globalConfig = LoadFromEnv()
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Reload reloads the configuration from environment variables
func Reload() *Config {
	globalConfig = LoadFromEnv()
	return globalConfig
}
