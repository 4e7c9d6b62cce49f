// Package llm selects and constructs a chat model backend from configuration.
package llm

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/mcmp-ai/assistant/pkg/config"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/llm/anthropic"
	"github.com/mcmp-ai/assistant/pkg/llm/gemini"
	"github.com/mcmp-ai/assistant/pkg/llm/openai"
	"github.com/mcmp-ai/assistant/pkg/logging"
)

// New builds the LLM client named by cfg.LLM.Provider. A missing credential
// for the selected provider is a construction error, not a runtime one.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (interfaces.LLM, error) {
	switch cfg.LLM.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithModel(cfg.LLM.OpenAI.Model),
			openai.WithLogger(logger),
			openai.WithRetry(),
		}
		if cfg.LLM.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.LLM.OpenAI.BaseURL))
		}
		return openai.NewClient(cfg.LLM.OpenAI.APIKey, opts...)

	case "anthropic":
		opts := []anthropic.Option{
			anthropic.WithModel(cfg.LLM.Anthropic.Model),
			anthropic.WithLogger(logger),
			anthropic.WithRetry(),
		}
		if cfg.LLM.Anthropic.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.LLM.Anthropic.BaseURL))
		}
		if cfg.LLM.Anthropic.UseBedrock {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.LLM.Anthropic.BedrockRegion))
			if err != nil {
				return nil, fmt.Errorf("llm: failed to load AWS config: %w", err)
			}
			bedrock, err := anthropic.NewBedrockConfig(ctx, awsCfg)
			if err != nil {
				return nil, err
			}
			opts = append(opts,
				anthropic.WithBedrock(bedrock),
				anthropic.WithModel(cfg.LLM.Anthropic.BedrockModel),
			)
		}
		return anthropic.NewClient(cfg.LLM.Anthropic.APIKey, opts...)

	case "gemini":
		return gemini.NewClient(ctx, cfg.LLM.Gemini.APIKey,
			gemini.WithModel(cfg.LLM.Gemini.Model),
			gemini.WithLogger(logger),
			gemini.WithRetry(),
		)

	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLM.Provider)
	}
}
