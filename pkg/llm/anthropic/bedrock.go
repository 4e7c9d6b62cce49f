package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/mcmp-ai/assistant/pkg/logging"
)

// BedrockConfig routes Anthropic requests through AWS Bedrock. Credentials
// come from the aws.Config, loaded via config.LoadDefaultConfig or any other
// AWS SDK mechanism.
type BedrockConfig struct {
	Region string

	client *bedrockruntime.Client
	logger logging.Logger
}

// bedrockRequest is the Anthropic request body in Bedrock form: the model
// travels in the InvokeModel input and the version field is fixed.
type bedrockRequest struct {
	MaxTokens        int       `json:"max_tokens"`
	Messages         []Message `json:"messages"`
	System           string    `json:"system,omitempty"`
	Tools            []Tool    `json:"tools,omitempty"`
	Temperature      float64   `json:"temperature,omitempty"`
	TopP             float64   `json:"top_p,omitempty"`
	StopSequences    []string  `json:"stop_sequences,omitempty"`
	AnthropicVersion string    `json:"anthropic_version"`
}

// NewBedrockConfig creates a Bedrock transport from an existing AWS config.
func NewBedrockConfig(ctx context.Context, awsConfig aws.Config) (*BedrockConfig, error) {
	if awsConfig.Region == "" {
		return nil, fmt.Errorf("anthropic: region is required in AWS config")
	}

	bc := &BedrockConfig{
		Region: awsConfig.Region,
		client: bedrockruntime.NewFromConfig(awsConfig),
		logger: logging.New(),
	}
	bc.logger.Info(ctx, "Configured AWS Bedrock transport", map[string]interface{}{
		"region": awsConfig.Region,
	})
	return bc, nil
}

// InvokeModel sends a completion request to a Bedrock-hosted Anthropic model.
func (bc *BedrockConfig) InvokeModel(ctx context.Context, modelID string, req *CompletionRequest) (*CompletionResponse, error) {
	body, err := json.Marshal(bedrockRequest{
		MaxTokens:        req.MaxTokens,
		Messages:         req.Messages,
		System:           req.System,
		Tools:            req.Tools,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		StopSequences:    req.StopSequences,
		AnthropicVersion: "bedrock-2023-05-31",
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to marshal bedrock request: %w", err)
	}

	bc.logger.Debug(ctx, "Invoking Bedrock model", map[string]interface{}{
		"modelID": modelID,
		"region":  bc.Region,
	})

	output, err := bc.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		bc.logger.Error(ctx, "Failed to invoke Bedrock model", map[string]interface{}{
			"error":   err.Error(),
			"modelID": modelID,
			"region":  bc.Region,
		})
		return nil, fmt.Errorf("anthropic: failed to invoke Bedrock model: %w", err)
	}

	// Bedrock returns the standard Anthropic response body.
	var resp CompletionResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("anthropic: failed to parse Bedrock response: %w", err)
	}

	bc.logger.Debug(ctx, "Received Bedrock response", map[string]interface{}{
		"modelID":      modelID,
		"stopReason":   resp.StopReason,
		"inputTokens":  resp.Usage.InputTokens,
		"outputTokens": resp.Usage.OutputTokens,
	})
	return &resp, nil
}
