// Package tracing wraps chat model clients in OpenTelemetry spans.
package tracing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
)

const tracerName = "github.com/mcmp-ai/assistant/pkg/tracing"

// TracedLLM decorates an LLM with spans around every call.
type TracedLLM struct {
	llm    interfaces.LLM
	tracer trace.Tracer
}

// NewTracedLLM wraps an LLM so that Generate and Chat calls are traced.
func NewTracedLLM(llm interfaces.LLM) interfaces.LLM {
	return &TracedLLM{
		llm:    llm,
		tracer: otel.Tracer(tracerName),
	}
}

// Name implements interfaces.LLM.
func (m *TracedLLM) Name() string {
	return m.llm.Name()
}

// Generate generates text from a prompt with tracing.
func (m *TracedLLM) Generate(ctx context.Context, prompt string, options ...interfaces.GenerateOption) (string, error) {
	ctx, span := m.tracer.Start(ctx, "llm.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.provider", m.llm.Name()),
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("prompt.hash", hashString(prompt)),
	)

	start := time.Now()
	response, err := m.llm.Generate(ctx, prompt, options...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(
		attribute.Int("response.length", len(response)),
		attribute.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return response, nil
}

// Chat sends a conversation with tracing.
func (m *TracedLLM) Chat(ctx context.Context, messages []interfaces.Message, tools []interfaces.ToolDefinition, options ...interfaces.GenerateOption) (*interfaces.ChatResponse, error) {
	ctx, span := m.tracer.Start(ctx, "llm.chat")
	defer span.End()

	toolNames := make([]string, 0, len(tools))
	for _, tool := range tools {
		toolNames = append(toolNames, tool.Name)
	}
	span.SetAttributes(
		attribute.String("llm.provider", m.llm.Name()),
		attribute.Int("messages.count", len(messages)),
		attribute.StringSlice("tools", toolNames),
	)

	start := time.Now()
	resp, err := m.llm.Chat(ctx, messages, tools, options...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("response.length", len(resp.Content)),
		attribute.Int("response.tool_calls", len(resp.ToolCalls)),
		attribute.String("response.stop_reason", resp.StopReason),
		attribute.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return resp, nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
