// Package prompt assembles the system instruction and user turn sent to the
// model. Composition is deterministic: same inputs, same text.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
)

// GraphFallback replaces an empty graph context in the system instruction.
const GraphFallback = "No specific institutional relationships found."

const chunkSeparator = "\n\n---\n\n"

const dateLayout = "Monday, January 02, 2006"

// Composer builds prompts from a fixed persona. The persona text is used
// verbatim as the head of every system instruction.
type Composer struct {
	persona string
}

// NewComposer creates a composer with the given persona text.
func NewComposer(persona string) *Composer {
	return &Composer{persona: persona}
}

// LoadPersona reads a persona markdown file.
func LoadPersona(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("prompt: failed to load persona from %s: %w", path, err)
	}
	return strings.TrimSpace(string(content)), nil
}

// Input carries everything a single composition needs.
type Input struct {
	Query     string
	Date      time.Time
	GraphText string
	Chunks    []interfaces.Chunk
	Tools     []interfaces.ToolDefinition
}

// BuildSystem produces the system instruction: persona, current date, graph
// context, retrieved context and, when tools are supplied, a tool catalog
// with standing permission to call them.
func (c *Composer) BuildSystem(in Input) string {
	graphText := in.GraphText
	if graphText == "" {
		graphText = GraphFallback
	}

	var b strings.Builder
	b.WriteString(c.persona)
	b.WriteString("\n\nCurrent Date: ")
	b.WriteString(in.Date.Format(dateLayout))
	b.WriteString("\n\n---\n### INSTITUTIONAL CONTEXT (GRAPH):\n")
	b.WriteString(graphText)
	b.WriteString("\n---\n### CONTEXT FROM WEBSITE:\n")
	b.WriteString(formatChunks(in.Chunks))
	b.WriteString("\n---")

	if len(in.Tools) > 0 {
		b.WriteString("\n\n### AVAILABLE TOOLS:\n")
		b.WriteString(formatToolCatalog(in.Tools))
		b.WriteString("\nYou have standing permission to call any of these tools whenever they would improve your answer. Call them directly; do not ask the user for permission first.")
	}
	return b.String()
}

// BuildUser produces the user turn.
func (c *Composer) BuildUser(in Input) string {
	return in.Query
}

func formatChunks(chunks []interfaces.Chunk) string {
	if len(chunks) == 0 {
		return "No additional context retrieved."
	}

	entries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		var b strings.Builder
		b.WriteString(chunk.Text)
		for _, field := range []string{"role", "abstract", "description"} {
			if v := chunk.Metadata[field]; v != "" && !strings.Contains(chunk.Text, v) {
				b.WriteString(fmt.Sprintf("\n%s%s: %s", strings.ToUpper(field[:1]), field[1:], v))
			}
		}
		url := chunk.Metadata["url"]
		if url == "" {
			url = "No URL available"
		}
		b.WriteString("\nSource URL: ")
		b.WriteString(url)
		entries = append(entries, b.String())
	}
	return strings.Join(entries, chunkSeparator)
}

func formatToolCatalog(tools []interfaces.ToolDefinition) string {
	var b strings.Builder
	for _, tool := range tools {
		b.WriteString(fmt.Sprintf("- %s: %s\n", tool.Name, tool.Description))
	}
	return b.String()
}
