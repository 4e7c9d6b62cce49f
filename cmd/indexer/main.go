// Command indexer loads scraped event records and upserts them into the
// vector store so the assistant can retrieve them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mcmp-ai/assistant/pkg/config"
	"github.com/mcmp-ai/assistant/pkg/embedding"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
	"github.com/mcmp-ai/assistant/pkg/records"
	weaviatestore "github.com/mcmp-ai/assistant/pkg/vectorstore/weaviate"
)

func main() {
	dataDir := flag.String("data", "", "records directory; defaults to the configured data dir")
	flag.Parse()

	ctx := context.Background()
	logger := logging.New()
	cfg := config.Get()

	dir := cfg.Records.DataDir
	if *dataDir != "" {
		dir = *dataDir
	}

	store, err := records.NewStore(ctx, records.NewFileSource(dir))
	if err != nil {
		logger.Error(ctx, "Failed to load records", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	events := store.Events()
	if len(events) == 0 {
		logger.Warn(ctx, "No events to index", map[string]interface{}{"dir": dir})
		return
	}

	embedder, err := embedding.NewOpenAIEmbedder(cfg.LLM.OpenAI.APIKey,
		embedding.WithModel(cfg.LLM.OpenAI.EmbeddingModel))
	if err != nil {
		logger.Error(ctx, "Failed to create embedder", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	vectorStore, err := weaviatestore.New(&weaviatestore.Config{
		Host:   cfg.VectorStore.Host,
		Scheme: cfg.VectorStore.Scheme,
		APIKey: cfg.VectorStore.APIKey,
		Class:  cfg.VectorStore.Class,
	}, weaviatestore.WithEmbedder(embedder), weaviatestore.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "Failed to create vector store", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	docs := buildDocuments(events)
	if err := vectorStore.Store(ctx, docs); err != nil {
		logger.Error(ctx, "Failed to index events", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	logger.Info(ctx, "Indexed events into vector store", map[string]interface{}{
		"count": len(docs),
		"class": cfg.VectorStore.Class,
	})
	fmt.Printf("Indexed %d events\n", len(docs))
}

// buildDocuments turns events into embeddable documents. Title and
// description form the indexed text; provenance fields travel as metadata.
func buildDocuments(events []records.Event) []interfaces.Document {
	docs := make([]interfaces.Document, 0, len(events))
	for _, event := range events {
		description := event.Description
		if description == "" {
			description = "No description available"
		}

		metadata := map[string]string{
			"title":      event.Title,
			"url":        event.URL,
			"scraped_at": event.ScrapedAt,
		}
		for k, v := range event.Metadata {
			metadata["meta_"+strings.ReplaceAll(k, " ", "_")] = v
		}

		docs = append(docs, interfaces.Document{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(event.URL+event.Title)).String(),
			Content:  fmt.Sprintf("Title: %s\n\nDescription: %s", event.Title, description),
			Metadata: metadata,
		})
	}
	return docs
}
