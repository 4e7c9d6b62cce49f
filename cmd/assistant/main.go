// Command assistant answers institutional questions over the indexed
// corpus. Run with -q for a one-shot answer or without flags for an
// interactive chat session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mcmp-ai/assistant/pkg/cache"
	"github.com/mcmp-ai/assistant/pkg/config"
	"github.com/mcmp-ai/assistant/pkg/embedding"
	"github.com/mcmp-ai/assistant/pkg/engine"
	"github.com/mcmp-ai/assistant/pkg/graph"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/llm"
	openaillm "github.com/mcmp-ai/assistant/pkg/llm/openai"
	"github.com/mcmp-ai/assistant/pkg/logging"
	"github.com/mcmp-ai/assistant/pkg/prompt"
	"github.com/mcmp-ai/assistant/pkg/records"
	"github.com/mcmp-ai/assistant/pkg/retrieval"
	"github.com/mcmp-ai/assistant/pkg/tools"
	"github.com/mcmp-ai/assistant/pkg/tools/events"
	"github.com/mcmp-ai/assistant/pkg/tools/graphsearch"
	"github.com/mcmp-ai/assistant/pkg/tools/people"
	"github.com/mcmp-ai/assistant/pkg/tools/research"
	"github.com/mcmp-ai/assistant/pkg/tracing"
	weaviatestore "github.com/mcmp-ai/assistant/pkg/vectorstore/weaviate"
)

func main() {
	query := flag.String("q", "", "one-shot question; omit for interactive mode")
	profilePath := flag.String("profile", "", "optional YAML profile overriding env configuration")
	flag.Parse()

	ctx := context.Background()
	logger := logging.New()
	cfg := config.Get()

	if *profilePath != "" {
		profile, err := config.LoadProfile(*profilePath)
		if err != nil {
			logger.Error(ctx, "Failed to load profile", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		profile.Apply(cfg)
	}

	eng, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize engine", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	if *query != "" {
		fmt.Println(eng.Answer(ctx, *query, nil))
		return
	}
	runInteractive(ctx, eng)
}

func buildEngine(ctx context.Context, cfg *config.Config, logger logging.Logger) (*engine.Engine, error) {
	model, err := llm.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	model = tracing.NewTracedLLM(model)

	embedder, err := embedding.NewOpenAIEmbedder(cfg.LLM.OpenAI.APIKey,
		embedding.WithModel(cfg.LLM.OpenAI.EmbeddingModel))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := weaviatestore.New(&weaviatestore.Config{
		Host:   cfg.VectorStore.Host,
		Scheme: cfg.VectorStore.Scheme,
		APIKey: cfg.VectorStore.APIKey,
		Class:  cfg.VectorStore.Class,
	}, weaviatestore.WithEmbedder(embedder), weaviatestore.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	retrieverOpts := []retrieval.Option{
		retrieval.WithLogger(logger),
		retrieval.WithTopK(cfg.Engine.TopK),
	}
	if cfg.Cache.Enabled {
		retrieverOpts = append(retrieverOpts, retrieval.WithCache(
			cache.New(cfg.Cache.RedisURL, cfg.Cache.Password, cfg.Cache.DB,
				cache.WithTTL(cfg.Cache.TTL),
				cache.WithLogger(logger)),
		))
	}
	// Decomposition is a cheap, high-volume call; route it to the lighter
	// model when one is configured.
	decompositionModel := model
	if cfg.LLM.Provider == "openai" && cfg.LLM.OpenAI.DecompositionModel != "" {
		light, err := openaillm.NewClient(cfg.LLM.OpenAI.APIKey,
			openaillm.WithModel(cfg.LLM.OpenAI.DecompositionModel),
			openaillm.WithLogger(logger),
			openaillm.WithRetry())
		if err != nil {
			return nil, err
		}
		decompositionModel = tracing.NewTracedLLM(light)
	}
	retriever := retrieval.New(decompositionModel, store, retrieverOpts...)

	index := graph.Load(cfg.Graph.Path, graph.WithLogger(logger))

	source, err := recordSource(cfg)
	if err != nil {
		return nil, err
	}
	recordStore, err := records.NewStore(ctx, source)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(tools.WithLogger(logger))
	registry.Register(people.New(recordStore))
	registry.Register(research.New(recordStore))
	registry.Register(events.New(recordStore))
	registry.Register(graphsearch.New(index))

	persona, err := prompt.LoadPersona(cfg.Prompt.PersonaPath)
	if err != nil {
		return nil, err
	}

	return engine.New(model, retriever, index, prompt.NewComposer(persona),
		engine.WithRegistry(registry),
		engine.WithLogger(logger),
		engine.WithMaxToolRounds(cfg.Engine.MaxToolRounds),
	)
}

func recordSource(cfg *config.Config) (records.Source, error) {
	switch cfg.Records.Source {
	case "supabase":
		return records.NewSupabaseSource(cfg.Records.Supabase.URL, cfg.Records.Supabase.APIKey)
	default:
		return records.NewFileSource(cfg.Records.DataDir), nil
	}
}

func runInteractive(ctx context.Context, eng *engine.Engine) {
	fmt.Println("Institutional assistant. Type 'exit' or 'quit' to end the session.")

	var history []interfaces.Message
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit":
			return
		case "clear":
			history = nil
			fmt.Println("Conversation cleared.")
			continue
		}

		answer := eng.Answer(ctx, input, history)
		fmt.Println(answer)

		history = append(history,
			interfaces.Message{Role: interfaces.MessageRoleUser, Content: input},
			interfaces.Message{Role: interfaces.MessageRoleAssistant, Content: answer},
		)
	}
}
