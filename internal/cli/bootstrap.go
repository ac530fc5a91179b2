// Package cli assembles the application components and provides the
// interactive chat harness.
package cli

import (
	"context"
	"fmt"

	"tripmate/internal/config"
	"tripmate/internal/embedding"
	"tripmate/internal/engine"
	"tripmate/internal/index"
	"tripmate/internal/ingest"
	"tripmate/internal/llm"
	"tripmate/internal/memory"
	"tripmate/internal/session"
)

// Runtime holds the assembled application components.
type Runtime struct {
	Engine   *engine.Engine
	Pipeline *ingest.Pipeline
	Index    *index.Index
	Sessions session.Store

	closers []func() error
}

// Close releases held resources.
func (r *Runtime) Close() {
	for _, closer := range r.closers {
		_ = closer()
	}
}

// Bootstrap builds the engine, ingestion pipeline and stores from config.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	embedder := embedding.NewOpenAIClient(embedding.Options{
		BaseURL:        cfg.Embedding.BaseURL,
		APIKey:         cfg.Embedding.APIKey,
		Model:          cfg.Embedding.Model,
		Dimension:      cfg.Embedding.Dimension,
		TimeoutSeconds: cfg.Embedding.TimeoutSeconds,
		MaxRetries:     cfg.Embedding.MaxRetries,
	})

	completer := llm.New(
		cfg.Model.APIKey,
		cfg.Model.BaseURL,
		cfg.Model.Model,
		cfg.Model.Temperature,
		cfg.Model.MaxTokens,
	)

	sessions, err := session.NewSQLiteStore(cfg.Sessions.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	ix := index.LoadOrInit(ctx, cfg.Index.Path, embedder)
	conversation := memory.NewConversation()

	eng := engine.New(sessions, conversation, ix, embedder, completer, cfg.Booking.BaseURL)
	pipeline := ingest.New(ix, embedder)

	return &Runtime{
		Engine:   eng,
		Pipeline: pipeline,
		Index:    ix,
		Sessions: sessions,
		closers:  []func() error{sessions.Close},
	}, nil
}
