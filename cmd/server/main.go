// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/sozercan/codelens/internal/analyzer"
	"github.com/sozercan/codelens/internal/config"
	"github.com/sozercan/codelens/internal/llm"
	"github.com/sozercan/codelens/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	var llmProvider llm.Provider
	if cfg.OpenAI.Enabled() {
		provider, err := llm.NewOpenAI(&cfg.OpenAI)
		if err != nil {
			log.Fatalf("failed to create LLM provider: %v", err)
		}
		llmProvider = provider
	} else {
		slog.Info("No OpenAI API key configured, model suggestions disabled")
	}

	analyzer := analyzer.New(llmProvider, cfg.Analyzer)

	srv, err := server.New(*cfg, analyzer)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(context.Background()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
