// Command devchatd serves the DevDocs AI chat backend: it forwards chat
// turns to an LLM provider with automatic context windowing, streams
// responses over SSE, and persists conversations in a pluggable store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/anthropic"
	"github.com/devdocs-ai/devchat/api"
	"github.com/devdocs-ai/devchat/chat"
	"github.com/devdocs-ai/devchat/config"
	"github.com/devdocs-ai/devchat/gemini"
	"github.com/devdocs-ai/devchat/openai"
	"github.com/devdocs-ai/devchat/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stderr
	logger := zerolog.New(out)
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		Backend:     cfg.StoreBackend,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info().Str("backend", cfg.StoreBackend).Msg("conversation store ready")

	primary := anthropic.New(cfg.AnthropicAPIKey)

	secondary, err := newSecondary(ctx, cfg)
	if err != nil {
		return err
	}
	if secondary == nil {
		logger.Info().Msg("no secondary provider configured, fallback disabled")
	} else {
		logger.Info().Str("provider", cfg.SecondaryProvider).Msg("secondary provider ready")
	}

	summarizer := chat.NewSummarizer(primary, cfg.DefaultModel, logger)
	windower := chat.NewWindower(st, summarizer, cfg.SummarizationThreshold)
	generator := chat.NewGenerator(chat.GeneratorConfig{
		Primary:        primary,
		Secondary:      secondary,
		PrimaryModel:   cfg.DefaultModel,
		SecondaryModel: cfg.FallbackModel,
		MaxTokens:      cfg.MaxTokens,
		Temperature:    cfg.Temperature,
		Logger:         logger,
	})

	handler := api.NewHandler(st, windower, generator, logger)
	router := api.NewRouter(logger, handler, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: SSE responses stay open for the duration of a
		// model completion.
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSecondary constructs the fallback provider, or returns nil when its
// credential is absent or a placeholder.
func newSecondary(ctx context.Context, cfg *config.Config) (devchat.Provider, error) {
	key := cfg.SecondaryCredential()
	if key == "" {
		return nil, nil
	}
	switch cfg.SecondaryProvider {
	case "gemini":
		return gemini.New(ctx, key)
	default:
		return openai.New(key), nil
	}
}
