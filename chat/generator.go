package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devdocs-ai/devchat"
)

// Generator invokes the model provider, falling back to a secondary provider
// on non-streaming failures.
type Generator struct {
	primary        devchat.Provider
	secondary      devchat.Provider // nil when not configured
	primaryModel   string
	secondaryModel string
	maxTokens      int
	temperature    float64
	logger         zerolog.Logger
}

// GeneratorConfig wires a Generator. Secondary may be nil.
type GeneratorConfig struct {
	Primary        devchat.Provider
	Secondary      devchat.Provider
	PrimaryModel   string
	SecondaryModel string
	MaxTokens      int
	Temperature    float64
	Logger         zerolog.Logger
}

// NewGenerator creates a Generator from cfg.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		primary:        cfg.Primary,
		secondary:      cfg.Secondary,
		primaryModel:   cfg.PrimaryModel,
		secondaryModel: cfg.SecondaryModel,
		maxTokens:      cfg.MaxTokens,
		temperature:    cfg.Temperature,
		logger:         cfg.Logger,
	}
}

func (g *Generator) request(model string, msgs []devchat.Message, language string) devchat.Request {
	temp := g.temperature
	return devchat.Request{
		Model:        model,
		SystemPrompt: SystemPrompt(language),
		Messages:     msgs,
		MaxTokens:    g.maxTokens,
		Temperature:  &temp,
	}
}

// Generate performs a non-streaming completion. When the primary provider
// fails and a secondary is configured, the entire request is retried against
// the secondary; its error, if any, propagates unchanged.
func (g *Generator) Generate(ctx context.Context, msgs []devchat.Message, language string) (devchat.Completion, error) {
	comp, err := g.primary.Complete(ctx, g.request(g.primaryModel, msgs, language))
	if err == nil {
		return comp, nil
	}
	if g.secondary == nil {
		return devchat.Completion{}, err
	}
	g.logger.Warn().Err(err).Msg("primary provider failed, falling back to secondary")
	return g.secondary.Complete(ctx, g.request(g.secondaryModel, msgs, language))
}

// Stream opens a streaming completion against the primary provider. There is
// no secondary fallback for streaming: mid-stream failures surface as the
// stream's terminal error.
func (g *Generator) Stream(ctx context.Context, msgs []devchat.Message, language string) (devchat.Stream, error) {
	return g.primary.Stream(ctx, g.request(g.primaryModel, msgs, language))
}
