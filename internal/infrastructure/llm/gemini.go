// Package llm adapts hosted language models to the assistant and report services.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"github.com/partnerpro/product-manager/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash"

// ErrEmptyResponse is returned when the model answers without any text
var ErrEmptyResponse = errors.New("llm: empty response")

// ErrMissingAPIKey is returned by NewGemini when no API key is configured
var ErrMissingAPIKey = errors.New("llm: api key is required")

// Gemini implements the application LLM client on top of the Gemini API
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewGemini creates a Gemini client. The client holds a connection pool and must be closed.
func NewGemini(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Gemini{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// Close releases the underlying client
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate sends prompt, with an optional system instruction, and returns the reply text
func (g *Gemini) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "llm.generate",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("llm.model", g.model),
		telemetry.WithAttribute("llm.prompt_chars", len(prompt)),
	)
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(g.temperature)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	start := time.Now()
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		telemetry.RecordError(span, err)
		g.logger.Warn("Gemini request failed",
			zap.String("model", g.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}

	telemetry.SetAttributes(span, "llm.response_chars", len(text))
	g.logger.Debug("Gemini request completed",
		zap.String("model", g.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_chars", len(text)),
	)
	return text, nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
