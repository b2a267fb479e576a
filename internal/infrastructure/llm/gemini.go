package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"newsdigest/internal/config"
	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

const (
	enrichAttempts = 3
	retryDelay     = 3 * time.Second
	temperature    = 0.4
	maxTokens      = 8192
)

// chatCompleter is the slice of the OpenAI-compatible client the
// enricher needs; *openai.Client satisfies it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GeminiEnricher produces translation and analysis fields through the
// Gemini OpenAI-compatibility endpoint.
type GeminiEnricher struct {
	chat           chatCompleter
	model          string
	nativeLanguage string
	logger         *slog.Logger
	sleep          func(time.Duration)
}

var _ ports.Enricher = (*GeminiEnricher)(nil)

// NewGeminiEnricher builds a client from configuration.
func NewGeminiEnricher(cfg config.GeminiConfig, logger *slog.Logger) *GeminiEnricher {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}

	native := cfg.NativeLanguage
	if native == "" {
		native = "ja"
	}

	return &GeminiEnricher{
		chat:           openai.NewClientWithConfig(clientCfg),
		model:          cfg.Model,
		nativeLanguage: native,
		logger:         logger,
		sleep:          time.Sleep,
	}
}

// Enrich asks the model for translated title/summary, an insight, an
// example, and glossary entries. Any failure (transport, extraction,
// decode) is retried up to 3 attempts total with a fixed delay;
// exhaustion returns an error and the article stays in the queue.
func (g *GeminiEnricher) Enrich(ctx context.Context, title, summary, language string) (domain.Enrichment, error) {
	prompt := g.buildPrompt(title, summary, language)

	var lastErr error
	for attempt := 1; attempt <= enrichAttempts; attempt++ {
		enrichment, err := g.requestOnce(ctx, prompt)
		if err == nil {
			return enrichment, nil
		}

		lastErr = err
		g.log().Warn("enrichment attempt failed",
			"attempt", attempt, "max_attempts", enrichAttempts, "error", err)

		if attempt < enrichAttempts {
			g.sleep(retryDelay)
		}
	}

	return domain.Enrichment{}, fmt.Errorf("enrich after %d attempts: %w", enrichAttempts, lastErr)
}

func (g *GeminiEnricher) requestOnce(ctx context.Context, prompt string) (domain.Enrichment, error) {
	resp, err := g.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Enrichment{}, fmt.Errorf("chat completion returned no choices")
	}

	return parseEnrichment(resp.Choices[0].Message.Content)
}

// enrichmentPayload mirrors the five fields the prompts request.
type enrichmentPayload struct {
	TranslatedTitle   string          `json:"translated_title"`
	TranslatedSummary string          `json:"translated_summary"`
	Insight           string          `json:"gemini_insight"`
	Example           string          `json:"gemini_example"`
	Explanation       json.RawMessage `json:"gemini_explanation"`
}

// parseEnrichment decodes the model's free-form text into the structured
// result. Extraction and decoding are best-effort by contract: the
// caller retries on error and gives up after the bounded attempts.
func parseEnrichment(raw string) (domain.Enrichment, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return domain.Enrichment{}, err
	}

	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode enrichment: %w", err)
	}

	return domain.Enrichment{
		TranslatedTitle:   payload.TranslatedTitle,
		TranslatedSummary: payload.TranslatedSummary,
		Insight:           payload.Insight,
		Example:           payload.Example,
		Explanation:       coerceExplanation(payload.Explanation),
	}, nil
}

// extractJSON cuts the substring between the first '{' and the last '}'.
// A response without balanced braces is an extraction failure.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in model response")
	}
	return raw[start : end+1], nil
}

// coerceExplanation normalizes a malformed explanation field to an empty
// list so a wrong shape never propagates downstream.
func coerceExplanation(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var entries []string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []string{}
	}
	return entries
}

func (g *GeminiEnricher) buildPrompt(title, summary, language string) string {
	if language == g.nativeLanguage {
		return fmt.Sprintf(nativePromptTemplate, title, summary)
	}
	return fmt.Sprintf(translatePromptTemplate, title, summary)
}

func (g *GeminiEnricher) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
