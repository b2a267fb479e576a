package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"newsdigest/internal/config"
)

type fakeChat struct {
	calls     int
	responses []string
	err       error
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}

	content := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}, nil
}

func newTestEnricher(chat chatCompleter) *GeminiEnricher {
	enricher := NewGeminiEnricher(config.GeminiConfig{
		APIKey:         "test-key",
		Model:          "gemini-2.5-flash-lite",
		NativeLanguage: "ja",
	}, nil)
	enricher.chat = chat
	enricher.sleep = func(time.Duration) {}
	return enricher
}

const validResponse = `Here you go:
{
  "translated_title": "タイトル",
  "translated_summary": "要約",
  "gemini_insight": "考察",
  "gemini_example": "具体例",
  "gemini_explanation": ["- 用語A: 解説A"]
}
Done.`

func TestEnrichParsesWrappedJSON(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{responses: []string{validResponse}}
	enricher := newTestEnricher(chat)

	result, err := enricher.Enrich(context.Background(), "title", "summary", "en")
	if err != nil {
		t.Fatalf("enrich returned error: %v", err)
	}

	if result.TranslatedTitle != "タイトル" {
		t.Fatalf("unexpected title: %q", result.TranslatedTitle)
	}
	if result.Insight != "考察" {
		t.Fatalf("unexpected insight: %q", result.Insight)
	}
	if len(result.Explanation) != 1 {
		t.Fatalf("unexpected explanation: %#v", result.Explanation)
	}
	if chat.calls != 1 {
		t.Fatalf("expected a single call, got %d", chat.calls)
	}
}

func TestEnrichRetriesExactlyThreeTimes(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{err: fmt.Errorf("upstream unavailable")}
	enricher := newTestEnricher(chat)

	_, err := enricher.Enrich(context.Background(), "title", "summary", "en")
	if err == nil {
		t.Fatalf("expected failure after exhausting retries")
	}
	if chat.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", chat.calls)
	}
}

func TestEnrichRetriesOnExtractionFailureThenSucceeds(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{responses: []string{"no json here", validResponse}}
	enricher := newTestEnricher(chat)

	result, err := enricher.Enrich(context.Background(), "title", "summary", "en")
	if err != nil {
		t.Fatalf("enrich returned error: %v", err)
	}
	if chat.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", chat.calls)
	}
	if result.TranslatedSummary != "要約" {
		t.Fatalf("unexpected summary: %q", result.TranslatedSummary)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	got, err := extractJSON("noise {\"a\": 1} trailing")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a": 1}` {
		t.Fatalf("unexpected extraction: %q", got)
	}

	if _, err := extractJSON("no braces at all"); err == nil {
		t.Fatalf("expected extraction failure without braces")
	}

	if _, err := extractJSON("} reversed {"); err == nil {
		t.Fatalf("expected extraction failure for reversed braces")
	}
}

func TestParseEnrichmentCoercesBadExplanation(t *testing.T) {
	t.Parallel()

	raw := `{
  "translated_title": "t",
  "translated_summary": "s",
  "gemini_insight": "i",
  "gemini_example": "e",
  "gemini_explanation": "not a list"
}`

	result, err := parseEnrichment(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Explanation == nil || len(result.Explanation) != 0 {
		t.Fatalf("malformed explanation must coerce to empty list, got %#v", result.Explanation)
	}
}

func TestBuildPromptSelectsTemplateByLanguage(t *testing.T) {
	t.Parallel()

	enricher := newTestEnricher(&fakeChat{responses: []string{validResponse}})

	native := enricher.buildPrompt("タイトル", "概要", "ja")
	if !strings.Contains(native, "翻訳は不要") {
		t.Fatalf("native prompt should skip translation")
	}

	foreign := enricher.buildPrompt("Title", "Summary", "en")
	if !strings.Contains(foreign, "自然な日本語に翻訳") {
		t.Fatalf("foreign prompt should request translation")
	}
	if !strings.Contains(foreign, "Title") || !strings.Contains(foreign, "Summary") {
		t.Fatalf("prompt must embed title and summary")
	}
}
