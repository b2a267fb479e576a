package feed

import (
	"strings"
	"testing"
)

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	got := StripMarkup(`<p>Hello <strong>world</strong></p><script>var x = 1;</script>`)
	if !strings.HasPrefix(got, "Hello world") {
		t.Fatalf("unexpected stripped text: %q", got)
	}

	if got := StripMarkup("   "); got != "" {
		t.Fatalf("expected empty result for blank input, got %q", got)
	}

	if got := StripMarkup("plain text"); got != "plain text" {
		t.Fatalf("plain text should pass through, got %q", got)
	}
}

func TestTruncateSummary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 5000)
	got := truncateSummary(long)

	if len([]rune(got)) != summaryMaxRunes+len([]rune(truncationMarker)) {
		t.Fatalf("unexpected truncated length: %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("truncated summary missing marker")
	}
	if got[:summaryMaxRunes] != long[:summaryMaxRunes] {
		t.Fatalf("truncated prefix does not match original")
	}
}

func TestTruncateSummaryMultibyte(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("あ", 3500)
	got := truncateSummary(long)

	runes := []rune(got)
	if len(runes) != summaryMaxRunes+len([]rune(truncationMarker)) {
		t.Fatalf("unexpected rune count: %d", len(runes))
	}
	if string(runes[:summaryMaxRunes]) != strings.Repeat("あ", summaryMaxRunes) {
		t.Fatalf("multibyte truncation split a rune")
	}
}

func TestTruncateSummaryShortInput(t *testing.T) {
	t.Parallel()

	if got := truncateSummary("short"); got != "short" {
		t.Fatalf("short input must not be modified, got %q", got)
	}
}

func TestNormalizeSummary(t *testing.T) {
	t.Parallel()

	got := NormalizeSummary("<div><p>" + strings.Repeat("x", 4000) + "</p></div>")
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("expected truncation marker after stripping, got suffix %q", got[len(got)-10:])
	}
}
