package report

import (
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

// brandRule maps a source to its avatar look. Matching is a
// case-insensitive substring test against the source name; the first
// matching rule wins.
type brandRule struct {
	substring string
	gradient  template.CSS
	glyph     string
}

// Order matters: more specific substrings go before generic ones.
var brandRules = []brandRule{
	{"openai", "linear-gradient(135deg, #10a37f, #0b7a5e)", "O"},
	{"github", "linear-gradient(135deg, #24292f, #57606a)", "G"},
	{"google japan", "linear-gradient(135deg, #ea4335, #fbbc05)", "G"},
	{"google", "linear-gradient(135deg, #4285f4, #34a853)", "G"},
	{"zenn", "linear-gradient(135deg, #3ea8ff, #0f83fd)", "Z"},
	{"qiita", "linear-gradient(135deg, #55c500, #3a8f00)", "Q"},
}

const neutralGradient = template.CSS("linear-gradient(135deg, #64748b, #475569)")

// brandFor resolves the gradient/glyph pair for a source name. Unknown
// sources fall back to their first character on a neutral gradient.
func brandFor(sourceName string) (template.CSS, string) {
	lowered := strings.ToLower(sourceName)
	for _, rule := range brandRules {
		if strings.Contains(lowered, rule.substring) {
			return rule.gradient, rule.glyph
		}
	}

	glyph := "?"
	if first, size := utf8.DecodeRuneInString(strings.TrimSpace(sourceName)); size > 0 && first != utf8.RuneError {
		glyph = string(unicode.ToUpper(first))
	}
	return neutralGradient, glyph
}
