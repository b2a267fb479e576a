package report

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

// Renderer writes the self-contained daily HTML digest.
type Renderer struct {
	outputDir string
	logger    *slog.Logger
	tmpl      *template.Template
}

var _ ports.ReportWriter = (*Renderer)(nil)

// NewRenderer prepares the digest template for the given output directory.
func NewRenderer(outputDir string, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"nl2br": nl2br,
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}

	return &Renderer{outputDir: outputDir, logger: logger, tmpl: tmpl}, nil
}

// Write renders the digest for one local date and returns the file path.
// An empty article list writes nothing and returns an empty path.
func (r *Renderer) Write(date string, articles []domain.ReportArticle) (string, error) {
	if len(articles) == 0 {
		r.log().Info("no articles for report, skipping render", "date", date)
		return "", nil
	}

	ordered := make([]domain.ReportArticle, len(articles))
	copy(ordered, articles)
	sortArticles(ordered)

	views := make([]articleView, 0, len(ordered))
	for i, article := range ordered {
		views = append(views, newArticleView(i, article))
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("report_%s.html", date))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}

	data := reportData{Date: date, Articles: views}
	if err := r.tmpl.Execute(file, data); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report file: %w", err)
	}

	r.log().Info("report written", "path", path, "articles", len(views))
	return path, nil
}

type reportData struct {
	Date     string
	Articles []articleView
}

type articleView struct {
	Index          int
	SourceName     string
	Gradient       template.CSS
	Glyph          string
	Title          string
	Summary        template.HTML
	URL            string
	PublishedLabel string
	Insight        template.HTML
	Example        template.HTML
	Chips          []string
}

func newArticleView(index int, article domain.ReportArticle) articleView {
	title := article.TranslatedTitle
	if title == "" {
		title = article.Title
	}
	summary := article.TranslatedSummary
	if summary == "" {
		summary = article.Summary
	}

	gradient, glyph := brandFor(article.SourceName)

	published := ""
	if article.PublishedAt != nil {
		published = article.PublishedAt.Format("2006-01-02 15:04")
	}

	return articleView{
		Index:          index,
		SourceName:     article.SourceName,
		Gradient:       gradient,
		Glyph:          glyph,
		Title:          title,
		Summary:        nl2br(summary),
		URL:            article.URL,
		PublishedLabel: published,
		Insight:        nl2br(article.Insight),
		Example:        nl2br(article.Example),
		Chips:          glossaryChips(article.Explanation),
	}
}

// nl2br escapes text and converts newlines to <br> tags.
func nl2br(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// glossaryChips strips leading bullet/dash characters from each
// explanation entry and drops entries that are empty after stripping.
func glossaryChips(entries []string) []string {
	chips := make([]string, 0, len(entries))
	for _, entry := range entries {
		chip := strings.TrimLeft(strings.TrimSpace(entry), "-*・• ")
		chip = strings.TrimSpace(chip)
		if chip == "" {
			continue
		}
		chips = append(chips, chip)
	}
	return chips
}

func (r *Renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
