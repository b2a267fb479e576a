package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		feed_url TEXT NOT NULL,
		language TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER NOT NULL REFERENCES sources(id),
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		summary TEXT NOT NULL,
		published_at TIMESTAMP,
		collected_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		translated_title TEXT,
		translated_summary TEXT,
		explanation TEXT,
		insight TEXT,
		example TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_status ON articles(status)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_collected_date ON articles(collected_date)`,
}

// SQLiteStore persists sources and articles in a local sqlite file.
// The process is the only writer, so no locking discipline is needed.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.ArticleStore = (*SQLiteStore)(nil)

// Open creates a store handle for the given database path
// (":memory:" is accepted for tests).
func Open(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// Single sequential writer; one connection also keeps ":memory:"
	// databases stable across the pool.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Bootstrap creates the schema when absent and verifies connectivity.
func (s *SQLiteStore) Bootstrap(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

// GetOrCreateSource looks a source up by name and creates it when missing.
// Sequential single-process caller; not required to be race-free.
func (s *SQLiteStore) GetOrCreateSource(ctx context.Context, name, feedURL, language string) (int64, error) {
	query, args, err := sq.Select("id").
		From("sources").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build source lookup: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup source %s: %w", name, err)
	}

	s.log().Info("adding new source", "name", name)

	insert, args, err := sq.Insert("sources").
		Columns("name", "feed_url", "language").
		Values(name, feedURL, language).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build source insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, insert, args...)
	if err != nil {
		return 0, fmt.Errorf("insert source %s: %w", name, err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("source id for %s: %w", name, err)
	}

	return id, nil
}

// InsertArticle stores an entry with insert-if-absent semantics keyed on
// URL. A duplicate is absorbed silently: logged, never an error.
func (s *SQLiteStore) InsertArticle(ctx context.Context, article domain.NewArticle) error {
	query, args, err := sq.Insert("articles").
		Columns("source_id", "title", "url", "summary", "published_at", "collected_date", "status").
		Values(
			article.SourceID,
			article.Title,
			article.URL,
			article.Summary,
			article.PublishedAt,
			article.CollectedDate,
			string(domain.StatusPending),
		).
		Suffix("ON CONFLICT(url) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build article insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert article %s: %w", article.URL, err)
	}

	if affected, aErr := res.RowsAffected(); aErr == nil && affected == 0 {
		s.log().Debug("duplicate article skipped", "url", article.URL)
	}

	return nil
}

// PendingArticles returns up to limit articles still awaiting enrichment,
// joined with their source's language tag.
func (s *SQLiteStore) PendingArticles(ctx context.Context, limit int) ([]domain.PendingArticle, error) {
	query, args, err := sq.Select("a.id", "a.title", "a.summary", "s.language").
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		Where(sq.Eq{"a.status": string(domain.StatusPending)}).
		OrderBy("a.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending articles: %w", err)
	}
	defer rows.Close()

	var pending []domain.PendingArticle
	for rows.Next() {
		var item domain.PendingArticle
		if err := rows.Scan(&item.ID, &item.Title, &item.Summary, &item.Language); err != nil {
			return nil, fmt.Errorf("scan pending article: %w", err)
		}
		pending = append(pending, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending articles: %w", err)
	}

	return pending, nil
}

// SaveEnrichment overwrites the enrichment fields of one article and
// marks it enriched. Re-applying the same values is safe.
func (s *SQLiteStore) SaveEnrichment(ctx context.Context, articleID int64, enrichment domain.Enrichment) error {
	explanation, err := json.Marshal(enrichment.Explanation)
	if err != nil {
		return fmt.Errorf("marshal explanation: %w", err)
	}

	query, args, err := sq.Update("articles").
		Set("translated_title", enrichment.TranslatedTitle).
		Set("translated_summary", enrichment.TranslatedSummary).
		Set("explanation", string(explanation)).
		Set("insight", enrichment.Insight).
		Set("example", enrichment.Example).
		Set("status", string(domain.StatusEnriched)).
		Where(sq.Eq{"id": articleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build enrichment update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article %d: %w", articleID, err)
	}

	return nil
}

// CollectedOn returns the articles collected on the given local date
// (YYYY-MM-DD), newest published first with undated entries last.
// Source-priority ranking is applied by the report package.
func (s *SQLiteStore) CollectedOn(ctx context.Context, date string) ([]domain.ReportArticle, error) {
	query, args, err := sq.Select(
		"a.id", "s.name", "s.language",
		"a.title", "a.url", "a.summary", "a.published_at", "a.status",
		"a.translated_title", "a.translated_summary", "a.insight", "a.example", "a.explanation",
	).
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		Where(sq.Eq{"a.collected_date": date}).
		OrderBy("a.published_at IS NULL", "a.published_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build daily query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.ReportArticle
	for rows.Next() {
		var (
			item        domain.ReportArticle
			publishedAt sql.NullTime
			status      string
			trTitle     sql.NullString
			trSummary   sql.NullString
			insight     sql.NullString
			example     sql.NullString
			explanation sql.NullString
		)

		err := rows.Scan(
			&item.ID, &item.SourceName, &item.Language,
			&item.Title, &item.URL, &item.Summary, &publishedAt, &status,
			&trTitle, &trSummary, &insight, &example, &explanation,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily article: %w", err)
		}

		if publishedAt.Valid {
			published := publishedAt.Time
			item.PublishedAt = &published
		}
		item.Status = domain.EnrichmentStatus(status)
		item.TranslatedTitle = trTitle.String
		item.TranslatedSummary = trSummary.String
		item.Insight = insight.String
		item.Example = example.String
		item.Explanation = decodeExplanation(explanation.String)

		articles = append(articles, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily articles: %w", err)
	}

	return articles, nil
}

// decodeExplanation tolerates rows written before the column held JSON.
func decodeExplanation(raw string) []string {
	if raw == "" {
		return nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

func (s *SQLiteStore) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
