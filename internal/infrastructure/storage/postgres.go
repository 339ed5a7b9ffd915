package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/ports"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    link        TEXT NOT NULL,
    source      TEXT NOT NULL,
    published   TIMESTAMPTZ NOT NULL,
    summary     TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL DEFAULT '',
    ai_summary  TEXT NOT NULL DEFAULT '',
    sentiment   TEXT NOT NULL DEFAULT 'neutral',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS articles_published_idx ON articles (published DESC);
CREATE TABLE IF NOT EXISTS news_sources (
    name    TEXT PRIMARY KEY,
    url     TEXT NOT NULL,
    active  BOOLEAN NOT NULL DEFAULT TRUE
);`

var articleColumns = []string{
	"id", "title", "link", "source", "published", "summary",
	"content", "ai_summary", "sentiment", "created_at", "updated_at",
}

// pgxQuerier is the subset of pgxpool.Pool used by the store.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore persists articles and sources in Postgres.
type PostgresStore struct {
	db  pgxQuerier
	sql sq.StatementBuilderType
	now func() time.Time
}

var _ ports.CacheStore = (*PostgresStore)(nil)

// ConnectPostgres opens a pool, checks it and bootstraps the schema.
func ConnectPostgres(ctx context.Context, dsn string, timeout time.Duration) (*PostgresStore, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := NewPostgresStore(pool)
	if err := store.EnsureSchema(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wires an existing pool.
func NewPostgresStore(db pgxQuerier) *PostgresStore {
	return &PostgresStore{
		db:  db,
		sql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
}

// Name identifies the backend.
func (p *PostgresStore) Name() string { return "postgres" }

// Available reports whether calls reach a real backend.
func (p *PostgresStore) Available() bool { return p.db != nil }

// EnsureSchema creates tables and indexes when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}

// GetRecent returns articles published and cached within the last hoursBack hours, newest first.
func (p *PostgresStore) GetRecent(ctx context.Context, hoursBack int) ([]domain.Article, error) {
	cutoff := windowStart(p.now(), hoursBack)

	query, args, err := p.sql.Select(articleColumns...).
		From("articles").
		Where(sq.GtOrEq{"published": cutoff}).
		Where(sq.GtOrEq{"created_at": cutoff}).
		OrderBy("published DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var (
			a         domain.Article
			sentiment string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Link, &a.Source, &a.Published, &a.Summary,
			&a.Content, &a.AISummary, &sentiment, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Sentiment = domain.Sentiment(sentiment)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// UpsertMany writes the batch in one statement; created_at survives conflicts.
func (p *PostgresStore) UpsertMany(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	now := p.now()
	insert := p.sql.Insert("articles").Columns(articleColumns...)
	for _, a := range articles {
		insert = insert.Values(a.ID, a.Title, a.Link, a.Source, a.Published, a.Summary,
			a.Content, a.AISummary, string(a.Sentiment), now, now)
	}
	insert = insert.Suffix(`ON CONFLICT (id) DO UPDATE
              SET title = EXCLUDED.title,
                  link = EXCLUDED.link,
                  source = EXCLUDED.source,
                  published = EXCLUDED.published,
                  summary = EXCLUDED.summary,
                  content = EXCLUDED.content,
                  ai_summary = EXCLUDED.ai_summary,
                  sentiment = EXCLUDED.sentiment,
                  updated_at = EXCLUDED.updated_at`)

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert articles: %w", err)
	}
	return nil
}

// DeleteRecent drops articles published within the window.
func (p *PostgresStore) DeleteRecent(ctx context.Context, hoursBack int) error {
	cutoff := windowStart(p.now(), hoursBack)

	query, args, err := p.sql.Delete("articles").Where(sq.GtOrEq{"published": cutoff}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete recent articles: %w", err)
	}
	return nil
}

// ActiveSources lists the sources enabled for fetching.
func (p *PostgresStore) ActiveSources(ctx context.Context) ([]domain.Source, error) {
	return p.selectSources(ctx, sq.Eq{"active": true})
}

// ListSources lists every source, active or not.
func (p *PostgresStore) ListSources(ctx context.Context) ([]domain.Source, error) {
	return p.selectSources(ctx, nil)
}

func (p *PostgresStore) selectSources(ctx context.Context, where sq.Sqlizer) ([]domain.Source, error) {
	builder := p.sql.Select("name", "url", "active").From("news_sources").OrderBy("name")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sources query: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var s domain.Source
		if err := rows.Scan(&s.Name, &s.URL, &s.Active); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return sources, nil
}

// SeedSources inserts the static list; known names only get their URL refreshed.
func (p *PostgresStore) SeedSources(ctx context.Context, sources []domain.Source) error {
	if len(sources) == 0 {
		return nil
	}

	insert := p.sql.Insert("news_sources").Columns("name", "url", "active")
	for _, s := range sources {
		insert = insert.Values(s.Name, s.URL, s.Active)
	}
	query, args, err := insert.Suffix("ON CONFLICT (name) DO UPDATE SET url = EXCLUDED.url").ToSql()
	if err != nil {
		return fmt.Errorf("build seed: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("seed sources: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (p *PostgresStore) Close(context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}
