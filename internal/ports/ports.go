package ports

import (
	"context"

	"AINewsAggregator/internal/domain"
)

// FeedFetcher pulls recent entries from RSS sources.
type FeedFetcher interface {
	FetchAll(ctx context.Context, sources []domain.Source, hoursBack int) []domain.Article
}

// Inference is the remote model service used for enrichment.
type Inference interface {
	Summarize(ctx context.Context, text string) (string, error)
	ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error)
}

// Enricher produces a summary and a sentiment label, never failing.
type Enricher interface {
	Summary(ctx context.Context, content string) string
	Sentiment(ctx context.Context, text string) domain.Sentiment
}

// CacheStore persists enriched articles and the source table.
type CacheStore interface {
	Name() string
	Available() bool
	GetRecent(ctx context.Context, hoursBack int) ([]domain.Article, error)
	UpsertMany(ctx context.Context, articles []domain.Article) error
	DeleteRecent(ctx context.Context, hoursBack int) error
	ActiveSources(ctx context.Context) ([]domain.Source, error)
	ListSources(ctx context.Context) ([]domain.Source, error)
	SeedSources(ctx context.Context, sources []domain.Source) error
	Close(ctx context.Context) error
}
