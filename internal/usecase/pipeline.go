package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/metrics"
	"AINewsAggregator/internal/ports"
	"AINewsAggregator/internal/textclean"
)

const (
	// DefaultHoursBack is the window used when callers pass none.
	DefaultHoursBack = 24

	sentimentContentPrefix = 200
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Feeds    ports.FeedFetcher
	Enricher ports.Enricher
	Store    ports.CacheStore
	Logger   *slog.Logger
	Now      func() time.Time
}

// Pipeline implements the fetch, enrich, dedupe and cache workflow.
type Pipeline struct {
	feeds    ports.FeedFetcher
	enricher ports.Enricher
	store    ports.CacheStore
	logger   *slog.Logger
	now      func() time.Time
}

// FetchRequest selects the time window and whether to bypass the cache.
type FetchRequest struct {
	HoursBack int
	Refresh   bool
}

// FetchResult is a sorted batch of articles.
type FetchResult struct {
	Articles    []domain.Article
	Cached      bool
	LastUpdated time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		feeds:    deps.Feeds,
		enricher: deps.Enricher,
		store:    deps.Store,
		logger:   logger,
		now:      now,
	}
}

// Fetch returns cached articles for the window when available, otherwise
// pulls every active source, enriches, dedupes and persists the batch.
func (p *Pipeline) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	if p.feeds == nil {
		return FetchResult{}, fmt.Errorf("feed fetcher is not configured")
	}

	hoursBack := req.HoursBack
	if hoursBack <= 0 {
		hoursBack = DefaultHoursBack
	}

	if p.store != nil {
		if req.Refresh {
			metrics.CacheLookups.WithLabelValues("bypass").Inc()
			if p.store.Available() {
				if err := p.store.DeleteRecent(ctx, hoursBack); err != nil {
					p.logger.Warn("clear cached window failed", "hours", hoursBack, "error", err)
				}
			}
		} else {
			cached, err := p.store.GetRecent(ctx, hoursBack)
			if err != nil {
				p.logger.Warn("cache lookup failed", "hours", hoursBack, "error", err)
			}
			if len(cached) > 0 {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				p.logger.Debug("serving cached articles", "hours", hoursBack, "count", len(cached))
				sortNewestFirst(cached)
				return FetchResult{Articles: cached, Cached: true, LastUpdated: p.now()}, nil
			}
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	}

	sources := p.activeSources(ctx)
	p.logger.Info("fetching articles", "sources", len(sources), "hours", hoursBack, "refresh", req.Refresh)

	articles := p.feeds.FetchAll(ctx, sources, hoursBack)
	for i := range articles {
		p.enrich(ctx, &articles[i])
	}

	articles = Dedupe(articles)

	if p.store != nil && len(articles) > 0 {
		if err := p.store.UpsertMany(ctx, articles); err != nil {
			p.logger.Warn("persist batch failed", "count", len(articles), "error", err)
		}
	}

	sortNewestFirst(articles)
	p.logger.Info("fetch complete", "articles", len(articles))

	return FetchResult{Articles: articles, Cached: false, LastUpdated: p.now()}, nil
}

// Categories counts the last day's articles per topic.
func (p *Pipeline) Categories(ctx context.Context) (map[string]int, error) {
	result, err := p.Fetch(ctx, FetchRequest{HoursBack: DefaultHoursBack})
	if err != nil {
		return nil, err
	}
	return CountCategories(result.Articles), nil
}

// Sources lists configured sources, active or not.
func (p *Pipeline) Sources(ctx context.Context) ([]domain.Source, error) {
	if p.store == nil {
		return domain.DefaultSources(), nil
	}
	sources, err := p.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		return domain.DefaultSources(), nil
	}
	return sources, nil
}

// Summarize produces a summary for arbitrary content.
func (p *Pipeline) Summarize(ctx context.Context, content string) string {
	if p.enricher == nil {
		return content
	}
	return p.enricher.Summary(ctx, content)
}

// Sentiment classifies arbitrary text.
func (p *Pipeline) Sentiment(ctx context.Context, text string) domain.Sentiment {
	if p.enricher == nil {
		return domain.SentimentNeutral
	}
	return p.enricher.Sentiment(ctx, text)
}

func (p *Pipeline) activeSources(ctx context.Context) []domain.Source {
	if p.store == nil {
		return domain.ActiveOnly(domain.DefaultSources())
	}
	sources, err := p.store.ActiveSources(ctx)
	if err != nil || len(sources) == 0 {
		if err != nil {
			p.logger.Warn("load active sources failed, using defaults", "error", err)
		}
		return domain.ActiveOnly(domain.DefaultSources())
	}
	return sources
}

func (p *Pipeline) enrich(ctx context.Context, article *domain.Article) {
	if article.Sentiment == "" {
		article.Sentiment = domain.SentimentNeutral
	}
	if article.Content == "" || p.enricher == nil {
		return
	}

	article.AISummary = p.enricher.Summary(ctx, article.Content)
	article.Sentiment = p.enricher.Sentiment(ctx, article.Title+" "+textclean.Truncate(article.Content, sentimentContentPrefix))
}

func sortNewestFirst(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
}
