package storage

import (
	"context"
	"log/slog"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/metrics"
	"AINewsAggregator/internal/ports"
)

// Resilient wraps a store so that failures degrade to a miss or a no-op,
// and source lookups fall back to the static defaults.
type Resilient struct {
	store    ports.CacheStore
	defaults []domain.Source
	logger   *slog.Logger
}

var _ ports.CacheStore = (*Resilient)(nil)

// NewResilient wraps store; a nil store behaves like NoopStore.
func NewResilient(store ports.CacheStore, defaults []domain.Source, logger *slog.Logger) *Resilient {
	if store == nil {
		store = NoopStore{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resilient{store: store, defaults: defaults, logger: logger}
}

// Name reports the wrapped store name.
func (r *Resilient) Name() string { return r.store.Name() }

// Available reports whether the wrapped store is reachable.
func (r *Resilient) Available() bool { return r.store.Available() }

// GetRecent returns cached articles; a failing store reads as a miss.
func (r *Resilient) GetRecent(ctx context.Context, hoursBack int) ([]domain.Article, error) {
	if !r.store.Available() {
		return nil, nil
	}
	articles, err := r.store.GetRecent(ctx, hoursBack)
	if err != nil {
		r.failed("get_recent", err)
		return nil, nil
	}
	return articles, nil
}

// UpsertMany persists the batch; failures are logged and counted, never returned.
func (r *Resilient) UpsertMany(ctx context.Context, articles []domain.Article) error {
	if !r.store.Available() || len(articles) == 0 {
		return nil
	}
	if err := r.store.UpsertMany(ctx, articles); err != nil {
		r.failed("upsert_many", err)
	}
	return nil
}

// DeleteRecent clears the window; failures are logged and counted, never returned.
func (r *Resilient) DeleteRecent(ctx context.Context, hoursBack int) error {
	if !r.store.Available() {
		return nil
	}
	if err := r.store.DeleteRecent(ctx, hoursBack); err != nil {
		r.failed("delete_recent", err)
	}
	return nil
}

// ActiveSources returns stored active sources, or the active defaults when none can be read.
func (r *Resilient) ActiveSources(ctx context.Context) ([]domain.Source, error) {
	if r.store.Available() {
		sources, err := r.store.ActiveSources(ctx)
		if err != nil {
			r.failed("active_sources", err)
		} else if len(sources) > 0 {
			return sources, nil
		}
	}
	return domain.ActiveOnly(r.defaults), nil
}

// ListSources returns stored sources, or a copy of the defaults when none can be read.
func (r *Resilient) ListSources(ctx context.Context) ([]domain.Source, error) {
	if r.store.Available() {
		sources, err := r.store.ListSources(ctx)
		if err != nil {
			r.failed("list_sources", err)
		} else if len(sources) > 0 {
			return sources, nil
		}
	}
	out := make([]domain.Source, len(r.defaults))
	copy(out, r.defaults)
	return out, nil
}

// SeedSources seeds the wrapped store, ignoring failures.
func (r *Resilient) SeedSources(ctx context.Context, sources []domain.Source) error {
	if !r.store.Available() {
		return nil
	}
	if err := r.store.SeedSources(ctx, sources); err != nil {
		r.failed("seed_sources", err)
	}
	return nil
}

// Close releases the underlying connection.
func (r *Resilient) Close(ctx context.Context) error {
	return r.store.Close(ctx)
}

func (r *Resilient) failed(operation string, err error) {
	metrics.StoreErrors.WithLabelValues(operation).Inc()
	r.logger.Warn("cache store call failed", "store", r.store.Name(), "operation", operation, "error", err)
}
