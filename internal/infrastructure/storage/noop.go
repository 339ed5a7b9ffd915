package storage

import (
	"context"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/ports"
)

// NoopStore stands in when no store is configured or reachable.
type NoopStore struct{}

var _ ports.CacheStore = NoopStore{}

func (NoopStore) Name() string    { return "none" }
func (NoopStore) Available() bool { return false }

func (NoopStore) GetRecent(context.Context, int) ([]domain.Article, error) { return nil, nil }
func (NoopStore) UpsertMany(context.Context, []domain.Article) error       { return nil }
func (NoopStore) DeleteRecent(context.Context, int) error                  { return nil }
func (NoopStore) ActiveSources(context.Context) ([]domain.Source, error)   { return nil, nil }
func (NoopStore) ListSources(context.Context) ([]domain.Source, error)     { return nil, nil }
func (NoopStore) SeedSources(context.Context, []domain.Source) error       { return nil }
func (NoopStore) Close(context.Context) error                              { return nil }
