package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/ports"
)

// MemoryStore keeps articles and sources in process memory. It is used for
// local runs without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
	sources  []domain.Source
	now      func() time.Time
}

var _ ports.CacheStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: map[string]domain.Article{},
		now:      time.Now,
	}
}

// Name identifies the backend.
func (m *MemoryStore) Name() string { return "memory" }

// Available reports whether calls reach a real backend.
func (m *MemoryStore) Available() bool { return true }

// GetRecent returns articles published and cached within the window, newest first.
func (m *MemoryStore) GetRecent(_ context.Context, hoursBack int) ([]domain.Article, error) {
	cutoff := windowStart(m.now(), hoursBack)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var recent []domain.Article
	for _, a := range m.articles {
		if a.Published.Before(cutoff) || a.CreatedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, a)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Published.After(recent[j].Published)
	})
	return recent, nil
}

// UpsertMany stores articles by id, keeping the first created_at.
func (m *MemoryStore) UpsertMany(_ context.Context, articles []domain.Article) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range articles {
		if existing, ok := m.articles[a.ID]; ok {
			a.CreatedAt = existing.CreatedAt
		} else {
			a.CreatedAt = now
		}
		a.UpdatedAt = now
		m.articles[a.ID] = a
	}
	return nil
}

// DeleteRecent drops articles published within the window.
func (m *MemoryStore) DeleteRecent(_ context.Context, hoursBack int) error {
	cutoff := windowStart(m.now(), hoursBack)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, a := range m.articles {
		if !a.Published.Before(cutoff) {
			delete(m.articles, id)
		}
	}
	return nil
}

// ActiveSources lists the sources enabled for fetching.
func (m *MemoryStore) ActiveSources(ctx context.Context) ([]domain.Source, error) {
	all, err := m.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ActiveOnly(all), nil
}

// ListSources lists every source, active or not.
func (m *MemoryStore) ListSources(_ context.Context) ([]domain.Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Source, len(m.sources))
	copy(out, m.sources)
	return out, nil
}

// SeedSources inserts missing sources and refreshes URLs of known ones
// without touching their active flag.
func (m *MemoryStore) SeedSources(_ context.Context, sources []domain.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range sources {
		found := false
		for i := range m.sources {
			if m.sources[i].Name == s.Name {
				m.sources[i].URL = s.URL
				found = true
				break
			}
		}
		if !found {
			m.sources = append(m.sources, s)
		}
	}
	return nil
}

// SetSourceActive enables or disables a stored source by name. The memory
// driver has no admin surface, so callers embedding it flip flags here.
func (m *MemoryStore) SetSourceActive(name string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sources {
		if m.sources[i].Name == name {
			m.sources[i].Active = active
		}
	}
}

// Close releases the underlying connection.
func (m *MemoryStore) Close(context.Context) error { return nil }

func windowStart(now time.Time, hoursBack int) time.Time {
	if hoursBack <= 0 {
		hoursBack = 24
	}
	return now.Add(-time.Duration(hoursBack) * time.Hour)
}
