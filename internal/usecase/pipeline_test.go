package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/infrastructure/storage"
)

type fakeFeeds struct {
	articles []domain.Article
	calls    int
	sources  []domain.Source
}

func (f *fakeFeeds) FetchAll(_ context.Context, sources []domain.Source, _ int) []domain.Article {
	f.calls++
	f.sources = sources
	out := make([]domain.Article, len(f.articles))
	copy(out, f.articles)
	return out
}

type fakeEnricher struct {
	summaryCalls   int
	sentimentCalls []string
}

func (f *fakeEnricher) Summary(_ context.Context, content string) string {
	f.summaryCalls++
	return "summary of " + content
}

func (f *fakeEnricher) Sentiment(_ context.Context, text string) domain.Sentiment {
	f.sentimentCalls = append(f.sentimentCalls, text)
	return domain.SentimentPositive
}

var pipelineNow = time.Date(2025, time.November, 8, 12, 0, 0, 0, time.UTC)

func sampleArticles(now time.Time) []domain.Article {
	return []domain.Article{
		{ID: "1", Title: "Older Story", Source: "a", Content: "body one", Published: now.Add(-5 * time.Hour), Sentiment: domain.SentimentNeutral},
		{ID: "2", Title: "GPT-5 Launches", Source: "a", Content: "body two", Published: now.Add(-1 * time.Hour), Sentiment: domain.SentimentNeutral},
		{ID: "3", Title: "gpt-5 launches ", Source: "b", Content: "dup", Published: now.Add(-30 * time.Minute), Sentiment: domain.SentimentNeutral},
		{ID: "4", Title: "No Content", Source: "b", Published: now.Add(-2 * time.Hour), Sentiment: domain.SentimentNeutral},
	}
}

func TestFetchEnrichesDedupesAndSorts(t *testing.T) {
	t.Parallel()

	feeds := &fakeFeeds{articles: sampleArticles(pipelineNow)}
	enricher := &fakeEnricher{}
	pipeline := NewPipeline(PipelineDeps{Feeds: feeds, Enricher: enricher, Now: func() time.Time { return pipelineNow }})

	result, err := pipeline.Fetch(context.Background(), FetchRequest{HoursBack: 24})
	require.NoError(t, err)
	assert.False(t, result.Cached)

	ids := make([]string, 0, len(result.Articles))
	for _, a := range result.Articles {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"2", "4", "1"}, ids)

	byID := map[string]domain.Article{}
	for _, a := range result.Articles {
		byID[a.ID] = a
	}
	assert.Equal(t, "summary of body two", byID["2"].AISummary)
	assert.Equal(t, domain.SentimentPositive, byID["2"].Sentiment)
	assert.Empty(t, byID["4"].AISummary)
	assert.Equal(t, domain.SentimentNeutral, byID["4"].Sentiment)

	assert.Equal(t, 3, enricher.summaryCalls)
	assert.Contains(t, enricher.sentimentCalls, "GPT-5 Launches body two")
	assert.Len(t, feeds.sources, 5)
}

func TestFetchSentimentInputUsesContentPrefix(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	feeds := &fakeFeeds{articles: []domain.Article{{ID: "1", Title: "T", Content: long, Published: pipelineNow}}}
	enricher := &fakeEnricher{}

	_, err := NewPipeline(PipelineDeps{Feeds: feeds, Enricher: enricher}).Fetch(context.Background(), FetchRequest{})
	require.NoError(t, err)
	require.Len(t, enricher.sentimentCalls, 1)
	assert.Equal(t, "T "+strings.Repeat("x", 200), enricher.sentimentCalls[0])
}

func TestFetchCacheHitSkipsFeeds(t *testing.T) {
	t.Parallel()

	feeds := &fakeFeeds{articles: sampleArticles(time.Now())}
	store := storage.NewMemoryStore()
	pipeline := NewPipeline(PipelineDeps{Feeds: feeds, Enricher: &fakeEnricher{}, Store: store})

	first, err := pipeline.Fetch(context.Background(), FetchRequest{HoursBack: 24})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := pipeline.Fetch(context.Background(), FetchRequest{HoursBack: 24})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Len(t, second.Articles, len(first.Articles))
	assert.Equal(t, first.Articles[0].ID, second.Articles[0].ID)

	assert.Equal(t, 1, feeds.calls)
}

func TestFetchRefreshBypassesCache(t *testing.T) {
	t.Parallel()

	feeds := &fakeFeeds{articles: sampleArticles(time.Now())}
	store := storage.NewMemoryStore()
	pipeline := NewPipeline(PipelineDeps{Feeds: feeds, Enricher: &fakeEnricher{}, Store: store})

	_, err := pipeline.Fetch(context.Background(), FetchRequest{HoursBack: 24})
	require.NoError(t, err)

	feeds.articles = feeds.articles[:1]
	refreshed, err := pipeline.Fetch(context.Background(), FetchRequest{HoursBack: 24, Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.Cached)
	assert.Equal(t, 2, feeds.calls)

	cached, err := store.GetRecent(context.Background(), 24)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "1", cached[0].ID)
}

func TestFetchUsesStoredActiveSources(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	require.NoError(t, store.SeedSources(context.Background(), domain.DefaultSources()))
	store.SetSourceActive("AI News", false)

	feeds := &fakeFeeds{}
	pipeline := NewPipeline(PipelineDeps{Feeds: feeds, Store: store})

	_, err := pipeline.Fetch(context.Background(), FetchRequest{})
	require.NoError(t, err)
	assert.Len(t, feeds.sources, 4)
}

func TestFetchWithoutFeedsFails(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Fetch(context.Background(), FetchRequest{})
	assert.Error(t, err)
}

func TestCategoriesCountsAll(t *testing.T) {
	t.Parallel()

	feeds := &fakeFeeds{articles: []domain.Article{
		{ID: "1", Title: "New neural network design", Published: pipelineNow},
		{ID: "2", Title: "Weather report", Content: "sunny", Published: pipelineNow},
	}}
	pipeline := NewPipeline(PipelineDeps{Feeds: feeds})

	counts, err := pipeline.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, counts, 8)
	assert.Equal(t, 1, counts["Machine Learning"])
	assert.Equal(t, 1, counts["General"])
	assert.Equal(t, 0, counts["Robotics"])
}

func TestSourcesFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	sources, err := NewPipeline(PipelineDeps{Store: storage.NoopStore{}}).Sources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSources(), sources)
}
