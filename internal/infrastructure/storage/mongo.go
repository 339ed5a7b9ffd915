package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/ports"
)

const (
	articlesCollection = "articles"
	sourcesCollection  = "sources"
)

// MongoStore persists articles and sources in MongoDB.
type MongoStore struct {
	client   *mongo.Client
	articles *mongo.Collection
	sources  *mongo.Collection
	now      func() time.Time
}

var _ ports.CacheStore = (*MongoStore)(nil)

type articleDocument struct {
	ID        string    `bson:"id"`
	Title     string    `bson:"title"`
	Link      string    `bson:"link"`
	Source    string    `bson:"source"`
	Published time.Time `bson:"published"`
	Summary   string    `bson:"summary"`
	Content   string    `bson:"content"`
	AISummary string    `bson:"ai_summary"`
	Sentiment string    `bson:"sentiment"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d articleDocument) toDomain() domain.Article {
	return domain.Article{
		ID:        d.ID,
		Title:     d.Title,
		Link:      d.Link,
		Source:    d.Source,
		Published: d.Published,
		Summary:   d.Summary,
		Content:   d.Content,
		AISummary: d.AISummary,
		Sentiment: domain.Sentiment(d.Sentiment),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type sourceDocument struct {
	Name   string `bson:"name"`
	URL    string `bson:"url"`
	Active bool   `bson:"active"`
}

// ConnectMongo dials the server, verifies it with a ping and prepares indexes.
func ConnectMongo(ctx context.Context, cfg config.StoreConfig) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := NewMongoStore(client.Database(cfg.MongoDatabase))
	store.client = client

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return store, nil
}

// NewMongoStore uses the collections of db without owning the client.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		articles: db.Collection(articlesCollection),
		sources:  db.Collection(sourcesCollection),
		now:      time.Now,
	}
}

// Name identifies the backend.
func (m *MongoStore) Name() string { return "mongo" }

// Available reports whether calls reach a real backend.
func (m *MongoStore) Available() bool { return true }

// EnsureIndexes creates the unique keys upserts rely on.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "published", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create article indexes: %w", err)
	}

	_, err = m.sources.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create source index: %w", err)
	}
	return nil
}

// GetRecent returns articles published and cached within the last hoursBack hours, newest first.
func (m *MongoStore) GetRecent(ctx context.Context, hoursBack int) ([]domain.Article, error) {
	cutoff := windowStart(m.now(), hoursBack)
	filter := bson.M{
		"published":  bson.M{"$gte": cutoff},
		"created_at": bson.M{"$gte": cutoff},
	}
	opts := options.Find().SetSort(bson.D{{Key: "published", Value: -1}})

	cursor, err := m.articles.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent articles: %w", err)
	}

	var docs []articleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode recent articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(docs))
	for _, d := range docs {
		articles = append(articles, d.toDomain())
	}
	return articles, nil
}

// UpsertMany writes the batch keyed by article id; created_at is kept on conflict.
func (m *MongoStore) UpsertMany(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	now := m.now()
	models := make([]mongo.WriteModel, 0, len(articles))
	for _, a := range articles {
		update := bson.M{
			"$set": bson.M{
				"title":      a.Title,
				"link":       a.Link,
				"source":     a.Source,
				"published":  a.Published,
				"summary":    a.Summary,
				"content":    a.Content,
				"ai_summary": a.AISummary,
				"sentiment":  string(a.Sentiment),
				"updated_at": now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": a.ID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := m.articles.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("upsert articles: %w", err)
	}
	return nil
}

// DeleteRecent drops articles published within the window.
func (m *MongoStore) DeleteRecent(ctx context.Context, hoursBack int) error {
	cutoff := windowStart(m.now(), hoursBack)
	if _, err := m.articles.DeleteMany(ctx, bson.M{"published": bson.M{"$gte": cutoff}}); err != nil {
		return fmt.Errorf("delete recent articles: %w", err)
	}
	return nil
}

// ActiveSources lists the sources enabled for fetching.
func (m *MongoStore) ActiveSources(ctx context.Context) ([]domain.Source, error) {
	return m.findSources(ctx, bson.M{"active": true})
}

// ListSources lists every source, active or not.
func (m *MongoStore) ListSources(ctx context.Context) ([]domain.Source, error) {
	return m.findSources(ctx, bson.M{})
}

func (m *MongoStore) findSources(ctx context.Context, filter bson.M) ([]domain.Source, error) {
	cursor, err := m.sources.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find sources: %w", err)
	}

	var docs []sourceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}

	sources := make([]domain.Source, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, domain.Source{Name: d.Name, URL: d.URL, Active: d.Active})
	}
	return sources, nil
}

// SeedSources upserts by name; an existing active flag is left untouched.
func (m *MongoStore) SeedSources(ctx context.Context, sources []domain.Source) error {
	if len(sources) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(sources))
	for _, s := range sources {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": s.Name}).
			SetUpdate(bson.M{
				"$set":         bson.M{"url": s.URL},
				"$setOnInsert": bson.M{"active": s.Active},
			}).
			SetUpsert(true))
	}

	if _, err := m.sources.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("seed sources: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (m *MongoStore) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
