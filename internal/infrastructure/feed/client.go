package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/metrics"
	"AINewsAggregator/internal/ports"
	"AINewsAggregator/internal/textclean"
)

const (
	defaultHoursBack = 24
	maxFeedBytes     = 10 << 20
)

// Client fetches RSS/Atom feeds and maps recent entries to articles.
type Client struct {
	http      *http.Client
	sanitizer *bluemonday.Policy
	userAgent string
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.FeedFetcher = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets the configured timeout.
func NewClient(cfg config.FeedConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "AINewsAggregator/1.0"
	}
	return &Client{
		http:      httpClient,
		sanitizer: bluemonday.UGCPolicy(),
		userAgent: userAgent,
		logger:    logger,
		now:       time.Now,
	}
}

// FetchAll pulls every active source in order. A failing source is logged
// and contributes nothing.
func (c *Client) FetchAll(ctx context.Context, sources []domain.Source, hoursBack int) []domain.Article {
	var aggregated []domain.Article
	for _, source := range sources {
		if !source.Active {
			continue
		}

		c.logger.Info("fetching feed", "source", source.Name)
		articles, err := c.Fetch(ctx, source, hoursBack)
		if err != nil {
			metrics.FeedFetches.WithLabelValues(source.Name, "error").Inc()
			c.logger.Error("feed fetch failed", "source", source.Name, "url", source.URL, "error", err)
			continue
		}

		metrics.FeedFetches.WithLabelValues(source.Name, "ok").Inc()
		metrics.FeedEntries.WithLabelValues(source.Name).Add(float64(len(articles)))
		c.logger.Debug("feed produced articles", "source", source.Name, "count", len(articles))
		aggregated = append(aggregated, articles...)
	}

	c.logger.Info("feed fetch done", "sources", len(sources), "articles", len(aggregated))
	return aggregated
}

// Fetch retrieves one source and returns entries published within hoursBack.
// When the URL serves an HTML page, the advertised feed link is followed once.
func (c *Client) Fetch(ctx context.Context, source domain.Source, hoursBack int) ([]domain.Article, error) {
	if hoursBack <= 0 {
		hoursBack = defaultHoursBack
	}

	parsed, err := c.fetchFeed(ctx, source.URL)
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		alternate, derr := c.discover(ctx, source.URL)
		if derr != nil {
			return nil, fmt.Errorf("source %s: %w", source.Name, derr)
		}
		c.logger.Debug("following feed link", "source", source.Name, "feed", alternate)
		parsed, err = c.fetchFeed(ctx, alternate)
	}
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", source.Name, err)
	}

	now := c.now()
	cutoff := now.Add(-time.Duration(hoursBack) * time.Hour)

	articles := make([]domain.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}

		article := c.toArticle(item, source, now)
		if !article.Published.After(cutoff) {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (c *Client) toArticle(item *gofeed.Item, source domain.Source, now time.Time) domain.Article {
	published := now
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	}

	raw := item.Description
	if raw == "" {
		raw = item.Content
	}

	title := strings.TrimSpace(item.Title)
	return domain.Article{
		ID:        domain.ArticleID(title, source.Name),
		Title:     title,
		Link:      item.Link,
		Source:    source.Name,
		Published: published,
		Summary:   c.sanitizer.Sanitize(raw),
		Content:   textclean.StripMarkup(raw),
		Sentiment: domain.SentimentNeutral,
	}
}

func (c *Client) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := c.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	// gofeed.Parser keeps per-parse state, so each fetch gets its own.
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
			return nil, err
		}
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return parsed, nil
}

// discover looks for <link rel="alternate"> pointing at an RSS or Atom feed.
func (c *Client) discover(ctx context.Context, pageURL string) (string, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	var href string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		kind := strings.ToLower(sel.AttrOr("type", ""))
		if !strings.Contains(kind, "rss") && !strings.Contains(kind, "atom") {
			return true
		}
		href = strings.TrimSpace(sel.AttrOr("href", ""))
		return href == ""
	})
	if href == "" {
		return "", fmt.Errorf("no feed found at %s", pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid feed link %s: %w", href, err)
	}
	resolved := base.ResolveReference(ref).String()
	if resolved == pageURL {
		return "", fmt.Errorf("feed link points back to %s", pageURL)
	}
	return resolved, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, text/html;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return body, nil
}
