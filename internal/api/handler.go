package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/usecase"
)

// NewsService is the application surface the HTTP layer depends on.
type NewsService interface {
	Fetch(ctx context.Context, req usecase.FetchRequest) (usecase.FetchResult, error)
	Categories(ctx context.Context) (map[string]int, error)
	Sources(ctx context.Context) ([]domain.Source, error)
	Summarize(ctx context.Context, content string) string
	Sentiment(ctx context.Context, text string) domain.Sentiment
}

// StoreStatus reports the cache backend for the health endpoint.
type StoreStatus interface {
	Name() string
	Available() bool
}

// Handler serves the JSON API.
type Handler struct {
	service NewsService
	store   StoreStatus
	driver  string
	now     func() time.Time
}

// NewHandler creates a handler; store may be nil when caching is disabled.
// driver is the configured backend, which may differ from store.Name() once
// an unreachable store has been swapped for the no-op one.
func NewHandler(service NewsService, store StoreStatus, driver string) *Handler {
	return &Handler{service: service, store: store, driver: driver, now: time.Now}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type newsResponse struct {
	Success     bool             `json:"success"`
	Articles    []domain.Article `json:"articles"`
	Count       int              `json:"count"`
	LastUpdated time.Time        `json:"last_updated"`
	Cached      bool             `json:"cached"`
}

type summarizeRequest struct {
	Content string `json:"content"`
}

type sentimentRequest struct {
	Text string `json:"text"`
}

// Register mounts all routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Health)

	g := e.Group("/api")
	g.GET("/news", h.News)
	g.GET("/categories", h.Categories)
	g.GET("/sources", h.Sources)
	g.POST("/summarize", h.Summarize)
	g.POST("/sentiment", h.Sentiment)
}

// Health reports liveness and store connectivity.
func (h *Handler) Health(c echo.Context) error {
	name := config.DriverNone
	connected := false
	if h.store != nil {
		name = h.store.Name()
		connected = h.store.Available()
	}

	body := map[string]any{
		"status":          "healthy",
		"message":         "AI News Aggregator API is running",
		"store":           name,
		"store_connected": connected,
		"timestamp":       h.now().UTC(),
	}
	if h.driver == config.DriverMongo {
		body["mongodb_connected"] = connected
	}
	return c.JSON(http.StatusOK, body)
}

// News returns the aggregated articles for the requested window.
func (h *Handler) News(c echo.Context) error {
	hours, err := strconv.Atoi(c.QueryParam("hours"))
	if err != nil || hours <= 0 {
		hours = usecase.DefaultHoursBack
	}
	refresh := strings.EqualFold(strings.TrimSpace(c.QueryParam("refresh")), "true")

	result, err := h.service.Fetch(c.Request().Context(), usecase.FetchRequest{HoursBack: hours, Refresh: refresh})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}

	articles := result.Articles
	if articles == nil {
		articles = []domain.Article{}
	}
	return c.JSON(http.StatusOK, newsResponse{
		Success:     true,
		Articles:    articles,
		Count:       len(articles),
		LastUpdated: result.LastUpdated,
		Cached:      result.Cached,
	})
}

// Categories returns per-topic counts for the last day.
func (h *Handler) Categories(c echo.Context) error {
	counts, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "categories": counts})
}

// Sources lists the configured feeds.
func (h *Handler) Sources(c echo.Context) error {
	sources, err := h.service.Sources(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "sources": sources})
}

// Summarize summarizes caller-supplied content.
func (h *Handler) Summarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Content is required"})
	}

	summary := h.service.Summarize(c.Request().Context(), req.Content)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "summary": summary})
}

// Sentiment classifies caller-supplied text.
func (h *Handler) Sentiment(c echo.Context) error {
	var req sentimentRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Text is required"})
	}

	sentiment := h.service.Sentiment(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "sentiment": sentiment})
}
