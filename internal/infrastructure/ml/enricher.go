package ml

import (
	"context"
	"errors"
	"log/slog"

	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/metrics"
	"AINewsAggregator/internal/ports"
	"AINewsAggregator/internal/textclean"
)

const (
	summaryInputLimit   = 1000
	summaryMinLength    = 50
	fallbackSummaryLen  = 200
	sentimentInputLimit = 500
	ellipsis            = "..."
)

// Enricher applies local fallbacks on top of a remote Inference client.
type Enricher struct {
	remote ports.Inference
	logger *slog.Logger
}

var _ ports.Enricher = (*Enricher)(nil)

// NewEnricher wraps remote; a nil remote always yields fallback values.
func NewEnricher(remote ports.Inference, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enricher{remote: remote, logger: logger}
}

// Summary returns a machine summary of content, or a truncated excerpt when
// the service cannot produce one. Content under 50 characters is returned as-is.
func (e *Enricher) Summary(ctx context.Context, content string) string {
	clean := textclean.Truncate(textclean.StripMarkup(content), summaryInputLimit)
	if textclean.Length(clean) < summaryMinLength {
		return clean
	}

	if e.remote == nil {
		return fallbackSummary(clean)
	}

	summary, err := e.remote.Summarize(ctx, clean)
	if err != nil {
		e.recordFailure("summarize", err)
		return fallbackSummary(clean)
	}

	metrics.EnrichmentCalls.WithLabelValues("summarize", "ok").Inc()
	return summary
}

// Sentiment classifies text, returning neutral on any failure.
func (e *Enricher) Sentiment(ctx context.Context, text string) domain.Sentiment {
	if e.remote == nil {
		return domain.SentimentNeutral
	}

	sentiment, err := e.remote.ClassifySentiment(ctx, textclean.Truncate(text, sentimentInputLimit))
	if err != nil {
		e.recordFailure("sentiment", err)
		return domain.SentimentNeutral
	}

	metrics.EnrichmentCalls.WithLabelValues("sentiment", "ok").Inc()
	return sentiment
}

func (e *Enricher) recordFailure(operation string, err error) {
	kind := FailureKind(err)
	metrics.EnrichmentCalls.WithLabelValues(operation, kind).Inc()
	e.logger.Warn("inference call failed, using fallback", "operation", operation, "kind", kind, "error", err)
}

// FailureKind names the class of an inference error for logs and metrics.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrUnexpectedStatus):
		return "status"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	default:
		return "transport"
	}
}

func fallbackSummary(content string) string {
	if textclean.Length(content) > fallbackSummaryLen {
		return textclean.Truncate(content, fallbackSummaryLen) + ellipsis
	}
	return content
}
