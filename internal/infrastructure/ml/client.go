package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/domain"
	"AINewsAggregator/internal/ports"
)

// Failure kinds returned by Client. Transport errors are returned wrapped as-is.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrEmptyResult      = errors.New("empty result")
)

const (
	summaryMaxTokens = 100
	summaryMinTokens = 30
)

// Client talks to a Hugging Face style inference API for summaries and sentiment.
type Client struct {
	summarizeURL     string
	sentimentURL     string
	apiKey           string
	summaryTimeout   time.Duration
	sentimentTimeout time.Duration
	http             *http.Client
}

var _ ports.Inference = (*Client)(nil)

// NewClient creates a reusable client; per-call deadlines come from cfg.
func NewClient(cfg config.MLConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	summaryTimeout := cfg.SummaryTimeout
	if summaryTimeout <= 0 {
		summaryTimeout = 30 * time.Second
	}
	sentimentTimeout := cfg.SentimentTimeout
	if sentimentTimeout <= 0 {
		sentimentTimeout = 10 * time.Second
	}
	return &Client{
		summarizeURL:     cfg.SummarizationURL,
		sentimentURL:     cfg.SentimentURL,
		apiKey:           cfg.APIKey,
		summaryTimeout:   summaryTimeout,
		sentimentTimeout: sentimentTimeout,
		http:             httpClient,
	}
}

type summarizeRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters summarizeParams `json:"parameters"`
}

type summarizeParams struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type summaryItem struct {
	SummaryText string `json:"summary_text"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Summarize requests an abstractive summary with deterministic decoding.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.summaryTimeout)
	defer cancel()

	payload := summarizeRequest{
		Inputs: text,
		Parameters: summarizeParams{
			MaxLength: summaryMaxTokens,
			MinLength: summaryMinTokens,
			DoSample:  false,
		},
	}

	var raw json.RawMessage
	if err := c.post(ctx, c.summarizeURL, payload, &raw); err != nil {
		return "", err
	}

	return decodeSummary(raw)
}

// ClassifySentiment maps the first returned label to a Sentiment. The
// service lists labels by descending score.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.sentimentTimeout)
	defer cancel()

	var groups [][]labelScore
	if err := c.post(ctx, c.sentimentURL, map[string]string{"inputs": text}, &groups); err != nil {
		return domain.SentimentNeutral, err
	}

	if len(groups) == 0 || len(groups[0]) == 0 {
		return domain.SentimentNeutral, ErrEmptyResult
	}

	return domain.SentimentFromLabel(groups[0][0].Label), nil
}

// decodeSummary accepts both the list and the object response shapes.
func decodeSummary(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", ErrMalformedPayload
	}

	switch trimmed[0] {
	case '[':
		var items []summaryItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if len(items) == 0 || items[0].SummaryText == "" {
			return "", ErrEmptyResult
		}
		return items[0].SummaryText, nil
	case '{':
		var item summaryItem
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if item.SummaryText == "" {
			return "", ErrEmptyResult
		}
		return item.SummaryText, nil
	default:
		return "", ErrMalformedPayload
	}
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w %s: %s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("decode response: %w", ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return nil
}
