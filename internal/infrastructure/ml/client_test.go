package ml

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/domain"
)

func newTestClient(url string, apiKey string) *Client {
	return NewClient(config.MLConfig{
		SummarizationURL: url + "/summarize",
		SentimentURL:     url + "/sentiment",
		APIKey:           apiKey,
		SummaryTimeout:   time.Second,
		SentimentTimeout: time.Second,
	}, nil)
}

func TestSummarizeSendsParameters(t *testing.T) {
	t.Parallel()

	var got summarizeRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[{"summary_text":"A short summary."}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "hf_token")
	summary, err := client.Summarize(context.Background(), "some long article text")

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
	assert.Equal(t, "Bearer hf_token", auth)
	assert.Equal(t, "some long article text", got.Inputs)
	assert.Equal(t, 100, got.Parameters.MaxLength)
	assert.Equal(t, 30, got.Parameters.MinLength)
	assert.False(t, got.Parameters.DoSample)
}

func TestSummarizeAnonymousCall(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"summary_text":"object shape"}`))
	}))
	defer server.Close()

	summary, err := newTestClient(server.URL, "").Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "object shape", summary)
}

func TestSummarizeFailureKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "status", status: http.StatusServiceUnavailable, body: `{"error":"Model is loading"}`, wantErr: ErrUnexpectedStatus},
		{name: "malformed", status: http.StatusOK, body: `not json`, wantErr: ErrMalformedPayload},
		{name: "empty list", status: http.StatusOK, body: `[]`, wantErr: ErrEmptyResult},
		{name: "missing field", status: http.StatusOK, body: `{"generated_text":"x"}`, wantErr: ErrEmptyResult},
		{name: "scalar", status: http.StatusOK, body: `"text"`, wantErr: ErrMalformedPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, "").Summarize(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestClassifySentimentUsesFirstLabel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[{"label":"negative","score":0.3},{"label":"neutral","score":0.5},{"label":"positive","score":0.2}]]`))
	}))
	defer server.Close()

	sentiment, err := newTestClient(server.URL, "").ClassifySentiment(context.Background(), "layoffs everywhere")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, sentiment)
}

func TestClassifySentimentTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(config.MLConfig{
		SentimentURL:     server.URL,
		SentimentTimeout: 50 * time.Millisecond,
	}, nil)

	sentiment, err := client.ClassifySentiment(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, "timeout", FailureKind(err))
	assert.Equal(t, domain.SentimentNeutral, sentiment)
}

func TestClassifySentimentEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[]]`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "").ClassifySentiment(context.Background(), "text")
	assert.ErrorIs(t, err, ErrEmptyResult)
}
