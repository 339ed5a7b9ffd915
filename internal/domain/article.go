package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Article is a news item collected from a feed and enriched for the API.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	AISummary string    `json:"ai_summary"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ArticleID derives a stable identifier from the title and the source name,
// so syndicated stories from different sources keep distinct ids.
func ArticleID(title, source string) string {
	sum := md5.Sum([]byte(title + source))
	return hex.EncodeToString(sum[:])
}

// TitleKey is the normalized title used to collapse duplicates in a batch.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Sentiment enumerates labels assigned by the classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentFromLabel maps a raw classifier label onto a Sentiment.
func SentimentFromLabel(label string) Sentiment {
	label = strings.ToLower(label)
	switch {
	case strings.Contains(label, "pos"):
		return SentimentPositive
	case strings.Contains(label, "neg"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
