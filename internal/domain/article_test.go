package domain

import "testing"

func TestArticleIDStable(t *testing.T) {
	t.Parallel()

	first := ArticleID("GPT-5 Launches", "TechCrunch AI")
	second := ArticleID("GPT-5 Launches", "TechCrunch AI")
	if first != second {
		t.Fatalf("id changed between calls: %s vs %s", first, second)
	}
	if len(first) != 32 {
		t.Fatalf("expected md5 hex id, got %q", first)
	}

	if other := ArticleID("GPT-5 Launches", "The Verge AI"); other == first {
		t.Fatalf("expected different sources to yield different ids")
	}
}

func TestSentimentFromLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]Sentiment{
		"positive": SentimentPositive,
		"POSITIVE": SentimentPositive,
		"Negative": SentimentNegative,
		"neutral":  SentimentNeutral,
		"LABEL_1":  SentimentNeutral,
		"":         SentimentNeutral,
	}
	for label, want := range cases {
		if got := SentimentFromLabel(label); got != want {
			t.Fatalf("SentimentFromLabel(%q) = %s, want %s", label, got, want)
		}
	}
}

func TestActiveOnly(t *testing.T) {
	t.Parallel()

	got := ActiveOnly([]Source{
		{Name: "a", Active: true},
		{Name: "b"},
		{Name: "c", Active: true},
	})
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("unexpected active sources: %+v", got)
	}
}
