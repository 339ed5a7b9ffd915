package usecase

import (
	"testing"

	"AINewsAggregator/internal/domain"
)

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	got := Dedupe([]domain.Article{
		{ID: "first", Title: "GPT-5 Launches"},
		{ID: "second", Title: "gpt-5 launches "},
		{ID: "third", Title: "Another Story"},
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].ID != "first" || got[1].ID != "third" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestDedupeEmpty(t *testing.T) {
	t.Parallel()

	if got := Dedupe(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title   string
		content string
		want    string
	}{
		{"Inside the neural network", "", "Machine Learning"},
		{"Weather today", "Sunny skies", CategoryGeneral},
		{"New chatbot released", "", "Natural Language Processing"},
		{"Startup raises funds", "", "Business & AI"},
		{"Quiet week", "a new university study", "Research"},
		{"Robot arms", "powered by deep learning", "Machine Learning"},
	}

	for _, tc := range cases {
		got := Categorize(domain.Article{Title: tc.title, Content: tc.content})
		if got != tc.want {
			t.Fatalf("Categorize(%q, %q) = %q, want %q", tc.title, tc.content, got, tc.want)
		}
	}
}

func TestCountCategoriesIncludesZeroes(t *testing.T) {
	t.Parallel()

	counts := CountCategories(nil)
	if len(counts) != len(Categories)+1 {
		t.Fatalf("expected %d keys, got %d", len(Categories)+1, len(counts))
	}
	for name, n := range counts {
		if n != 0 {
			t.Fatalf("expected zero count for %s, got %d", name, n)
		}
	}
}
