package usecase

import (
	"strings"

	"AINewsAggregator/internal/domain"
)

// CategoryGeneral collects articles that match no keyword list.
const CategoryGeneral = "General"

// Category is a topic bucket with the keywords that select it.
type Category struct {
	Name     string
	Keywords []string
}

// Categories lists topics in priority order; the first match wins.
var Categories = []Category{
	{Name: "Machine Learning", Keywords: []string{"machine learning", "ml", "neural network", "deep learning", "algorithm"}},
	{Name: "Natural Language Processing", Keywords: []string{"nlp", "language model", "chatbot", "text", "gpt"}},
	{Name: "Computer Vision", Keywords: []string{"computer vision", "image", "vision", "opencv", "detection"}},
	{Name: "Robotics", Keywords: []string{"robot", "robotics", "autonomous", "automation"}},
	{Name: "Ethics & AI", Keywords: []string{"ethics", "bias", "fairness", "regulation", "policy"}},
	{Name: "Business & AI", Keywords: []string{"business", "startup", "investment", "market", "company"}},
	{Name: "Research", Keywords: []string{"research", "paper", "study", "university", "academic"}},
}

// Categorize returns the first category whose keywords appear in the
// article title or content, or General.
func Categorize(article domain.Article) string {
	text := strings.ToLower(article.Title + " " + article.Content)
	for _, category := range Categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(text, keyword) {
				return category.Name
			}
		}
	}
	return CategoryGeneral
}

// CountCategories tallies articles per category, zero counts included.
func CountCategories(articles []domain.Article) map[string]int {
	counts := make(map[string]int, len(Categories)+1)
	for _, category := range Categories {
		counts[category.Name] = 0
	}
	counts[CategoryGeneral] = 0

	for _, article := range articles {
		counts[Categorize(article)]++
	}
	return counts
}
