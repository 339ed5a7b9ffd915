package usecase

import "AINewsAggregator/internal/domain"

// Dedupe keeps the first article for each normalized title, preserving order.
func Dedupe(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		key := domain.TitleKey(article.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, article)
	}
	return unique
}
