package domain

// Source is an RSS feed the aggregator pulls from.
type Source struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// DefaultSources is the static source table seeded into the store.
func DefaultSources() []Source {
	return []Source{
		{Name: "TechCrunch AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/", Active: true},
		{Name: "VentureBeat AI", URL: "https://venturebeat.com/ai/feed/", Active: true},
		{Name: "MIT Technology Review", URL: "https://www.technologyreview.com/feed/", Active: true},
		{Name: "The Verge AI", URL: "https://www.theverge.com/ai-artificial-intelligence/rss/index.xml", Active: true},
		{Name: "AI News", URL: "https://artificialintelligence-news.com/feed/", Active: true},
	}
}

// ActiveOnly filters out disabled sources, keeping order.
func ActiveOnly(sources []Source) []Source {
	active := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}
