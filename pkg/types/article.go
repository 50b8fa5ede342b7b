// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ArticleDetail is the per-article record kept for each category an
// article contributes to.
type ArticleDetail struct {
	// ID is the article's bibliographic identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Citations is the article's citation count.
	Citations int `json:"citations" yaml:"citations"`

	// Year is the publication year.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Authors lists the author display names in publication order.
	Authors []string `json:"authors" yaml:"authors"`

	// Category is the owning category path key.
	Category string `json:"category" yaml:"category"`
}

// NewArticleDetail builds an ArticleDetail from a classified record for
// one category. The record identifier and category are required.
func NewArticleDetail(rec ClassifiedRecord, category string) (*ArticleDetail, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("article identifier is required")
	}
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	authors := make([]string, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		authors = append(authors, a.Name)
	}
	return &ArticleDetail{
		ID:        rec.ID,
		Title:     rec.Title,
		Citations: rec.Citations,
		Year:      rec.Year,
		Authors:   authors,
		Category:  category,
	}, nil
}

// ArticleCitationEntry is one article's entry in the title-keyed citation
// map, independent of faculty and category merge concerns.
type ArticleCitationEntry struct {
	Title     string `json:"title" yaml:"title"`
	ID        string `json:"id" yaml:"id"`
	Citations int    `json:"citations" yaml:"citations"`

	// URL is a deterministic identifier derived from the title at
	// export time.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ArticleStatsObject holds the run-wide citation map keyed by article title.
type ArticleStatsObject struct {
	CitationMap map[string]*ArticleCitationEntry `json:"article_citation_map" yaml:"article_citation_map"`
}

// NewArticleStatsObject returns an ArticleStatsObject with an initialized map.
func NewArticleStatsObject() *ArticleStatsObject {
	return &ArticleStatsObject{CitationMap: make(map[string]*ArticleCitationEntry)}
}
