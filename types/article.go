package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArticleCategory tags an article with the health category it is relevant to.
type ArticleCategory string

const (
	CategoryDiabetes    ArticleCategory = "diabetes"
	CategoryCholesterol ArticleCategory = "cholesterol"
	CategoryGeneral     ArticleCategory = "general"
)

// RawArticle is an article as returned by a news source, before
// classification or translation.
type RawArticle struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Content     string    `json:"content,omitempty"`
}

// RelevanceScore holds the 0-1 keyword relevance per category.
type RelevanceScore struct {
	Diabetes    float64 `json:"diabetes"`
	Cholesterol float64 `json:"cholesterol"`
}

// ClassifiedArticle is a RawArticle plus its classification output. It lives
// only between the classify and rank steps of a run; what gets persisted is
// the translated Article.
type ClassifiedArticle struct {
	RawArticle
	Categories    []ArticleCategory `json:"categories"`
	Relevance     RelevanceScore    `json:"relevance"`
	PriorityScore float64           `json:"priority_score"`
}

// Article is the persisted, translated article cache entry, keyed by source
// URL so re-fetches of the same piece reuse the stored translation.
type Article struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SourceURL            string    `gorm:"uniqueIndex;size:2048" json:"source_url"`
	Source               string    `json:"source"`
	Title                string    `json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	Content              string    `gorm:"type:text" json:"content,omitempty"`
	ImageURL             string    `json:"image_url,omitempty"`
	Categories           string    `json:"categories"`
	DiabetesRelevance    float64   `json:"diabetes_relevance"`
	CholesterolRelevance float64   `json:"cholesterol_relevance"`
	PublishedAt          time.Time `json:"published_at"`
	CreatedAt            time.Time `json:"created_at"`
}

// TableName sets the gorm table name.
func (Article) TableName() string { return "articles" }

// CategoryList splits the stored comma-joined categories.
func (a *Article) CategoryList() []ArticleCategory {
	if a.Categories == "" {
		return nil
	}
	parts := strings.Split(a.Categories, ",")
	out := make([]ArticleCategory, 0, len(parts))
	for _, p := range parts {
		out = append(out, ArticleCategory(strings.TrimSpace(p)))
	}
	return out
}

// JoinCategories renders a category set into the stored string form.
func JoinCategories(cats []ArticleCategory) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// ArticleRecommendation is a per-user ranked pointer at a cached article.
// The full set for a user is replaced on every personalization run.
type ArticleRecommendation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"index" json:"user_id"`
	ArticleID     uuid.UUID `gorm:"type:uuid" json:"article_id"`
	Article       Article   `gorm:"foreignKey:ArticleID" json:"article"`
	PriorityScore float64   `json:"priority_score"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName sets the gorm table name.
func (ArticleRecommendation) TableName() string { return "article_recommendations" }

// RunResult is what a personalization run reports back to the caller. A
// failed run carries a message the UI can show; it is never a panic or a
// propagated error.
type RunResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Recommended int    `json:"recommended"`
}
