// Package newsfeed provides article sources for the personalization
// pipeline: the NewsAPI HTTP binding and an RSS fallback for deployments
// without an API key. Both honor the same contract: Search returns whatever
// it could fetch and an empty slice on any failure, never an error.
package newsfeed

import (
	"context"

	"healthpulse/types"
)

// Service is a source of health articles.
type Service interface {
	// Search returns up to pageSize articles matching the query. A failed
	// fetch logs internally and returns an empty slice; callers decide how
	// to degrade.
	Search(ctx context.Context, query string, pageSize int) []types.RawArticle
}
