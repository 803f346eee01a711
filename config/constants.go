package config

import "time"

// Personalization Pipeline Constants
const (
	// MaxRecommendations caps how many ranked articles a run keeps per user
	MaxRecommendations = 10

	// RelevanceSaturation is the keyword occurrence count at which a
	// category relevance score saturates to 1.0
	RelevanceSaturation = 10.0

	// CategoryThreshold is the minimum relevance score for an article to be
	// tagged with a category
	CategoryThreshold = 0.2

	// FocusWeight weights the relevance score of the user's focus category
	FocusWeight = 0.7

	// OffFocusWeight weights the relevance score of the other category
	OffFocusWeight = 0.3

	// BalancedMargin is the score gap below which the priority analyzer
	// declines to pick a focus and stays balanced
	BalancedMargin = 0.15
)

// External Service Constants
const (
	// DefaultTranslateInterval spaces out successive translation calls
	DefaultTranslateInterval = 1 * time.Second

	// DefaultExternalTimeout bounds each individual external HTTP call
	DefaultExternalTimeout = 30 * time.Second

	// DefaultNewsQuery is the search query used when none is configured
	DefaultNewsQuery = `diabetes OR cholesterol OR "blood sugar"`

	// DefaultNewsPageSize is how many articles a fetch asks for
	DefaultNewsPageSize = 20
)
