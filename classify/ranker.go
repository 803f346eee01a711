package classify

import (
	"sort"

	"healthpulse/config"
	"healthpulse/types"
)

// Rank orders classified articles by how well they serve the user's current
// focus and keeps the top entries. The focus category's relevance is
// weighted 0.7 against 0.3 for the other; a balanced focus averages both.
// Sorting is stable, so ties keep their fetch order.
func Rank(articles []types.ClassifiedArticle, priority types.HealthPriority) []types.ClassifiedArticle {
	ranked := make([]types.ClassifiedArticle, len(articles))
	copy(ranked, articles)

	for i := range ranked {
		ranked[i].PriorityScore = priorityScore(ranked[i].Relevance, priority.Focus)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	if len(ranked) > config.MaxRecommendations {
		ranked = ranked[:config.MaxRecommendations]
	}
	return ranked
}

func priorityScore(r types.RelevanceScore, focus types.FocusArea) float64 {
	switch focus {
	case types.FocusDiabetes:
		return config.FocusWeight*r.Diabetes + config.OffFocusWeight*r.Cholesterol
	case types.FocusCholesterol:
		return config.FocusWeight*r.Cholesterol + config.OffFocusWeight*r.Diabetes
	default:
		return (r.Diabetes + r.Cholesterol) / 2
	}
}
