// Package classify scores article text against the health keyword sets and
// ranks the results for a user's focus. Everything here is pure: no I/O, no
// state, deterministic output for the same input.
package classify

import (
	"strings"

	"healthpulse/config"
	"healthpulse/types"
)

// Keyword sets are matched as case-insensitive substrings, so inflected
// forms ("diabetics", "triglycerides") count through their stems.
var (
	diabetesTerms = []string{
		"diabetes", "diabetic", "blood sugar", "gula darah", "glucose",
		"glukosa", "insulin", "hba1c", "hyperglycemia", "hiperglikemia",
		"type 2", "tipe 2", "kencing manis",
	}
	cholesterolTerms = []string{
		"cholesterol", "kolesterol", "ldl", "hdl", "triglyceride",
		"trigliserida", "statin", "hyperlipidemia", "lipid",
	}
)

// Classify scores every article against both keyword sets. The relevance
// score saturates linearly: ten occurrences of a set's terms count as fully
// relevant. Articles that clear no category threshold are tagged general.
func Classify(articles []types.RawArticle) []types.ClassifiedArticle {
	out := make([]types.ClassifiedArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, classifyOne(a))
	}
	return out
}

func classifyOne(a types.RawArticle) types.ClassifiedArticle {
	text := strings.ToLower(a.Title + " " + a.Description + " " + a.Content)

	ca := types.ClassifiedArticle{
		RawArticle: a,
		Relevance: types.RelevanceScore{
			Diabetes:    saturate(countTerms(text, diabetesTerms)),
			Cholesterol: saturate(countTerms(text, cholesterolTerms)),
		},
	}

	if ca.Relevance.Diabetes > config.CategoryThreshold {
		ca.Categories = append(ca.Categories, types.CategoryDiabetes)
	}
	if ca.Relevance.Cholesterol > config.CategoryThreshold {
		ca.Categories = append(ca.Categories, types.CategoryCholesterol)
	}
	if len(ca.Categories) == 0 {
		ca.Categories = []types.ArticleCategory{types.CategoryGeneral}
	}
	return ca
}

func countTerms(text string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += strings.Count(text, term)
	}
	return total
}

func saturate(count int) float64 {
	score := float64(count) / config.RelevanceSaturation
	if score > 1 {
		return 1
	}
	return score
}
