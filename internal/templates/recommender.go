package templates

import (
	"sort"

	"showrunner/pkg/types"
)

const (
	// minRecommendationScore is the cutoff below which a scored template is
	// discarded rather than recommended
	minRecommendationScore = 30
	// maxRecommendations caps the shortlist length
	maxRecommendations = 10
)

// Recommender runs the scoring pipeline over a set of candidate templates
type Recommender struct {
	matcher *Matcher
}

// NewRecommender creates a template recommender
func NewRecommender() *Recommender {
	return &Recommender{matcher: NewMatcher()}
}

// Recommend scores every candidate template against the event, discards
// scores at or below the cutoff, and returns the survivors sorted by score
// descending, truncated to at most limit entries (capped at 10). A limit of
// zero or less means "up to the cap".
func (r *Recommender) Recommend(event *types.Event, candidates []types.EventTemplate, limit int) []types.TemplateRecommendation {
	recommendations := make([]types.TemplateRecommendation, 0, len(candidates))

	for i := range candidates {
		rec := r.matcher.Score(event, &candidates[i])
		if rec.MatchScore <= minRecommendationScore {
			continue
		}
		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].MatchScore > recommendations[j].MatchScore
	})

	if limit <= 0 || limit > maxRecommendations {
		limit = maxRecommendations
	}
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}
