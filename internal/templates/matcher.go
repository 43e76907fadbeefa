// Package templates scores reusable event templates against a target event
// and builds the recommendation shortlist.
package templates

import (
	"fmt"

	"showrunner/pkg/types"
)

// Matcher scores how well a template fits an event
type Matcher struct {
	config MatcherConfig
}

// MatcherConfig holds the per-check point weights. The weights sum to the
// score ceiling; partial-fit awards are fixed fractions of each weight.
type MatcherConfig struct {
	SizeWeight        int `json:"size_weight"`
	CategoryWeight    int `json:"category_weight"`
	ComplexityWeight  int `json:"complexity_weight"`
	ProvenanceWeight  int `json:"provenance_weight"`
	TrackRecordWeight int `json:"track_record_weight"`
}

// DefaultMatcherConfig returns the standard 30/25/20/15/10 weights
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		SizeWeight:        30,
		CategoryWeight:    25,
		ComplexityWeight:  20,
		ProvenanceWeight:  15,
		TrackRecordWeight: 10,
	}
}

// maxMatchScore is the hard ceiling on a recommendation's score
const maxMatchScore = 100

// NewMatcher creates a template matcher with default weights
func NewMatcher() *Matcher {
	return &Matcher{config: DefaultMatcherConfig()}
}

// Score rates a template against an event across five additive checks:
// size fit, category fit, complexity fit, provenance, and track record.
// The result is pure and capped at 100; there is no early exit, so every
// check contributes its reasons and suggestions even when a later check
// scores zero.
func (m *Matcher) Score(event *types.Event, template *types.EventTemplate) types.TemplateRecommendation {
	score := 0
	reasons := make([]string, 0, 4)
	suggestions := make([]string, 0, 2)

	score += m.scoreSizeFit(event, template, &reasons, &suggestions)
	score += m.scoreCategoryFit(template, &reasons)
	score += m.scoreComplexityFit(event, template, &reasons, &suggestions)
	score += m.scoreProvenance(event, template, &reasons)
	score += m.scoreTrackRecord(template, &reasons)

	if score > maxMatchScore {
		score = maxMatchScore
	}

	return types.TemplateRecommendation{
		Template:                 *template,
		MatchScore:               score,
		MatchReasons:             reasons,
		CustomizationSuggestions: suggestions,
	}
}

// scoreSizeFit awards the full size weight when the event capacity falls in
// the template's attendee range, half when the event is smaller, a third
// when it is larger
func (m *Matcher) scoreSizeFit(event *types.Event, template *types.EventTemplate, reasons, suggestions *[]string) int {
	capacity := event.EffectiveCapacity()
	sizeRange := template.EventSizeRange

	switch {
	case capacity >= sizeRange.Min && capacity <= sizeRange.Max:
		*reasons = append(*reasons, "Event size matches template range")
		return m.config.SizeWeight
	case capacity < sizeRange.Min:
		*suggestions = append(*suggestions, "Consider reducing team size and complexity for a smaller event")
		return m.config.SizeWeight / 2
	default:
		*suggestions = append(*suggestions, "Consider adding more roles and tasks for a larger event")
		return m.config.SizeWeight / 3
	}
}

// scoreCategoryFit treats any category-specific template as a full match;
// general-purpose templates get a reduced award
func (m *Matcher) scoreCategoryFit(template *types.EventTemplate, reasons *[]string) int {
	if template.Category == types.TemplateCategoryGeneral {
		*reasons = append(*reasons, "General-purpose template")
		return 15
	}
	*reasons = append(*reasons, fmt.Sprintf("Template designed for %s events", template.Category))
	return m.config.CategoryWeight
}

// scoreComplexityFit matches event duration against template complexity:
// one-day events suit simple templates, up to three days moderate, longer
// events complex
func (m *Matcher) scoreComplexityFit(event *types.Event, template *types.EventTemplate, reasons, suggestions *[]string) int {
	duration := event.DurationDays()

	matched := false
	switch {
	case duration <= 1 && template.Complexity == types.TemplateComplexitySimple:
		matched = true
	case duration <= 3 && template.Complexity == types.TemplateComplexityModerate:
		matched = true
	case duration > 3 && template.Complexity == types.TemplateComplexityComplex:
		matched = true
	}

	if matched {
		*reasons = append(*reasons, "Template complexity suits the event duration")
		return m.config.ComplexityWeight
	}
	*suggestions = append(*suggestions, fmt.Sprintf("Adjust template complexity (%s) to the %d-day event duration", template.Complexity, duration))
	return m.config.ComplexityWeight / 2
}

// scoreProvenance prefers templates from the event's own organization, then
// public templates
func (m *Matcher) scoreProvenance(event *types.Event, template *types.EventTemplate, reasons *[]string) int {
	if template.Metadata.OrganizationID != "" && template.Metadata.OrganizationID == event.OrganizationID {
		*reasons = append(*reasons, "Template from same organization")
		return m.config.ProvenanceWeight
	}
	if template.Metadata.IsPublic {
		*reasons = append(*reasons, "Public template available")
		return 10
	}
	return 0
}

// scoreTrackRecord rewards templates with a strong completion rate history
func (m *Matcher) scoreTrackRecord(template *types.EventTemplate, reasons *[]string) int {
	rate := template.Effectiveness.CompletionRate
	switch {
	case rate > 80:
		*reasons = append(*reasons, fmt.Sprintf("Strong track record (%.0f%% completion rate)", rate))
		return m.config.TrackRecordWeight
	case rate > 60:
		*reasons = append(*reasons, fmt.Sprintf("Decent track record (%.0f%% completion rate)", rate))
		return m.config.TrackRecordWeight / 2
	default:
		return 0
	}
}
