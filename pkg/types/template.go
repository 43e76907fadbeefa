package types

import (
	"time"
)

// EventTemplate is a reusable bundle of roles, task categories, and channels
// that can be scored against a new event and applied to bootstrap a workspace
type EventTemplate struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description,omitempty"`
	Category       TemplateCategory      `json:"category"`
	Complexity     TemplateComplexity    `json:"complexity"`
	EventSizeRange EventSizeRange        `json:"event_size_range"`
	Roles          []string              `json:"roles,omitempty"`
	TaskCategories []TaskCategory        `json:"task_categories,omitempty"`
	Channels       []string              `json:"channels,omitempty"`
	Effectiveness  TemplateEffectiveness `json:"effectiveness"`
	Metadata       TemplateMetadata      `json:"metadata"`
	CreatedAt      time.Time             `json:"created_at"`
}

// TemplateCategory represents the event kind a template was designed for.
// Any non-general category counts as a full category match during scoring.
type TemplateCategory string

const (
	TemplateCategoryGeneral    TemplateCategory = "general"
	TemplateCategoryConference TemplateCategory = "conference"
	TemplateCategoryHackathon  TemplateCategory = "hackathon"
	TemplateCategoryMeetup     TemplateCategory = "meetup"
	TemplateCategoryWorkshop   TemplateCategory = "workshop"
)

// TemplateComplexity represents how heavyweight a template's structure is
type TemplateComplexity string

const (
	TemplateComplexitySimple   TemplateComplexity = "simple"
	TemplateComplexityModerate TemplateComplexity = "moderate"
	TemplateComplexityComplex  TemplateComplexity = "complex"
)

// EventSizeRange is the attendee range a template was designed for
type EventSizeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TemplateEffectiveness tracks how well a template performed when applied
type TemplateEffectiveness struct {
	CompletionRate float64 `json:"completion_rate"` // 0-100
	TimesApplied   int     `json:"times_applied"`
}

// TemplateMetadata carries ownership and visibility attributes
type TemplateMetadata struct {
	OrganizationID string `json:"organization_id,omitempty"`
	IsPublic       bool   `json:"is_public"`
}

// TemplateRecommendation is an ephemeral scoring result for one template
// against one event, sorted and truncated by the recommendation pipeline
type TemplateRecommendation struct {
	Template                 EventTemplate `json:"template"`
	MatchScore               int           `json:"match_score"` // 0-100
	MatchReasons             []string      `json:"match_reasons"`
	CustomizationSuggestions []string      `json:"customization_suggestions,omitempty"`
}
