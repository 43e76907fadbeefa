// Package milestones derives the canonical milestone timeline for an event.
package milestones

import (
	"fmt"
	"time"

	"showrunner/pkg/types"
)

// Milestone slugs. Slugs double as milestone IDs and are unique within one
// generation call.
const (
	SlugRegistrationOpen  = "registration-open"
	SlugRegistrationClose = "registration-close"
	SlugMarketingLaunch   = "marketing-launch"
	SlugVenueBooking      = "venue-booking"
	SlugFinalPreparations = "final-preparations"
	SlugEventStart        = "event-start"
	SlugEventEnd          = "event-end"
	SlugPostEventCleanup  = "post-event-cleanup"
)

// Generator derives milestones from an event's dates
type Generator struct {
	config GeneratorConfig
}

// GeneratorConfig holds the lead/lag offsets used when placing milestones
// around the event start and end dates
type GeneratorConfig struct {
	MarketingLeadDays int `json:"marketing_lead_days"`
	VenueLeadDays     int `json:"venue_lead_days"`
	FinalPrepLeadDays int `json:"final_prep_lead_days"`
	CleanupLagDays    int `json:"cleanup_lag_days"`
}

// DefaultGeneratorConfig returns the standard milestone offsets
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MarketingLeadDays: 30,
		VenueLeadDays:     14,
		FinalPrepLeadDays: 3,
		CleanupLagDays:    7,
	}
}

// NewGenerator creates a milestone generator with default offsets
func NewGenerator() *Generator {
	return &Generator{config: DefaultGeneratorConfig()}
}

// NewGeneratorWithConfig creates a milestone generator with custom offsets
func NewGeneratorWithConfig(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// Generate derives the ordered milestone list for an event. The result is
// deterministic: 8 milestones when the event has a registration deadline,
// 6 otherwise. Output order is emission order, not chronological order;
// callers that need chronological order must sort explicitly.
//
// Event date ordering is not validated. An end date before the start date
// simply yields milestones whose due dates are out of chronological sequence.
func (g *Generator) Generate(event *types.Event) []types.Milestone {
	milestones := make([]types.Milestone, 0, 8)

	if event.RegistrationDeadline != nil {
		milestones = append(milestones, types.Milestone{
			ID:          SlugRegistrationOpen,
			Name:        "Registration Opens",
			Description: "Open attendee registration",
			DueDate:     event.CreatedAt,
			Type:        types.MilestoneRegistrationOpen,
			Priority:    types.MilestonePriorityHigh,
		})
		milestones = append(milestones, types.Milestone{
			ID:           SlugRegistrationClose,
			Name:         "Registration Closes",
			Description:  "Close attendee registration",
			DueDate:      *event.RegistrationDeadline,
			Type:         types.MilestoneRegistrationClose,
			Priority:     types.MilestonePriorityCritical,
			Dependencies: []string{SlugRegistrationOpen},
		})
	}

	milestones = append(milestones, types.Milestone{
		ID:          SlugMarketingLaunch,
		Name:        "Marketing Launch",
		Description: fmt.Sprintf("Launch the marketing campaign %d days before the event", g.config.MarketingLeadDays),
		DueDate:     addDays(event.StartDate, -g.config.MarketingLeadDays),
		Type:        types.MilestoneMarketingLaunch,
		Priority:    types.MilestonePriorityHigh,
	})
	milestones = append(milestones, types.Milestone{
		ID:          SlugVenueBooking,
		Name:        "Venue Booking Confirmed",
		Description: fmt.Sprintf("Confirm venue and vendor bookings %d days before the event", g.config.VenueLeadDays),
		DueDate:     addDays(event.StartDate, -g.config.VenueLeadDays),
		Type:        types.MilestoneVenueBooking,
		Priority:    types.MilestonePriorityCritical,
	})

	finalPrepDeps := []string{SlugVenueBooking}
	if event.RegistrationDeadline != nil {
		finalPrepDeps = append(finalPrepDeps, SlugRegistrationClose)
	}
	milestones = append(milestones, types.Milestone{
		ID:           SlugFinalPreparations,
		Name:         "Final Preparations",
		Description:  fmt.Sprintf("Complete final preparations %d days before the event", g.config.FinalPrepLeadDays),
		DueDate:      addDays(event.StartDate, -g.config.FinalPrepLeadDays),
		Type:         types.MilestoneFinalPreparations,
		Priority:     types.MilestonePriorityCritical,
		Dependencies: finalPrepDeps,
	})

	milestones = append(milestones, types.Milestone{
		ID:           SlugEventStart,
		Name:         "Event Starts",
		Description:  "Event goes live",
		DueDate:      event.StartDate,
		Type:         types.MilestoneEventStart,
		Priority:     types.MilestonePriorityCritical,
		Dependencies: []string{SlugFinalPreparations},
	})
	milestones = append(milestones, types.Milestone{
		ID:           SlugEventEnd,
		Name:         "Event Ends",
		Description:  "Event wraps up",
		DueDate:      event.EffectiveEndDate(),
		Type:         types.MilestoneEventEnd,
		Priority:     types.MilestonePriorityCritical,
		Dependencies: []string{SlugEventStart},
	})
	milestones = append(milestones, types.Milestone{
		ID:           SlugPostEventCleanup,
		Name:         "Post-Event Cleanup",
		Description:  fmt.Sprintf("Teardown, retrospectives, and follow-ups within %d days after the event", g.config.CleanupLagDays),
		DueDate:      addDays(event.EffectiveEndDate(), g.config.CleanupLagDays),
		Type:         types.MilestonePostEventCleanup,
		Priority:     types.MilestonePriorityMedium,
		Dependencies: []string{SlugEventEnd},
	})

	return milestones
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
