// Package coordination is the request-facing orchestration layer. It checks
// permissions, loads state from storage, drives the timeline engine, and
// publishes notifications for every corrected task.
package coordination

import (
	"context"
	"fmt"
	"time"

	"showrunner/internal/analytics"
	apperrors "showrunner/internal/errors"
	"showrunner/internal/logging"
	"showrunner/internal/milestones"
	"showrunner/internal/notify"
	"showrunner/internal/storage"
	"showrunner/internal/templates"
	"showrunner/internal/timeline"
	"showrunner/pkg/types"
)

// Permissions checked against the oracle before operations run
const (
	PermissionManageTimeline = "timeline.manage"
	PermissionViewTimeline   = "timeline.view"
)

// PermissionOracle answers membership/permission questions. It is an external
// collaborator; an error from it is surfaced to the caller unchanged.
type PermissionOracle interface {
	HasPermission(ctx context.Context, workspaceID, userID, permission string) (bool, error)
}

// AllowAllOracle grants every permission. Deployments without a membership
// service run with this; anything multi-tenant must plug in a real oracle.
type AllowAllOracle struct{}

// HasPermission implements PermissionOracle
func (AllowAllOracle) HasPermission(_ context.Context, _, _, _ string) (bool, error) {
	return true, nil
}

// SyncResult summarizes one timeline synchronization run
type SyncResult struct {
	EventID          string               `json:"event_id"`
	Milestones       []types.Milestone    `json:"milestones"`
	PlannedMutations []types.TaskMutation `json:"planned_mutations"`
	AppliedCount     int                  `json:"applied_count"`
}

// Service orchestrates the timeline engine against storage and the oracle.
// Two synchronizations racing over the same event are not serialized here;
// callers that can race must serialize them.
type Service struct {
	store     storage.Store
	oracle    PermissionOracle
	generator *milestones.Generator
	aligner   *timeline.Aligner
	analytics *analytics.Aggregator
	templates *templates.Recommender
	sink      notify.Sink
	logger    logging.Logger
}

// NewService creates the coordination service
func NewService(store storage.Store, oracle PermissionOracle, generator *milestones.Generator, sink notify.Sink, logger logging.Logger) *Service {
	return &Service{
		store:     store,
		oracle:    oracle,
		generator: generator,
		aligner:   timeline.NewAligner(),
		analytics: analytics.NewAggregator(),
		templates: templates.NewRecommender(),
		sink:      sink,
		logger:    logger.WithComponent("coordination"),
	}
}

// checkPermission consults the oracle and converts a denial into a forbidden
// error. Oracle failures pass through unchanged.
func (s *Service) checkPermission(ctx context.Context, workspaceID, userID, permission string) error {
	allowed, err := s.oracle.HasPermission(ctx, workspaceID, userID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.NewForbiddenError(workspaceID, permission)
	}
	return nil
}

// GenerateMilestones derives the canonical milestone set for an event. Pure
// read path: milestones are computed fresh and never persisted.
func (s *Service) GenerateMilestones(ctx context.Context, workspaceID, eventID, userID string) ([]types.Milestone, error) {
	if err := s.checkPermission(ctx, workspaceID, userID, PermissionViewTimeline); err != nil {
		return nil, err
	}
	event, err := s.store.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(event), nil
}

// SynchronizeTimeline generates milestones for the event, plans deadline
// corrections for every task overshooting its matched milestone, and applies
// them through the store one write per task. Apply is at-least-once with no
// rollback; the result reports how many writes landed before any failure.
func (s *Service) SynchronizeTimeline(ctx context.Context, workspaceID, eventID, userID string) (*SyncResult, error) {
	if err := s.checkPermission(ctx, workspaceID, userID, PermissionManageTimeline); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasksByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	eventMilestones := s.generator.Generate(event)
	mutations := s.aligner.PlanAlignment(tasks, eventMilestones)

	applied, applyErr := s.aligner.Apply(ctx, s.store, mutations)
	s.notifyCorrections(ctx, event, mutations[:applied])

	result := &SyncResult{
		EventID:          eventID,
		Milestones:       eventMilestones,
		PlannedMutations: mutations,
		AppliedCount:     applied,
	}
	if applyErr != nil {
		s.logger.ErrorContext(ctx, "timeline synchronization applied partially",
			"event_id", eventID, "applied", applied, "planned", len(mutations), "error", applyErr.Error())
		return result, fmt.Errorf("applied %d of %d corrections: %w", applied, len(mutations), applyErr)
	}

	s.logger.InfoContext(ctx, "timeline synchronized",
		"event_id", eventID, "milestones", len(eventMilestones), "corrections", applied)
	return result, nil
}

// HandleEventDateChange reruns alignment after the event's dates moved, but
// only for tasks that already carry an alignment stamp. Tasks never aligned
// before are left for the next full synchronization.
func (s *Service) HandleEventDateChange(ctx context.Context, workspaceID, eventID, userID string) (*SyncResult, error) {
	if err := s.checkPermission(ctx, workspaceID, userID, PermissionManageTimeline); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasksByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	eventMilestones := s.generator.Generate(event)
	mutations := s.aligner.PlanRealignment(tasks, eventMilestones)

	applied, applyErr := s.aligner.Apply(ctx, s.store, mutations)
	s.notifyCorrections(ctx, event, mutations[:applied])
	s.sink.Publish(ctx, notify.TimelineEvent{
		Type:        notify.TypeTimelineShifted,
		WorkspaceID: workspaceID,
		EventID:     eventID,
		Message:     fmt.Sprintf("Event dates changed, %d aligned tasks re-checked", len(mutations)),
		Timestamp:   time.Now(),
	})

	result := &SyncResult{
		EventID:          eventID,
		Milestones:       eventMilestones,
		PlannedMutations: mutations,
		AppliedCount:     applied,
	}
	if applyErr != nil {
		return result, fmt.Errorf("applied %d of %d corrections: %w", applied, len(mutations), applyErr)
	}
	return result, nil
}

// BuildProgressReport assembles the progress view for an event. Read only.
func (s *Service) BuildProgressReport(ctx context.Context, workspaceID, eventID, userID string) (*types.ProgressReport, error) {
	if err := s.checkPermission(ctx, workspaceID, userID, PermissionViewTimeline); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasksByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	workspace := &types.Workspace{ID: event.WorkspaceID, OrganizationID: event.OrganizationID}
	report := s.analytics.Report(workspace, event, tasks, s.generator.Generate(event))

	for i := range report.RiskFactors {
		risk := &report.RiskFactors[i]
		s.sink.Publish(ctx, notify.TimelineEvent{
			Type:        notify.TypeRiskDetected,
			WorkspaceID: workspaceID,
			EventID:     eventID,
			Message:     risk.Description,
			Timestamp:   report.GeneratedAt,
			Data:        risk,
		})
	}
	return report, nil
}

// RecommendTemplates scores every template visible to the event's
// organization and returns the filtered, sorted, truncated recommendations.
func (s *Service) RecommendTemplates(ctx context.Context, workspaceID, eventID, userID string, limit int) ([]types.TemplateRecommendation, error) {
	if err := s.checkPermission(ctx, workspaceID, userID, PermissionViewTimeline); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.store.ListCandidateTemplates(ctx, event.OrganizationID)
	if err != nil {
		return nil, err
	}
	return s.templates.Recommend(event, candidates, limit), nil
}

// notifyCorrections publishes one notification per applied correction
func (s *Service) notifyCorrections(ctx context.Context, event *types.Event, applied []types.TaskMutation) {
	for i := range applied {
		mutation := &applied[i]
		message := "Task deadline corrected to fit the milestone timeline"
		if mutation.NewDueDate != nil {
			message = fmt.Sprintf("Task deadline moved to %s to fit the milestone timeline",
				mutation.NewDueDate.Format("2006-01-02"))
		}
		s.sink.Publish(ctx, notify.TimelineEvent{
			Type:        notify.TypeDeadlineCorrected,
			WorkspaceID: event.WorkspaceID,
			EventID:     event.ID,
			TaskID:      mutation.TaskID,
			Message:     message,
			Timestamp:   time.Now(),
		})
	}
}
