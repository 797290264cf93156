package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
	"github.com/asysc2020/relationship-manager-project/internal/infra/metrics"
)

// Custom application-level errors for the schedule service
var ErrScheduleExists = fmt.Errorf("a schedule was already generated for this relationship")
var ErrBlankMethod = fmt.Errorf("methods must not be blank")

type ScheduleService struct {
	relRepo   relationship.Repository
	eventRepo outreach.Repository
	metrics   *metrics.Metrics
	logger    *logrus.Entry
}

func NewScheduleService(rr relationship.Repository, er outreach.Repository, m *metrics.Metrics, logger *logrus.Entry) *ScheduleService {
	return &ScheduleService{
		relRepo:   rr,
		eventRepo: er,
		metrics:   m,
		logger:    logger,
	}
}

// ScheduleSummary describes the outcome of a finalized method selection.
// First and Last are zero when no events were generated.
type ScheduleSummary struct {
	RelationshipID int64
	Methods        []string
	EventCount     int
	FirstScheduled time.Time
	LastScheduled  time.Time
}

// FinalizeMethods stores the chosen outreach methods on an owned
// relationship and bulk-persists the generated reminder schedule. A
// relationship is scheduled at most once: a second call reports
// ErrScheduleExists. An empty selection is accepted and produces no events,
// leaving the relationship open for a later selection.
func (s *ScheduleService) FinalizeMethods(ctx context.Context, actingUserID, relationshipID int64, methods []string) (*ScheduleSummary, error) {
	rel, err := s.relRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if err == idb.ErrRelationshipNotFound {
			return nil, idb.ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("failed to get relationship: %w", err)
	}
	if rel.UserID != actingUserID {
		return nil, idb.ErrRelationshipNotFound
	}

	// Finalization already happened if methods are stored or events exist.
	if len(rel.Methods) > 0 {
		return nil, ErrScheduleExists
	}
	scheduled, err := s.eventRepo.HasSchedule(ctx, relationshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing schedule: %w", err)
	}
	if scheduled {
		return nil, ErrScheduleExists
	}

	cleaned := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, ErrBlankMethod
		}
		cleaned = append(cleaned, m)
	}

	summary := &ScheduleSummary{
		RelationshipID: relationshipID,
		Methods:        cleaned,
	}
	if len(cleaned) == 0 {
		s.logger.Infof("relationship %d: empty method selection, no schedule generated", relationshipID)
		return summary, nil
	}

	events, err := outreach.GenerateEvents(relationshipID, rel.CreatedAt, rel.Category, cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	toInsert := make([]*outreach.Event, 0, len(events))
	for i := range events {
		ev := events[i]
		ev.UserID = rel.UserID
		toInsert = append(toInsert, &ev)
	}

	// Events are written before the methods column; stored methods mark the
	// relationship as finalized only once its schedule exists.
	if err := s.eventRepo.BulkCreate(ctx, toInsert); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}
	if err := s.relRepo.SetMethods(ctx, relationshipID, cleaned); err != nil {
		return nil, fmt.Errorf("failed to store methods: %w", err)
	}

	s.metrics.AddEventsGenerated(len(toInsert))
	s.metrics.IncSchedulesCreated()
	s.logger.Infof("relationship %d: generated %d events across %d methods", relationshipID, len(toInsert), len(cleaned))

	summary.EventCount = len(toInsert)
	summary.FirstScheduled = toInsert[0].ScheduledAt
	summary.LastScheduled = toInsert[len(toInsert)-1].ScheduledAt
	return summary, nil
}

// ListEvents returns the acting user's events joined with contact names,
// ordered by scheduled date.
func (s *ScheduleService) ListEvents(ctx context.Context, actingUserID int64) ([]*outreach.UserEvent, error) {
	events, err := s.eventRepo.ListByUser(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes one event, constrained to the acting user. Events
// owned by someone else read as absent.
func (s *ScheduleService) DeleteEvent(ctx context.Context, actingUserID, eventID int64) error {
	if err := s.eventRepo.Delete(ctx, eventID, actingUserID); err != nil {
		if err == idb.ErrEventNotFound {
			return idb.ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
