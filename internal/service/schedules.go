package service

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/apperrors"
	"hallbook/internal/logger"
	"hallbook/internal/messaging"
	"hallbook/internal/models"
)

type ScheduleService struct {
	schedules  ScheduleStore
	halls      HallStore
	access     *AccessService
	natsClient *messaging.NATSClient
}

func NewScheduleService(schedules ScheduleStore, halls HallStore, access *AccessService, natsClient *messaging.NATSClient) *ScheduleService {
	return &ScheduleService{
		schedules:  schedules,
		halls:      halls,
		access:     access,
		natsClient: natsClient,
	}
}

// editorDepartmentMatches enforces the department rule for editors: a
// reserved slot with an event type may only be touched by an editor whose
// department equals it. An editor with no department never matches.
func editorDepartmentMatches(caller models.Identity, eventType *string) bool {
	if eventType == nil || *eventType == "" {
		return true
	}
	return caller.Department != "" && caller.Department == *eventType
}

// authorizeCreate gates direct schedule creation.
func authorizeCreate(caller models.Identity, hasAccess bool, status string, eventType *string) error {
	switch caller.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleEditor:
		if !hasAccess {
			return fmt.Errorf("no grant for hall: %w", apperrors.ErrForbidden)
		}
		if status == models.ScheduleReserved && !editorDepartmentMatches(caller, eventType) {
			return fmt.Errorf("event type outside editor department: %w", apperrors.ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("viewers may not create schedules: %w", apperrors.ErrForbidden)
	}
}

// authorizeUpdate gates direct schedule updates. Editors need a hall grant,
// a department match on the slot's current reserved event type, and a
// department match on any event type the update reserves the slot with.
func authorizeUpdate(caller models.Identity, current *models.Schedule, req *models.UpdateScheduleRequest, hasAccess bool) error {
	switch caller.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleEditor:
		if !hasAccess {
			return fmt.Errorf("no grant for hall: %w", apperrors.ErrForbidden)
		}
		if current.Status == models.ScheduleReserved && !editorDepartmentMatches(caller, current.EventType) {
			return fmt.Errorf("reserved slot outside editor department: %w", apperrors.ErrForbidden)
		}
		if current.Status == models.ScheduleAvailable && req.Status == models.ScheduleReserved &&
			!editorDepartmentMatches(caller, req.EventType) {
			return fmt.Errorf("event type outside editor department: %w", apperrors.ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("viewers may not update schedules: %w", apperrors.ErrForbidden)
	}
}

// authorizeDelete gates direct schedule deletion. An editor must have a
// department and it must equal the slot's event type.
func authorizeDelete(caller models.Identity, current *models.Schedule) error {
	switch caller.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleEditor:
		if caller.Department == "" {
			return fmt.Errorf("editor has no department: %w", apperrors.ErrForbidden)
		}
		if current.EventType == nil || *current.EventType != caller.Department {
			return fmt.Errorf("slot outside editor department: %w", apperrors.ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("viewers may not delete schedules: %w", apperrors.ErrForbidden)
	}
}

func validStatus(status string) bool {
	return status == models.ScheduleAvailable || status == models.ScheduleReserved
}

func (s *ScheduleService) Create(ctx context.Context, caller models.Identity, req *models.CreateScheduleRequest) (*models.Schedule, error) {
	status := req.Status
	if status == "" {
		status = models.ScheduleAvailable
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", req.Status, apperrors.ErrValidation)
	}
	if err := validateDateTime(req.Date, req.StartTime); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	start, end := req.StartTime, req.EndTime
	if end == "" {
		start, end = CanonicalRange(req.StartTime)
	}
	if !validTime(end) || start >= end {
		return nil, fmt.Errorf("invalid time range %s-%s: %w", start, end, apperrors.ErrValidation)
	}

	hall, err := s.halls.GetByID(ctx, req.WeddingHallID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil {
		return nil, fmt.Errorf("hall %d: %w", req.WeddingHallID, apperrors.ErrNotFound)
	}

	hasAccess, err := s.access.HasAccess(ctx, hall.ID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCreate(caller, hasAccess, status, req.EventType); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		WeddingHallID:   req.WeddingHallID,
		Date:            req.Date,
		StartTime:       start,
		EndTime:         end,
		Status:          status,
		CreatedByUserID: &caller.UserID,
		EventType:       req.EventType,
		EventName:       req.EventName,
		EventOwner:      req.EventOwner,
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	event := models.ScheduleCreatedEvent{
		ScheduleID:    schedule.ID,
		WeddingHallID: schedule.WeddingHallID,
		Status:        schedule.Status,
		Timestamp:     time.Now(),
	}
	if err := s.natsClient.Publish(models.EventScheduleCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish schedule created event",
			"error", err,
			"schedule_id", schedule.ID)
	}

	return schedule, nil
}

func (s *ScheduleService) ListByHall(ctx context.Context, hallID int64, date *string) ([]models.Schedule, error) {
	if date != nil && !validDate(*date) {
		return nil, fmt.Errorf("invalid date %q: %w", *date, apperrors.ErrValidation)
	}

	schedules, err := s.schedules.ListByHall(ctx, hallID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (s *ScheduleService) Update(ctx context.Context, caller models.Identity, id int64, req *models.UpdateScheduleRequest) (*models.Schedule, error) {
	if !validStatus(req.Status) {
		return nil, fmt.Errorf("invalid status %q: %w", req.Status, apperrors.ErrValidation)
	}
	if err := validateDateTime(req.Date, req.StartTime); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	if !validTime(req.EndTime) || req.StartTime >= req.EndTime {
		return nil, fmt.Errorf("invalid time range %s-%s: %w", req.StartTime, req.EndTime, apperrors.ErrValidation)
	}

	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %d: %w", id, apperrors.ErrNotFound)
	}

	hasAccess, err := s.access.HasAccess(ctx, schedule.WeddingHallID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if err := authorizeUpdate(caller, schedule, req, hasAccess); err != nil {
		return nil, err
	}

	schedule.Date = req.Date
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	schedule.Status = req.Status
	schedule.EventType = req.EventType
	schedule.EventName = req.EventName
	schedule.EventOwner = req.EventOwner

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *ScheduleService) Delete(ctx context.Context, caller models.Identity, id int64) error {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}
	if schedule == nil {
		return fmt.Errorf("schedule %d: %w", id, apperrors.ErrNotFound)
	}

	if err := authorizeDelete(caller, schedule); err != nil {
		return err
	}

	return s.schedules.Delete(ctx, id)
}

// DeleteAll wipes the whole calendar. Maintenance operation, admins only.
func (s *ScheduleService) DeleteAll(ctx context.Context, caller models.Identity) (int64, error) {
	if caller.Role != models.RoleSuperAdmin {
		return 0, fmt.Errorf("only admins may wipe schedules: %w", apperrors.ErrForbidden)
	}

	count, err := s.schedules.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedules: %w", err)
	}

	logger.WithContext(ctx).Info("Deleted all schedules", "count", count)
	return count, nil
}
