package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hallbook/internal/apperrors"
	"hallbook/internal/logger"
	"hallbook/internal/messaging"
	"hallbook/internal/models"
)

type RequestService struct {
	requests   RequestStore
	halls      HallStore
	messages   MessageStore
	access     *AccessService
	natsClient *messaging.NATSClient
}

func NewRequestService(requests RequestStore, halls HallStore, messages MessageStore, access *AccessService, natsClient *messaging.NATSClient) *RequestService {
	return &RequestService{
		requests:   requests,
		halls:      halls,
		messages:   messages,
		access:     access,
		natsClient: natsClient,
	}
}

// Submit files a new pending request for a hall.
func (s *RequestService) Submit(ctx context.Context, caller models.Identity, req *models.SubmitRequestRequest) (*models.Request, error) {
	if req.EventType == "" {
		return nil, fmt.Errorf("event type is required: %w", apperrors.ErrValidation)
	}
	if err := validateDateTime(req.EventDate, req.EventTime); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	hall, err := s.halls.GetByID(ctx, req.WeddingHallID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil {
		return nil, fmt.Errorf("hall %d: %w", req.WeddingHallID, apperrors.ErrNotFound)
	}

	request := &models.Request{
		WeddingHallID:   req.WeddingHallID,
		CreatedByUserID: caller.UserID,
		Message:         req.Message,
		Status:          models.RequestPending,
		EventType:       req.EventType,
		EventName:       req.EventName,
		EventOwner:      req.EventOwner,
		EventDate:       req.EventDate,
		EventTime:       req.EventTime,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return request, nil
}

func (s *RequestService) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}
	return request, nil
}

func (s *RequestService) List(ctx context.Context, hallID *int64, status *string) ([]models.Request, error) {
	requests, err := s.requests.List(ctx, hallID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// authorizeDecision gates the Approve/Reject/Answer transitions: admins
// always, editors only with a grant for the request's hall.
func (s *RequestService) authorizeDecision(ctx context.Context, caller models.Identity, hallID int64) error {
	switch caller.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleEditor:
		hasAccess, err := s.access.HasAccess(ctx, hallID, caller.UserID)
		if err != nil {
			return err
		}
		if !hasAccess {
			return fmt.Errorf("no grant for hall: %w", apperrors.ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("viewers may not decide requests: %w", apperrors.ErrForbidden)
	}
}

// Approve converts a pending request into a reserved schedule on the
// canonical slot computed from its event time. The store performs both
// writes in one transaction; on a slot conflict nothing changes and the
// request stays pending.
func (s *RequestService) Approve(ctx context.Context, caller models.Identity, id int64) (*models.Schedule, error) {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeDecision(ctx, caller, request.WeddingHallID); err != nil {
		return nil, err
	}

	start, end := CanonicalRange(request.EventTime)

	schedule := &models.Schedule{
		WeddingHallID:   request.WeddingHallID,
		Date:            request.EventDate,
		StartTime:       start,
		EndTime:         end,
		Status:          models.ScheduleReserved,
		CreatedByUserID: &caller.UserID,
		EventType:       &request.EventType,
		EventName:       &request.EventName,
		EventOwner:      &request.EventOwner,
	}

	if err := s.requests.Approve(ctx, id, schedule); err != nil {
		return nil, err
	}

	event := models.RequestApprovedEvent{
		RequestID:     id,
		ScheduleID:    schedule.ID,
		WeddingHallID: schedule.WeddingHallID,
		Date:          schedule.Date,
		StartTime:     schedule.StartTime,
		EndTime:       schedule.EndTime,
		Timestamp:     time.Now(),
	}
	if err := s.natsClient.Publish(models.EventRequestApproved, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish request approved event",
			"error", err,
			"request_id", id)
	}

	return schedule, nil
}

// rejectionAnnotation formats the reason appended to the request message.
// Blank reasons produce no annotation.
func rejectionAnnotation(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ""
	}
	return fmt.Sprintf("\n[Rejected] %s", reason)
}

func (s *RequestService) Reject(ctx context.Context, caller models.Identity, id int64, reason string) error {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeDecision(ctx, caller, request.WeddingHallID); err != nil {
		return err
	}

	if err := s.requests.Reject(ctx, id, rejectionAnnotation(reason)); err != nil {
		return err
	}

	event := models.RequestRejectedEvent{
		RequestID: id,
		Reason:    strings.TrimSpace(reason),
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventRequestRejected, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish request rejected event",
			"error", err,
			"request_id", id)
	}

	return nil
}

// Answer closes a pending request without creating a schedule.
func (s *RequestService) Answer(ctx context.Context, caller models.Identity, id int64) error {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeDecision(ctx, caller, request.WeddingHallID); err != nil {
		return err
	}

	return s.requests.Answer(ctx, id)
}

// canUpdateRequest: a viewer may edit only their own request and only while
// it is pending; editors and admins may edit regardless of status.
func canUpdateRequest(caller models.Identity, request *models.Request) error {
	switch caller.Role {
	case models.RoleSuperAdmin, models.RoleEditor:
		return nil
	default:
		if request.CreatedByUserID != caller.UserID {
			return fmt.Errorf("not the request owner: %w", apperrors.ErrForbidden)
		}
		if request.Status != models.RequestPending {
			return fmt.Errorf("request already decided: %w", apperrors.ErrForbidden)
		}
		return nil
	}
}

func (s *RequestService) Update(ctx context.Context, caller models.Identity, id int64, req *models.UpdateRequestRequest) (*models.Request, error) {
	if req.EventType == "" {
		return nil, fmt.Errorf("event type is required: %w", apperrors.ErrValidation)
	}
	if err := validateDateTime(req.EventDate, req.EventTime); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canUpdateRequest(caller, request); err != nil {
		return nil, err
	}

	request.Message = req.Message
	request.EventType = req.EventType
	request.EventName = req.EventName
	request.EventOwner = req.EventOwner
	request.EventDate = req.EventDate
	request.EventTime = req.EventTime

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// Delete removes a request and its message thread, messages first. A failure
// between the two deletes is reported as-is; the caller decides how to
// reconcile, there is no automatic retry.
func (s *RequestService) Delete(ctx context.Context, caller models.Identity, id int64) error {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if caller.Role == models.RoleViewer && request.CreatedByUserID != caller.UserID {
		return fmt.Errorf("not the request owner: %w", apperrors.ErrForbidden)
	}

	if err := s.messages.DeleteByRequestID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete messages of request %d: %w", id, err)
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return fmt.Errorf("messages removed but request %d deletion failed: %w", id, err)
	}

	return nil
}

// AddMessage appends to the request's thread.
func (s *RequestService) AddMessage(ctx context.Context, caller models.Identity, requestID int64, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content is required: %w", apperrors.ErrValidation)
	}

	if _, err := s.GetByID(ctx, requestID); err != nil {
		return nil, err
	}

	message := &models.Message{
		RequestID:    requestID,
		SenderUserID: caller.UserID,
		Content:      content,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

func (s *RequestService) ListMessages(ctx context.Context, requestID int64) ([]models.Message, error) {
	if _, err := s.GetByID(ctx, requestID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
