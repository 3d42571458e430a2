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

type CenterService struct {
	centers    CenterStore
	access     *AccessService
	natsClient *messaging.NATSClient
}

func NewCenterService(centers CenterStore, access *AccessService, natsClient *messaging.NATSClient) *CenterService {
	return &CenterService{
		centers:    centers,
		access:     access,
		natsClient: natsClient,
	}
}

// editorSet resolves the center's editor list: an explicit list on the
// command wins, otherwise the legacy directive in the description is used.
func editorSet(explicit []int64, description string) []int64 {
	if len(explicit) > 0 {
		return dedupeIDs(explicit)
	}
	return ParseAllowedUserIDs(description)
}

func (s *CenterService) Create(ctx context.Context, caller models.Identity, req *models.CreateCenterRequest) (*models.Center, error) {
	if caller.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("only admins may create centers: %w", apperrors.ErrForbidden)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("center name is required: %w", apperrors.ErrValidation)
	}

	center := &models.Center{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := s.centers.Create(ctx, center); err != nil {
		return nil, fmt.Errorf("failed to create center: %w", err)
	}

	editors := editorSet(req.EditorIDs, req.Description)
	if len(editors) > 0 {
		if err := s.centers.ReplaceEditorIDs(ctx, center.ID, editors); err != nil {
			return nil, fmt.Errorf("failed to store center editors: %w", err)
		}
	}

	return center, nil
}

func (s *CenterService) GetByID(ctx context.Context, id int64) (*models.Center, error) {
	center, err := s.centers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get center: %w", err)
	}
	if center == nil {
		return nil, fmt.Errorf("center %d: %w", id, apperrors.ErrNotFound)
	}
	return center, nil
}

func (s *CenterService) List(ctx context.Context) ([]models.Center, error) {
	centers, err := s.centers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	return centers, nil
}

// Update rewrites the center and, when its editor set changed, resyncs the
// HallAccess grants of every hall under it.
func (s *CenterService) Update(ctx context.Context, caller models.Identity, id int64, req *models.UpdateCenterRequest) (*models.Center, error) {
	if caller.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("only admins may update centers: %w", apperrors.ErrForbidden)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("center name is required: %w", apperrors.ErrValidation)
	}

	center, err := s.centers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get center: %w", err)
	}
	if center == nil {
		return nil, fmt.Errorf("center %d: %w", id, apperrors.ErrNotFound)
	}

	oldEditors, err := s.centers.GetEditorIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get center editors: %w", err)
	}
	newEditors := editorSet(req.EditorIDs, req.Description)

	center.Name = req.Name
	center.Address = req.Address
	center.Description = req.Description
	center.ImageURL = req.ImageURL

	if err := s.centers.Update(ctx, center); err != nil {
		return nil, fmt.Errorf("failed to update center: %w", err)
	}

	if !equalIDSets(oldEditors, newEditors) {
		if err := s.centers.ReplaceEditorIDs(ctx, id, newEditors); err != nil {
			return nil, fmt.Errorf("failed to store center editors: %w", err)
		}

		hallCount, err := s.access.SyncCenterGrants(ctx, id, newEditors)
		if err != nil {
			return nil, fmt.Errorf("failed to resync hall grants: %w", err)
		}

		event := models.AccessResyncedEvent{
			CenterID:  id,
			HallCount: hallCount,
			EditorIDs: newEditors,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.EventAccessResynced, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish access resynced event",
				"error", err,
				"center_id", id)
		}
	}

	return center, nil
}

func (s *CenterService) Delete(ctx context.Context, caller models.Identity, id int64) error {
	if caller.Role != models.RoleSuperAdmin {
		return fmt.Errorf("only admins may delete centers: %w", apperrors.ErrForbidden)
	}

	center, err := s.centers.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get center: %w", err)
	}
	if center == nil {
		return fmt.Errorf("center %d: %w", id, apperrors.ErrNotFound)
	}

	return s.centers.Delete(ctx, id)
}
