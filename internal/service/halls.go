package service

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/apperrors"
	"hallbook/internal/logger"
	"hallbook/internal/models"
	"hallbook/internal/search"
)

const availabilityDays = 30

type HallService struct {
	halls     HallStore
	centers   CenterStore
	schedules ScheduleStore
	access    *AccessService
	index     *search.HallIndex
}

func NewHallService(halls HallStore, centers CenterStore, schedules ScheduleStore, access *AccessService, index *search.HallIndex) *HallService {
	return &HallService{
		halls:     halls,
		centers:   centers,
		schedules: schedules,
		access:    access,
		index:     index,
	}
}

// centerEditors returns the center's editor set, or nil for unassigned halls.
func (s *HallService) centerEditors(ctx context.Context, centerID int64) ([]int64, error) {
	if centerID == 0 {
		return nil, nil
	}

	center, err := s.centers.GetByID(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get center: %w", err)
	}
	if center == nil {
		return nil, fmt.Errorf("center %d: %w", centerID, apperrors.ErrNotFound)
	}

	editors, err := s.centers.GetEditorIDs(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get center editors: %w", err)
	}

	return editors, nil
}

// Create stores a new hall, grants access to the union of the explicit
// allowed-user list and the owning center's editors, and pre-populates the
// availability grid for the next 30 days.
func (s *HallService) Create(ctx context.Context, caller models.Identity, req *models.CreateHallRequest) (*models.WeddingHall, error) {
	if caller.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("only admins may create halls: %w", apperrors.ErrForbidden)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", apperrors.ErrValidation)
	}

	editors, err := s.centerEditors(ctx, req.CenterID)
	if err != nil {
		return nil, err
	}

	hall := &models.WeddingHall{
		CenterID:         req.CenterID,
		Name:             req.Name,
		Address:          req.Address,
		Capacity:         req.Capacity,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		TechnicalDetails: req.TechnicalDetails,
	}

	if err := s.halls.Create(ctx, hall); err != nil {
		return nil, fmt.Errorf("failed to create hall: %w", err)
	}

	grants := append(append([]int64{}, req.AllowedUserIDs...), editors...)
	if err := s.access.ReplaceHallGrants(ctx, hall.ID, grants); err != nil {
		return nil, err
	}

	if err := s.schedules.CreateBatch(ctx, availabilityGrid(hall.ID, time.Now(), availabilityDays)); err != nil {
		return nil, fmt.Errorf("failed to pre-populate availability grid: %w", err)
	}

	s.reindex(ctx, hall)

	return hall, nil
}

func (s *HallService) GetByID(ctx context.Context, id int64) (*models.WeddingHall, error) {
	hall, err := s.halls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil {
		return nil, fmt.Errorf("hall %d: %w", id, apperrors.ErrNotFound)
	}
	return hall, nil
}

// List serves the public browse query. A non-empty search query goes to the
// hall index when available; everything else falls back to the store.
func (s *HallService) List(ctx context.Context, query string, page, pageSize int) ([]models.ListHallsItem, error) {
	if query != "" && s.index != nil {
		items, err := s.index.Search(ctx, query, page, pageSize)
		if err == nil {
			return items, nil
		}
		logger.WithContext(ctx).Error("Hall index search failed, falling back to store",
			"error", err,
			"query", query)
	}

	halls, err := s.halls.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list halls: %w", err)
	}

	items := make([]models.ListHallsItem, len(halls))
	for i, hall := range halls {
		items[i] = models.ListHallsItem{
			ID:       hall.ID,
			CenterID: hall.CenterID,
			Name:     hall.Name,
			Address:  hall.Address,
			Capacity: hall.Capacity,
		}
	}

	return items, nil
}

// Update rewrites the hall and fully replaces its grants with the union of
// the command's allowed-user list and the owning center's editors. Same
// inheritance rule as Create, applied on both paths on purpose.
func (s *HallService) Update(ctx context.Context, caller models.Identity, id int64, req *models.UpdateHallRequest) (*models.WeddingHall, error) {
	if caller.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("only admins may update halls: %w", apperrors.ErrForbidden)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", apperrors.ErrValidation)
	}

	hall, err := s.halls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil {
		return nil, fmt.Errorf("hall %d: %w", id, apperrors.ErrNotFound)
	}

	editors, err := s.centerEditors(ctx, req.CenterID)
	if err != nil {
		return nil, err
	}

	hall.CenterID = req.CenterID
	hall.Name = req.Name
	hall.Address = req.Address
	hall.Capacity = req.Capacity
	hall.Description = req.Description
	hall.ImageURL = req.ImageURL
	hall.TechnicalDetails = req.TechnicalDetails

	if err := s.halls.Update(ctx, hall); err != nil {
		return nil, fmt.Errorf("failed to update hall: %w", err)
	}

	grants := append(append([]int64{}, req.AllowedUserIDs...), editors...)
	if err := s.access.ReplaceHallGrants(ctx, hall.ID, grants); err != nil {
		return nil, err
	}

	s.reindex(ctx, hall)

	return hall, nil
}

func (s *HallService) Delete(ctx context.Context, caller models.Identity, id int64) error {
	if caller.Role != models.RoleSuperAdmin {
		return fmt.Errorf("only admins may delete halls: %w", apperrors.ErrForbidden)
	}

	hall, err := s.halls.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil {
		return fmt.Errorf("hall %d: %w", id, apperrors.ErrNotFound)
	}

	if err := s.halls.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete hall: %w", err)
	}

	if err := s.access.RemoveHallGrants(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteHall(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to remove hall from index",
				"error", err,
				"hall_id", id)
		}
	}

	return nil
}

func (s *HallService) reindex(ctx context.Context, hall *models.WeddingHall) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexHall(ctx, hall); err != nil {
		logger.WithContext(ctx).Error("Failed to index hall",
			"error", err,
			"hall_id", hall.ID)
	}
}
