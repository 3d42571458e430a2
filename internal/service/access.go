package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"hallbook/internal/apperrors"
	"hallbook/internal/cache"
	"hallbook/internal/models"
)

// allowedEditorsRe matches the legacy directive a center description may
// embed: Allowed-Editors: [12,34,56]
var allowedEditorsRe = regexp.MustCompile(`Allowed-Editors:\s*\[([^\]]*)\]`)

// ParseAllowedUserIDs extracts the editor allow-list embedded in a center
// description. A missing or malformed directive yields an empty set; tokens
// that are not positive integers are dropped silently.
func ParseAllowedUserIDs(description string) []int64 {
	match := allowedEditorsRe.FindStringSubmatch(description)
	if match == nil {
		return nil
	}

	var ids []int64
	seen := make(map[int64]bool)
	for _, token := range strings.Split(match[1], ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AccessService answers "can user U act on hall H" and keeps HallAccess
// grants consistent with center-level editor sets.
type AccessService struct {
	halls  HallStore
	grants AccessStore
	cache  *cache.AccessCache
}

func NewAccessService(halls HallStore, grants AccessStore, accessCache *cache.AccessCache) *AccessService {
	return &AccessService{
		halls:  halls,
		grants: grants,
		cache:  accessCache,
	}
}

// HasAccess reports whether a grant exists for the pair, consulting the
// cache first. Cache errors degrade to a store lookup.
func (s *AccessService) HasAccess(ctx context.Context, hallID, userID int64) (bool, error) {
	if s.cache != nil {
		if allowed, found := s.cache.Get(ctx, hallID, userID); found {
			return allowed, nil
		}
	}

	allowed, err := s.grants.HasAccess(ctx, hallID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check hall access: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, hallID, userID, allowed)
	}

	return allowed, nil
}

// ReplaceHallGrants rewrites one hall's grants and drops its cached
// answers. The input is de-duplicated before it reaches the store.
func (s *AccessService) ReplaceHallGrants(ctx context.Context, hallID int64, userIDs []int64) error {
	if err := s.grants.ReplaceForHall(ctx, hallID, dedupeIDs(userIDs)); err != nil {
		return fmt.Errorf("failed to replace grants for hall %d: %w", hallID, err)
	}

	if s.cache != nil {
		s.cache.InvalidateHall(ctx, hallID)
	}

	return nil
}

// HallGrants lists one hall's explicit grants.
func (s *AccessService) HallGrants(ctx context.Context, hallID int64) ([]models.HallAccess, error) {
	grants, err := s.grants.ListByHall(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants for hall %d: %w", hallID, err)
	}
	return grants, nil
}

// RemoveHallGrants drops all grants of a hall together with its cached
// answers. Called when the hall itself goes away.
func (s *AccessService) RemoveHallGrants(ctx context.Context, hallID int64) error {
	if err := s.grants.DeleteForHall(ctx, hallID); err != nil {
		return fmt.Errorf("failed to remove grants for hall %d: %w", hallID, err)
	}

	if s.cache != nil {
		s.cache.InvalidateHall(ctx, hallID)
	}

	return nil
}

// SyncCenterGrants performs the full resync: every hall of the center has
// its grants deleted and rebuilt from the editor set. Convergent even when
// prior state was corrupted. Returns the number of halls rewritten.
func (s *AccessService) SyncCenterGrants(ctx context.Context, centerID int64, editorIDs []int64) (int, error) {
	// A zero center id would sweep up every unassigned hall.
	if centerID <= 0 {
		return 0, fmt.Errorf("center id must be set for a grant resync: %w", apperrors.ErrValidation)
	}

	halls, err := s.halls.ListByCenterID(ctx, centerID)
	if err != nil {
		return 0, fmt.Errorf("failed to list halls of center %d: %w", centerID, err)
	}

	editorIDs = dedupeIDs(editorIDs)

	count := 0
	for _, hall := range halls {
		// Defense in depth against a store returning strays.
		if hall.CenterID != centerID {
			continue
		}
		if err := s.ReplaceHallGrants(ctx, hall.ID, editorIDs); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalIDSets(a, b []int64) bool {
	a, b = dedupeIDs(a), dedupeIDs(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
