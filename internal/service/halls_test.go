package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallbook/internal/apperrors"
	"hallbook/internal/models"
)

type hallFixture struct {
	svc       *HallService
	halls     *fakeHallStore
	centers   *fakeCenterStore
	schedules *fakeScheduleStore
	grants    *fakeAccessStore
}

func newHallFixture(t *testing.T) *hallFixture {
	t.Helper()
	halls := newFakeHallStore()
	centers := newFakeCenterStore()
	schedules := newFakeScheduleStore()
	grants := newFakeAccessStore()
	access := NewAccessService(halls, grants, nil)
	return &hallFixture{
		svc:       NewHallService(halls, centers, schedules, access, nil),
		halls:     halls,
		centers:   centers,
		schedules: schedules,
		grants:    grants,
	}
}

func (f *hallFixture) addCenter(t *testing.T, editors ...int64) int64 {
	t.Helper()
	center := models.Center{Name: "Saray"}
	require.NoError(t, f.centers.Create(context.Background(), &center))
	require.NoError(t, f.centers.ReplaceEditorIDs(context.Background(), center.ID, editors))
	return center.ID
}

func TestCreateHallInheritsCenterEditors(t *testing.T) {
	f := newHallFixture(t)
	ctx := context.Background()
	centerID := f.addCenter(t, 7, 8)

	hall, err := f.svc.Create(ctx, admin, &models.CreateHallRequest{
		CenterID:       centerID,
		Name:           "Big hall",
		Capacity:       300,
		AllowedUserIDs: []int64{8, 100},
	})
	require.NoError(t, err)

	// Union of explicit list and center editors, no duplicates.
	assert.Equal(t, 3, f.grants.grantCount(hall.ID))
	for _, userID := range []int64{7, 8, 100} {
		ok, err := f.grants.HasAccess(ctx, hall.ID, userID)
		require.NoError(t, err)
		assert.True(t, ok, "user %d", userID)
	}

	// Availability grid is pre-populated for the coming month.
	assert.Equal(t, availabilityDays*len(canonicalSlots), f.schedules.count())
}

func TestCreateHallValidation(t *testing.T) {
	f := newHallFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, admin, &models.CreateHallRequest{Name: "x", Capacity: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Create(ctx, admin, &models.CreateHallRequest{Name: "x", Capacity: 10, CenterID: 999})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	editor := models.Identity{UserID: 2, Role: models.RoleEditor}
	_, err = f.svc.Create(ctx, editor, &models.CreateHallRequest{Name: "x", Capacity: 10})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateHallReplacesGrantsSymmetrically(t *testing.T) {
	f := newHallFixture(t)
	ctx := context.Background()
	centerID := f.addCenter(t, 7)

	hall, err := f.svc.Create(ctx, admin, &models.CreateHallRequest{
		CenterID:       centerID,
		Name:           "Big hall",
		Capacity:       300,
		AllowedUserIDs: []int64{100},
	})
	require.NoError(t, err)

	// Update inherits the center's editors exactly like Create and drops
	// grants absent from the new union.
	_, err = f.svc.Update(ctx, admin, hall.ID, &models.UpdateHallRequest{
		CenterID:       centerID,
		Name:           "Big hall",
		Capacity:       300,
		AllowedUserIDs: []int64{200},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, f.grants.grantCount(hall.ID))
	ok, _ := f.grants.HasAccess(ctx, hall.ID, 7)
	assert.True(t, ok)
	ok, _ = f.grants.HasAccess(ctx, hall.ID, 200)
	assert.True(t, ok)
	ok, _ = f.grants.HasAccess(ctx, hall.ID, 100)
	assert.False(t, ok)
}

func TestUnassignedHallGetsNoInheritedGrants(t *testing.T) {
	f := newHallFixture(t)
	ctx := context.Background()

	hall, err := f.svc.Create(ctx, admin, &models.CreateHallRequest{
		Name:     "Standalone",
		Capacity: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.grants.grantCount(hall.ID))
}

func TestListHallsFallsBackToStore(t *testing.T) {
	f := newHallFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, admin, &models.CreateHallRequest{Name: "A", Capacity: 10})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, admin, &models.CreateHallRequest{Name: "B", Capacity: 20})
	require.NoError(t, err)

	items, err := f.svc.List(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestDeleteHallDropsGrants(t *testing.T) {
	f := newHallFixture(t)
	ctx := context.Background()

	hall, err := f.svc.Create(ctx, admin, &models.CreateHallRequest{
		Name:           "Big hall",
		Capacity:       300,
		AllowedUserIDs: []int64{100},
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.grants.grantCount(hall.ID))

	require.NoError(t, f.svc.Delete(ctx, admin, hall.ID))
	assert.Equal(t, 0, f.grants.grantCount(hall.ID))
}
