package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallbook/internal/apperrors"
	"hallbook/internal/models"
)

type requestFixture struct {
	svc       *RequestService
	requests  *fakeRequestStore
	schedules *fakeScheduleStore
	messages  *fakeMessageStore
	grants    *fakeAccessStore
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	halls := newFakeHallStore(models.WeddingHall{ID: 1, CenterID: 10, Name: "Atakent"})
	schedules := newFakeScheduleStore()
	requests := newFakeRequestStore(schedules)
	messages := newFakeMessageStore()
	grants := newFakeAccessStore()
	access := NewAccessService(halls, grants, nil)
	return &requestFixture{
		svc:       NewRequestService(requests, halls, messages, access, nil),
		requests:  requests,
		schedules: schedules,
		messages:  messages,
		grants:    grants,
	}
}

var (
	admin  = models.Identity{UserID: 1, Role: models.RoleSuperAdmin}
	viewer = models.Identity{UserID: 50, Role: models.RoleViewer}
)

func submit(t *testing.T, f *requestFixture, caller models.Identity, date, timeOfDay string) *models.Request {
	t.Helper()
	request, err := f.svc.Submit(context.Background(), caller, &models.SubmitRequestRequest{
		WeddingHallID: 1,
		Message:       "please",
		EventType:     "Nikah",
		EventName:     "Aruzhan & Dias",
		EventDate:     date,
		EventTime:     timeOfDay,
	})
	require.NoError(t, err)
	return request
}

func TestSubmitValidation(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	request := submit(t, f, viewer, "2026-09-10", "10:30")
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, viewer.UserID, request.CreatedByUserID)

	_, err := f.svc.Submit(ctx, viewer, &models.SubmitRequestRequest{
		WeddingHallID: 1, EventType: "", EventDate: "2026-09-10", EventTime: "10:30",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Submit(ctx, viewer, &models.SubmitRequestRequest{
		WeddingHallID: 99, EventType: "Nikah", EventDate: "2026-09-10", EventTime: "10:30",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApproveWritesScheduleAndCloses(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "10:30")

	schedule, err := f.svc.Approve(ctx, admin, request.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleReserved, schedule.Status)
	assert.Equal(t, "10:30", schedule.StartTime)
	assert.Equal(t, "11:30", schedule.EndTime)
	require.NotNil(t, schedule.EventType)
	assert.Equal(t, "Nikah", *schedule.EventType)

	got, err := f.svc.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAnswered, got.Status)
	assert.Equal(t, 1, f.schedules.count())

	// Terminal: no further transition.
	_, err = f.svc.Approve(ctx, admin, request.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	err = f.svc.Reject(ctx, admin, request.ID, "late")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	err = f.svc.Answer(ctx, admin, request.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestApproveConflictLeavesRequestPending(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	first := submit(t, f, viewer, "2026-09-10", "10:30")
	second := submit(t, f, viewer, "2026-09-10", "10:30")

	_, err := f.svc.Approve(ctx, admin, first.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, admin, second.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := f.svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, got.Status)
	assert.Equal(t, 1, f.schedules.count())
}

func TestConcurrentApprovalsOneWinner(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	ids := make([]int64, 8)
	for i := range ids {
		ids[i] = submit(t, f, viewer, "2026-09-10", "14:00").ID
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = f.svc.Approve(ctx, admin, id)
		}(i, id)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrConflict)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, f.schedules.count())

	pending := 0
	for _, id := range ids {
		got, err := f.svc.GetByID(ctx, id)
		require.NoError(t, err)
		if got.Status == models.RequestPending {
			pending++
		}
	}
	assert.Equal(t, len(ids)-1, pending)
}

func TestRejectAppendsAnnotation(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "09:00")

	err := f.svc.Reject(ctx, admin, request.ID, "hall closed for renovation")
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, got.Status)
	assert.Equal(t, "please\n[Rejected] hall closed for renovation", got.Message)
	assert.Equal(t, 0, f.schedules.count())
}

func TestRejectBlankReasonLeavesMessageAlone(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "09:00")

	require.NoError(t, f.svc.Reject(ctx, admin, request.ID, "   "))

	got, err := f.svc.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, got.Status)
	assert.Equal(t, "please", got.Message)
}

func TestDecisionAuthorization(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "12:00")

	editor := models.Identity{UserID: 20, Role: models.RoleEditor, Department: "Nikah"}

	// Editor without a grant for the hall is refused.
	_, err := f.svc.Approve(ctx, editor, request.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Viewers never decide, own request or not.
	_, err = f.svc.Approve(ctx, viewer, request.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.grants.ReplaceForHall(ctx, 1, []int64{20}))
	_, err = f.svc.Approve(ctx, editor, request.ID)
	assert.NoError(t, err)
}

func TestViewerUpdateRules(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "15:30")

	upd := &models.UpdateRequestRequest{
		Message:   "updated",
		EventType: "Nikah",
		EventDate: "2026-09-12",
		EventTime: "15:30",
	}

	// Owner may edit while pending.
	got, err := f.svc.Update(ctx, viewer, request.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-12", got.EventDate)

	// Another viewer may not.
	stranger := models.Identity{UserID: 51, Role: models.RoleViewer}
	_, err = f.svc.Update(ctx, stranger, request.ID, upd)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Once decided, the owner is locked out too; editors still may edit.
	require.NoError(t, f.svc.Answer(ctx, admin, request.ID))
	_, err = f.svc.Update(ctx, viewer, request.ID, upd)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.Update(ctx, admin, request.ID, upd)
	assert.NoError(t, err)
}

func TestDeleteCascadesMessages(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "17:00")

	_, err := f.svc.AddMessage(ctx, viewer, request.ID, "any update?")
	require.NoError(t, err)
	_, err = f.svc.AddMessage(ctx, admin, request.ID, "reviewing")
	require.NoError(t, err)

	// A viewer may delete only their own request.
	stranger := models.Identity{UserID: 51, Role: models.RoleViewer}
	assert.ErrorIs(t, f.svc.Delete(ctx, stranger, request.ID), apperrors.ErrForbidden)

	require.NoError(t, f.svc.Delete(ctx, viewer, request.ID))

	_, err = f.svc.GetByID(ctx, request.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	left, err := f.messages.ListByRequestID(ctx, request.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestAddMessageValidation(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	request := submit(t, f, viewer, "2026-09-10", "17:00")

	_, err := f.svc.AddMessage(ctx, viewer, request.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.AddMessage(ctx, viewer, 999, "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApproveReservesPrePopulatedGridSlot(t *testing.T) {
	ctx := context.Background()
	halls := newFakeHallStore()
	centers := newFakeCenterStore()
	schedules := newFakeScheduleStore()
	requests := newFakeRequestStore(schedules)
	grants := newFakeAccessStore()
	access := NewAccessService(halls, grants, nil)
	hallSvc := NewHallService(halls, centers, schedules, access, nil)
	reqSvc := NewRequestService(requests, halls, newFakeMessageStore(), access, nil)

	hall, err := hallSvc.Create(ctx, admin, &models.CreateHallRequest{Name: "Atakent", Capacity: 300})
	require.NoError(t, err)
	gridRows := schedules.count()
	require.NotZero(t, gridRows)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	ask := &models.SubmitRequestRequest{
		WeddingHallID: hall.ID,
		EventType:     "Nikah",
		EventDate:     date,
		EventTime:     "10:30",
	}

	request, err := reqSvc.Submit(ctx, viewer, ask)
	require.NoError(t, err)

	// Approving a slot the grid pre-populated as Available succeeds: the
	// grid row is consumed, not collided with.
	schedule, err := reqSvc.Approve(ctx, admin, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleReserved, schedule.Status)
	assert.Equal(t, gridRows, schedules.count())

	listed, err := schedules.ListByHall(ctx, hall.ID, &date)
	require.NoError(t, err)
	matches := 0
	for _, sc := range listed {
		if RangesOverlap("10:30", "11:30", sc.StartTime, sc.EndTime) {
			assert.Equal(t, models.ScheduleReserved, sc.Status)
			matches++
		}
	}
	assert.Equal(t, 1, matches)

	// The slot is genuinely taken now.
	second, err := reqSvc.Submit(ctx, viewer, ask)
	require.NoError(t, err)
	_, err = reqSvc.Approve(ctx, admin, second.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
