package service

import (
	"context"
	"fmt"
	"sync"

	"hallbook/internal/apperrors"
	"hallbook/internal/models"
)

// In-memory stores backing the workflow tests. Writes take the store mutex,
// giving the same serialization the postgres row locks provide.

type fakeHallStore struct {
	mu    sync.Mutex
	halls map[int64]models.WeddingHall
}

func newFakeHallStore(halls ...models.WeddingHall) *fakeHallStore {
	s := &fakeHallStore{halls: make(map[int64]models.WeddingHall)}
	for _, h := range halls {
		s.halls[h.ID] = h
	}
	return s
}

func (s *fakeHallStore) Create(ctx context.Context, hall *models.WeddingHall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hall.ID = int64(len(s.halls) + 1)
	s.halls[hall.ID] = *hall
	return nil
}

func (s *fakeHallStore) GetByID(ctx context.Context, id int64) (*models.WeddingHall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.halls[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *fakeHallStore) List(ctx context.Context) ([]models.WeddingHall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WeddingHall, 0, len(s.halls))
	for _, h := range s.halls {
		out = append(out, h)
	}
	return out, nil
}

func (s *fakeHallStore) ListByCenterID(ctx context.Context, centerID int64) ([]models.WeddingHall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WeddingHall
	for _, h := range s.halls {
		if h.CenterID == centerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeHallStore) Update(ctx context.Context, hall *models.WeddingHall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.halls[hall.ID]; !ok {
		return fmt.Errorf("hall %d: %w", hall.ID, apperrors.ErrNotFound)
	}
	s.halls[hall.ID] = *hall
	return nil
}

func (s *fakeHallStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.halls, id)
	return nil
}

type fakeAccessStore struct {
	mu     sync.Mutex
	grants map[int64]map[int64]bool // hallID -> userID set
}

func newFakeAccessStore() *fakeAccessStore {
	return &fakeAccessStore{grants: make(map[int64]map[int64]bool)}
}

func (s *fakeAccessStore) HasAccess(ctx context.Context, hallID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grants[hallID][userID], nil
}

func (s *fakeAccessStore) ListByHall(ctx context.Context, hallID int64) ([]models.HallAccess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HallAccess
	for userID := range s.grants[hallID] {
		out = append(out, models.HallAccess{HallID: hallID, UserID: userID})
	}
	return out, nil
}

func (s *fakeAccessStore) ReplaceForHall(ctx context.Context, hallID int64, userIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	s.grants[hallID] = set
	return nil
}

func (s *fakeAccessStore) DeleteForHall(ctx context.Context, hallID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, hallID)
	return nil
}

func (s *fakeAccessStore) grantCount(hallID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grants[hallID])
}

type fakeScheduleStore struct {
	mu        sync.Mutex
	nextID    int64
	schedules map[int64]models.Schedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{schedules: make(map[int64]models.Schedule)}
}

// reservedOverlapLocked reports whether a Reserved row blocks the range.
// Available rows do not count: the store consumes them in the same
// transaction, so after a successful write only Reserved rows could have
// intersected. Checking before consuming keeps the fake's failure path
// side-effect free, like a rolled-back transaction.
func (s *fakeScheduleStore) reservedOverlapLocked(hallID int64, date, start, end string, excludeID int64) bool {
	for _, sc := range s.schedules {
		if sc.WeddingHallID != hallID || sc.Date != date || sc.ID == excludeID {
			continue
		}
		if sc.Status == models.ScheduleReserved && RangesOverlap(start, end, sc.StartTime, sc.EndTime) {
			return true
		}
	}
	return false
}

// consumeAvailableLocked mirrors the store: Available rows covered by the
// new range are replaced, not collided with.
func (s *fakeScheduleStore) consumeAvailableLocked(hallID int64, date, start, end string, excludeID int64) {
	for id, sc := range s.schedules {
		if sc.WeddingHallID != hallID || sc.Date != date || sc.ID == excludeID {
			continue
		}
		if sc.Status == models.ScheduleAvailable && RangesOverlap(start, end, sc.StartTime, sc.EndTime) {
			delete(s.schedules, id)
		}
	}
}

func (s *fakeScheduleStore) insertLocked(schedule *models.Schedule) {
	s.nextID++
	schedule.ID = s.nextID
	s.schedules[schedule.ID] = *schedule
}

func (s *fakeScheduleStore) Create(ctx context.Context, schedule *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reservedOverlapLocked(schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, 0) {
		return fmt.Errorf("slot already taken: %w", apperrors.ErrConflict)
	}
	s.consumeAvailableLocked(schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, 0)
	s.insertLocked(schedule)
	return nil
}

func (s *fakeScheduleStore) CreateBatch(ctx context.Context, schedules []models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range schedules {
		s.insertLocked(&schedules[i])
	}
	return nil
}

func (s *fakeScheduleStore) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[id]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (s *fakeScheduleStore) ListByHall(ctx context.Context, hallID int64, date *string) ([]models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Schedule
	for _, sc := range s.schedules {
		if sc.WeddingHallID != hallID {
			continue
		}
		if date != nil && sc.Date != *date {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func (s *fakeScheduleStore) Update(ctx context.Context, schedule *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[schedule.ID]; !ok {
		return fmt.Errorf("schedule %d: %w", schedule.ID, apperrors.ErrNotFound)
	}
	if s.reservedOverlapLocked(schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.ID) {
		return fmt.Errorf("slot already taken: %w", apperrors.ErrConflict)
	}
	s.consumeAvailableLocked(schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.ID)
	s.schedules[schedule.ID] = *schedule
	return nil
}

func (s *fakeScheduleStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return fmt.Errorf("schedule %d: %w", id, apperrors.ErrNotFound)
	}
	delete(s.schedules, id)
	return nil
}

func (s *fakeScheduleStore) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := int64(len(s.schedules))
	s.schedules = make(map[int64]models.Schedule)
	return count, nil
}

func (s *fakeScheduleStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.schedules)
}

type fakeRequestStore struct {
	mu        sync.Mutex
	nextID    int64
	requests  map[int64]models.Request
	schedules *fakeScheduleStore
}

func newFakeRequestStore(schedules *fakeScheduleStore) *fakeRequestStore {
	return &fakeRequestStore{
		requests:  make(map[int64]models.Request),
		schedules: schedules,
	}
}

func (s *fakeRequestStore) Create(ctx context.Context, request *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	request.ID = s.nextID
	s.requests[request.ID] = *request
	return nil
}

func (s *fakeRequestStore) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *fakeRequestStore) List(ctx context.Context, hallID *int64, status *string) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Request
	for _, r := range s.requests {
		if hallID != nil && r.WeddingHallID != *hallID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeRequestStore) Update(ctx context.Context, request *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[request.ID]; !ok {
		return fmt.Errorf("request %d: %w", request.ID, apperrors.ErrNotFound)
	}
	s.requests[request.ID] = *request
	return nil
}

// lockPendingLocked mirrors the row-lock guard: only a pending request may
// transition.
func (s *fakeRequestStore) lockPendingLocked(id int64) (*models.Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}
	if r.Status != models.RequestPending {
		return nil, fmt.Errorf("request %d already decided: %w", id, apperrors.ErrConflict)
	}
	return &r, nil
}

// Approve performs both writes under one lock, the way the postgres
// implementation does them in one transaction.
func (s *fakeRequestStore) Approve(ctx context.Context, requestID int64, schedule *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.lockPendingLocked(requestID)
	if err != nil {
		return err
	}

	s.schedules.mu.Lock()
	defer s.schedules.mu.Unlock()
	if s.schedules.reservedOverlapLocked(schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, 0) {
		return fmt.Errorf("slot already taken: %w", apperrors.ErrConflict)
	}
	s.schedules.consumeAvailableLocked(schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, 0)
	s.schedules.insertLocked(schedule)

	request.Status = models.RequestAnswered
	s.requests[requestID] = *request
	return nil
}

func (s *fakeRequestStore) Reject(ctx context.Context, requestID int64, annotation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.lockPendingLocked(requestID)
	if err != nil {
		return err
	}

	request.Status = models.RequestRejected
	request.Message += annotation
	s.requests[requestID] = *request
	return nil
}

func (s *fakeRequestStore) Answer(ctx context.Context, requestID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.lockPendingLocked(requestID)
	if err != nil {
		return err
	}

	request.Status = models.RequestAnswered
	s.requests[requestID] = *request
	return nil
}

func (s *fakeRequestStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}
	delete(s.requests, id)
	return nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	nextID   int64
	messages []models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (s *fakeMessageStore) Create(ctx context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	message.ID = s.nextID
	s.messages = append(s.messages, *message)
	return nil
}

func (s *fakeMessageStore) ListByRequestID(ctx context.Context, requestID int64) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.RequestID == requestID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) DeleteByRequestID(ctx context.Context, requestID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.RequestID != requestID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}
