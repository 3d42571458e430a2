package service

import (
	"context"

	"hallbook/internal/cache"
	"hallbook/internal/messaging"
	"hallbook/internal/models"
	"hallbook/internal/repository"
	"hallbook/internal/search"
)

// Store contracts consumed by the services. The repository package provides
// the postgres implementations; tests substitute in-memory fakes.

type CenterStore interface {
	Create(ctx context.Context, center *models.Center) error
	GetByID(ctx context.Context, id int64) (*models.Center, error)
	List(ctx context.Context) ([]models.Center, error)
	Update(ctx context.Context, center *models.Center) error
	Delete(ctx context.Context, id int64) error
	GetEditorIDs(ctx context.Context, centerID int64) ([]int64, error)
	ReplaceEditorIDs(ctx context.Context, centerID int64, userIDs []int64) error
}

type HallStore interface {
	Create(ctx context.Context, hall *models.WeddingHall) error
	GetByID(ctx context.Context, id int64) (*models.WeddingHall, error)
	List(ctx context.Context) ([]models.WeddingHall, error)
	ListByCenterID(ctx context.Context, centerID int64) ([]models.WeddingHall, error)
	Update(ctx context.Context, hall *models.WeddingHall) error
	Delete(ctx context.Context, id int64) error
}

type ScheduleStore interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	CreateBatch(ctx context.Context, schedules []models.Schedule) error
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	ListByHall(ctx context.Context, hallID int64, date *string) ([]models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type RequestStore interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	List(ctx context.Context, hallID *int64, status *string) ([]models.Request, error)
	Update(ctx context.Context, request *models.Request) error
	Approve(ctx context.Context, requestID int64, schedule *models.Schedule) error
	Reject(ctx context.Context, requestID int64, annotation string) error
	Answer(ctx context.Context, requestID int64) error
	Delete(ctx context.Context, id int64) error
}

type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	ListByRequestID(ctx context.Context, requestID int64) ([]models.Message, error)
	DeleteByRequestID(ctx context.Context, requestID int64) error
}

type AccessStore interface {
	HasAccess(ctx context.Context, hallID, userID int64) (bool, error)
	ListByHall(ctx context.Context, hallID int64) ([]models.HallAccess, error)
	ReplaceForHall(ctx context.Context, hallID int64, userIDs []int64) error
	DeleteForHall(ctx context.Context, hallID int64) error
}

type Services struct {
	Access    *AccessService
	Centers   *CenterService
	Halls     *HallService
	Schedules *ScheduleService
	Requests  *RequestService
	Users     *UserService
}

func NewServices(repos *repository.Repositories, accessCache *cache.AccessCache, hallIndex *search.HallIndex, natsClient *messaging.NATSClient) *Services {
	accessService := NewAccessService(repos.Halls, repos.HallAccess, accessCache)
	centerService := NewCenterService(repos.Centers, accessService, natsClient)
	hallService := NewHallService(repos.Halls, repos.Centers, repos.Schedules, accessService, hallIndex)
	scheduleService := NewScheduleService(repos.Schedules, repos.Halls, accessService, natsClient)
	requestService := NewRequestService(repos.Requests, repos.Halls, repos.Messages, accessService, natsClient)
	userService := NewUserService(repos.Users)

	return &Services{
		Access:    accessService,
		Centers:   centerService,
		Halls:     hallService,
		Schedules: scheduleService,
		Requests:  requestService,
		Users:     userService,
	}
}
