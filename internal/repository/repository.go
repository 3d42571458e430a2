package repository

import (
	"hallbook/internal/database"
)

type Repositories struct {
	Centers    *CenterRepository
	Halls      *HallRepository
	Schedules  *ScheduleRepository
	Requests   *RequestRepository
	Messages   *MessageRepository
	HallAccess *HallAccessRepository
	Users      *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Centers:    NewCenterRepository(db),
		Halls:      NewHallRepository(db),
		Schedules:  NewScheduleRepository(db),
		Requests:   NewRequestRepository(db),
		Messages:   NewMessageRepository(db),
		HallAccess: NewHallAccessRepository(db),
		Users:      NewUserRepository(db),
	}
}
