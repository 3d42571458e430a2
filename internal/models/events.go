package models

import "time"

// NATS subjects for domain events.
const (
	EventRequestApproved = "request.approved"
	EventRequestRejected = "request.rejected"
	EventScheduleCreated = "schedule.created"
	EventAccessResynced  = "access.resynced"
)

// RequestApprovedEvent is published after an approval transaction commits.
type RequestApprovedEvent struct {
	RequestID     int64     `json:"request_id"`
	ScheduleID    int64     `json:"schedule_id"`
	WeddingHallID int64     `json:"wedding_hall_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Timestamp     time.Time `json:"timestamp"`
}

// RequestRejectedEvent is published after a rejection.
type RequestRejectedEvent struct {
	RequestID int64     `json:"request_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// ScheduleCreatedEvent is published for direct schedule creation.
type ScheduleCreatedEvent struct {
	ScheduleID    int64     `json:"schedule_id"`
	WeddingHallID int64     `json:"wedding_hall_id"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// AccessResyncedEvent is published after a center's grants are rewritten.
type AccessResyncedEvent struct {
	CenterID  int64     `json:"center_id"`
	HallCount int       `json:"hall_count"`
	EditorIDs []int64   `json:"editor_ids"`
	Timestamp time.Time `json:"timestamp"`
}
