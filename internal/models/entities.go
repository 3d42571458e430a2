package models

import (
	"time"
)

// Role of an authenticated caller.
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleEditor     Role = "Editor"
	RoleViewer     Role = "Viewer"
)

// ParseRole maps a claim value to a known role, defaulting to Viewer.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSuperAdmin, RoleEditor, RoleViewer:
		return Role(s)
	default:
		return RoleViewer
	}
}

// Identity describes the caller of a workflow operation.
// Department is an event type and is meaningful only for editors.
type Identity struct {
	UserID     int64
	Role       Role
	Department string
}

// Schedule status values.
const (
	ScheduleAvailable = "Available"
	ScheduleReserved  = "Reserved"
)

// Request status values. Answered and Rejected are terminal.
const (
	RequestPending  = "Pending"
	RequestAnswered = "Answered"
	RequestRejected = "Rejected"
)

// User is consumed from the identity service, not owned by this system.
type User struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	Email      string    `json:"email" db:"email"`
	FullName   string    `json:"full_name" db:"full_name"`
	Role       Role      `json:"role" db:"role"`
	Department *string   `json:"department" db:"department"`
	Phone      *string   `json:"phone" db:"phone"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Center is an administrative venue grouping one or more halls.
type Center struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Description string    `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// WeddingHall is a bookable venue with its own calendar.
// CenterID 0 means the hall is not assigned to a center.
type WeddingHall struct {
	ID               int64     `json:"id" db:"id"`
	CenterID         int64     `json:"center_id" db:"center_id"`
	Name             string    `json:"name" db:"name"`
	Address          string    `json:"address" db:"address"`
	Capacity         int       `json:"capacity" db:"capacity"`
	Description      string    `json:"description" db:"description"`
	ImageURL         *string   `json:"image_url" db:"image_url"`
	TechnicalDetails string    `json:"technical_details" db:"technical_details"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Schedule is one calendar slot for a hall. Date is ISO "2006-01-02",
// StartTime/EndTime are zero-padded "15:04" so they compare lexically,
// both in Go and in SQL. Invariant: StartTime < EndTime, and no two
// schedules of one hall overlap on the half-open [start,end) range.
type Schedule struct {
	ID              int64     `json:"id" db:"id"`
	WeddingHallID   int64     `json:"wedding_hall_id" db:"wedding_hall_id"`
	Date            string    `json:"date" db:"date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	Status          string    `json:"status" db:"status"`
	CreatedByUserID *int64    `json:"created_by_user_id" db:"created_by_user_id"`
	EventType       *string   `json:"event_type" db:"event_type"`
	EventName       *string   `json:"event_name" db:"event_name"`
	EventOwner      *string   `json:"event_owner" db:"event_owner"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Request is a citizen/staff booking ask awaiting a decision.
type Request struct {
	ID              int64     `json:"id" db:"id"`
	WeddingHallID   int64     `json:"wedding_hall_id" db:"wedding_hall_id"`
	CreatedByUserID int64     `json:"created_by_user_id" db:"created_by_user_id"`
	Message         string    `json:"message" db:"message"`
	Status          string    `json:"status" db:"status"`
	EventType       string    `json:"event_type" db:"event_type"`
	EventName       string    `json:"event_name" db:"event_name"`
	EventOwner      string    `json:"event_owner" db:"event_owner"`
	EventDate       string    `json:"event_date" db:"event_date"`
	EventTime       string    `json:"event_time" db:"event_time"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Message is one entry of the flat thread attached to a request.
type Message struct {
	ID           int64     `json:"id" db:"id"`
	RequestID    int64     `json:"request_id" db:"request_id"`
	SenderUserID int64     `json:"sender_user_id" db:"sender_user_id"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HallAccess grants one user the right to reserve/manage one hall.
// Rows are derived by the access resolver and rewritten wholesale.
type HallAccess struct {
	ID        int64     `json:"id" db:"id"`
	HallID    int64     `json:"hall_id" db:"hall_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
