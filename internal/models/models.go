package models

// Command and response models for the HTTP layer.

// CreateCenterRequest - POST /api/centers
type CreateCenterRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	// Explicit center-level editor grants. When omitted, the
	// Allowed-Editors directive embedded in the description is used.
	EditorIDs []int64 `json:"editor_ids"`
}

// UpdateCenterRequest - PUT /api/centers/:id
type UpdateCenterRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	EditorIDs   []int64 `json:"editor_ids"`
}

// CreateHallRequest - POST /api/halls
type CreateHallRequest struct {
	CenterID         int64   `json:"center_id"`
	Name             string  `json:"name" binding:"required"`
	Address          string  `json:"address"`
	Capacity         int     `json:"capacity" binding:"required"`
	Description      string  `json:"description"`
	ImageURL         *string `json:"image_url"`
	TechnicalDetails string  `json:"technical_details"`
	// Users allowed to manage the hall, in addition to the owning
	// center's editors.
	AllowedUserIDs []int64 `json:"allowed_user_ids"`
}

// UpdateHallRequest - PUT /api/halls/:id
type UpdateHallRequest struct {
	CenterID         int64   `json:"center_id"`
	Name             string  `json:"name" binding:"required"`
	Address          string  `json:"address"`
	Capacity         int     `json:"capacity" binding:"required"`
	Description      string  `json:"description"`
	ImageURL         *string `json:"image_url"`
	TechnicalDetails string  `json:"technical_details"`
	AllowedUserIDs   []int64 `json:"allowed_user_ids"`
}

// CreateScheduleRequest - POST /api/schedules
type CreateScheduleRequest struct {
	WeddingHallID int64   `json:"wedding_hall_id" binding:"required"`
	Date          string  `json:"date" binding:"required"`
	StartTime     string  `json:"start_time" binding:"required"`
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	EventType     *string `json:"event_type"`
	EventName     *string `json:"event_name"`
	EventOwner    *string `json:"event_owner"`
}

// UpdateScheduleRequest - PUT /api/schedules/:id
type UpdateScheduleRequest struct {
	Date       string  `json:"date" binding:"required"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	Status     string  `json:"status" binding:"required"`
	EventType  *string `json:"event_type"`
	EventName  *string `json:"event_name"`
	EventOwner *string `json:"event_owner"`
}

// SubmitRequestRequest - POST /api/requests
type SubmitRequestRequest struct {
	WeddingHallID int64  `json:"wedding_hall_id" binding:"required"`
	Message       string `json:"message"`
	EventType     string `json:"event_type" binding:"required"`
	EventName     string `json:"event_name"`
	EventOwner    string `json:"event_owner"`
	EventDate     string `json:"event_date" binding:"required"`
	EventTime     string `json:"event_time" binding:"required"`
}

// UpdateRequestRequest - PUT /api/requests/:id
type UpdateRequestRequest struct {
	Message    string `json:"message"`
	EventType  string `json:"event_type" binding:"required"`
	EventName  string `json:"event_name"`
	EventOwner string `json:"event_owner"`
	EventDate  string `json:"event_date" binding:"required"`
	EventTime  string `json:"event_time" binding:"required"`
}

// RejectRequestRequest - PATCH /api/requests/:id/reject
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// CreateMessageRequest - POST /api/requests/:id/messages
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// DeleteAllSchedulesResponse reports the number of removed rows.
type DeleteAllSchedulesResponse struct {
	Deleted int64 `json:"deleted"`
}

// ListHallsItem is one element of the hall browse listing.
type ListHallsItem struct {
	ID       int64  `json:"id"`
	CenterID int64  `json:"center_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}
