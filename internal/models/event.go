package models

// Event represents an event in the catalog
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	StartTime   TimeOfDay `json:"start_time"`
	EndTime     TimeOfDay `json:"end_time"`
	Location    string    `json:"location"`
	ImageURL    *string   `json:"image_url"`
}

// EventWithCounts is an event enriched with live RSVP counts
type EventWithCounts struct {
	Event
	Going   int `json:"going"`
	Maybe   int `json:"maybe"`
	Decline int `json:"decline"`
}

// CreateEventRequest represents a request to create an event.
// Date and times stay strings here and are parsed once by the event service.
type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// UpdateEventRequest represents a partial update; nil fields keep their previous value
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// IsEmpty reports whether the request carries no field at all
func (r *UpdateEventRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Date == nil &&
		r.StartTime == nil && r.EndTime == nil && r.Location == nil && r.ImageURL == nil
}
