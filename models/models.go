package models

import "time"

// Role is the caller role carried by a bearer credential.
type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// Event represents a volunteer opportunity submitted by an organizer.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	Address     string    `json:"address,omitempty"`
	Capacity    *int      `json:"capacity"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Status      Status    `json:"status"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasCapacity reports whether the event declares a registration ceiling.
func (e *Event) HasCapacity() bool {
	return e.Capacity != nil
}

// Registration represents a volunteer's RSVP for an event.
type Registration struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	Event          string    `json:"event"`
	HoursCommitted *float64  `json:"hoursCommitted,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SavedEvent represents a volunteer's bookmark of an event.
type SavedEvent struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is the stored profile of a caller, used for owner projections.
type User struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// OwnerSummary is the reduced owner projection attached to pending events.
type OwnerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// PendingEvent is a moderation queue entry.
type PendingEvent struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Category    string        `json:"category"`
	Status      Status        `json:"status"`
	Date        time.Time     `json:"date"`
	StartTime   string        `json:"startTime,omitempty"`
	EndTime     string        `json:"endTime,omitempty"`
	Address     string        `json:"address,omitempty"`
	Capacity    *int          `json:"capacity"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	SubmittedAt time.Time     `json:"submittedAt"`
	Owner       *OwnerSummary `json:"owner"`
}

// EventStats is an owned event annotated with registration numbers.
type EventStats struct {
	Event
	VolunteerCount int  `json:"volunteerCount"`
	SlotsAvailable *int `json:"slotsAvailable"`
	SlotsTotal     *int `json:"slotsTotal"`
}

// OrganizerMetrics summarizes an organizer's events.
type OrganizerMetrics struct {
	UpcomingEvents  int `json:"upcomingEvents"`
	EventsCreated   int `json:"eventsCreated"`
	TotalVolunteers int `json:"totalVolunteers"`
}

// OrganizerDashboard is the organizer listing with its metrics.
type OrganizerDashboard struct {
	Events  []EventStats     `json:"events"`
	Metrics OrganizerMetrics `json:"metrics"`
}
