package models

import "time"

// EventStatus is derived from the event times, never stored
type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventOngoing  EventStatus = "ongoing"
	EventPast     EventStatus = "past"
)

// Event is a club event
type Event struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Location    string     `json:"location" db:"location"`
	Start       time.Time  `json:"start" db:"start_at"`
	End         *time.Time `json:"end,omitempty" db:"end_at"`
	PosterPath  string     `json:"posterPath,omitempty" db:"poster_path"`
	CreatedBy   *int64     `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// HasElapsed reports whether the event started before now
func (e *Event) HasElapsed(now time.Time) bool {
	return e.Start.Before(now)
}

// Status classifies the event relative to now. An event without an end is
// past as soon as it has started.
func (e *Event) Status(now time.Time) EventStatus {
	if !e.HasElapsed(now) {
		return EventUpcoming
	}
	if e.End != nil && e.End.After(now) {
		return EventOngoing
	}
	return EventPast
}

// EventPartition splits events around a point in time
type EventPartition struct {
	// Upcoming holds events with start >= now, earliest first
	Upcoming []*Event
	// Past holds events with start < now, latest first
	Past []*Event
}
