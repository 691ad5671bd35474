package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned by the store when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// AppointmentDuration is fixed; callers pick a start time only.
const AppointmentDuration = time.Hour

type User struct {
	ID          string
	PhoneNumber string // normalized, last 10 digits
	FullName    string
	CreatedAt   time.Time
}

type Appointment struct {
	ID          string
	UserID      string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConversationLog is an append-only record written once per call.
type ConversationLog struct {
	ID        string
	UserID    *string // nil when the caller was never identified
	Summary   string
	CreatedAt time.Time
}
