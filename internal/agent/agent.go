// Package agent implements the intent handlers behind the Kairos voice
// receptionist. The voice/LLM runtime extracts parameters from the
// caller's speech and invokes one handler per turn; every handler
// returns a spoken-text reply and never an error, because the caller
// must never hear a system fault.
package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"kairos-backend/internal/model"
)

// Store is the capability the agent needs from the appointment store.
// A nil Store means the backing database is unavailable; every handler
// degrades to a session-only response in that case.
type Store interface {
	UserByPhone(ctx context.Context, phone string) (*model.User, error)
	FindOrCreateUser(ctx context.Context, phone, fullName string) (*model.User, error)
	HasBookingInWindow(ctx context.Context, start, end time.Time, excludeID string) (bool, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	UpcomingAppointments(ctx context.Context, userID string, after time.Time, limit int) ([]model.Appointment, error)
	FirstBookedOnDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (*model.Appointment, error)
	Reschedule(ctx context.Context, id string, start, end time.Time) error
	CancelBookedOnDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (int64, error)
	AppendConversationLog(ctx context.Context, lg *model.ConversationLog) error
}

// Notifier publishes structured tool-update events to companion
// displays. Delivery is fire-and-forget; implementations swallow their
// own failures.
type Notifier interface {
	Publish(tool string, data map[string]any)
}

type Agent struct {
	store    Store
	notifier Notifier
	log      *zap.Logger

	// now is swapped out in tests for deterministic slot and
	// past-time decisions.
	now func() time.Time
}

type Option func(*Agent)

// WithClock overrides the wall clock, used by tests to pin "now".
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

func New(st Store, n Notifier, log *zap.Logger, opts ...Option) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Agent{
		store:    st,
		notifier: n,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) publish(tool string, data map[string]any) {
	if a.notifier == nil {
		return
	}
	a.notifier.Publish(tool, data)
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizePhone reduces any supplied phone string to its last 10
// digits, the canonical lookup key.
func normalizePhone(s string) string {
	digits := digitsOnly(s)
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// dayWindow returns the inclusive [00:00:00, 23:59:59] bounds of the
// calendar day named by an ISO date.
func dayWindow(date string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(24*time.Hour - time.Second), nil
}

func parseDateTime(date, hhmm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", date+"T"+hhmm, time.Local)
}
