package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"kairos-backend/internal/model"
)

// HasBookingInWindow reports whether any booked appointment, for any
// caller, starts inside [start, end). The office runs a single chair,
// so the window check is global rather than per user.
func (s *Store) HasBookingInWindow(ctx context.Context, start, end time.Time, excludeID string) (bool, error) {
	q := `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE status = 'booked'
		  AND start_time >= $1
		  AND start_time < $2`

	args := []any{start, end}

	if excludeID != "" {
		q += ` AND id != $3`
		args = append(args, excludeID)
	}
	q += `)`

	var exists bool
	err := s.pool.QueryRow(ctx, q, args...).Scan(&exists)
	return exists, err
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (id, user_id, start_time, end_time, status, description)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.UserID, a.StartTime, a.EndTime, a.Status, a.Description,
	)
	return err
}

// UpcomingAppointments lists a caller's booked appointments that start
// strictly after the given instant, earliest first, capped at limit.
func (s *Store) UpcomingAppointments(ctx context.Context, userID string, after time.Time, limit int) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, start_time, end_time, status, description, created_at, updated_at
		 FROM appointments
		 WHERE user_id = $1
		   AND status = 'booked'
		   AND start_time > $2
		 ORDER BY start_time
		 LIMIT $3`, userID, after, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.StartTime, &a.EndTime,
			&a.Status, &a.Description, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FirstBookedOnDay finds the earliest booked appointment for a caller
// whose start falls inside the given calendar-day window.
func (s *Store) FirstBookedOnDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, start_time, end_time, status, description, created_at, updated_at
		 FROM appointments
		 WHERE user_id = $1
		   AND status = 'booked'
		   AND start_time >= $2 AND start_time <= $3
		 ORDER BY start_time
		 LIMIT 1`, userID, dayStart, dayEnd,
	).Scan(&a.ID, &a.UserID, &a.StartTime, &a.EndTime,
		&a.Status, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointment on %s: %w", dayStart.Format("2006-01-02"), model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) Reschedule(ctx context.Context, id string, start, end time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE appointments
		 SET start_time = $1, end_time = $2, updated_at = NOW()
		 WHERE id = $3`, start, end, id,
	)
	return err
}

// CancelBookedOnDay marks every booked appointment the caller holds on
// the given day as cancelled and reports how many were affected.
func (s *Store) CancelBookedOnDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments
		 SET status = 'cancelled', updated_at = NOW()
		 WHERE user_id = $1
		   AND status = 'booked'
		   AND start_time >= $2 AND start_time <= $3`,
		userID, dayStart, dayEnd,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
