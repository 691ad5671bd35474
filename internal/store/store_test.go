package store_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"kairos-backend/internal/model"
	"kairos-backend/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	if migration, err := os.ReadFile("../../db/migrations/001_init.sql"); err == nil {
		if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
			t.Fatalf("migration: %v", err)
		}
	}
	return store.New(pool)
}

func randomPhone() string {
	return fmt.Sprintf("%010d", rand.Int63n(1e10))
}

func TestFindOrCreateUser(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	phone := randomPhone()

	u1, err := st.FindOrCreateUser(ctx, phone, "First Caller")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if u1.FullName != "First Caller" {
		t.Errorf("name: got %q", u1.FullName)
	}

	// second call must return the existing record, not create another
	u2, err := st.FindOrCreateUser(ctx, phone, "Different Name")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if u2.ID != u1.ID {
		t.Error("expected the same user on repeat lookup")
	}
	if u2.FullName != "First Caller" {
		t.Error("repeat lookup must not overwrite the name")
	}
}

func TestUserByPhoneNotFound(t *testing.T) {
	st := setup(t)

	_, err := st.UserByPhone(context.Background(), randomPhone())
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingWindow(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	u, err := st.FindOrCreateUser(ctx, randomPhone(), "Window Tester")
	if err != nil {
		t.Fatalf("user: %v", err)
	}

	// far future to avoid colliding with other test data
	start := time.Now().Add(10000 * time.Hour).Truncate(time.Hour)
	apt := &model.Appointment{
		ID:          uuid.New().String(),
		UserID:      u.ID,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Status:      model.StatusBooked,
		Description: "Voice Booking",
	}
	if err := st.CreateAppointment(ctx, apt); err != nil {
		t.Fatalf("create: %v", err)
	}

	taken, err := st.HasBookingInWindow(ctx, start, start.Add(time.Hour), "")
	if err != nil {
		t.Fatalf("window check: %v", err)
	}
	if !taken {
		t.Error("expected the window to be taken")
	}

	// excluding the appointment itself frees its window
	taken, err = st.HasBookingInWindow(ctx, start, start.Add(time.Hour), apt.ID)
	if err != nil {
		t.Fatalf("window check with exclude: %v", err)
	}
	if taken {
		t.Error("excluded appointment should not count as a conflict")
	}

	// window before the start is free
	taken, err = st.HasBookingInWindow(ctx, start.Add(-time.Hour), start, "")
	if err != nil {
		t.Fatalf("window check: %v", err)
	}
	if taken {
		t.Error("adjacent earlier window should be free")
	}
}

func TestUpcomingAppointmentsOrderAndLimit(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	u, err := st.FindOrCreateUser(ctx, randomPhone(), "Upcoming Tester")
	if err != nil {
		t.Fatalf("user: %v", err)
	}

	base := time.Now().Add(20000 * time.Hour).Truncate(time.Hour)
	for _, offset := range []int{72, 0, 48, 24} {
		start := base.Add(time.Duration(offset) * time.Hour)
		err := st.CreateAppointment(ctx, &model.Appointment{
			ID: uuid.New().String(), UserID: u.ID,
			StartTime: start, EndTime: start.Add(time.Hour),
			Status: model.StatusBooked, Description: "Voice Booking",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	apts, err := st.UpcomingAppointments(ctx, u.ID, time.Now(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apts) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(apts))
	}
	for i := 1; i < len(apts); i++ {
		if apts[i].StartTime.Before(apts[i-1].StartTime) {
			t.Error("appointments not in ascending order")
		}
	}
}

func TestCancelBookedOnDay(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	u, err := st.FindOrCreateUser(ctx, randomPhone(), "Cancel Tester")
	if err != nil {
		t.Fatalf("user: %v", err)
	}

	day := time.Now().Add(30000 * time.Hour).Truncate(24 * time.Hour)
	for _, hour := range []int{10, 16} {
		start := day.Add(time.Duration(hour) * time.Hour)
		err := st.CreateAppointment(ctx, &model.Appointment{
			ID: uuid.New().String(), UserID: u.ID,
			StartTime: start, EndTime: start.Add(time.Hour),
			Status: model.StatusBooked, Description: "Voice Booking",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	n, err := st.CancelBookedOnDay(ctx, u.ID, day, day.Add(24*time.Hour-time.Second))
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 cancellations, got %d", n)
	}

	// repeat finds nothing left to cancel
	n, err = st.CancelBookedOnDay(ctx, u.ID, day, day.Add(24*time.Hour-time.Second))
	if err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 on repeat, got %d", n)
	}
}

func TestFirstBookedOnDayPicksEarliest(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	u, err := st.FindOrCreateUser(ctx, randomPhone(), "First Tester")
	if err != nil {
		t.Fatalf("user: %v", err)
	}

	day := time.Now().Add(40000 * time.Hour).Truncate(24 * time.Hour)
	for _, hour := range []int{16, 10} {
		start := day.Add(time.Duration(hour) * time.Hour)
		err := st.CreateAppointment(ctx, &model.Appointment{
			ID: uuid.New().String(), UserID: u.ID,
			StartTime: start, EndTime: start.Add(time.Hour),
			Status: model.StatusBooked, Description: "Voice Booking",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	apt, err := st.FirstBookedOnDay(ctx, u.ID, day, day.Add(24*time.Hour-time.Second))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if apt.StartTime.Hour() != 10 {
		t.Errorf("expected the 10:00 appointment, got %v", apt.StartTime)
	}
}

func TestAppendConversationLog(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	// anonymous caller, no user id
	err := st.AppendConversationLog(ctx, &model.ConversationLog{
		Summary: "caller asked about hours",
	})
	if err != nil {
		t.Fatalf("anonymous log: %v", err)
	}

	u, err := st.FindOrCreateUser(ctx, randomPhone(), "Log Tester")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	id := u.ID
	err = st.AppendConversationLog(ctx, &model.ConversationLog{
		UserID:  &id,
		Summary: "booked and said goodbye",
	})
	if err != nil {
		t.Fatalf("linked log: %v", err)
	}
}
