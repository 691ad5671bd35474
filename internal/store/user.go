package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"kairos-backend/internal/model"
)

func (s *Store) UserByPhone(ctx context.Context, phone string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, phone_number, full_name, created_at
		 FROM users WHERE phone_number = $1`, phone,
	).Scan(&u.ID, &u.PhoneNumber, &u.FullName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", phone, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, phone_number, full_name) VALUES ($1,$2,$3)`,
		u.ID, u.PhoneNumber, u.FullName,
	)
	return err
}

// FindOrCreateUser resolves a caller by phone, creating a record with
// the given name on first contact. The insert tolerates a concurrent
// creation for the same number and re-reads the winner.
func (s *Store) FindOrCreateUser(ctx context.Context, phone, fullName string) (*model.User, error) {
	u, err := s.UserByPhone(ctx, phone)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, phone_number, full_name) VALUES ($1,$2,$3)
		 ON CONFLICT (phone_number) DO NOTHING`,
		uuid.New().String(), phone, fullName,
	)
	if err != nil {
		return nil, err
	}
	return s.UserByPhone(ctx, phone)
}
