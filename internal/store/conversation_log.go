package store

import (
	"context"

	"github.com/google/uuid"

	"kairos-backend/internal/model"
)

// AppendConversationLog writes the end-of-call summary. Logs are
// append-only; nothing updates or deletes them.
func (s *Store) AppendConversationLog(ctx context.Context, lg *model.ConversationLog) error {
	if lg.ID == "" {
		lg.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversation_logs (id, user_id, summary) VALUES ($1,$2,$3)`,
		lg.ID, lg.UserID, lg.Summary,
	)
	return err
}
