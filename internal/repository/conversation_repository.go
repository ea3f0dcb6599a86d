package repository

import (
	"context"

	"carenet/internal/database"
	"carenet/internal/domain/conversation"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresConversationRepository struct {
	db database.DB
}

func NewPostgresConversationRepository(db database.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) GetOrCreate(ctx context.Context, currentUserID, otherUserID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT get_or_create_conversation($1, $2)`, currentUserID, otherUserID)
	if err := row.Scan(&id); err != nil {
		switch pgCode(err) {
		case pgInvalidParameter, pgCheckViolation:
			return uuid.Nil, conversation.ErrSelfPairing
		case pgForeignKeyViolation:
			return uuid.Nil, profile.ErrNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	var c conversation.Conversation
	row := r.db.QueryRow(ctx,
		`SELECT id, user1_id, user2_id, created_at, updated_at FROM conversations WHERE id = $1`,
		id,
	)
	if err := row.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isNoRows(err) {
			return conversation.Conversation{}, conversation.ErrNotFound
		}
		return conversation.Conversation{}, err
	}
	return c, nil
}

// ListForUser returns every conversation of userID, most recently updated first, without paging.
func (r *PostgresConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]conversation.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.user1_id, c.user2_id, c.created_at, c.updated_at,
			p.id, p.full_name, p.headline, p.user_type, p.profile_photo,
			(SELECT count(*) FROM messages m
			  WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND NOT m.is_read)
		 FROM conversations c
		 JOIN profiles p ON p.id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
		 WHERE c.user1_id = $1 OR c.user2_id = $1
		 ORDER BY c.updated_at DESC, c.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]conversation.Summary, 0)
	for rows.Next() {
		var s conversation.Summary
		if err := rows.Scan(
			&s.ID, &s.User1ID, &s.User2ID, &s.CreatedAt, &s.UpdatedAt,
			&s.OtherUser.ID, &s.OtherUser.FullName, &s.OtherUser.Headline, &s.OtherUser.UserType, &s.OtherUser.ProfilePhoto,
			&s.UnreadCount,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
