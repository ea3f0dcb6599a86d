package repository

import (
	"context"

	"carenet/internal/database"
	"carenet/internal/domain/conversation"
	"carenet/internal/domain/message"

	"github.com/google/uuid"
)

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

const messageSelect = `SELECT m.id, m.conversation_id, m.sender_id, m.content, m.is_read, m.created_at,
	p.id, p.full_name, p.headline, p.user_type, p.profile_photo
	FROM messages m
	JOIN profiles p ON p.id = m.sender_id`

func (r *PostgresMessageRepository) Create(ctx context.Context, m message.Message) (message.Message, error) {
	row := r.db.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO messages (conversation_id, sender_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, conversation_id, sender_id, content, is_read, created_at
		), touch AS (
			UPDATE conversations SET updated_at = now() WHERE id = $1
		)
		SELECT ins.id, ins.conversation_id, ins.sender_id, ins.content, ins.is_read, ins.created_at,
			p.id, p.full_name, p.headline, p.user_type, p.profile_photo
		FROM ins
		JOIN profiles p ON p.id = ins.sender_id`,
		m.ConversationID, m.SenderID, m.Content,
	)
	out, err := scanMessage(row)
	if err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation:
			return message.Message{}, conversation.ErrNotFound
		case pgCheckViolation:
			return message.Message{}, message.ErrEmptyContent
		}
		return message.Message{}, err
	}
	return out, nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id))
}

func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	rows, err := r.db.Query(ctx,
		messageSelect+` WHERE m.conversation_id = $1 ORDER BY m.created_at ASC, m.id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE messages SET is_read = true
		 WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read`,
		conversationID, readerID,
	)
}

func scanMessage(row database.Row) (message.Message, error) {
	var m message.Message
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt,
		&m.Sender.ID, &m.Sender.FullName, &m.Sender.Headline, &m.Sender.UserType, &m.Sender.ProfilePhoto,
	)
	if err != nil {
		if isNoRows(err) {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}
