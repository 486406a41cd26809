package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

const messageReturning = "RETURNING id, channel_id, user_id, content, edited, created_at, updated_at"

// MessageRepository handles database operations for channel messages
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.ChannelID, &m.UserID, &m.Content, &m.Edited, &m.Timestamp, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (channel_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, edited, created_at, updated_at`,
		message.ChannelID, message.UserID, message.Content,
	).Scan(&message.ID, &message.Edited, &message.Timestamp, &message.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, `
		SELECT id, channel_id, user_id, content, edited, created_at, updated_at
		FROM messages WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

// ListByChannel returns the latest page of messages before page.Before, oldest first
func (r *MessageRepository) ListByChannel(ctx context.Context, channelID int64, page models.MessagePage) ([]*models.Message, error) {
	inner := r.sb.Select("id", "channel_id", "user_id", "content", "edited", "created_at", "updated_at").
		From("messages").
		Where(squirrel.Eq{"channel_id": channelID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit))
	if page.Before != nil {
		inner = inner.Where(squirrel.Lt{"created_at": *page.Before})
	}

	sql, args, err := r.sb.Select("*").FromSelect(inner, "m").OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// UpdateContent replaces the content of a message and flags it as edited
func (r *MessageRepository) UpdateContent(ctx context.Context, id int64, content string) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, `
		UPDATE messages SET content = $1, edited = TRUE, updated_at = now()
		WHERE id = $2 `+messageReturning, content, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

// Delete removes a message
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
