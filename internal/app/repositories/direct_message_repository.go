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

const directMessageColumns = "id, sender_id, recipient_id, content, edited, is_read, created_at, updated_at"

// DirectMessageRepository handles database operations for direct messages
type DirectMessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDirectMessageRepository creates a new DirectMessageRepository
func NewDirectMessageRepository(db *pgxpool.Pool) *DirectMessageRepository {
	return &DirectMessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanDirectMessage(row pgx.Row) (*models.DirectMessage, error) {
	var m models.DirectMessage
	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Edited, &m.IsRead, &m.Timestamp, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a direct message
func (r *DirectMessageRepository) Create(ctx context.Context, message *models.DirectMessage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO direct_messages (sender_id, recipient_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, edited, is_read, created_at, updated_at`,
		message.SenderID, message.RecipientID, message.Content,
	).Scan(&message.ID, &message.Edited, &message.IsRead, &message.Timestamp, &message.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a direct message by ID
func (r *DirectMessageRepository) GetByID(ctx context.Context, id int64) (*models.DirectMessage, error) {
	m, err := scanDirectMessage(r.db.QueryRow(ctx, `SELECT `+directMessageColumns+` FROM direct_messages WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

// ListConversation returns the latest page of messages between two users, oldest first
func (r *DirectMessageRepository) ListConversation(ctx context.Context, userID, partnerID int64, page models.MessagePage) ([]*models.DirectMessage, error) {
	inner := r.sb.Select(directMessageColumns).
		From("direct_messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": userID, "recipient_id": partnerID},
			squirrel.Eq{"sender_id": partnerID, "recipient_id": userID},
		}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit))
	if page.Before != nil {
		inner = inner.Where(squirrel.Lt{"created_at": *page.Before})
	}

	sql, args, err := r.sb.Select("*").FromSelect(inner, "dm").OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.DirectMessage, 0)
	for rows.Next() {
		m, err := scanDirectMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning direct message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating direct messages: %w", err)
	}
	return messages, nil
}

// MarkConversationRead flags every unread message from sender to recipient as read
func (r *DirectMessageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE direct_messages SET is_read = TRUE
		WHERE recipient_id = $1 AND sender_id = $2 AND is_read = FALSE`, recipientID, senderID)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateContent replaces the content of a direct message and flags it as edited
func (r *DirectMessageRepository) UpdateContent(ctx context.Context, id int64, content string) (*models.DirectMessage, error) {
	m, err := scanDirectMessage(r.db.QueryRow(ctx, `
		UPDATE direct_messages SET content = $1, edited = TRUE, updated_at = now()
		WHERE id = $2
		RETURNING `+directMessageColumns, content, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

// Delete removes a direct message
func (r *DirectMessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM direct_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// ListConversations returns one entry per conversation partner with the latest message, most recent first
func (r *DirectMessageRepository) ListConversations(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	rows, err := r.db.Query(ctx, `
		WITH latest AS (
			SELECT DISTINCT ON (partner_id) *
			FROM (
				SELECT dm.*, CASE WHEN dm.sender_id = $1 THEN dm.recipient_id ELSE dm.sender_id END AS partner_id
				FROM direct_messages dm
				WHERE dm.sender_id = $1 OR dm.recipient_id = $1
			) t
			ORDER BY partner_id, created_at DESC, id DESC
		)
		SELECT l.id, l.sender_id, l.recipient_id, l.content, l.edited, l.is_read, l.created_at, l.updated_at,
		       u.id, u.username, u.role, u.profile_image_url,
		       (SELECT COUNT(*) FROM direct_messages x
		        WHERE x.sender_id = l.partner_id AND x.recipient_id = $1 AND x.is_read = FALSE) AS unread
		FROM latest l
		JOIN users u ON u.id = l.partner_id
		ORDER BY l.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	conversations := make([]*models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		m := &c.LastMessage
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Edited, &m.IsRead, &m.Timestamp, &m.UpdatedAt,
			&c.Partner.ID, &c.Partner.Username, &c.Partner.Role, &c.Partner.ProfileImageURL,
			&c.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation: %w", err)
		}
		conversations = append(conversations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return conversations, nil
}
