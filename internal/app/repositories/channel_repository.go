package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

const channelsProjectNameKey = "channels_project_id_name_key"

// ChannelRepository handles database operations for channels
type ChannelRepository struct {
	db *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{
		db: db,
	}
}

// Create inserts a channel
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO channels (project_id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		channel.ProjectID, channel.Name, channel.CreatedBy,
	).Scan(&channel.ID, &channel.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, channelsProjectNameKey) {
			return apperrors.ErrChannelAlreadyExists
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a channel by ID
func (r *ChannelRepository) GetByID(ctx context.Context, channelID int64) (*models.Channel, error) {
	var c models.Channel
	err := r.db.QueryRow(ctx, `
		SELECT id, project_id, name, COALESCE(created_by, 0), created_at
		FROM channels
		WHERE id = $1`, channelID,
	).Scan(&c.ID, &c.ProjectID, &c.Name, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}

// ListByProject returns the channels of a project in creation order
func (r *ChannelRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Channel, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, name, COALESCE(created_by, 0), created_at
		FROM channels
		WHERE project_id = $1
		ORDER BY created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	channels := make([]*models.Channel, 0)
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning channel: %w", err)
		}
		channels = append(channels, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channels: %w", err)
	}
	return channels, nil
}

// DeleteWithMessages deletes the channel's messages and then the channel in one transaction
func (r *ChannelRepository) DeleteWithMessages(ctx context.Context, channelID int64) (int64, error) {
	var deleted int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM messages WHERE channel_id = $1`, channelID)
		if err != nil {
			return fmt.Errorf("error deleting channel messages: %w", err)
		}
		deleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM channels WHERE id = $1`, channelID)
		if err != nil {
			return fmt.Errorf("error deleting channel: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrChannelNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
