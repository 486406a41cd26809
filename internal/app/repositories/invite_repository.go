package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

const invitesPendingKey = "project_invites_pending_key"

// InviteRepository handles database operations for project invites
type InviteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *InviteRepository) selectInvites() squirrel.SelectBuilder {
	return r.sb.Select(
		"i.id", "i.project_id", "i.sender_id", "i.receiver_id", "i.status",
		"i.is_read_sender", "i.is_read_receiver", "i.created_at", "i.expires_at",
		"p.title", "s.username", "rc.username",
	).
		From("project_invites i").
		Join("projects p ON p.id = i.project_id").
		Join("users s ON s.id = i.sender_id").
		Join("users rc ON rc.id = i.receiver_id")
}

func scanInvite(row pgx.Row) (*models.ProjectInvite, error) {
	var i models.ProjectInvite
	if err := row.Scan(
		&i.ID, &i.ProjectID, &i.SenderID, &i.ReceiverID, &i.Status,
		&i.IsReadSender, &i.IsReadReceiver, &i.CreatedAt, &i.ExpiresAt,
		&i.ProjectTitle, &i.SenderUsername, &i.ReceiverUsername,
	); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InviteRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.ProjectInvite, error) {
	sql, args, err := r.selectInvites().Where(where).OrderBy("i.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	invites := make([]*models.ProjectInvite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning invite: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invites: %w", err)
	}
	return invites, nil
}

// Create inserts a pending invite
func (r *InviteRepository) Create(ctx context.Context, invite *models.ProjectInvite) error {
	invite.Status = models.InviteStatusPending
	invite.IsReadSender = true
	invite.IsReadReceiver = false

	sql, args, err := r.sb.Insert("project_invites").
		Columns("project_id", "sender_id", "receiver_id", "status", "is_read_sender", "is_read_receiver", "expires_at").
		Values(invite.ProjectID, invite.SenderID, invite.ReceiverID, invite.Status, invite.IsReadSender, invite.IsReadReceiver, invite.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&invite.ID, &invite.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, invitesPendingKey) {
			return apperrors.NewConflictError("A pending invite already exists for this user")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves an invite by ID
func (r *InviteRepository) GetByID(ctx context.Context, id int64) (*models.ProjectInvite, error) {
	sql, args, err := r.selectInvites().Where(squirrel.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	inv, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return inv, nil
}

// HasPending reports whether the receiver already has a pending invite to the project
func (r *InviteRepository) HasPending(ctx context.Context, projectID, receiverID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM project_invites
		              WHERE project_id = $1 AND receiver_id = $2 AND status = 'pending')`,
		projectID, receiverID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// DeleteExpiredPending removes the pair's pending invites whose expiry has passed
func (r *InviteRepository) DeleteExpiredPending(ctx context.Context, projectID, receiverID int64, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM project_invites
		WHERE project_id = $1 AND receiver_id = $2 AND status = 'pending' AND expires_at <= $3`,
		projectID, receiverID, now)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListReceived returns invites addressed to the user
func (r *InviteRepository) ListReceived(ctx context.Context, userID int64) ([]*models.ProjectInvite, error) {
	return r.list(ctx, squirrel.Eq{"i.receiver_id": userID})
}

// ListSent returns invites sent by the user
func (r *InviteRepository) ListSent(ctx context.Context, userID int64) ([]*models.ProjectInvite, error) {
	return r.list(ctx, squirrel.Eq{"i.sender_id": userID})
}

// Delete removes an invite
func (r *InviteRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM project_invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInviteNotFound
	}
	return nil
}

// Accept inserts the collaborator row and deletes the invite in one transaction
func (r *InviteRepository) Accept(ctx context.Context, invite *models.ProjectInvite) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM project_invites WHERE id = $1 AND status = 'pending'`, invite.ID)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrInviteNotFound
		}

		return insertCollaborator(ctx, tx, &models.ProjectCollaborator{
			ProjectID: invite.ProjectID,
			UserID:    invite.ReceiverID,
		})
	})
}

// CountUnreadReceived counts pending invites the receiver has not seen
func (r *InviteRepository) CountUnreadReceived(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM project_invites
		WHERE receiver_id = $1 AND is_read_receiver = FALSE AND status = 'pending'`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}

// MarkAllReceivedRead flags every invite addressed to the user as read
func (r *InviteRepository) MarkAllReceivedRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE project_invites SET is_read_receiver = TRUE
		WHERE receiver_id = $1 AND is_read_receiver = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkAllSentRead flags every invite sent by the user as read
func (r *InviteRepository) MarkAllSentRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE project_invites SET is_read_sender = TRUE
		WHERE sender_id = $1 AND is_read_sender = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}
