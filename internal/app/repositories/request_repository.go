package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

const requestsPendingKey = "project_requests_pending_key"

// receivedByUser matches requests to projects the user owns or administers
const receivedByUser = `r.project_id IN (
	SELECT id FROM projects WHERE created_by = ?
	UNION
	SELECT project_id FROM project_collaborators WHERE user_id = ? AND admin_privileges)`

// RequestRepository handles database operations for project applications
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *RequestRepository) selectRequests() squirrel.SelectBuilder {
	return r.sb.Select(
		"r.id", "r.project_id", "r.user_id", "r.status", "r.is_read_sender", "r.is_read_receiver",
		"r.created_at", "r.updated_at", "p.title", "u.username",
	).
		From("project_requests r").
		Join("projects p ON p.id = r.project_id").
		Join("users u ON u.id = r.user_id")
}

func scanRequest(row pgx.Row) (*models.ProjectRequest, error) {
	var req models.ProjectRequest
	if err := row.Scan(
		&req.ID, &req.ProjectID, &req.UserID, &req.Status, &req.IsReadSender, &req.IsReadReceiver,
		&req.CreatedAt, &req.UpdatedAt, &req.ProjectTitle, &req.Username,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.ProjectRequest, error) {
	sql, args, err := r.selectRequests().Where(where).OrderBy("r.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.ProjectRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project requests: %w", err)
	}
	return requests, nil
}

// Create inserts a pending application
func (r *RequestRepository) Create(ctx context.Context, request *models.ProjectRequest) error {
	request.Status = models.RequestStatusPending
	request.IsReadSender = true
	request.IsReadReceiver = false

	err := r.db.QueryRow(ctx, `
		INSERT INTO project_requests (project_id, user_id, status, is_read_sender, is_read_receiver)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		request.ProjectID, request.UserID, request.Status, request.IsReadSender, request.IsReadReceiver,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, requestsPendingKey) {
			return apperrors.NewConflictError("You already have a pending application for this project")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.ProjectRequest, error) {
	sql, args, err := r.selectRequests().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	req, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return req, nil
}

// HasPending reports whether the user has a pending application to the project
func (r *RequestRepository) HasPending(ctx context.Context, projectID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM project_requests
		              WHERE project_id = $1 AND user_id = $2 AND status = 'pending')`,
		projectID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// resolve moves a pending request to status and resets the applicant's read flag
func resolveRequest(ctx context.Context, q dbtx, request *models.ProjectRequest, status models.RequestStatus) error {
	err := q.QueryRow(ctx, `
		UPDATE project_requests
		SET status = $1, is_read_sender = FALSE, updated_at = now()
		WHERE id = $2 AND status = 'pending'
		RETURNING is_read_sender, updated_at`,
		status, request.ID,
	).Scan(&request.IsReadSender, &request.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewConflictError("Project request has already been processed")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	request.Status = status
	return nil
}

// Accept marks the request Accepted and adds the applicant as a collaborator in one transaction
func (r *RequestRepository) Accept(ctx context.Context, request *models.ProjectRequest) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := resolveRequest(ctx, tx, request, models.RequestStatusAccepted); err != nil {
			return err
		}
		return insertCollaborator(ctx, tx, &models.ProjectCollaborator{
			ProjectID: request.ProjectID,
			UserID:    request.UserID,
		})
	})
}

// Decline marks the request Declined
func (r *RequestRepository) Decline(ctx context.Context, request *models.ProjectRequest) error {
	return resolveRequest(ctx, r.db, request, models.RequestStatusDeclined)
}

// ListReceived returns applications to projects the user owns or administers
func (r *RequestRepository) ListReceived(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error) {
	where := squirrel.And{squirrel.Expr(receivedByUser, userID, userID)}
	if unreadOnly {
		where = append(where, squirrel.Eq{"r.is_read_receiver": false})
	}
	return r.list(ctx, where)
}

// ListSent returns the user's own applications
func (r *RequestRepository) ListSent(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error) {
	where := squirrel.And{squirrel.Eq{"r.user_id": userID}}
	if unreadOnly {
		where = append(where, squirrel.Eq{"r.is_read_sender": false})
	}
	return r.list(ctx, where)
}

func (r *RequestRepository) count(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("project_requests r").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}
	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}

// CountUnreadReceived counts unseen applications to projects the user manages
func (r *RequestRepository) CountUnreadReceived(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, squirrel.And{
		squirrel.Expr(receivedByUser, userID, userID),
		squirrel.Eq{"r.is_read_receiver": false},
	})
}

// CountUnreadSent counts answered applications the applicant has not seen
func (r *RequestRepository) CountUnreadSent(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, squirrel.Eq{"r.user_id": userID, "r.is_read_sender": false})
}

func (r *RequestRepository) markRead(ctx context.Context, column string, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := r.sb.Update("project_requests r").
		Set(column, true).
		Where(where).
		Where(squirrel.Eq{"r." + column: false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkReceivedRead flags every application to the user's managed projects as read
func (r *RequestRepository) MarkReceivedRead(ctx context.Context, userID int64) (int64, error) {
	return r.markRead(ctx, "is_read_receiver", squirrel.Expr(receivedByUser, userID, userID))
}

// MarkSentRead flags every application of the user as read
func (r *RequestRepository) MarkSentRead(ctx context.Context, userID int64) (int64, error) {
	return r.markRead(ctx, "is_read_sender", squirrel.Eq{"r.user_id": userID})
}
