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

// CollaboratorRepository handles database operations for project collaborators
type CollaboratorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCollaboratorRepository creates a new CollaboratorRepository
func NewCollaboratorRepository(db *pgxpool.Pool) *CollaboratorRepository {
	return &CollaboratorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get retrieves the collaborator row of a user on a project
func (r *CollaboratorRepository) Get(ctx context.Context, projectID, userID int64) (*models.ProjectCollaborator, error) {
	var c models.ProjectCollaborator
	err := r.db.QueryRow(ctx, `
		SELECT project_id, user_id, admin_privileges, can_remove_user, can_remove_channel,
		       can_edit_project, can_edit_admin_access, created_at
		FROM project_collaborators
		WHERE project_id = $1 AND user_id = $2`,
		projectID, userID).Scan(
		&c.ProjectID, &c.UserID, &c.AdminPrivileges, &c.CanRemoveUser, &c.CanRemoveChannel,
		&c.CanEditProject, &c.CanEditAdminAccess, &c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCollaboratorNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}

// Create inserts a collaborator row
func (r *CollaboratorRepository) Create(ctx context.Context, c *models.ProjectCollaborator) error {
	return insertCollaborator(ctx, r.db, c)
}

// insertCollaborator is shared with the invite and request repositories, which run it inside their transactions
func insertCollaborator(ctx context.Context, q dbtx, c *models.ProjectCollaborator) error {
	err := q.QueryRow(ctx, `
		INSERT INTO project_collaborators
			(project_id, user_id, admin_privileges, can_remove_user, can_remove_channel, can_edit_project, can_edit_admin_access)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		c.ProjectID, c.UserID, c.AdminPrivileges, c.CanRemoveUser, c.CanRemoveChannel,
		c.CanEditProject, c.CanEditAdminAccess,
	).Scan(&c.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyCollaborator
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// UpdatePrivileges writes every privilege flag of the collaborator
func (r *CollaboratorRepository) UpdatePrivileges(ctx context.Context, c *models.ProjectCollaborator) error {
	sql, args, err := r.sb.Update("project_collaborators").
		Set("admin_privileges", c.AdminPrivileges).
		Set("can_remove_user", c.CanRemoveUser).
		Set("can_remove_channel", c.CanRemoveChannel).
		Set("can_edit_project", c.CanEditProject).
		Set("can_edit_admin_access", c.CanEditAdminAccess).
		Where(squirrel.Eq{"project_id": c.ProjectID, "user_id": c.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCollaboratorNotFound
	}
	return nil
}

// Delete removes a collaborator from a project
func (r *CollaboratorRepository) Delete(ctx context.Context, projectID, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM project_collaborators WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCollaboratorNotFound
	}
	return nil
}

// ListByProject returns the collaborators of a project with their user summary
func (r *CollaboratorRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectCollaborator, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pc.project_id, pc.user_id, pc.admin_privileges, pc.can_remove_user, pc.can_remove_channel,
		       pc.can_edit_project, pc.can_edit_admin_access, pc.created_at,
		       u.username, u.role, u.profile_image_url
		FROM project_collaborators pc
		JOIN users u ON u.id = pc.user_id
		WHERE pc.project_id = $1
		ORDER BY pc.created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	collaborators := make([]*models.ProjectCollaborator, 0)
	for rows.Next() {
		var c models.ProjectCollaborator
		u := models.UserSummary{}
		if err := rows.Scan(
			&c.ProjectID, &c.UserID, &c.AdminPrivileges, &c.CanRemoveUser, &c.CanRemoveChannel,
			&c.CanEditProject, &c.CanEditAdminAccess, &c.CreatedAt,
			&u.Username, &u.Role, &u.ProfileImageURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning collaborator: %w", err)
		}
		u.ID = c.UserID
		c.User = &u
		collaborators = append(collaborators, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaborators: %w", err)
	}
	return collaborators, nil
}
