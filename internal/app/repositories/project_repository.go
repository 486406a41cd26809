package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

var projectColumns = []string{
	"p.id", "p.title", "p.description", "p.banner_url", "p.tags", "p.roles",
	"p.created_by", "p.created_at", "p.updated_at",
}

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.BannerURL, &p.Tags, &p.Roles,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]*models.Project, error) {
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Create inserts a project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.Tags = nonNil(project.Tags)
	project.Roles = nonNil(project.Roles)

	sql, args, err := r.sb.Insert("projects").
		Columns("title", "description", "banner_url", "tags", "roles", "created_by").
		Values(project.Title, project.Description, project.BannerURL, project.Tags, project.Roles, project.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	sql, args, err := r.sb.Select(projectColumns...).From("projects p").Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	project, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return project, nil
}

// Update writes the editable fields of a project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	sql, args, err := r.sb.Update("projects").
		Set("title", project.Title).
		Set("description", project.Description).
		Set("tags", nonNil(project.Tags)).
		Set("roles", nonNil(project.Roles)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": project.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&project.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// UpdateBanner stores a new banner URL
func (r *ProjectRepository) UpdateBanner(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE projects SET banner_url = $1, updated_at = now() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete removes the project and everything hanging off it in one transaction
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM messages WHERE channel_id IN (SELECT id FROM channels WHERE project_id = $1)`,
			`DELETE FROM channels WHERE project_id = $1`,
			`DELETE FROM project_collaborators WHERE project_id = $1`,
			`DELETE FROM project_invites WHERE project_id = $1`,
			`DELETE FROM project_requests WHERE project_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("error executing query: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrProjectNotFound
		}
		return nil
	})
}

// CountByOwner counts the projects created by a user
func (r *ProjectRepository) CountByOwner(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE created_by = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}

// ListByMember returns projects the user owns or collaborates on
func (r *ProjectRepository) ListByMember(ctx context.Context, userID int64) ([]*models.Project, error) {
	sql, args, err := r.sb.Select(projectColumns...).From("projects p").
		Where(squirrel.Or{
			squirrel.Eq{"p.created_by": userID},
			squirrel.Expr("EXISTS (SELECT 1 FROM project_collaborators pc WHERE pc.project_id = p.id AND pc.user_id = ?)", userID),
		}).
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return collectProjects(rows)
}

func projectFilterWhere(filter models.ProjectFilter) squirrel.And {
	where := squirrel.And{}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"p.title": pattern},
			squirrel.ILike{"p.description": pattern},
		})
	}
	if len(filter.Tags) > 0 {
		where = append(where, squirrel.Expr("p.tags && ?", filter.Tags))
	}
	if len(filter.Roles) > 0 {
		where = append(where, squirrel.Expr("p.roles && ?", filter.Roles))
	}
	return where
}

// List returns a page of projects matching the filter, newest first
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, int64, error) {
	where := projectFilterWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("projects p").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	if total == 0 {
		return []*models.Project{}, 0, nil
	}

	sql, args, err := r.sb.Select(projectColumns...).From("projects p").Where(where).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	projects, err := collectProjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}
