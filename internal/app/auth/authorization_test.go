package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

type stubProjects struct {
	projects map[int64]*models.Project
}

func (s *stubProjects) Create(context.Context, *models.Project) error      { return nil }
func (s *stubProjects) Update(context.Context, *models.Project) error      { return nil }
func (s *stubProjects) UpdateBanner(context.Context, int64, string) error  { return nil }
func (s *stubProjects) Delete(context.Context, int64) error                { return nil }
func (s *stubProjects) CountByOwner(context.Context, int64) (int64, error) { return 0, nil }
func (s *stubProjects) ListByMember(context.Context, int64) ([]*models.Project, error) {
	return nil, nil
}
func (s *stubProjects) List(context.Context, models.ProjectFilter) ([]*models.Project, int64, error) {
	return nil, 0, nil
}
func (s *stubProjects) GetByID(_ context.Context, id int64) (*models.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProjectNotFound
}

type stubCollaborators struct {
	rows map[int64]*models.ProjectCollaborator
	err  error
}

func (s *stubCollaborators) Create(context.Context, *models.ProjectCollaborator) error { return nil }
func (s *stubCollaborators) UpdatePrivileges(context.Context, *models.ProjectCollaborator) error {
	return nil
}
func (s *stubCollaborators) Delete(context.Context, int64, int64) error { return nil }
func (s *stubCollaborators) ListByProject(context.Context, int64) ([]*models.ProjectCollaborator, error) {
	return nil, nil
}
func (s *stubCollaborators) Get(_ context.Context, _ int64, userID int64) (*models.ProjectCollaborator, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.rows[userID]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCollaboratorNotFound
}

func newTestAuthz(collabs map[int64]*models.ProjectCollaborator) *AuthorizationService {
	return NewAuthorizationService(
		&stubProjects{projects: map[int64]*models.Project{1: {ID: 1, CreatedBy: 10}}},
		&stubCollaborators{rows: collabs},
		zerolog.Nop(),
	)
}

func TestResolvePrivileges(t *testing.T) {
	s := newTestAuthz(map[int64]*models.ProjectCollaborator{
		20: {ProjectID: 1, UserID: 20, CanRemoveChannel: true},
		30: {ProjectID: 1, UserID: 30},
	})
	ctx := context.Background()

	t.Run("owner gets everything", func(t *testing.T) {
		_, p, err := s.ResolvePrivileges(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, models.OwnerPrivileges(), p)
	})

	t.Run("collaborator flags", func(t *testing.T) {
		_, p, err := s.ResolvePrivileges(ctx, 1, 20)
		require.NoError(t, err)
		assert.True(t, p.IsMember)
		assert.False(t, p.IsOwner)
		assert.True(t, p.CanRemoveChannel)
		assert.True(t, p.CanCreateChannel)
		assert.False(t, p.AdminPrivileges)
	})

	t.Run("plain collaborator cannot create channels", func(t *testing.T) {
		_, p, err := s.ResolvePrivileges(ctx, 1, 30)
		require.NoError(t, err)
		assert.True(t, p.IsMember)
		assert.False(t, p.CanCreateChannel)
	})

	t.Run("stranger gets all false", func(t *testing.T) {
		project, p, err := s.ResolvePrivileges(ctx, 1, 99)
		require.NoError(t, err)
		assert.NotNil(t, project)
		assert.Equal(t, models.Privileges{}, p)
	})

	t.Run("missing project", func(t *testing.T) {
		_, _, err := s.ResolvePrivileges(ctx, 2, 10)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestCanCreateChannelIsOrOfThreeFlags(t *testing.T) {
	for _, tc := range []struct {
		c    models.ProjectCollaborator
		want bool
	}{
		{models.ProjectCollaborator{}, false},
		{models.ProjectCollaborator{AdminPrivileges: true}, true},
		{models.ProjectCollaborator{CanRemoveChannel: true}, true},
		{models.ProjectCollaborator{CanEditProject: true}, true},
		{models.ProjectCollaborator{CanRemoveUser: true, CanEditAdminAccess: true}, false},
	} {
		assert.Equal(t, tc.want, models.CollaboratorPrivileges(&tc.c).CanCreateChannel)
	}
}

func TestRequireHelpers(t *testing.T) {
	s := newTestAuthz(map[int64]*models.ProjectCollaborator{20: {ProjectID: 1, UserID: 20}})
	ctx := context.Background()

	_, _, err := s.RequireMember(ctx, 1, 20)
	assert.NoError(t, err)

	_, _, err = s.RequireMember(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, _, err = s.Require(ctx, 1, 20, func(p models.Privileges) bool { return p.CanEditProject })
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = s.RequireOwner(ctx, 1, 20)
	assert.ErrorIs(t, err, ErrNotProjectOwner)

	_, err = s.RequireOwner(ctx, 1, 10)
	assert.NoError(t, err)
}

func TestResolvePrivilegesPropagatesRepositoryFailure(t *testing.T) {
	s := NewAuthorizationService(
		&stubProjects{projects: map[int64]*models.Project{1: {ID: 1, CreatedBy: 10}}},
		&stubCollaborators{err: errors.New("connection reset")},
		zerolog.Nop(),
	)
	_, _, err := s.ResolvePrivileges(context.Background(), 1, 20)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrResourceNotFound)
}
