package repositories

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/collabhub/internal/app/models"
)

var testSB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestUserFilterWhere(t *testing.T) {
	sql, args, err := testSB.Select("id").From("users").
		Where(userFilterWhere(models.UserFilter{Role: " Developer ", SearchTerm: "a_c"})).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM users WHERE (lower(role) = lower($1) AND (username ILIKE $2 OR short_bio ILIKE $3))", sql)
	assert.Equal(t, []interface{}{"Developer", `%a\_c%`, `%a\_c%`}, args)
}

func TestUserFilterWhereSearchOnly(t *testing.T) {
	sql, args, err := testSB.Select("id").From("users").
		Where(userFilterWhere(models.UserFilter{SearchTerm: "50%"})).
		ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "role")
	assert.Contains(t, sql, "username ILIKE $1 OR short_bio ILIKE $2")
	assert.Equal(t, []interface{}{`%50\%%`, `%50\%%`}, args)
}

func TestUserFilterWhereEmpty(t *testing.T) {
	sql, args, err := testSB.Select("id").From("users").
		Where(userFilterWhere(models.UserFilter{Role: "  "})).
		ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "ILIKE")
	assert.NotContains(t, sql, "lower(role)")
	assert.Empty(t, args)
}

func TestProjectFilterWhere(t *testing.T) {
	tags := []string{"go", "flutter"}
	roles := []string{"Designer"}

	sql, args, err := testSB.Select("p.id").From("projects p").
		Where(projectFilterWhere(models.ProjectFilter{SearchTerm: "chat", Tags: tags, Roles: roles})).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(p.title ILIKE $1 OR p.description ILIKE $2)")
	assert.Contains(t, sql, "p.tags && $3")
	assert.Contains(t, sql, "p.roles && $4")
	require.Len(t, args, 4)
	assert.Equal(t, "%chat%", args[0])
	assert.Equal(t, "%chat%", args[1])
	assert.Equal(t, tags, args[2])
	assert.Equal(t, roles, args[3])
}

func TestProjectFilterWhereTagsOnly(t *testing.T) {
	sql, args, err := testSB.Select("p.id").From("projects p").
		Where(projectFilterWhere(models.ProjectFilter{Tags: []string{"go"}})).
		ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "ILIKE")
	assert.NotContains(t, sql, "p.roles")
	assert.Contains(t, sql, "p.tags && $1")
	assert.Equal(t, []interface{}{[]string{"go"}}, args)
}
