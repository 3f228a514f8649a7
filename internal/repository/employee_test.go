//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDirectory(ctx context.Context, t *testing.T, repo *EmployeeRepository) {
	t.Helper()
	employees := []domain.Employee{
		{Name: "Sarah Chen", Email: "sarah@example.com", Role: "Security Lead", Department: "Security", ExpertiseAreas: []string{"encryption", "incident-response"}},
		{Name: "Marcus Webb", Email: "marcus@example.com", Role: "Compliance Manager", Department: "Compliance", ExpertiseAreas: []string{"compliance", "audits"}},
		{Name: "Priya Nair", Email: "priya@example.com", Role: "Platform Engineer", Department: "Engineering", ExpertiseAreas: []string{"infrastructure", "database"}},
	}
	for i := range employees {
		require.NoError(t, repo.Create(ctx, &employees[i]))
	}
}

func TestEmployeeRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmployeeRepository(pool)
	seedDirectory(ctx, t, repo)

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 3)
	// Ordered by name.
	assert.Equal(t, "Marcus Webb", employees[0].Name)
	assert.Equal(t, "Priya Nair", employees[1].Name)
	assert.Equal(t, "Sarah Chen", employees[2].Name)
	assert.NotEmpty(t, employees[0].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestEmployeeRepository_FindByExpertiseOrDepartment(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmployeeRepository(pool)
	seedDirectory(ctx, t, repo)

	// Expertise match.
	emp, err := repo.FindByExpertiseOrDepartment(ctx, "encryption")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Chen", emp.Name)

	// Department substring match, case-insensitive.
	emp, err = repo.FindByExpertiseOrDepartment(ctx, "ENGINEER")
	require.NoError(t, err)
	assert.Equal(t, "Priya Nair", emp.Name)

	_, err = repo.FindByExpertiseOrDepartment(ctx, "quantum-cryptography")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestEmployeeRepository_FindByDepartment(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmployeeRepository(pool)
	seedDirectory(ctx, t, repo)

	emp, err := repo.FindByDepartment(ctx, "compliance")
	require.NoError(t, err)
	assert.Equal(t, "Marcus Webb", emp.Name)

	_, err = repo.FindByDepartment(ctx, "Legal")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestEmployeeRepository_FindSecurityFallback(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmployeeRepository(pool)

	_, err := repo.FindSecurityFallback(ctx)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)

	seedDirectory(ctx, t, repo)

	// Security department wins over expertise-only matches.
	emp, err := repo.FindSecurityFallback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Chen", emp.Name)
}
