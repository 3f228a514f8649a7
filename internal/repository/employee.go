package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/questra-ai/questra/internal/domain"
)

// EmployeeRepository handles persistence of the escalation directory.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `id, name, email, role, department, expertise_areas, codebase_modules, created_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.ExpertiseAreas, &e.CodebaseModules, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func collectEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.ExpertiseAreas, &e.CodebaseModules, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts an employee, assigning an ID when one is not set.
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO employees (id, name, email, role, department, expertise_areas, codebase_modules, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Name, e.Email, e.Role, e.Department, e.ExpertiseAreas, e.CodebaseModules, e.CreatedAt,
	)
	return err
}

// List returns all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// FindByExpertiseOrDepartment matches the term against any expertise area
// or the department name, case-insensitively.
func (r *EmployeeRepository) FindByExpertiseOrDepartment(ctx context.Context, term string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees
		 WHERE department ILIKE '%' || $1 || '%'
		    OR EXISTS (
			SELECT 1 FROM unnest(expertise_areas) AS area
			WHERE area ILIKE '%' || $1 || '%'
		    )
		 ORDER BY name
		 LIMIT 1`,
		term,
	)
	return scanEmployee(row)
}

// FindByDepartment returns the first employee in the department.
func (r *EmployeeRepository) FindByDepartment(ctx context.Context, department string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees
		 WHERE department ILIKE $1
		 ORDER BY name
		 LIMIT 1`,
		department,
	)
	return scanEmployee(row)
}

// FindSecurityFallback returns any member of the Security department, or
// failing that anyone with at least one expertise area. Used as the last
// step of escalation routing before giving up.
func (r *EmployeeRepository) FindSecurityFallback(ctx context.Context) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees
		 WHERE department ILIKE 'security'
		    OR cardinality(expertise_areas) > 0
		 ORDER BY (department ILIKE 'security') DESC, name
		 LIMIT 1`,
	)
	return scanEmployee(row)
}

// Count returns the number of employees in the directory.
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count)
	return count, err
}
