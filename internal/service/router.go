package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/questra-ai/questra/internal/domain"
)

const defaultDepartment = "Security"

// categoryDepartments maps question categories to the department that
// owns them. Anything unmapped lands in Security.
var categoryDepartments = map[domain.Category]string{
	domain.CategoryAuthentication:   "Security",
	domain.CategoryAuthorization:    "Security",
	domain.CategoryEncryption:       "Security",
	domain.CategoryDataProtection:   "Security",
	domain.CategoryNetworkSecurity:  "Security",
	domain.CategoryIncidentResponse: "Security",
	domain.CategoryCompliance:       "Compliance",
	domain.CategoryAPISecurity:      "Engineering",
	domain.CategoryInfrastructure:   "Engineering",
	domain.CategoryDatabase:         "Engineering",
}

// EmployeeDirectory is the lookup surface of the employee repository.
type EmployeeDirectory interface {
	FindByExpertiseOrDepartment(ctx context.Context, term string) (*domain.Employee, error)
	FindByDepartment(ctx context.Context, department string) (*domain.Employee, error)
	FindSecurityFallback(ctx context.Context) (*domain.Employee, error)
}

// EmployeeRouter resolves an escalation to a specific reviewer through an
// ordered fallback chain. A nil employee with nil error means the
// directory has nobody suitable; callers surface that, never substitute.
type EmployeeRouter struct {
	directory EmployeeDirectory
}

func NewEmployeeRouter(directory EmployeeDirectory) *EmployeeRouter {
	return &EmployeeRouter{directory: directory}
}

// ResolveDepartment picks the owning department: explicit suggestion
// first, then the category table, then the default.
func (r *EmployeeRouter) ResolveDepartment(category domain.Category, suggested string) string {
	if s := strings.TrimSpace(suggested); s != "" {
		return s
	}
	if dept, ok := categoryDepartments[category]; ok {
		return dept
	}
	return defaultDepartment
}

// Route finds a reviewer for the category/department. Each fallback step
// runs only when the prior one yields nothing:
//  1. expertise or department substring match on the category
//  2. anyone in the resolved department
//  3. anyone in Security, or anyone with a non-empty expertise list
//  4. nil
func (r *EmployeeRouter) Route(ctx context.Context, category domain.Category, suggestedDepartment string) (*domain.Employee, string) {
	department := r.ResolveDepartment(category, suggestedDepartment)

	if category != "" {
		if emp := r.lookup(func() (*domain.Employee, error) {
			return r.directory.FindByExpertiseOrDepartment(ctx, string(category))
		}); emp != nil {
			return emp, emp.Department
		}
	}

	if emp := r.lookup(func() (*domain.Employee, error) {
		return r.directory.FindByDepartment(ctx, department)
	}); emp != nil {
		return emp, emp.Department
	}

	if emp := r.lookup(func() (*domain.Employee, error) {
		return r.directory.FindSecurityFallback(ctx)
	}); emp != nil {
		return emp, emp.Department
	}

	return nil, department
}

func (r *EmployeeRouter) lookup(find func() (*domain.Employee, error)) *domain.Employee {
	emp, err := find()
	if err != nil {
		if !errors.Is(err, domain.ErrEmployeeNotFound) {
			log.Printf("employee router: lookup failed, trying next fallback: %v", err)
		}
		return nil
	}
	return emp
}
