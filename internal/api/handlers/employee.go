package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/questra-ai/questra/internal/api"
	"github.com/questra-ai/questra/internal/domain"
)

type EmployeeStore interface {
	Create(ctx context.Context, e *domain.Employee) error
	List(ctx context.Context) ([]domain.Employee, error)
}

type EmployeeHandler struct {
	store EmployeeStore
}

func NewEmployeeHandler(store EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{store: store}
}

type createEmployeeRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Department      string   `json:"department"`
	ExpertiseAreas  []string `json:"expertise_areas"`
	CodebaseModules []string `json:"codebase_modules"`
}

type employeeResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Department      string   `json:"department"`
	ExpertiseAreas  []string `json:"expertise_areas"`
	CodebaseModules []string `json:"codebase_modules"`
	CreatedAt       string   `json:"created_at"`
}

func employeeToResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		Email:           e.Email,
		Role:            e.Role,
		Department:      e.Department,
		ExpertiseAreas:  e.ExpertiseAreas,
		CodebaseModules: e.CodebaseModules,
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create registers an employee in the escalation directory.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, validationError(err))
		return
	}

	emp := &domain.Employee{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		Department:      req.Department,
		ExpertiseAreas:  req.ExpertiseAreas,
		CodebaseModules: req.CodebaseModules,
	}
	if err := emp.Validate(); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.store.Create(r.Context(), emp); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, employeeToResponse(emp))
}

// List returns the full escalation directory.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, employeeToResponse(&employees[i]))
	}

	api.Success(w, http.StatusOK, out)
}
