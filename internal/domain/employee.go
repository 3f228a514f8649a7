package domain

import "time"

// Employee is a human reviewer who can handle escalated questions.
// External directory data, read-only to the pipeline; email is the stable
// unique key.
type Employee struct {
	ID              string
	Name            string
	Email           string
	Role            string
	Department      string
	ExpertiseAreas  []string
	CodebaseModules []string
	CreatedAt       time.Time
}

// Validate checks required employee fields.
func (e *Employee) Validate() error {
	if e.Name == "" || e.Email == "" || e.Department == "" {
		return ErrMissingRequiredField
	}
	return nil
}
