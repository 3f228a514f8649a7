package service

import (
	"context"
	"errors"
	"testing"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEmployeeRouter_ResolveDepartment(t *testing.T) {
	r := NewEmployeeRouter(nil)

	tests := []struct {
		name      string
		category  domain.Category
		suggested string
		want      string
	}{
		{"explicit suggestion wins", domain.CategoryCompliance, "Legal", "Legal"},
		{"category table", domain.CategoryCompliance, "", "Compliance"},
		{"engineering category", domain.CategoryDatabase, "", "Engineering"},
		{"unmapped category defaults", domain.CategoryOther, "", "Security"},
		{"empty category defaults", "", "", "Security"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveDepartment(tt.category, tt.suggested))
		})
	}
}

func TestEmployeeRouter_ExpertiseMatch(t *testing.T) {
	dir := new(MockEmployeeDirectory)
	r := NewEmployeeRouter(dir)

	emp := &domain.Employee{ID: "e1", Name: "Sarah Chen", Department: "Security"}
	dir.On("FindByExpertiseOrDepartment", mock.Anything, "encryption").Return(emp, nil)

	got, department := r.Route(context.Background(), domain.CategoryEncryption, "")

	assert.Equal(t, emp, got)
	assert.Equal(t, "Security", department)
	dir.AssertNotCalled(t, "FindByDepartment")
}

func TestEmployeeRouter_DepartmentFallback(t *testing.T) {
	dir := new(MockEmployeeDirectory)
	r := NewEmployeeRouter(dir)

	emp := &domain.Employee{ID: "e2", Name: "Marcus Webb", Department: "Security"}
	dir.On("FindByExpertiseOrDepartment", mock.Anything, "encryption").Return(nil, domain.ErrEmployeeNotFound)
	dir.On("FindByDepartment", mock.Anything, "Security").Return(emp, nil)

	got, department := r.Route(context.Background(), domain.CategoryEncryption, "")

	assert.Equal(t, emp, got)
	assert.Equal(t, "Security", department)
}

func TestEmployeeRouter_SecurityFallback(t *testing.T) {
	dir := new(MockEmployeeDirectory)
	r := NewEmployeeRouter(dir)

	emp := &domain.Employee{ID: "e3", Department: "Security"}
	dir.On("FindByExpertiseOrDepartment", mock.Anything, mock.Anything).Return(nil, domain.ErrEmployeeNotFound)
	dir.On("FindByDepartment", mock.Anything, mock.Anything).Return(nil, domain.ErrEmployeeNotFound)
	dir.On("FindSecurityFallback", mock.Anything).Return(emp, nil)

	got, _ := r.Route(context.Background(), domain.CategoryEncryption, "")

	assert.Equal(t, emp, got)
}

func TestEmployeeRouter_EmptyDirectoryReturnsNil(t *testing.T) {
	dir := new(MockEmployeeDirectory)
	r := NewEmployeeRouter(dir)

	dir.On("FindByExpertiseOrDepartment", mock.Anything, mock.Anything).Return(nil, domain.ErrEmployeeNotFound)
	dir.On("FindByDepartment", mock.Anything, mock.Anything).Return(nil, domain.ErrEmployeeNotFound)
	dir.On("FindSecurityFallback", mock.Anything).Return(nil, domain.ErrEmployeeNotFound)

	got, department := r.Route(context.Background(), domain.CategoryCompliance, "")

	assert.Nil(t, got)
	assert.Equal(t, "Compliance", department)
}

func TestEmployeeRouter_DirectoryErrorTreatedAsNoMatch(t *testing.T) {
	dir := new(MockEmployeeDirectory)
	r := NewEmployeeRouter(dir)

	dir.On("FindByExpertiseOrDepartment", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	dir.On("FindByDepartment", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	dir.On("FindSecurityFallback", mock.Anything).Return(nil, errors.New("connection refused"))

	got, _ := r.Route(context.Background(), domain.CategoryEncryption, "")

	assert.Nil(t, got)
}
