package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// DirectoryService answers people and department lookups.
type DirectoryService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
}

// DirectoryDependencies bundles repositories.
type DirectoryDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
}

// NewDirectoryService creates the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{users: deps.UserRepo, departments: deps.DepartmentRepo}
}

// ListSupervisorsByDepartment returns every supervisor of a department.
func (s *DirectoryService) ListSupervisorsByDepartment(ctx context.Context, principal domain.Principal, department string) ([]domain.User, error) {
	if err := authorize(principal, domain.CapFileTicket); err != nil {
		return nil, err
	}
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, apperrors.NewInvalidInput("Department name is required in params.", nil)
	}
	users, err := s.users.ListByDepartmentAndRole(ctx, department, domain.RoleSupervisor, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetUserByEmployeeID looks a person up by employee identifier.
func (s *DirectoryService) GetUserByEmployeeID(ctx context.Context, principal domain.Principal, employeeID int64) (*domain.User, error) {
	if err := authorize(principal, domain.CapReadTickets); err != nil {
		return nil, err
	}
	if employeeID <= 0 {
		return nil, apperrors.NewInvalidInput("Employee ID must be a valid number", nil)
	}
	user, err := s.users.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, lookupError(err, "User not found", map[string]any{"employeeId": employeeID})
	}
	return user, nil
}

// ListDepartments returns the department reference data.
func (s *DirectoryService) ListDepartments(ctx context.Context, principal domain.Principal) ([]domain.Department, error) {
	if err := authorize(principal, domain.CapReadTickets); err != nil {
		return nil, err
	}
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(departments) == 0 {
		return nil, apperrors.NewNotFoundMessage("No departments found", nil)
	}
	return departments, nil
}
