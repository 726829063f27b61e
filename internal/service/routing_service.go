package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RoutingService maps a department to the supervisor that owns its new tickets.
type RoutingService struct {
	users repository.UserRepository
}

// NewRoutingService creates the resolver.
func NewRoutingService(users repository.UserRepository) *RoutingService {
	return &RoutingService{users: users}
}

// ResolveSupervisor returns the first supervisor the store yields for
// department. With several supervisors the pick follows store order.
func (s *RoutingService) ResolveSupervisor(ctx context.Context, department string) (*domain.User, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, apperrors.NewInvalidInput("Department is required", nil)
	}

	supervisors, err := s.users.ListByDepartmentAndRole(ctx, department, domain.RoleSupervisor, 1)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(supervisors) == 0 {
		return nil, apperrors.NewNotFoundMessage("No supervisor found for department", map[string]any{"department": department})
	}
	return &supervisors[0], nil
}
