package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type ticketRepoMock struct {
	mock.Mock
}

func (m *ticketRepoMock) Create(ctx context.Context, ticket *domain.Ticket) error {
	return m.Called(ctx, ticket).Error(0)
}

func (m *ticketRepoMock) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	ticket, _ := args.Get(0).(*domain.Ticket)
	return ticket, args.Error(1)
}

func (m *ticketRepoMock) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	tickets, _ := args.Get(0).([]domain.Ticket)
	return tickets, args.Error(1)
}

func (m *ticketRepoMock) ListByAgent(ctx context.Context, agentEmployeeID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, agentEmployeeID)
	tickets, _ := args.Get(0).([]domain.Ticket)
	return tickets, args.Error(1)
}

func (m *ticketRepoMock) UpdateFields(ctx context.Context, id int64, patch repository.TicketPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *ticketRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ticketRepoMock) ListBySupervisorWithReporter(ctx context.Context, supervisorEmployeeID int64) ([]domain.SupervisorTicket, error) {
	args := m.Called(ctx, supervisorEmployeeID)
	tickets, _ := args.Get(0).([]domain.SupervisorTicket)
	return tickets, args.Error(1)
}

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *userRepoMock) GetByEmployeeID(ctx context.Context, employeeID int64) (*domain.User, error) {
	args := m.Called(ctx, employeeID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *userRepoMock) ListByDepartmentAndRole(ctx context.Context, department string, role domain.Role, limit int) ([]domain.User, error) {
	args := m.Called(ctx, department, role, limit)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *userRepoMock) UpdateAvailability(ctx context.Context, employeeID int64, availability domain.Availability) error {
	return m.Called(ctx, employeeID, availability).Error(0)
}

// passthroughUnitOfWork runs fn against fixed stores without a transaction.
type passthroughUnitOfWork struct {
	stores repository.WorkflowStores
}

func (u passthroughUnitOfWork) Do(_ context.Context, fn func(stores repository.WorkflowStores) error) error {
	return fn(u.stores)
}
