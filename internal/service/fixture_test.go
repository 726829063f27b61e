package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository/memstore"
)

var (
	reporter   = domain.Principal{ID: 1, Email: "reporter@corp.io", EmployeeID: 201, Role: domain.RoleUser}
	supervisor = domain.Principal{ID: 2, Email: "sup@corp.io", EmployeeID: 301, Role: domain.RoleSupervisor}
	agent101   = domain.Principal{ID: 3, Email: "a101@corp.io", EmployeeID: 101, Role: domain.RoleAgent}
	admin      = domain.Principal{ID: 9, Email: "admin@corp.io", EmployeeID: 900, Role: domain.RoleAdmin}
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		result = append(result, e.Type)
	}
	return result
}

type fixture struct {
	store      *memstore.Store
	metrics    *observability.Metrics
	recorded   *recordedEvents
	lifecycle  *LifecycleService
	assignment *AssignmentService
	tickets    *TicketService
	directory  *DirectoryService
}

// newFixture seeds department IT with supervisor 301, agents 101 and 102 and
// reporter 201, and HR with no supervisor.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New("IT", "HR")

	seed := []domain.User{
		{EmployeeID: 301, FullName: "Sam Supervisor", Email: "sup@corp.io", Department: "IT", Role: domain.RoleSupervisor},
		{EmployeeID: 101, FullName: "Ana Agent", Email: "a101@corp.io", Department: "IT", Role: domain.RoleAgent},
		{EmployeeID: 102, FullName: "Ben Agent", Email: "a102@corp.io", Department: "IT", Role: domain.RoleAgent},
		{EmployeeID: 201, FullName: "Rita Reporter", Email: "reporter@corp.io", Phone: "5550100100", Department: "IT", Designation: "Analyst", Role: domain.RoleUser},
		{EmployeeID: 401, FullName: "Hal Agent", Email: "hr-agent@corp.io", Department: "HR", Role: domain.RoleAgent},
	}
	for i := range seed {
		require.NoError(t, store.Users().Create(ctx, &seed[i]))
	}

	dispatcher := events.NewInMemoryDispatcher()
	recorded := &recordedEvents{}
	events.SubscribeAll(dispatcher, recorded.handle)
	metrics := observability.NewMetrics()

	return &fixture{
		store:    store,
		metrics:  metrics,
		recorded: recorded,
		lifecycle: NewLifecycleService(LifecycleDependencies{
			TicketRepo: store.Tickets(),
			UnitOfWork: store.UnitOfWork(),
			Routing:    NewRoutingService(store.Users()),
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
		assignment: NewAssignmentService(AssignmentDependencies{
			TicketRepo: store.Tickets(),
			UserRepo:   store.Users(),
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
		tickets: NewTicketService(TicketDependencies{TicketRepo: store.Tickets()}),
		directory: NewDirectoryService(DirectoryDependencies{
			UserRepo:       store.Users(),
			DepartmentRepo: store.Departments(),
		}),
	}
}

func (f *fixture) availability(t *testing.T, employeeID int64) domain.Availability {
	t.Helper()
	user, err := f.store.Users().GetByEmployeeID(context.Background(), employeeID)
	require.NoError(t, err)
	return user.Availability
}

func (f *fixture) ticket(t *testing.T, id int64) *domain.Ticket {
	t.Helper()
	ticket, err := f.store.Tickets().GetByID(context.Background(), id)
	require.NoError(t, err)
	return ticket
}

func (f *fixture) file(t *testing.T, description string) *domain.Ticket {
	t.Helper()
	ticket, err := f.lifecycle.CreateTicket(context.Background(), reporter, CreateTicketInput{
		Department:  "IT",
		Description: description,
	})
	require.NoError(t, err)
	return ticket
}

func strPtr(s string) *string { return &s }
