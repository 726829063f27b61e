// Package memstore keeps the Directory and Ticket stores in process memory.
// It backs local runs without POSTGRES_DSN and the service tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Store holds every record behind one mutex.
type Store struct {
	mu           sync.Mutex
	users        map[int64]domain.User
	tickets      map[int64]domain.Ticket
	departments  []domain.Department
	nextUserID   int64
	nextTicketID int64
	now          func() time.Time
}

// New creates an empty store seeded with the named departments.
func New(departments ...string) *Store {
	s := &Store{
		users:   make(map[int64]domain.User),
		tickets: make(map[int64]domain.Ticket),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for i, name := range departments {
		s.departments = append(s.departments, domain.Department{ID: int64(i + 1), Name: name})
	}
	return s
}

// Users returns the Directory Store view.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Tickets returns the Ticket Store view.
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepo{s: s} }

// Departments returns the department view.
func (s *Store) Departments() repository.DepartmentRepository { return &departmentRepo{s: s} }

// UnitOfWork returns a UnitOfWork that rolls back every write made by a failing fn.
func (s *Store) UnitOfWork() repository.UnitOfWork { return &unitOfWork{s: s} }

func (s *Store) lock(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type unitOfWork struct {
	s *Store
}

func (u *unitOfWork) Do(ctx context.Context, fn func(stores repository.WorkflowStores) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	users := make(map[int64]domain.User, len(u.s.users))
	for k, v := range u.s.users {
		users[k] = v
	}
	tickets := make(map[int64]domain.Ticket, len(u.s.tickets))
	for k, v := range u.s.tickets {
		tickets[k] = v
	}
	nextUser, nextTicket := u.s.nextUserID, u.s.nextTicketID

	err := fn(repository.WorkflowStores{
		Tickets: &ticketRepo{s: u.s, held: true},
		Users:   &userRepo{s: u.s, held: true},
	})
	if err != nil {
		u.s.users, u.s.tickets = users, tickets
		u.s.nextUserID, u.s.nextTicketID = nextUser, nextTicket
	}
	return err
}

type userRepo struct {
	s    *Store
	held bool
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	defer r.s.lock(r.held)()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperrors.NewConflict("duplicate record", map[string]any{"constraint": "users_email_key"})
		}
		if existing.EmployeeID == user.EmployeeID {
			return apperrors.NewConflict("duplicate record", map[string]any{"constraint": "users_employee_id_key"})
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Availability == "" {
		user.Availability = domain.AvailabilityAvailable
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	defer r.s.lock(r.held)()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *userRepo) GetByEmployeeID(_ context.Context, employeeID int64) (*domain.User, error) {
	defer r.s.lock(r.held)()
	for _, user := range r.s.users {
		if user.EmployeeID == employeeID {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	defer r.s.lock(r.held)()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) ListByDepartmentAndRole(_ context.Context, department string, role domain.Role, limit int) ([]domain.User, error) {
	defer r.s.lock(r.held)()
	var result []domain.User
	for _, user := range r.s.users {
		if user.Department == department && user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *userRepo) UpdateAvailability(_ context.Context, employeeID int64, availability domain.Availability) error {
	defer r.s.lock(r.held)()
	for id, user := range r.s.users {
		if user.EmployeeID == employeeID {
			user.Availability = availability
			r.s.users[id] = user
			return nil
		}
	}
	return pgx.ErrNoRows
}

type ticketRepo struct {
	s    *Store
	held bool
}

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	defer r.s.lock(r.held)()
	r.s.nextTicketID++
	ticket.ID = r.s.nextTicketID
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.s.now()
	}
	r.s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	defer r.s.lock(r.held)()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := cloneTicket(ticket)
	return &clone, nil
}

func (r *ticketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	defer r.s.lock(r.held)()
	return r.s.filterTickets(func(domain.Ticket) bool { return true }), nil
}

func (r *ticketRepo) ListByAgent(_ context.Context, agentEmployeeID int64) ([]domain.Ticket, error) {
	defer r.s.lock(r.held)()
	return r.s.filterTickets(func(t domain.Ticket) bool {
		return t.AgentID != nil && *t.AgentID == agentEmployeeID
	}), nil
}

func (r *ticketRepo) UpdateFields(_ context.Context, id int64, patch repository.TicketPatch) error {
	defer r.s.lock(r.held)()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	patch.Apply(&ticket)
	r.s.tickets[id] = ticket
	return nil
}

func (r *ticketRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lock(r.held)()
	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	return nil
}

func (r *ticketRepo) ListBySupervisorWithReporter(_ context.Context, supervisorEmployeeID int64) ([]domain.SupervisorTicket, error) {
	defer r.s.lock(r.held)()
	reporters := make(map[int64]domain.User, len(r.s.users))
	for _, user := range r.s.users {
		reporters[user.EmployeeID] = user
	}
	var result []domain.SupervisorTicket
	for _, ticket := range r.s.filterTickets(func(t domain.Ticket) bool { return t.SupervisorID == supervisorEmployeeID }) {
		reporter, ok := reporters[ticket.UserID]
		if !ok {
			continue
		}
		result = append(result, domain.SupervisorTicket{
			Ticket: ticket,
			Reporter: domain.Reporter{
				EmployeeID:  reporter.EmployeeID,
				FullName:    reporter.FullName,
				Email:       reporter.Email,
				Phone:       reporter.Phone,
				Department:  reporter.Department,
				Designation: reporter.Designation,
			},
		})
	}
	return result, nil
}

func (s *Store) filterTickets(keep func(domain.Ticket) bool) []domain.Ticket {
	var result []domain.Ticket
	for _, ticket := range s.tickets {
		if keep(ticket) {
			result = append(result, cloneTicket(ticket))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	if t.AgentID != nil {
		v := *t.AgentID
		t.AgentID = &v
	}
	if t.Remarks != nil {
		v := *t.Remarks
		t.Remarks = &v
	}
	if t.AgentAction != nil {
		v := *t.AgentAction
		t.AgentAction = &v
	}
	if t.ResolvedAt != nil {
		v := *t.ResolvedAt
		t.ResolvedAt = &v
	}
	return t
}

type departmentRepo struct {
	s *Store
}

func (r *departmentRepo) List(_ context.Context) ([]domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Department(nil), r.s.departments...), nil
}
