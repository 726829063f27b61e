package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketPatch lists the ticket fields a single update writes. Nil pointers are
// left untouched; Remarks is written whenever RemarksSet is true, so a nil
// Remarks with RemarksSet clears the column.
type TicketPatch struct {
	Status      *domain.TicketStatus
	AgentID     *int64
	AgentAction *domain.AgentAction
	ResolvedAt  *time.Time
	Remarks     *string
	RemarksSet  bool
}

// Empty reports whether the patch writes nothing.
func (p TicketPatch) Empty() bool {
	return p.Status == nil && p.AgentID == nil && p.AgentAction == nil && p.ResolvedAt == nil && !p.RemarksSet
}

// Apply copies the patch onto ticket.
func (p TicketPatch) Apply(ticket *domain.Ticket) {
	if p.Status != nil {
		ticket.Status = *p.Status
	}
	if p.AgentID != nil {
		id := *p.AgentID
		ticket.AgentID = &id
	}
	if p.AgentAction != nil {
		action := *p.AgentAction
		ticket.AgentAction = &action
	}
	if p.ResolvedAt != nil {
		at := *p.ResolvedAt
		ticket.ResolvedAt = &at
	}
	if p.RemarksSet {
		if p.Remarks == nil {
			ticket.Remarks = nil
		} else {
			remarks := *p.Remarks
			ticket.Remarks = &remarks
		}
	}
}

// TicketRepository is the Ticket Store.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	UpdateFields(ctx context.Context, id int64, patch TicketPatch) error
	Delete(ctx context.Context, id int64) error
	ListByAgent(ctx context.Context, agentEmployeeID int64) ([]domain.Ticket, error)
	ListBySupervisorWithReporter(ctx context.Context, supervisorEmployeeID int64) ([]domain.SupervisorTicket, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, user_id, supervisor_id, agent_id, department, description, remarks,
               status, agent_action, created_at, resolved_at, expired`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, supervisor_id, agent_id, department, description, remarks, status, expired, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	createdAt := ticket.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx, query,
		ticket.UserID,
		ticket.SupervisorID,
		ticket.AgentID,
		ticket.Department,
		ticket.Description,
		ticket.Remarks,
		ticket.Status,
		ticket.Expired,
		createdAt,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY id`)
}

func (r *ticketRepository) ListByAgent(ctx context.Context, agentEmployeeID int64) ([]domain.Ticket, error) {
	return r.query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE agent_id=$1 ORDER BY id`, agentEmployeeID)
}

func (r *ticketRepository) UpdateFields(ctx context.Context, id int64, patch TicketPatch) error {
	if patch.Empty() {
		return nil
	}
	sets := []string{}
	args := []any{}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.AgentID != nil {
		args = append(args, *patch.AgentID)
		sets = append(sets, fmt.Sprintf("agent_id=$%d", len(args)))
	}
	if patch.AgentAction != nil {
		args = append(args, *patch.AgentAction)
		sets = append(sets, fmt.Sprintf("agent_action=$%d", len(args)))
	}
	if patch.ResolvedAt != nil {
		args = append(args, *patch.ResolvedAt)
		sets = append(sets, fmt.Sprintf("resolved_at=$%d", len(args)))
	}
	if patch.RemarksSet {
		args = append(args, patch.Remarks)
		sets = append(sets, fmt.Sprintf("remarks=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListBySupervisorWithReporter(ctx context.Context, supervisorEmployeeID int64) ([]domain.SupervisorTicket, error) {
	const query = `
        SELECT t.id, t.user_id, t.supervisor_id, t.agent_id, t.department, t.description, t.remarks,
               t.status, t.agent_action, t.created_at, t.resolved_at, t.expired,
               u.employee_id, u.full_name, u.email, u.phone, u.department, u.designation
        FROM tickets t
        INNER JOIN users u ON t.user_id = u.employee_id
        WHERE t.supervisor_id=$1
        ORDER BY t.id`
	rows, err := r.db.Query(ctx, query, supervisorEmployeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SupervisorTicket
	for rows.Next() {
		var st domain.SupervisorTicket
		if err := rows.Scan(
			&st.ID,
			&st.UserID,
			&st.SupervisorID,
			&st.AgentID,
			&st.Department,
			&st.Description,
			&st.Remarks,
			&st.Status,
			&st.AgentAction,
			&st.CreatedAt,
			&st.ResolvedAt,
			&st.Expired,
			&st.Reporter.EmployeeID,
			&st.Reporter.FullName,
			&st.Reporter.Email,
			&st.Reporter.Phone,
			&st.Reporter.Department,
			&st.Reporter.Designation,
		); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

func (r *ticketRepository) query(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.SupervisorID,
		&ticket.AgentID,
		&ticket.Department,
		&ticket.Description,
		&ticket.Remarks,
		&ticket.Status,
		&ticket.AgentAction,
		&ticket.CreatedAt,
		&ticket.ResolvedAt,
		&ticket.Expired,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
