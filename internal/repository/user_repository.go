package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRepository is the Directory Store for people.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmployeeID(ctx context.Context, employeeID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByDepartmentAndRole returns matching users in store order; limit <= 0 means no limit.
	ListByDepartmentAndRole(ctx context.Context, department string, role domain.Role, limit int) ([]domain.User, error)
	UpdateAvailability(ctx context.Context, employeeID int64, availability domain.Availability) error
}

type userRepository struct {
	db Querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, employee_id, full_name, phone, email, department, designation, password_hash, role, availability`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (employee_id, full_name, phone, email, department, designation, password_hash, role, availability)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`

	return r.db.QueryRow(ctx, query,
		user.EmployeeID,
		user.FullName,
		user.Phone,
		user.Email,
		user.Department,
		user.Designation,
		user.PasswordHash,
		user.Role,
		user.Availability,
	).Scan(&user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmployeeID(ctx context.Context, employeeID int64) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE employee_id=$1`, employeeID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ListByDepartmentAndRole(ctx context.Context, department string, role domain.Role, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE department=$1 AND role=$2 ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.Query(ctx, query, department, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) UpdateAvailability(ctx context.Context, employeeID int64, availability domain.Availability) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET availability=$1 WHERE employee_id=$2`, availability, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.EmployeeID,
		&user.FullName,
		&user.Phone,
		&user.Email,
		&user.Department,
		&user.Designation,
		&user.PasswordHash,
		&user.Role,
		&user.Availability,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
