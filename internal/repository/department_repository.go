package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// DepartmentRepository reads department reference data.
type DepartmentRepository interface {
	List(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	db Querier
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(db Querier) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}
