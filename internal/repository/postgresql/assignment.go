package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

const assignmentSelect = `
		SELECT a.id, a.staff_id, a.responsibility_id, r.sub_department_id, r.cycle,
			   a.status, a.created_at, a.updated_at
		FROM assignments a
		JOIN responsibilities r ON a.responsibility_id = r.id`

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := row.Scan(
		&a.ID, &a.StaffID, &a.ResponsibilityID, &a.SubDepartmentID, &a.Cycle,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// GetByID implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) GetByID(ctx context.Context, id string) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	return scanAssignment(q.QueryRow(ctx, assignmentSelect+"\n\t\tWHERE a.id = $1", id))
}

// ListForAnalytics implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) ListForAnalytics(ctx context.Context, filter assignment.AnalyticsFilter) ([]assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.StaffID != "" {
		whereClause += fmt.Sprintf(" AND a.staff_id = $%d", argIndex)
		args = append(args, filter.StaffID)
		argIndex++
	}

	if filter.SubDepartmentID != "" {
		whereClause += fmt.Sprintf(" AND r.sub_department_id = $%d", argIndex)
		args = append(args, filter.SubDepartmentID)
		argIndex++
	}

	if len(filter.Cycles) > 0 {
		whereClause += fmt.Sprintf(" AND r.cycle = ANY($%d)", argIndex)
		args = append(args, filter.Cycles)
	}

	rows, err := q.Query(ctx, assignmentSelect+"\n\t\t"+whereClause+"\n\t\tORDER BY a.created_at, a.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// UpdateStatus implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) UpdateStatus(ctx context.Context, id string, status assignment.Status) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE assignments
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}
