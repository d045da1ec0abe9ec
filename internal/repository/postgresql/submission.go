package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type submissionRepositoryImpl struct {
	db *database.DB
}

func NewSubmissionRepository(db *database.DB) submission.SubmissionRepository {
	return &submissionRepositoryImpl{db: db}
}

const submissionColumns = `
		ws.id, ws.staff_id, s.full_name, ws.assignment_id,
		r.id, r.title, g.id, g.name, r.sub_department_id,
		ws.status, ws.hours_worked, ws.work_date, ws.submitted_at,
		ws.staff_comment, ws.manager_comment, ws.proof_url,
		ws.verified_by, ws.verified_at, ws.created_at, ws.updated_at`

const submissionJoins = `
		FROM work_submissions ws
		JOIN assignments a ON ws.assignment_id = a.id
		JOIN responsibilities r ON a.responsibility_id = r.id
		JOIN staff s ON ws.staff_id = s.id
		LEFT JOIN responsibility_groups g ON r.group_id = g.id`

func scanSubmission(row pgx.Row) (submission.WorkSubmission, error) {
	var ws submission.WorkSubmission
	var groupID, groupName *string

	err := row.Scan(
		&ws.ID, &ws.StaffID, &ws.StaffName, &ws.AssignmentID,
		&ws.ResponsibilityID, &ws.ResponsibilityTitle, &groupID, &groupName, &ws.SubDepartmentID,
		&ws.Status, &ws.HoursWorked, &ws.WorkDate, &ws.SubmittedAt,
		&ws.StaffComment, &ws.ManagerComment, &ws.ProofURL,
		&ws.VerifiedBy, &ws.VerifiedAt, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		return submission.WorkSubmission{}, err
	}
	if groupID != nil {
		ws.GroupID = *groupID
	}
	if groupName != nil {
		ws.GroupName = *groupName
	}
	return ws, nil
}

func collectSubmissions(rows pgx.Rows) ([]submission.WorkSubmission, error) {
	defer rows.Close()

	var result []submission.WorkSubmission
	for rows.Next() {
		ws, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ws)
	}
	return result, rows.Err()
}

// Create implements submission.SubmissionRepository.
func (r *submissionRepositoryImpl) Create(ctx context.Context, s submission.WorkSubmission) (submission.WorkSubmission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_submissions (
			staff_id, assignment_id, status,
			hours_worked, work_date, submitted_at,
			staff_comment, proof_url,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8,
			NOW(), NOW()
		) RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		s.StaffID, s.AssignmentID, s.Status,
		s.HoursWorked, s.WorkDate, s.SubmittedAt,
		s.StaffComment, s.ProofURL,
	).Scan(&id)
	if err != nil {
		return submission.WorkSubmission{}, fmt.Errorf("insert work submission: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements submission.SubmissionRepository.
func (r *submissionRepositoryImpl) GetByID(ctx context.Context, id string) (submission.WorkSubmission, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT" + submissionColumns + submissionJoins + "\n\t\tWHERE ws.id = $1"
	return scanSubmission(q.QueryRow(ctx, query, id))
}

var submissionSortColumns = map[string]string{
	"submitted_at": "ws.submitted_at",
	"work_date":    "ws.work_date",
	"hours_worked": "ws.hours_worked",
	"status":       "ws.status",
}

// List implements submission.SubmissionRepository.
func (r *submissionRepositoryImpl) List(ctx context.Context, filter submission.SubmissionFilter) ([]submission.WorkSubmission, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.StaffID != nil && *filter.StaffID != "" {
		whereClause += fmt.Sprintf(" AND ws.staff_id = $%d", argIndex)
		args = append(args, *filter.StaffID)
		argIndex++
	}

	if filter.SubDepartmentID != nil && *filter.SubDepartmentID != "" {
		whereClause += fmt.Sprintf(" AND r.sub_department_id = $%d", argIndex)
		args = append(args, *filter.SubDepartmentID)
		argIndex++
	}

	if filter.AssignmentID != nil && *filter.AssignmentID != "" {
		whereClause += fmt.Sprintf(" AND ws.assignment_id = $%d", argIndex)
		args = append(args, *filter.AssignmentID)
		argIndex++
	}

	if filter.Status != nil && *filter.Status != "" {
		whereClause += fmt.Sprintf(" AND ws.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClause += fmt.Sprintf(" AND COALESCE(ws.work_date, ws.submitted_at::date) >= $%d::date", argIndex)
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClause += fmt.Sprintf(" AND COALESCE(ws.work_date, ws.submitted_at::date) <= $%d::date", argIndex)
		args = append(args, *filter.EndDate)
		argIndex++
	}

	countQuery := "SELECT COUNT(*)" + submissionJoins + "\n\t\t" + whereClause

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := submissionSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "ws.submitted_at"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`SELECT %s %s
		%s
		ORDER BY %s %s, ws.id
		LIMIT $%d OFFSET $%d
	`, submissionColumns, submissionJoins, whereClause, sortColumn, sortOrder, argIndex, argIndex+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	result, err := collectSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListForAnalytics implements submission.SubmissionRepository.
func (r *submissionRepositoryImpl) ListForAnalytics(ctx context.Context, filter submission.AnalyticsFilter) ([]submission.WorkSubmission, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.StaffID != "" {
		whereClause += fmt.Sprintf(" AND ws.staff_id = $%d", argIndex)
		args = append(args, filter.StaffID)
		argIndex++
	}

	if filter.SubDepartmentID != "" {
		whereClause += fmt.Sprintf(" AND r.sub_department_id = $%d", argIndex)
		args = append(args, filter.SubDepartmentID)
		argIndex++
	}

	// Either date may decide the bucket, so a row is kept when either falls in the window.
	if filter.From != nil {
		whereClause += fmt.Sprintf(" AND (ws.work_date >= $%d OR ws.submitted_at >= $%d)", argIndex, argIndex+1)
		args = append(args, filter.From.Format("2006-01-02"), *filter.From)
		argIndex += 2
	}

	if filter.To != nil {
		whereClause += fmt.Sprintf(" AND (ws.work_date < $%d OR ws.submitted_at < $%d)", argIndex, argIndex+1)
		args = append(args, filter.To.Format("2006-01-02"), *filter.To)
		argIndex += 2
	}

	query := "SELECT" + submissionColumns + submissionJoins + "\n\t\t" + whereClause + "\n\t\tORDER BY ws.submitted_at, ws.id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

// UpdateVerification implements submission.SubmissionRepository.
// Only a submission still awaiting a decision is updated; otherwise pgx.ErrNoRows.
func (r *submissionRepositoryImpl) UpdateVerification(ctx context.Context, id string, status submission.Status, managerComment *string, verifiedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_submissions
		SET status = $1, manager_comment = $2, verified_by = $3, verified_at = $4, updated_at = $4
		WHERE id = $5 AND status IN ('PENDING', 'SUBMITTED')
	`

	commandTag, err := q.Exec(ctx, query, status, managerComment, verifiedBy, time.Now(), id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}
