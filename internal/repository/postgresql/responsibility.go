package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/responsibility"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
)

type responsibilityRepositoryImpl struct {
	db *database.DB
}

func NewResponsibilityRepository(db *database.DB) responsibility.ResponsibilityRepository {
	return &responsibilityRepositoryImpl{db: db}
}

// List implements responsibility.ResponsibilityRepository.
func (r *responsibilityRepositoryImpl) List(ctx context.Context, filter responsibility.ResponsibilityFilter) ([]responsibility.Responsibility, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Cycle != nil && *filter.Cycle != "" {
		whereClause += fmt.Sprintf(" AND r.cycle = $%d", argIndex)
		args = append(args, *filter.Cycle)
		argIndex++
	}

	if filter.SubDepartmentID != nil && *filter.SubDepartmentID != "" {
		whereClause += fmt.Sprintf(" AND r.sub_department_id = $%d", argIndex)
		args = append(args, *filter.SubDepartmentID)
		argIndex++
	}

	if filter.GroupID != nil && *filter.GroupID != "" {
		whereClause += fmt.Sprintf(" AND r.group_id = $%d", argIndex)
		args = append(args, *filter.GroupID)
		argIndex++
	}

	if filter.StaffID != nil && *filter.StaffID != "" {
		whereClause += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM assignments a WHERE a.responsibility_id = r.id AND a.staff_id = $%d)", argIndex)
		args = append(args, *filter.StaffID)
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.title, r.description, r.sub_department_id, r.cycle,
			   r.start_date, r.end_date, g.id, g.name, r.created_at, r.updated_at
		FROM responsibilities r
		LEFT JOIN responsibility_groups g ON r.group_id = g.id
		%s
		ORDER BY r.cycle DESC, r.title
	`, whereClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []responsibility.Responsibility
	for rows.Next() {
		var item responsibility.Responsibility
		var groupID, groupName *string
		err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.SubDepartmentID, &item.Cycle,
			&item.StartDate, &item.EndDate, &groupID, &groupName, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if groupID != nil {
			item.Group = &responsibility.Group{ID: *groupID}
			if groupName != nil {
				item.Group.Name = *groupName
			}
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
