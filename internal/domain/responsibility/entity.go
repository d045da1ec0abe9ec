package responsibility

import "time"

// Group clusters related responsibilities for reporting
type Group struct {
	ID   string
	Name string
}

// Responsibility is a unit of recurring work scoped to a sub-department and a cycle
type Responsibility struct {
	ID              string
	Title           string
	Description     *string
	SubDepartmentID string
	Cycle           string // YYYY-MM
	StartDate       *time.Time
	EndDate         *time.Time
	Group           *Group
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
