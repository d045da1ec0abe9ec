package responsibility

import (
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/validator"
)

type ResponsibilityFilter struct {
	Cycle           *string `json:"cycle,omitempty"` // YYYY-MM
	SubDepartmentID *string `json:"sub_department_id,omitempty"`
	GroupID         *string `json:"group_id,omitempty"`
	StaffID         *string `json:"staff_id,omitempty"` // only responsibilities assigned to this staff
}

func (f *ResponsibilityFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Cycle != nil && *f.Cycle != "" {
		if _, valid := validator.IsValidCycle(*f.Cycle); !valid {
			errs.Add("cycle", "cycle must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type ResponsibilityResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	SubDepartmentID string  `json:"sub_department_id"`
	Cycle           string  `json:"cycle"`
	StartDate       *string `json:"start_date,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
	GroupID         *string `json:"group_id,omitempty"`
	GroupName       *string `json:"group_name,omitempty"`
}

func ToResponse(r Responsibility) ResponsibilityResponse {
	resp := ResponsibilityResponse{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		SubDepartmentID: r.SubDepartmentID,
		Cycle:           r.Cycle,
	}
	if r.StartDate != nil {
		s := r.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	if r.EndDate != nil {
		e := r.EndDate.Format("2006-01-02")
		resp.EndDate = &e
	}
	if r.Group != nil {
		resp.GroupID = &r.Group.ID
		resp.GroupName = &r.Group.Name
	}
	return resp
}
