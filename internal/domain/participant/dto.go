package participant

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/validator"
)

type UpdateParticipantRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Team        *string `json:"team,omitempty"`
	Site        *string `json:"site,omitempty"`
	Hostel      *string `json:"hostel,omitempty"`
	TravelMode  *string `json:"travel_mode,omitempty"`
	ArrivalDate *string `json:"arrival_date,omitempty"` // YYYY-MM-DD
}

func (r *UpdateParticipantRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Email == nil && r.Team == nil && r.Site == nil &&
		r.Hostel == nil && r.TravelMode == nil && r.ArrivalDate == nil {
		errs.Add("request", ErrNoChanges.Error())
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if r.Site != nil && validator.IsEmpty(*r.Site) {
		errs.Add("site", "site must not be empty")
	}

	if r.TravelMode != nil {
		upper := strings.ToUpper(*r.TravelMode)
		validModes := []string{string(TravelModeFlight), string(TravelModeTrain), string(TravelModeBus), string(TravelModeOther)}
		if !validator.IsInSlice(upper, validModes) {
			errs.Add("travel_mode", "travel_mode must be one of: FLIGHT, TRAIN, BUS, OTHER")
		} else {
			r.TravelMode = &upper
		}
	}

	if r.ArrivalDate != nil {
		if _, valid := validator.IsValidDate(*r.ArrivalDate); !valid {
			errs.Add("arrival_date", "arrival_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// ConfirmEditRequest carries the site the operator re-selected before committing
type ConfirmEditRequest struct {
	Site string `json:"site"`
}

func (r *ConfirmEditRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Site) {
		errs.Add("site", "site is required")
	}
	return errs.Err()
}

type ParticipantFilter struct {
	Site   *string `json:"site,omitempty"`
	Hostel *string `json:"hostel,omitempty"`
	Search *string `json:"search,omitempty"` // name or email

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ParticipantFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	return errs.Err()
}

type ParticipantResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Team        *string `json:"team,omitempty"`
	Site        string  `json:"site"`
	Hostel      *string `json:"hostel,omitempty"`
	TravelMode  *string `json:"travel_mode,omitempty"`
	ArrivalDate *string `json:"arrival_date,omitempty"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListParticipantResponse struct {
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
	Participants []ParticipantResponse `json:"participants"`
}

func ToResponse(p Participant) ParticipantResponse {
	resp := ParticipantResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Team:      p.Team,
		Site:      p.Site,
		Hostel:    p.Hostel,
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.TravelMode != nil {
		m := string(*p.TravelMode)
		resp.TravelMode = &m
	}
	if p.ArrivalDate != nil {
		d := p.ArrivalDate.Format("2006-01-02")
		resp.ArrivalDate = &d
	}
	return resp
}
