package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/validator"
)

// AnalyticsRequest holds the raw query parameters of an analytics view
type AnalyticsRequest struct {
	Scope   string `json:"scope,omitempty"`    // all, staff, sub_department
	ScopeID string `json:"scope_id,omitempty"` // staff or sub-department id
	From    string `json:"from,omitempty"`     // YYYY-MM-DD
	To      string `json:"to,omitempty"`       // YYYY-MM-DD
	Cycle   string `json:"cycle,omitempty"`    // YYYY-MM
	Preset  string `json:"preset,omitempty"`   // 7d, 30d, month
	Series  string `json:"series,omitempty"`   // comma separated
	Hours   string `json:"hours,omitempty"`    // all, verified
}

func (r *AnalyticsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Scope != "" {
		validScopes := []string{string(ScopeAll), string(ScopeStaff), string(ScopeSubDepartment)}
		if !validator.IsInSlice(r.Scope, validScopes) {
			errs.Add("scope", "scope must be one of: all, staff, sub_department")
		} else if r.Scope != string(ScopeAll) && validator.IsEmpty(r.ScopeID) {
			errs.Add("scope_id", "scope_id is required for this scope")
		}
	}

	if (r.From == "") != (r.To == "") {
		errs.Add("from", "from and to must be supplied together")
	}
	if r.From != "" {
		if _, valid := validator.IsValidDate(r.From); !valid {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if r.To != "" {
		if _, valid := validator.IsValidDate(r.To); !valid {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}

	if r.Cycle != "" {
		if _, valid := validator.IsValidCycle(r.Cycle); !valid {
			errs.Add("cycle", "cycle must be in YYYY-MM format")
		}
	}

	if r.Preset != "" {
		validPresets := []string{string(PresetLast7Days), string(PresetLast30Days), string(PresetThisMonth)}
		if !validator.IsInSlice(r.Preset, validPresets) {
			errs.Add("preset", "preset must be one of: 7d, 30d, month")
		}
	}

	if r.Hours != "" && r.Hours != string(HoursAll) && r.Hours != string(HoursVerified) {
		errs.Add("hours", "hours must be one of: all, verified")
	}

	if r.Series != "" {
		if _, err := ParseSelectors(r.Series); err != nil {
			errs.Add("series", err.Error())
		}
	}

	return errs.Err()
}

// ParseSelectors parses a comma separated series list. An empty list yields DefaultSeries.
func ParseSelectors(raw string) ([]SeriesSelector, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]SeriesSelector(nil), DefaultSeries...), nil
	}
	var selectors []SeriesSelector
	for _, part := range strings.Split(raw, ",") {
		name := SeriesSelector(strings.ToLower(strings.TrimSpace(part)))
		switch name {
		case SeriesSubmissions, SeriesVerified, SeriesPending, SeriesRejected, SeriesHours:
			selectors = append(selectors, name)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSeries, part)
		}
	}
	return selectors, nil
}

// FlexID accepts both string and numeric JSON identifiers and stores them as strings
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// RecordInput is a work submission as supplied by a client to the compute endpoint
type RecordInput struct {
	ID                  FlexID   `json:"id"`
	StaffID             FlexID   `json:"staff_id"`
	StaffName           string   `json:"staff_name,omitempty"`
	AssignmentID        FlexID   `json:"assignment_id"`
	ResponsibilityID    FlexID   `json:"responsibility_id,omitempty"`
	ResponsibilityTitle string   `json:"responsibility_title,omitempty"`
	GroupID             FlexID   `json:"group_id,omitempty"`
	GroupName           string   `json:"group_name,omitempty"`
	SubDepartmentID     FlexID   `json:"sub_department_id,omitempty"`
	Status              string   `json:"status,omitempty"`
	HoursWorked         *float64 `json:"hours_worked,omitempty"`
	SubmittedAt         string   `json:"submitted_at,omitempty"` // RFC3339
	WorkDate            string   `json:"work_date,omitempty"`    // YYYY-MM-DD or RFC3339
}

// ToSubmission converts the input leniently: unparseable dates are treated as absent
func (r RecordInput) ToSubmission() submission.WorkSubmission {
	s := submission.WorkSubmission{
		ID:                  string(r.ID),
		StaffID:             string(r.StaffID),
		StaffName:           r.StaffName,
		AssignmentID:        string(r.AssignmentID),
		ResponsibilityID:    string(r.ResponsibilityID),
		ResponsibilityTitle: r.ResponsibilityTitle,
		GroupID:             string(r.GroupID),
		GroupName:           r.GroupName,
		SubDepartmentID:     string(r.SubDepartmentID),
		Status:              submission.Status(strings.ToUpper(strings.TrimSpace(r.Status))),
		HoursWorked:         r.HoursWorked,
	}
	if t, err := time.Parse(time.RFC3339, r.SubmittedAt); err == nil {
		s.SubmittedAt = t
	}
	if r.WorkDate != "" {
		if d, ok := validator.IsValidDate(r.WorkDate); ok {
			s.WorkDate = &d
		} else if t, err := time.Parse(time.RFC3339, r.WorkDate); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			s.WorkDate = &d
		}
	}
	return s
}

// ComputeRequest runs the aggregator over client-supplied records
type ComputeRequest struct {
	AnalyticsRequest
	Records []RecordInput `json:"records"`
}

func (r *ComputeRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Merge(r.AnalyticsRequest.Validate())
	if len(r.Records) > 10000 {
		errs.Add("records", "records must not exceed 10000 items")
	}
	return errs.Err()
}

// ========== RESPONSE ==========

type ScopeResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

type StatsResponse struct {
	Total             int     `json:"total"`
	Verified          int     `json:"verified"`
	Pending           int     `json:"pending"`
	Rejected          int     `json:"rejected"`
	TotalHours        float64 `json:"total_hours"`
	VerifiedHours     float64 `json:"verified_hours"`
	ApprovalRate      int     `json:"approval_rate"` // integer percent
	ActiveDays        int     `json:"active_days"`
	AverageDailyHours float64 `json:"average_daily_hours"`
}

type DailyItem struct {
	Date          string   `json:"date"`  // Format: "YYYY-MM-DD"
	Label         string   `json:"label"` // Format: "Jan 5"
	Total         int      `json:"total"`
	Verified      int      `json:"verified"`
	Pending       int      `json:"pending"`
	Rejected      int      `json:"rejected"`
	TotalHours    float64  `json:"total_hours"`
	SubmissionIDs []string `json:"submission_ids"`
}

type SeriesResponse struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type ChartResponse struct {
	Labels []string         `json:"labels"`
	Series []SeriesResponse `json:"series"`
}

type EntityStatsResponse struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	StatsResponse
}

// AssignmentSummary counts assignments by canonical bucket
type AssignmentSummary struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

type AnalyticsResponse struct {
	Scope            ScopeResponse         `json:"scope"`
	From             string                `json:"from"`
	To               string                `json:"to"`
	HoursMode        string                `json:"hours_mode"`
	Stats            StatsResponse         `json:"stats"`
	Daily            []DailyItem           `json:"daily"`
	Chart            ChartResponse         `json:"chart"`
	ByStaff          []EntityStatsResponse `json:"by_staff"`
	ByResponsibility []EntityStatsResponse `json:"by_responsibility"`
	ByGroup          []EntityStatsResponse `json:"by_group"`
	Assignments      *AssignmentSummary    `json:"assignments,omitempty"`
	GeneratedAt      time.Time             `json:"generated_at"`
	CacheHit         bool                  `json:"cache_hit"`
}

func toStatsResponse(s Stats) StatsResponse {
	return StatsResponse{
		Total:             s.Total,
		Verified:          s.Verified,
		Pending:           s.Pending,
		Rejected:          s.Rejected,
		TotalHours:        s.TotalHours,
		VerifiedHours:     s.VerifiedHours,
		ApprovalRate:      s.ApprovalRate,
		ActiveDays:        s.ActiveDays,
		AverageDailyHours: s.AverageDailyHours,
	}
}

func toEntityResponses(items []EntityStats) []EntityStatsResponse {
	out := make([]EntityStatsResponse, 0, len(items))
	for _, item := range items {
		out = append(out, EntityStatsResponse{
			ID:            item.ID,
			Label:         item.Label,
			StatsResponse: toStatsResponse(item.Stats),
		})
	}
	return out
}

// ToResponse maps a report to its API shape
func ToResponse(report Report, generatedAt time.Time) AnalyticsResponse {
	daily := make([]DailyItem, 0, len(report.Daily))
	for i, slot := range report.Daily {
		ids := make([]string, 0, len(slot.Submissions))
		for _, s := range slot.Submissions {
			ids = append(ids, s.ID)
		}
		label := ""
		if i < len(report.Chart.Labels) {
			label = report.Chart.Labels[i]
		}
		daily = append(daily, DailyItem{
			Date:          slot.Date.Format("2006-01-02"),
			Label:         label,
			Total:         slot.Total(),
			Verified:      slot.VerifiedCount,
			Pending:       slot.PendingCount,
			Rejected:      slot.RejectedCount,
			TotalHours:    slot.TotalHours,
			SubmissionIDs: ids,
		})
	}

	series := make([]SeriesResponse, 0, len(report.Chart.Series))
	for _, s := range report.Chart.Series {
		series = append(series, SeriesResponse{Name: s.Name, Values: s.Values})
	}

	labels := report.Chart.Labels
	if labels == nil {
		labels = []string{}
	}

	return AnalyticsResponse{
		Scope:            ScopeResponse{Kind: string(report.Query.Scope.Kind), ID: report.Query.Scope.ID},
		From:             report.Query.Range.From.Format("2006-01-02"),
		To:               report.Query.Range.To.Format("2006-01-02"),
		HoursMode:        string(report.Query.HoursMode),
		Stats:            toStatsResponse(report.Stats),
		Daily:            daily,
		Chart:            ChartResponse{Labels: labels, Series: series},
		ByStaff:          toEntityResponses(report.ByStaff),
		ByResponsibility: toEntityResponses(report.ByResponsibility),
		ByGroup:          toEntityResponses(report.ByGroup),
		GeneratedAt:      generatedAt,
	}
}
