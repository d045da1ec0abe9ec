package analytics

import (
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/mitchellh/hashstructure/v2"
)

// Analyze runs the full aggregation for one query: filter, bucketize, summarize,
// rollups and chart series.
func Analyze(records []submission.WorkSubmission, q analytics.Query, loc *time.Location) analytics.Report {
	if loc == nil {
		loc = time.UTC
	}
	selectors := q.Series
	if len(selectors) == 0 {
		selectors = analytics.DefaultSeries
	}

	filtered := Filter(records, q.Scope, &q.Range, loc)
	slots := Bucketize(filtered, q.Range, loc, PredicateFor(q.HoursMode))

	return analytics.Report{
		Query:            q,
		Stats:            Summarize(filtered, slots),
		Daily:            slots,
		Chart:            ToSeries(slots, selectors),
		ByStaff:          RollupByStaff(filtered),
		ByResponsibility: RollupByResponsibility(filtered),
		ByGroup:          RollupByGroup(filtered),
	}
}

type memoRecord struct {
	ID               string
	StaffID          string
	StaffName        string
	AssignmentID     string
	ResponsibilityID string
	Responsibility   string
	GroupID          string
	GroupName        string
	SubDepartmentID  string
	Status           string
	Hours            float64
	HasHours         bool
	SubmittedAt      int64
	WorkDate         string
}

type memoKey struct {
	Records   []memoRecord
	ScopeKind string
	ScopeID   string
	From      string
	To        string
	Series    []string
	HoursMode string
	Location  string
}

func hashInput(records []submission.WorkSubmission, q analytics.Query, loc *time.Location) (uint64, error) {
	key := memoKey{
		Records:   make([]memoRecord, 0, len(records)),
		ScopeKind: string(q.Scope.Kind),
		ScopeID:   q.Scope.ID,
		From:      dayKey(q.Range.From),
		To:        dayKey(q.Range.To),
		HoursMode: string(q.HoursMode),
		Location:  loc.String(),
	}
	for _, s := range q.Series {
		key.Series = append(key.Series, string(s))
	}
	for _, r := range records {
		m := memoRecord{
			ID:               r.ID,
			StaffID:          r.StaffID,
			StaffName:        r.StaffName,
			AssignmentID:     r.AssignmentID,
			ResponsibilityID: r.ResponsibilityID,
			Responsibility:   r.ResponsibilityTitle,
			GroupID:          r.GroupID,
			GroupName:        r.GroupName,
			SubDepartmentID:  r.SubDepartmentID,
			Status:           string(r.Status),
			SubmittedAt:      r.SubmittedAt.UnixNano(),
		}
		if r.HoursWorked != nil {
			m.Hours = *r.HoursWorked
			m.HasHours = true
		}
		if r.WorkDate != nil {
			m.WorkDate = dayKey(*r.WorkDate)
		}
		key.Records = append(key.Records, m)
	}
	return hashstructure.Hash(key, hashstructure.FormatV2, nil)
}

// Memoizer keeps the last report and serves it again while records and query are unchanged.
// Reports handed out are deep copies.
type Memoizer struct {
	mu     sync.Mutex
	key    uint64
	valid  bool
	report analytics.Report
}

func NewMemoizer() *Memoizer {
	return &Memoizer{}
}

// Analyze returns the report for the input and whether it was served from memory
func (m *Memoizer) Analyze(records []submission.WorkSubmission, q analytics.Query, loc *time.Location) (analytics.Report, bool) {
	if loc == nil {
		loc = time.UTC
	}
	key, err := hashInput(records, q, loc)
	if err != nil {
		return Analyze(records, q, loc), false
	}

	m.mu.Lock()
	if m.valid && m.key == key {
		report := cloneReport(m.report)
		m.mu.Unlock()
		return report, true
	}
	m.mu.Unlock()

	report := Analyze(records, q, loc)

	m.mu.Lock()
	m.key = key
	m.valid = true
	m.report = cloneReport(report)
	m.mu.Unlock()

	return cloneReport(report), false
}

// Reset forgets the memoized report
func (m *Memoizer) Reset() {
	m.mu.Lock()
	m.valid = false
	m.report = analytics.Report{}
	m.mu.Unlock()
}

// cloneReport deep-copies r. Nil slices stay nil and empty slices stay empty,
// so a served copy compares equal to a fresh Analyze.
func cloneReport(r analytics.Report) analytics.Report {
	out := r
	out.Query.Series = slices.Clone(r.Query.Series)

	out.Daily = slices.Clone(r.Daily)
	for i := range out.Daily {
		out.Daily[i].Submissions = slices.Clone(r.Daily[i].Submissions)
		for j := range out.Daily[i].Submissions {
			out.Daily[i].Submissions[j] = cloneSubmission(out.Daily[i].Submissions[j])
		}
	}

	out.Chart.Labels = slices.Clone(r.Chart.Labels)
	out.Chart.Series = slices.Clone(r.Chart.Series)
	for i := range out.Chart.Series {
		out.Chart.Series[i].Values = slices.Clone(r.Chart.Series[i].Values)
	}

	out.ByStaff = slices.Clone(r.ByStaff)
	out.ByResponsibility = slices.Clone(r.ByResponsibility)
	out.ByGroup = slices.Clone(r.ByGroup)
	return out
}

func cloneSubmission(s submission.WorkSubmission) submission.WorkSubmission {
	out := s
	out.HoursWorked = clonePtr(s.HoursWorked)
	out.WorkDate = clonePtr(s.WorkDate)
	out.StaffComment = clonePtr(s.StaffComment)
	out.ManagerComment = clonePtr(s.ManagerComment)
	out.ProofURL = clonePtr(s.ProofURL)
	out.VerifiedBy = clonePtr(s.VerifiedBy)
	out.VerifiedAt = clonePtr(s.VerifiedAt)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
