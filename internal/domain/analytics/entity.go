package analytics

import (
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
)

// Bucket is the canonical three-way status split used by every chart and KPI card
type Bucket string

const (
	BucketVerified Bucket = "VERIFIED"
	BucketPending  Bucket = "PENDING"
	BucketRejected Bucket = "REJECTED"
)

type ScopeKind string

const (
	ScopeAll           ScopeKind = "all"
	ScopeStaff         ScopeKind = "staff"
	ScopeSubDepartment ScopeKind = "sub_department"
)

// Scope is the entity an analytics view narrows its records to
type Scope struct {
	Kind ScopeKind
	ID   string
}

// DateRange is an inclusive pair of calendar dates, each held as UTC midnight
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days returns the number of calendar days covered, inclusive
func (r DateRange) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	n := 0
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

type Preset string

const (
	PresetLast7Days  Preset = "7d"
	PresetLast30Days Preset = "30d"
	PresetThisMonth  Preset = "month"
)

// HoursMode selects which submissions count toward daily hour sums
type HoursMode string

const (
	HoursAll      HoursMode = "all"      // logged hours
	HoursVerified HoursMode = "verified" // approved hours
)

type SeriesSelector string

const (
	SeriesSubmissions SeriesSelector = "submissions"
	SeriesVerified    SeriesSelector = "verified"
	SeriesPending     SeriesSelector = "pending"
	SeriesRejected    SeriesSelector = "rejected"
	SeriesHours       SeriesSelector = "hours"
)

// DefaultSeries is used when a view does not ask for specific series
var DefaultSeries = []SeriesSelector{SeriesSubmissions, SeriesVerified, SeriesHours}

// Query is a fully resolved analytics request
type Query struct {
	Scope     Scope
	Range     DateRange
	Series    []SeriesSelector
	HoursMode HoursMode
}

// DaySlot is one calendar day of aggregated submissions
type DaySlot struct {
	Date          time.Time
	Submissions   []submission.WorkSubmission
	VerifiedCount int
	PendingCount  int
	RejectedCount int
	TotalHours    float64
}

// Total returns the number of submissions in the slot
func (s DaySlot) Total() int {
	return s.VerifiedCount + s.PendingCount + s.RejectedCount
}

// Stats are the scalar KPIs of a filtered record set
type Stats struct {
	Total             int
	Verified          int
	Pending           int
	Rejected          int
	TotalHours        float64
	VerifiedHours     float64
	ApprovalRate      int // integer percent
	ActiveDays        int
	AverageDailyHours float64
}

// EntityStats is a per-staff, per-responsibility or per-group rollup
type EntityStats struct {
	ID    string
	Label string
	Stats
}

type Series struct {
	Name   string
	Values []float64
}

// ChartData is the label/series shape consumed by a chart surface
type ChartData struct {
	Labels []string
	Series []Series
}

// Report is the full output of one aggregation pass
type Report struct {
	Query            Query
	Stats            Stats
	Daily            []DaySlot
	Chart            ChartData
	ByStaff          []EntityStats
	ByResponsibility []EntityStats
	ByGroup          []EntityStats
}
