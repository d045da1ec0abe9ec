package analytics

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
)

const dayKeyLayout = "2006-01-02"

// civilDay returns the calendar date of t as UTC midnight. Days are keyed and
// walked in UTC because local midnight does not exist in zones whose DST
// change happens at 00:00.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayOf resolves the calendar day a submission belongs to.
// WorkDate is a calendar date and keeps its own Y/M/D; SubmittedAt is read in loc.
func DayOf(s submission.WorkSubmission, loc *time.Location) time.Time {
	if s.WorkDate != nil && !s.WorkDate.IsZero() {
		return civilDay(*s.WorkDate)
	}
	return truncateDay(s.SubmittedAt, loc)
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return civilDay(t.In(loc))
}

// normalizeRange reduces both ends of r to their calendar dates
func normalizeRange(r analytics.DateRange) analytics.DateRange {
	return analytics.DateRange{From: civilDay(r.From), To: civilDay(r.To)}
}

func dayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

func matchesScope(s submission.WorkSubmission, scope analytics.Scope) bool {
	id := strings.TrimSpace(scope.ID)
	switch scope.Kind {
	case analytics.ScopeStaff:
		return strings.TrimSpace(s.StaffID) == id
	case analytics.ScopeSubDepartment:
		return strings.TrimSpace(s.SubDepartmentID) == id
	default:
		return true
	}
}

// Filter returns the records that fall inside scope and dateRange.
// A nil dateRange keeps every record in scope. The input slice is not modified.
func Filter(records []submission.WorkSubmission, scope analytics.Scope, dateRange *analytics.DateRange, loc *time.Location) []submission.WorkSubmission {
	var window analytics.DateRange
	if dateRange != nil {
		window = normalizeRange(*dateRange)
	}

	filtered := make([]submission.WorkSubmission, 0, len(records))
	for _, r := range records {
		if !matchesScope(r, scope) {
			continue
		}
		if dateRange != nil {
			day := DayOf(r, loc)
			if day.Before(window.From) || day.After(window.To) {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}
