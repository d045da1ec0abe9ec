package analytics

import (
	"math"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
)

// HoursPredicate decides whether a record's hours count toward a slot's TotalHours
type HoursPredicate func(s submission.WorkSubmission) bool

// AllRecords counts logged hours of every record
func AllRecords(submission.WorkSubmission) bool { return true }

// VerifiedOnly counts approved hours only
func VerifiedOnly(s submission.WorkSubmission) bool {
	return Classify(string(s.Status)) == analytics.BucketVerified
}

// PredicateFor returns the hours predicate of a mode, defaulting to AllRecords
func PredicateFor(mode analytics.HoursMode) HoursPredicate {
	if mode == analytics.HoursVerified {
		return VerifiedOnly
	}
	return AllRecords
}

func roundHours(x float64) float64 {
	return math.Round(x*10) / 10
}

// Bucketize lays records out over every calendar day of dateRange, including empty days.
// Records outside the range are ignored.
func Bucketize(records []submission.WorkSubmission, dateRange analytics.DateRange, loc *time.Location, hours HoursPredicate) []analytics.DaySlot {
	window := normalizeRange(dateRange)
	if window.To.Before(window.From) {
		return []analytics.DaySlot{}
	}
	if hours == nil {
		hours = AllRecords
	}

	byDay := make(map[string][]submission.WorkSubmission, len(records))
	for _, r := range records {
		key := dayKey(DayOf(r, loc))
		byDay[key] = append(byDay[key], r)
	}

	slots := make([]analytics.DaySlot, 0, window.Days())
	for day := window.From; !day.After(window.To); day = day.AddDate(0, 0, 1) {
		slot := analytics.DaySlot{
			Date:        day,
			Submissions: make([]submission.WorkSubmission, 0, len(byDay[dayKey(day)])),
		}
		var sum float64
		for _, r := range byDay[dayKey(day)] {
			slot.Submissions = append(slot.Submissions, r)
			switch Classify(string(r.Status)) {
			case analytics.BucketVerified:
				slot.VerifiedCount++
			case analytics.BucketRejected:
				slot.RejectedCount++
			default:
				slot.PendingCount++
			}
			if hours(r) {
				sum += r.Hours()
			}
		}
		slot.TotalHours = roundHours(sum)
		slots = append(slots, slot)
	}
	return slots
}
