package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
)

// approvalRate is the integer percentage of verified over all submissions
func approvalRate(verified, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(verified) / float64(total)))
}

// Summarize reduces records to KPI counters. Slots feed the day-based figures
// (ActiveDays, AverageDailyHours) and may be nil.
func Summarize(records []submission.WorkSubmission, slots []analytics.DaySlot) analytics.Stats {
	var stats analytics.Stats
	var totalHours, verifiedHours float64

	for _, r := range records {
		stats.Total++
		totalHours += r.Hours()
		switch Classify(string(r.Status)) {
		case analytics.BucketVerified:
			stats.Verified++
			verifiedHours += r.Hours()
		case analytics.BucketRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
	}

	stats.TotalHours = roundHours(totalHours)
	stats.VerifiedHours = roundHours(verifiedHours)
	stats.ApprovalRate = approvalRate(stats.Verified, stats.Total)

	if len(slots) > 0 {
		var slotHours float64
		for _, slot := range slots {
			if slot.Total() > 0 {
				stats.ActiveDays++
			}
			slotHours += slot.TotalHours
		}
		stats.AverageDailyHours = roundHours(slotHours / float64(len(slots)))
	}

	return stats
}

type entityKey func(s submission.WorkSubmission) (id, label string)

func rollup(records []submission.WorkSubmission, key entityKey) []analytics.EntityStats {
	var order []string
	groups := make(map[string][]submission.WorkSubmission)
	labels := make(map[string]string)

	for _, r := range records {
		id, label := key(r)
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], r)
		if labels[id] == "" {
			labels[id] = label
		}
	}

	result := make([]analytics.EntityStats, 0, len(order))
	for _, id := range order {
		result = append(result, analytics.EntityStats{
			ID:    id,
			Label: labels[id],
			Stats: Summarize(groups[id], nil),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result
}

// RollupByStaff builds a per-staff leaderboard sorted by total submissions
func RollupByStaff(records []submission.WorkSubmission) []analytics.EntityStats {
	return rollup(records, func(s submission.WorkSubmission) (string, string) {
		return s.StaffID, s.StaffName
	})
}

// RollupByResponsibility builds a per-responsibility leaderboard sorted by total submissions
func RollupByResponsibility(records []submission.WorkSubmission) []analytics.EntityStats {
	return rollup(records, func(s submission.WorkSubmission) (string, string) {
		return s.ResponsibilityID, s.ResponsibilityTitle
	})
}

// RollupByGroup builds a per-responsibility-group leaderboard sorted by total submissions
func RollupByGroup(records []submission.WorkSubmission) []analytics.EntityStats {
	return rollup(records, func(s submission.WorkSubmission) (string, string) {
		return s.GroupID, s.GroupName
	})
}
