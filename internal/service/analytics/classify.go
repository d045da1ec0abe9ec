package analytics

import (
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
)

// Classify maps a raw submission or assignment status to its canonical bucket.
// Every status the system writes is listed explicitly; anything else lands in PENDING
// and is reported as unknown by IsKnownStatus.
func Classify(status string) analytics.Bucket {
	switch status {
	case string(submission.StatusVerified):
		return analytics.BucketVerified
	case string(submission.StatusRejected):
		return analytics.BucketRejected
	case string(submission.StatusPending),
		string(submission.StatusSubmitted),
		string(assignment.StatusInProgress),
		"":
		return analytics.BucketPending
	default:
		return analytics.BucketPending
	}
}

// IsKnownStatus reports whether Classify has an explicit rule for status
func IsKnownStatus(status string) bool {
	switch status {
	case string(submission.StatusVerified),
		string(submission.StatusRejected),
		string(submission.StatusPending),
		string(submission.StatusSubmitted),
		string(assignment.StatusInProgress),
		"":
		return true
	}
	return false
}
