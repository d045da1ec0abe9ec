package analytics

import "errors"

var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrRangeTooLarge    = errors.New("date range exceeds the allowed number of days")
	ErrUnknownSeries    = errors.New("unknown chart series")
	ErrUnknownPreset    = errors.New("unknown date range preset")
	ErrScopeForbidden   = errors.New("analytics scope not allowed for this user")
)
