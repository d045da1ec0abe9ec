package analytics

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
)

// ResolveRange turns request parameters into a concrete range.
// Explicit from/to wins over cycle, cycle wins over preset; the default is the last 30 days.
func ResolveRange(req analytics.AnalyticsRequest, now time.Time, loc *time.Location, maxDays int) (analytics.DateRange, error) {
	// today is the calendar date in loc; the range itself holds UTC-midnight dates
	today := truncateDay(now, loc)

	var r analytics.DateRange
	switch {
	case req.From != "" && req.To != "":
		from, err := time.Parse(dayKeyLayout, req.From)
		if err != nil {
			return r, fmt.Errorf("%w: from: %v", analytics.ErrInvalidDateRange, err)
		}
		to, err := time.Parse(dayKeyLayout, req.To)
		if err != nil {
			return r, fmt.Errorf("%w: to: %v", analytics.ErrInvalidDateRange, err)
		}
		r = analytics.DateRange{From: from, To: to}

	case req.Cycle != "":
		start, err := time.Parse("2006-01", req.Cycle)
		if err != nil {
			return r, fmt.Errorf("%w: cycle: %v", analytics.ErrInvalidDateRange, err)
		}
		r = analytics.DateRange{From: start, To: start.AddDate(0, 1, -1)}

	default:
		preset := analytics.Preset(req.Preset)
		if preset == "" {
			preset = analytics.PresetLast30Days
		}
		switch preset {
		case analytics.PresetLast7Days:
			r = analytics.DateRange{From: today.AddDate(0, 0, -6), To: today}
		case analytics.PresetLast30Days:
			r = analytics.DateRange{From: today.AddDate(0, 0, -29), To: today}
		case analytics.PresetThisMonth:
			r = analytics.DateRange{From: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), To: today}
		default:
			return r, fmt.Errorf("%w: %q", analytics.ErrUnknownPreset, req.Preset)
		}
	}

	if r.To.Before(r.From) {
		return r, fmt.Errorf("%w: from must not be after to", analytics.ErrInvalidDateRange)
	}
	if maxDays > 0 && r.Days() > maxDays {
		return r, fmt.Errorf("%w: %d days requested, at most %d allowed", analytics.ErrRangeTooLarge, r.Days(), maxDays)
	}
	return r, nil
}

// resolveQuery builds the query for scope from an already validated request
func resolveQuery(req analytics.AnalyticsRequest, scope analytics.Scope, now time.Time, loc *time.Location, maxDays int) (analytics.Query, error) {
	r, err := ResolveRange(req, now, loc, maxDays)
	if err != nil {
		return analytics.Query{}, err
	}
	selectors, err := analytics.ParseSelectors(req.Series)
	if err != nil {
		return analytics.Query{}, err
	}
	mode := analytics.HoursMode(req.Hours)
	if mode == "" {
		mode = analytics.HoursAll
	}
	return analytics.Query{
		Scope:     scope,
		Range:     r,
		Series:    selectors,
		HoursMode: mode,
	}, nil
}
