package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/observability"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	generationKey = "analytics:generation"
	cacheKeyFmt   = "analytics:v%d:%s:%x"
)

// Options tune the analytics service
type Options struct {
	CacheTTL     time.Duration
	MaxRangeDays int
	Location     *time.Location
}

type AnalyticsServiceImpl struct {
	submissionRepo submission.SubmissionRepository
	assignmentRepo assignment.AssignmentRepository
	cache          *redis.Client
	memo           *Memoizer
	opts           Options
	now            func() time.Time
}

func NewAnalyticsService(
	submissionRepo submission.SubmissionRepository,
	assignmentRepo assignment.AssignmentRepository,
	cache *redis.Client,
	opts Options,
) analytics.AnalyticsService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &AnalyticsServiceImpl{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		cache:          cache,
		memo:           NewMemoizer(),
		opts:           opts,
		now:            time.Now,
	}
}

// fetchPlan is what an actor may load: the scope the report narrows to plus
// the storage filters that bound what leaves the database
type fetchPlan struct {
	scope       analytics.Scope
	submissions submission.AnalyticsFilter
	assignments assignment.AnalyticsFilter
}

// resolveScope applies role rules to the requested scope
func resolveScope(actor user.Actor, req analytics.AnalyticsRequest) (fetchPlan, error) {
	kind := analytics.ScopeKind(req.Scope)

	switch actor.Role {
	case user.RoleStaff:
		if actor.StaffID == "" {
			return fetchPlan{}, user.ErrStaffIDRequired
		}
		if kind != "" && !(kind == analytics.ScopeStaff && req.ScopeID == actor.StaffID) {
			return fetchPlan{}, analytics.ErrScopeForbidden
		}
		return staffPlan(actor.StaffID, ""), nil

	case user.RoleManager:
		if actor.SubDepartmentID == "" {
			return fetchPlan{}, user.ErrSubDepartmentIDRequired
		}
		switch kind {
		case "", analytics.ScopeSubDepartment:
			if req.ScopeID != "" && req.ScopeID != actor.SubDepartmentID {
				return fetchPlan{}, analytics.ErrScopeForbidden
			}
			return subDepartmentPlan(actor.SubDepartmentID), nil
		case analytics.ScopeStaff:
			return staffPlan(req.ScopeID, actor.SubDepartmentID), nil
		default:
			return fetchPlan{}, analytics.ErrScopeForbidden
		}

	case user.RoleAdmin:
		switch kind {
		case "", analytics.ScopeAll:
			return fetchPlan{scope: analytics.Scope{Kind: analytics.ScopeAll}}, nil
		case analytics.ScopeSubDepartment:
			return subDepartmentPlan(req.ScopeID), nil
		case analytics.ScopeStaff:
			return staffPlan(req.ScopeID, ""), nil
		}
		return fetchPlan{}, analytics.ErrScopeForbidden
	}

	return fetchPlan{}, user.ErrInsufficientPermissions
}

func staffPlan(staffID, subDepartmentID string) fetchPlan {
	return fetchPlan{
		scope:       analytics.Scope{Kind: analytics.ScopeStaff, ID: staffID},
		submissions: submission.AnalyticsFilter{StaffID: staffID, SubDepartmentID: subDepartmentID},
		assignments: assignment.AnalyticsFilter{StaffID: staffID, SubDepartmentID: subDepartmentID},
	}
}

func subDepartmentPlan(subDepartmentID string) fetchPlan {
	return fetchPlan{
		scope:       analytics.Scope{Kind: analytics.ScopeSubDepartment, ID: subDepartmentID},
		submissions: submission.AnalyticsFilter{SubDepartmentID: subDepartmentID},
		assignments: assignment.AnalyticsFilter{SubDepartmentID: subDepartmentID},
	}
}

// cyclesIn lists the YYYY-MM cycles a range touches
func cyclesIn(r analytics.DateRange) []string {
	var cycles []string
	start := time.Date(r.From.Year(), r.From.Month(), 1, 0, 0, 0, 0, r.From.Location())
	for m := start; !m.After(r.To); m = m.AddDate(0, 1, 0) {
		cycles = append(cycles, m.Format("2006-01"))
	}
	return cycles
}

// GetAnalytics implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetAnalytics(ctx context.Context, actor user.Actor, req analytics.AnalyticsRequest) (*analytics.AnalyticsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan, err := resolveScope(actor, req)
	if err != nil {
		return nil, err
	}

	q, err := resolveQuery(req, plan.scope, s.now(), s.opts.Location, s.opts.MaxRangeDays)
	if err != nil {
		return nil, err
	}

	cacheKey, cacheable := s.cacheKey(ctx, plan, q)
	if cacheable {
		if cached, ok := s.readCache(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	// Widen the storage window by a day on each side; DayOf decides membership in the report location.
	from := q.Range.From.AddDate(0, 0, -1)
	to := q.Range.To.AddDate(0, 0, 2)
	plan.submissions.From = &from
	plan.submissions.To = &to
	plan.assignments.Cycles = cyclesIn(q.Range)

	var (
		records     []submission.WorkSubmission
		assignments []assignment.Assignment
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.submissionRepo.ListForAnalytics(gctx, plan.submissions)
		if err != nil {
			return fmt.Errorf("list submissions: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		assignments, err = s.assignmentRepo.ListForAnalytics(gctx, plan.assignments)
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A caller that went away must not see or cache a late result.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	report, memoHit := s.memo.Analyze(records, q, s.opts.Location)
	observability.AnalyticsDuration().WithLabelValues("store").Observe(time.Since(start).Seconds())
	observability.AnalyticsCache().WithLabelValues("memo", outcome(memoHit)).Inc()

	logUnknownStatuses(actor, records, assignments)

	resp := analytics.ToResponse(report, s.now())
	resp.Assignments = summarizeAssignments(assignments)

	if cacheable && ctx.Err() == nil {
		s.writeCache(ctx, cacheKey, resp)
	}

	return &resp, nil
}

// Compute implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Compute(ctx context.Context, req analytics.ComputeRequest) (*analytics.AnalyticsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scope := analytics.Scope{Kind: analytics.ScopeKind(req.Scope), ID: req.ScopeID}
	if scope.Kind == "" {
		scope.Kind = analytics.ScopeAll
	}

	q, err := resolveQuery(req.AnalyticsRequest, scope, s.now(), s.opts.Location, s.opts.MaxRangeDays)
	if err != nil {
		return nil, err
	}

	records := make([]submission.WorkSubmission, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, r.ToSubmission())
	}

	start := time.Now()
	report := Analyze(records, q, s.opts.Location)
	observability.AnalyticsDuration().WithLabelValues("client").Observe(time.Since(start).Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := analytics.ToResponse(report, s.now())
	return &resp, nil
}

// Invalidate implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Invalidate(ctx context.Context) {
	s.memo.Reset()
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("failed to bump analytics cache generation", "error", err)
	}
}

type cacheKeyParts struct {
	Kind            string
	ID              string
	StaffID         string
	SubDepartmentID string
	From            string
	To              string
	Series          []string
	HoursMode       string
}

func (s *AnalyticsServiceImpl) cacheKey(ctx context.Context, plan fetchPlan, q analytics.Query) (string, bool) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return "", false
	}

	gen, err := s.cache.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("failed to read analytics cache generation", "error", err)
		observability.AnalyticsCache().WithLabelValues("redis", "error").Inc()
		return "", false
	}

	parts := cacheKeyParts{
		Kind:            string(q.Scope.Kind),
		ID:              q.Scope.ID,
		StaffID:         plan.submissions.StaffID,
		SubDepartmentID: plan.submissions.SubDepartmentID,
		From:            dayKey(q.Range.From),
		To:              dayKey(q.Range.To),
		HoursMode:       string(q.HoursMode),
	}
	for _, sel := range q.Series {
		parts.Series = append(parts.Series, string(sel))
	}
	hash, err := hashstructure.Hash(parts, hashstructure.FormatV2, nil)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf(cacheKeyFmt, gen, q.Scope.Kind, hash), true
}

func (s *AnalyticsServiceImpl) readCache(ctx context.Context, key string) (*analytics.AnalyticsResponse, bool) {
	cached, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to read analytics cache", "key", key, "error", err)
			observability.AnalyticsCache().WithLabelValues("redis", "error").Inc()
			return nil, false
		}
		observability.AnalyticsCache().WithLabelValues("redis", "miss").Inc()
		return nil, false
	}

	var resp analytics.AnalyticsResponse
	if err := json.Unmarshal(cached, &resp); err != nil {
		slog.Warn("discarding unreadable analytics cache entry", "key", key, "error", err)
		return nil, false
	}
	resp.CacheHit = true
	observability.AnalyticsCache().WithLabelValues("redis", "hit").Inc()
	return &resp, true
}

func (s *AnalyticsServiceImpl) writeCache(ctx context.Context, key string, resp analytics.AnalyticsResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.opts.CacheTTL).Err(); err != nil {
		slog.Warn("failed to store analytics cache", "key", key, "error", err)
	}
}

func outcome(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func summarizeAssignments(items []assignment.Assignment) *analytics.AssignmentSummary {
	summary := &analytics.AssignmentSummary{}
	for _, a := range items {
		summary.Total++
		switch Classify(string(a.Status)) {
		case analytics.BucketVerified:
			summary.Verified++
		case analytics.BucketRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}
	return summary
}

// logUnknownStatuses reports raw statuses that fell into PENDING without an explicit rule
func logUnknownStatuses(actor user.Actor, records []submission.WorkSubmission, assignments []assignment.Assignment) {
	unknown := make(map[string]int)
	for _, r := range records {
		if !IsKnownStatus(string(r.Status)) {
			unknown[string(r.Status)]++
		}
	}
	for _, a := range assignments {
		if !IsKnownStatus(string(a.Status)) {
			unknown[string(a.Status)]++
		}
	}
	if len(unknown) == 0 {
		return
	}

	statuses := make([]string, 0, len(unknown))
	for status, n := range unknown {
		statuses = append(statuses, status)
		observability.AnalyticsUnknownStatus().WithLabelValues(status).Add(float64(n))
	}
	sort.Strings(statuses)
	slog.Warn("unclassified statuses counted as pending", "statuses", statuses, "user_id", actor.UserID)
}
