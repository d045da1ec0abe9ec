package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []submission.WorkSubmission
	calls       int
	lastFilter  submission.AnalyticsFilter
	err         error
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, s submission.WorkSubmission) (submission.WorkSubmission, error) {
	return s, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (submission.WorkSubmission, error) {
	return submission.WorkSubmission{}, submission.ErrSubmissionNotFound
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter submission.SubmissionFilter) ([]submission.WorkSubmission, int64, error) {
	return nil, 0, nil
}

func (f *fakeSubmissionRepo) ListForAnalytics(ctx context.Context, filter submission.AnalyticsFilter) ([]submission.WorkSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	result := make([]submission.WorkSubmission, 0)
	for _, s := range f.submissions {
		if filter.StaffID != "" && s.StaffID != filter.StaffID {
			continue
		}
		if filter.SubDepartmentID != "" && s.SubDepartmentID != filter.SubDepartmentID {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeSubmissionRepo) UpdateVerification(ctx context.Context, id string, status submission.Status, managerComment *string, verifiedBy string) error {
	return nil
}

type fakeAssignmentRepo struct {
	assignments []assignment.Assignment
	lastFilter  assignment.AnalyticsFilter
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (assignment.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) ListForAnalytics(ctx context.Context, filter assignment.AnalyticsFilter) ([]assignment.Assignment, error) {
	f.lastFilter = filter
	result := make([]assignment.Assignment, 0)
	for _, a := range f.assignments {
		if filter.StaffID != "" && a.StaffID != filter.StaffID {
			continue
		}
		if filter.SubDepartmentID != "" && a.SubDepartmentID != filter.SubDepartmentID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAssignmentRepo) UpdateStatus(ctx context.Context, id string, status assignment.Status) error {
	return nil
}

var (
	staffActor   = user.Actor{UserID: "u-1", StaffID: "s-1", SubDepartmentID: "sd-1", Role: user.RoleStaff}
	managerActor = user.Actor{UserID: "u-2", StaffID: "s-9", SubDepartmentID: "sd-1", Role: user.RoleManager}
	adminActor   = user.Actor{UserID: "u-3", Role: user.RoleAdmin}
)

func seededRepos() (*fakeSubmissionRepo, *fakeAssignmentRepo) {
	submissions := &fakeSubmissionRepo{
		submissions: []submission.WorkSubmission{
			{ID: "w-1", StaffID: "s-1", SubDepartmentID: "sd-1", Status: submission.StatusVerified, HoursWorked: hoursPtr(2), WorkDate: datePtr(day(2026, 1, 5))},
			{ID: "w-2", StaffID: "s-1", SubDepartmentID: "sd-1", Status: submission.StatusRejected, WorkDate: datePtr(day(2026, 1, 5))},
			{ID: "w-3", StaffID: "s-2", SubDepartmentID: "sd-1", Status: submission.StatusSubmitted, HoursWorked: hoursPtr(3), WorkDate: datePtr(day(2026, 1, 6))},
			{ID: "w-4", StaffID: "s-3", SubDepartmentID: "sd-2", Status: "ARCHIVED", HoursWorked: hoursPtr(4), WorkDate: datePtr(day(2026, 1, 6))},
		},
	}
	assignments := &fakeAssignmentRepo{
		assignments: []assignment.Assignment{
			{ID: "a-1", StaffID: "s-1", SubDepartmentID: "sd-1", Cycle: "2026-01", Status: assignment.StatusVerified},
			{ID: "a-2", StaffID: "s-2", SubDepartmentID: "sd-1", Cycle: "2026-01", Status: assignment.StatusInProgress},
			{ID: "a-3", StaffID: "s-3", SubDepartmentID: "sd-2", Cycle: "2026-01", Status: assignment.StatusRejected},
		},
	}
	return submissions, assignments
}

func newTestService(t *testing.T, client *redis.Client) (*AnalyticsServiceImpl, *fakeSubmissionRepo, *fakeAssignmentRepo) {
	t.Helper()
	submissions, assignments := seededRepos()
	svc := NewAnalyticsService(submissions, assignments, client, Options{
		CacheTTL:     time.Minute,
		MaxRangeDays: 366,
		Location:     time.UTC,
	}).(*AnalyticsServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC) }
	return svc, submissions, assignments
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

var januaryWeek = analytics.AnalyticsRequest{From: "2026-01-05", To: "2026-01-07"}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name      string
		actor     user.Actor
		req       analytics.AnalyticsRequest
		wantScope analytics.Scope
		wantSub   string
		wantErr   error
	}{
		{name: "staff pinned to self", actor: staffActor, wantScope: analytics.Scope{Kind: analytics.ScopeStaff, ID: "s-1"}},
		{name: "staff explicit self", actor: staffActor, req: analytics.AnalyticsRequest{Scope: "staff", ScopeID: "s-1"}, wantScope: analytics.Scope{Kind: analytics.ScopeStaff, ID: "s-1"}},
		{name: "staff asking for someone else", actor: staffActor, req: analytics.AnalyticsRequest{Scope: "staff", ScopeID: "s-2"}, wantErr: analytics.ErrScopeForbidden},
		{name: "staff asking for all", actor: staffActor, req: analytics.AnalyticsRequest{Scope: "all"}, wantErr: analytics.ErrScopeForbidden},
		{name: "staff without staff id", actor: user.Actor{Role: user.RoleStaff}, wantErr: user.ErrStaffIDRequired},
		{name: "manager defaults to own sub-department", actor: managerActor, wantScope: analytics.Scope{Kind: analytics.ScopeSubDepartment, ID: "sd-1"}, wantSub: "sd-1"},
		{name: "manager other sub-department", actor: managerActor, req: analytics.AnalyticsRequest{Scope: "sub_department", ScopeID: "sd-2"}, wantErr: analytics.ErrScopeForbidden},
		{name: "manager staff detail stays in sub-department", actor: managerActor, req: analytics.AnalyticsRequest{Scope: "staff", ScopeID: "s-3"}, wantScope: analytics.Scope{Kind: analytics.ScopeStaff, ID: "s-3"}, wantSub: "sd-1"},
		{name: "manager asking for all", actor: managerActor, req: analytics.AnalyticsRequest{Scope: "all"}, wantErr: analytics.ErrScopeForbidden},
		{name: "manager without sub-department", actor: user.Actor{Role: user.RoleManager}, wantErr: user.ErrSubDepartmentIDRequired},
		{name: "admin defaults to all", actor: adminActor, wantScope: analytics.Scope{Kind: analytics.ScopeAll}},
		{name: "admin any sub-department", actor: adminActor, req: analytics.AnalyticsRequest{Scope: "sub_department", ScopeID: "sd-2"}, wantScope: analytics.Scope{Kind: analytics.ScopeSubDepartment, ID: "sd-2"}, wantSub: "sd-2"},
		{name: "unknown role", actor: user.Actor{Role: "guest"}, wantErr: user.ErrInsufficientPermissions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := resolveScope(tt.actor, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScope, plan.scope)
			assert.Equal(t, tt.wantSub, plan.submissions.SubDepartmentID)
		})
	}
}

func TestGetAnalytics_StaffSeesOnlyOwnRecords(t *testing.T) {
	svc, submissions, _ := newTestService(t, nil)

	resp, err := svc.GetAnalytics(context.Background(), staffActor, januaryWeek)
	require.NoError(t, err)

	assert.Equal(t, "s-1", submissions.lastFilter.StaffID)
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Verified)
	assert.Equal(t, 1, resp.Stats.Rejected)
	assert.Equal(t, 50, resp.Stats.ApprovalRate)
	assert.Len(t, resp.Daily, 3)
	assert.Equal(t, []string{"w-1", "w-2"}, resp.Daily[0].SubmissionIDs)
	assert.Equal(t, "staff", resp.Scope.Kind)
	require.NotNil(t, resp.Assignments)
	assert.Equal(t, 1, resp.Assignments.Total)
	assert.False(t, resp.CacheHit)
}

func TestGetAnalytics_ManagerStaffDetailCannotLeaveSubDepartment(t *testing.T) {
	svc, submissions, assignments := newTestService(t, nil)

	// s-3 belongs to sd-2: the answer is an empty report, not an error
	resp, err := svc.GetAnalytics(context.Background(), managerActor, analytics.AnalyticsRequest{
		Scope: "staff", ScopeID: "s-3", From: januaryWeek.From, To: januaryWeek.To,
	})
	require.NoError(t, err)
	assert.Equal(t, analytics.ScopeResponse{Kind: "staff", ID: "s-3"}, resp.Scope)
	assert.Equal(t, 0, resp.Stats.Total)
	assert.Empty(t, resp.ByStaff)
	assert.Equal(t, 0, resp.Assignments.Total)
	assert.Equal(t, "sd-1", submissions.lastFilter.SubDepartmentID)
	assert.Equal(t, "sd-1", assignments.lastFilter.SubDepartmentID)
}

func TestGetAnalytics_AdminAll(t *testing.T) {
	svc, _, assignments := newTestService(t, nil)

	resp, err := svc.GetAnalytics(context.Background(), adminActor, analytics.AnalyticsRequest{
		From: januaryWeek.From, To: januaryWeek.To, Hours: "verified", Series: "submissions,hours",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Stats.Total)
	assert.Equal(t, "verified", resp.HoursMode)
	require.Len(t, resp.Chart.Series, 2)
	assert.Equal(t, []float64{2, 0, 0}, resp.Chart.Series[1].Values)
	assert.Equal(t, []string{"2026-01"}, assignments.lastFilter.Cycles)
	assert.Equal(t, 3, resp.Assignments.Total)
	assert.Equal(t, 1, resp.Assignments.Pending)
	require.NotEmpty(t, resp.ByStaff)
	assert.Equal(t, "s-1", resp.ByStaff[0].ID)
}

func TestGetAnalytics_ValidationAndRangeErrors(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.GetAnalytics(context.Background(), adminActor, analytics.AnalyticsRequest{Series: "colors"})
	require.Error(t, err)

	_, err = svc.GetAnalytics(context.Background(), adminActor, analytics.AnalyticsRequest{From: "2026-02-01", To: "2026-01-01"})
	assert.ErrorIs(t, err, analytics.ErrInvalidDateRange)

	_, err = svc.GetAnalytics(context.Background(), adminActor, analytics.AnalyticsRequest{From: "2020-01-01", To: "2026-01-01"})
	assert.ErrorIs(t, err, analytics.ErrRangeTooLarge)
}

func TestGetAnalytics_RepositoryError(t *testing.T) {
	svc, submissions, _ := newTestService(t, nil)
	submissions.err = errors.New("connection reset")

	_, err := svc.GetAnalytics(context.Background(), adminActor, januaryWeek)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list submissions")
}

func TestGetAnalytics_CachingAndInvalidation(t *testing.T) {
	client := newTestRedis(t)
	svc, submissions, _ := newTestService(t, client)
	ctx := context.Background()

	first, err := svc.GetAnalytics(ctx, adminActor, januaryWeek)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, submissions.calls)

	cached, err := svc.GetAnalytics(ctx, adminActor, januaryWeek)
	require.NoError(t, err)
	assert.True(t, cached.CacheHit)
	assert.Equal(t, first.Stats, cached.Stats)
	assert.Equal(t, 1, submissions.calls)

	// a staff member must never be served the admin's cached view
	own, err := svc.GetAnalytics(ctx, staffActor, januaryWeek)
	require.NoError(t, err)
	assert.False(t, own.CacheHit)
	assert.Equal(t, 2, own.Stats.Total)

	submissions.submissions[2].Status = submission.StatusVerified
	svc.Invalidate(ctx)

	fresh, err := svc.GetAnalytics(ctx, adminActor, januaryWeek)
	require.NoError(t, err)
	assert.False(t, fresh.CacheHit)
	assert.Equal(t, 2, fresh.Stats.Verified)
}

func TestGetAnalytics_CancelledRequestIsDiscarded(t *testing.T) {
	client := newTestRedis(t)
	svc, _, _ := newTestService(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetAnalytics(ctx, adminActor, januaryWeek)
	assert.ErrorIs(t, err, context.Canceled)

	keys, err := client.Keys(context.Background(), "analytics:v*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCompute(t *testing.T) {
	svc, submissions, _ := newTestService(t, nil)

	req := analytics.ComputeRequest{
		AnalyticsRequest: analytics.AnalyticsRequest{Scope: "staff", ScopeID: "1", From: "2026-01-05", To: "2026-01-07"},
		Records: []analytics.RecordInput{
			{ID: "1", StaffID: "1", Status: "VERIFIED", HoursWorked: hoursPtr(2), WorkDate: "2026-01-05"},
			{ID: "2", StaffID: "1", Status: "rejected", WorkDate: "2026-01-05"},
			{ID: "3", StaffID: "2", Status: "SUBMITTED", HoursWorked: hoursPtr(3), WorkDate: "2026-01-06"},
			{ID: "4", StaffID: "1", SubmittedAt: "2026-01-07T08:00:00Z"},
		},
	}

	resp, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, submissions.calls)
	assert.Equal(t, 3, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Verified)
	assert.Equal(t, 1, resp.Stats.Rejected)
	assert.Equal(t, 1, resp.Stats.Pending)
	assert.Equal(t, 33, resp.Stats.ApprovalRate)
	assert.Equal(t, []string{"Jan 5", "Jan 6", "Jan 7"}, resp.Chart.Labels)
	assert.Nil(t, resp.Assignments)
}
