package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/responsibility"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalytics struct {
	lastActor user.Actor
	lastReq   analytics.AnalyticsRequest
	computed  int
	err       error
}

func (s *stubAnalytics) GetAnalytics(ctx context.Context, actor user.Actor, req analytics.AnalyticsRequest) (*analytics.AnalyticsResponse, error) {
	s.lastActor, s.lastReq = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return &analytics.AnalyticsResponse{Scope: analytics.ScopeResponse{Kind: req.Scope, ID: req.ScopeID}}, nil
}

func (s *stubAnalytics) Compute(ctx context.Context, req analytics.ComputeRequest) (*analytics.AnalyticsResponse, error) {
	s.computed = len(req.Records)
	return &analytics.AnalyticsResponse{}, s.err
}

func (s *stubAnalytics) Invalidate(ctx context.Context) {}

type stubSubmissions struct {
	lastReq   submission.CreateSubmissionRequest
	lastProof []byte
	verifyErr error
}

func (s *stubSubmissions) Create(ctx context.Context, actor user.Actor, req submission.CreateSubmissionRequest, proof *submission.ProofFile) (submission.SubmissionResponse, error) {
	s.lastReq = req
	if proof != nil {
		s.lastProof, _ = io.ReadAll(proof.Content)
	}
	return submission.SubmissionResponse{ID: "ws-1", AssignmentID: req.AssignmentID, StaffID: actor.StaffID}, nil
}

func (s *stubSubmissions) List(ctx context.Context, actor user.Actor, filter submission.SubmissionFilter) (submission.ListSubmissionResponse, error) {
	return submission.ListSubmissionResponse{Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubSubmissions) Get(ctx context.Context, actor user.Actor, id string) (submission.SubmissionResponse, error) {
	if id == "missing" {
		return submission.SubmissionResponse{}, submission.ErrSubmissionNotFound
	}
	return submission.SubmissionResponse{ID: id}, nil
}

func (s *stubSubmissions) Verify(ctx context.Context, actor user.Actor, id string, req submission.VerifySubmissionRequest) (submission.SubmissionResponse, error) {
	if s.verifyErr != nil {
		return submission.SubmissionResponse{}, s.verifyErr
	}
	return submission.SubmissionResponse{ID: id, Status: "VERIFIED"}, nil
}

type stubResponsibilities struct{}

func (stubResponsibilities) List(ctx context.Context, actor user.Actor, filter responsibility.ResponsibilityFilter) ([]responsibility.ResponsibilityResponse, error) {
	return []responsibility.ResponsibilityResponse{}, nil
}

type stubParticipants struct {
	confirmErr error
}

func (s *stubParticipants) List(ctx context.Context, filter participant.ParticipantFilter) (*participant.ListParticipantResponse, error) {
	return &participant.ListParticipantResponse{}, nil
}

func (s *stubParticipants) Get(ctx context.Context, id string) (*participant.ParticipantResponse, error) {
	return &participant.ParticipantResponse{ID: id}, nil
}

func (s *stubParticipants) StageEdit(ctx context.Context, id string, req participant.UpdateParticipantRequest) (*participant.PendingEdit, error) {
	return &participant.PendingEdit{Token: "tok-1", ParticipantID: id}, nil
}

func (s *stubParticipants) ConfirmEdit(ctx context.Context, token string, req participant.ConfirmEditRequest) (*participant.ParticipantResponse, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return &participant.ParticipantResponse{ID: "p-1"}, nil
}

type testServer struct {
	router       *chi.Mux
	jwt          jwt.Service
	analytics    *stubAnalytics
	submissions  *stubSubmissions
	participants *stubParticipants
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		jwt:          jwt.NewJWTService("router-test-secret", "1h"),
		analytics:    &stubAnalytics{},
		submissions:  &stubSubmissions{},
		participants: &stubParticipants{},
	}
	ts.router = NewRouter(
		RouterOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		ts.jwt,
		NewAnalyticsHandler(ts.analytics),
		NewSubmissionHandler(ts.submissions),
		NewResponsibilityHandler(stubResponsibilities{}),
		NewParticipantHandler(ts.participants),
	)
	return ts
}

var (
	staffActor   = user.Actor{UserID: "u-staff", StaffID: "st-1", SubDepartmentID: "sd-1", Role: user.RoleStaff}
	managerActor = user.Actor{UserID: "u-mgr", StaffID: "st-m", SubDepartmentID: "sd-1", Role: user.RoleManager}
	adminActor   = user.Actor{UserID: "u-admin", Role: user.RoleAdmin}
)

func (ts *testServer) do(t *testing.T, actor *user.Actor, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if actor != nil {
		token, _, err := ts.jwt.GenerateAccessToken(*actor)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestRouter_Authentication(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, nil, http.MethodGet, "/api/v1/analytics/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Heartbeat(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, nil, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AnalyticsRoles(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, &staffActor, http.MethodGet, "/api/v1/analytics/me?preset=7d&scope=all", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, staffActor, ts.analytics.lastActor)
	assert.Equal(t, "7d", ts.analytics.lastReq.Preset)
	assert.Empty(t, ts.analytics.lastReq.Scope, "/me ignores a requested scope")

	rec = ts.do(t, &staffActor, http.MethodGet, "/api/v1/analytics", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, &managerActor, http.MethodGet, "/api/v1/analytics/me", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, &managerActor, http.MethodGet, "/api/v1/analytics/staff/st-9?hours=verified", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff", ts.analytics.lastReq.Scope)
	assert.Equal(t, "st-9", ts.analytics.lastReq.ScopeID)
	assert.Equal(t, "verified", ts.analytics.lastReq.Hours)

	rec = ts.do(t, &adminActor, http.MethodGet, "/api/v1/analytics?scope=sub_department&scope_id=sd-2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub_department", ts.analytics.lastReq.Scope)
}

func TestRouter_AnalyticsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"scope forbidden", analytics.ErrScopeForbidden, http.StatusForbidden},
		{"range too large", analytics.ErrRangeTooLarge, http.StatusBadRequest},
		{"validation", func() error {
			var errs validator.ValidationErrors
			errs.Add("from", "from must be in YYYY-MM-DD format")
			return errs.Err()
		}(), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.analytics.err = tt.err
			rec := ts.do(t, &adminActor, http.MethodGet, "/api/v1/analytics", nil, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_AnalyticsCompute(t *testing.T) {
	ts := newTestServer(t)

	body := `{"preset":"7d","records":[{"id":1,"staff_id":"st-1","status":"verified"},{"id":"b","staff_id":2}]}`
	rec := ts.do(t, &staffActor, http.MethodPost, "/api/v1/analytics/compute", bytes.NewBufferString(body), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, ts.analytics.computed)

	rec = ts.do(t, &staffActor, http.MethodPost, "/api/v1/analytics/compute", bytes.NewBufferString("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	huge := `{"records":[` + strings.Repeat(`{"id":"x","staff_id":"st-1"},`, maxComputeBody/20) + `{"id":"y"}]}`
	rec = ts.do(t, &staffActor, http.MethodPost, "/api/v1/analytics/compute", strings.NewReader(huge), "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRouter_CreateSubmission(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, &staffActor, http.MethodPost, "/api/v1/submissions",
		jsonBody(t, map[string]interface{}{"assignment_id": "as-1", "hours_worked": 2.5}), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "as-1", ts.submissions.lastReq.AssignmentID)

	rec = ts.do(t, &managerActor, http.MethodPost, "/api/v1/submissions",
		jsonBody(t, map[string]interface{}{"assignment_id": "as-1"}), "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CreateSubmissionMultipart(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("data", `{"assignment_id":"as-2","work_date":"2026-01-10"}`))
	part, err := mw.CreateFormFile("proof", "evidence.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := ts.do(t, &staffActor, http.MethodPost, "/api/v1/submissions", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "as-2", ts.submissions.lastReq.AssignmentID)
	assert.Equal(t, []byte("%PDF-1.4"), ts.submissions.lastProof)

	var missingData bytes.Buffer
	mw = multipart.NewWriter(&missingData)
	require.NoError(t, mw.Close())
	rec = ts.do(t, &staffActor, http.MethodPost, "/api/v1/submissions", &missingData, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SubmissionReadAndVerify(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, &staffActor, http.MethodGet, "/api/v1/submissions?page=2&limit=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Success bool                              `json:"success"`
		Data    submission.ListSubmissionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 2, envelope.Data.Page)
	assert.Equal(t, 5, envelope.Data.Limit)

	rec = ts.do(t, &staffActor, http.MethodGet, "/api/v1/submissions/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	approve := map[string]interface{}{"approved": true}
	rec = ts.do(t, &staffActor, http.MethodPost, "/api/v1/submissions/ws-1/verify", jsonBody(t, approve), "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, &managerActor, http.MethodPost, "/api/v1/submissions/ws-1/verify", jsonBody(t, approve), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.submissions.verifyErr = submission.ErrSubmissionAlreadyVerified
	rec = ts.do(t, &managerActor, http.MethodPost, "/api/v1/submissions/ws-1/verify", jsonBody(t, approve), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_Responsibilities(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, &staffActor, http.MethodGet, "/api/v1/responsibilities?cycle=2026-01", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Participants(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, &managerActor, http.MethodGet, "/api/v1/participants", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, &adminActor, http.MethodGet, "/api/v1/participants/p-1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, &adminActor, http.MethodPost, "/api/v1/participants/p-1/edits",
		jsonBody(t, map[string]interface{}{"hostel": "North"}), "application/json")
	assert.Equal(t, http.StatusCreated, rec.Code)

	confirm := map[string]interface{}{"site": "Jakarta"}
	rec = ts.do(t, &adminActor, http.MethodPost, "/api/v1/participants/edits/tok-1/confirm", jsonBody(t, confirm), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.participants.confirmErr = participant.ErrSiteMismatch
	rec = ts.do(t, &adminActor, http.MethodPost, "/api/v1/participants/edits/tok-1/confirm", jsonBody(t, confirm), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)

	ts.participants.confirmErr = participant.ErrPendingEditNotFound
	rec = ts.do(t, &adminActor, http.MethodPost, "/api/v1/participants/edits/tok-1/confirm", jsonBody(t, confirm), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, &staffActor, http.MethodGet, "/api/v1/responsibilities", nil, "")

	rec := ts.do(t, nil, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workboard_http_requests_total")
}
