package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func serveAs(actor *user.Actor, mw func(http.Handler) http.Handler) int {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if actor != nil {
		req = req.WithContext(WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	mw(ok).ServeHTTP(rec, req)
	return rec.Code
}

func TestRoleGuards(t *testing.T) {
	staff := &user.Actor{UserID: "u1", StaffID: "s1", Role: user.RoleStaff}
	manager := &user.Actor{UserID: "u2", SubDepartmentID: "d1", Role: user.RoleManager}
	admin := &user.Actor{UserID: "u3", Role: user.RoleAdmin}

	tests := []struct {
		name  string
		mw    func(http.Handler) http.Handler
		actor *user.Actor
		want  int
	}{
		{"staff route as staff", RequireStaff, staff, http.StatusNoContent},
		{"staff route as manager", RequireStaff, manager, http.StatusForbidden},
		{"manager route as manager", RequireManager, manager, http.StatusNoContent},
		{"manager route as admin", RequireManager, admin, http.StatusNoContent},
		{"manager route as staff", RequireManager, staff, http.StatusForbidden},
		{"admin route as manager", RequireAdmin, manager, http.StatusForbidden},
		{"admin route as admin", RequireAdmin, admin, http.StatusNoContent},
		{"no actor", RequireStaff, nil, http.StatusForbidden},
		{"verify permission as manager", RequirePermission(user.PermissionSubmissionVerify), manager, http.StatusNoContent},
		{"verify permission as staff", RequirePermission(user.PermissionSubmissionVerify), staff, http.StatusForbidden},
		{"permission without actor", RequirePermission(user.PermissionParticipantManage), nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveAs(tt.actor, tt.mw))
		})
	}
}
