package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
)

// queryPtr returns a pointer to the query value, or nil when it is absent
func queryPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryInt returns a positive integer query value or the fallback
func queryInt(r *http.Request, key string, fallback int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// requireActor writes 401 and returns false when no actor is present
func requireActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return user.Actor{}, false
	}
	return actor, true
}
