package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxComputeBody bounds the record list accepted by Compute
const maxComputeBody = 8 << 20

type AnalyticsHandler interface {
	// GetMine handles GET /analytics/me
	GetMine(w http.ResponseWriter, r *http.Request)
	// Get handles GET /analytics
	Get(w http.ResponseWriter, r *http.Request)
	// GetStaff handles GET /analytics/staff/{staffID}
	GetStaff(w http.ResponseWriter, r *http.Request)
	// Compute handles POST /analytics/compute
	Compute(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

func analyticsRequestFromQuery(r *http.Request) analytics.AnalyticsRequest {
	q := r.URL.Query()
	return analytics.AnalyticsRequest{
		Scope:   q.Get("scope"),
		ScopeID: q.Get("scope_id"),
		From:    q.Get("from"),
		To:      q.Get("to"),
		Cycle:   q.Get("cycle"),
		Preset:  q.Get("preset"),
		Series:  q.Get("series"),
		Hours:   q.Get("hours"),
	}
}

func (h *analyticsHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	req := analyticsRequestFromQuery(r)
	req.Scope, req.ScopeID = "", ""

	h.respond(w, r, func() (*analytics.AnalyticsResponse, error) {
		return h.analyticsService.GetAnalytics(r.Context(), actor, req)
	})
}

func (h *analyticsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	req := analyticsRequestFromQuery(r)

	h.respond(w, r, func() (*analytics.AnalyticsResponse, error) {
		return h.analyticsService.GetAnalytics(r.Context(), actor, req)
	})
}

func (h *analyticsHandlerImpl) GetStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	req := analyticsRequestFromQuery(r)
	req.Scope = string(analytics.ScopeStaff)
	req.ScopeID = chi.URLParam(r, "staffID")

	h.respond(w, r, func() (*analytics.AnalyticsResponse, error) {
		return h.analyticsService.GetAnalytics(r.Context(), actor, req)
	})
}

func (h *analyticsHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	var req analytics.ComputeRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxComputeBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(w, "Request body is too large")
			return
		}
		slog.Error("Compute decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	h.respond(w, r, func() (*analytics.AnalyticsResponse, error) {
		return h.analyticsService.Compute(r.Context(), req)
	})
}

func (h *analyticsHandlerImpl) respond(w http.ResponseWriter, r *http.Request, fn func() (*analytics.AnalyticsResponse, error)) {
	result, err := fn()
	if err != nil {
		// the client went away; nothing useful to write
		if r.Context().Err() != nil {
			return
		}
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
