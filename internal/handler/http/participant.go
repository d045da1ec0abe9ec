package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ParticipantHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	// StageEdit handles POST /participants/{id}/edits
	StageEdit(w http.ResponseWriter, r *http.Request)
	// ConfirmEdit handles POST /participants/edits/{token}/confirm
	ConfirmEdit(w http.ResponseWriter, r *http.Request)
}

type participantHandlerImpl struct {
	participantService participant.ParticipantService
}

func NewParticipantHandler(participantService participant.ParticipantService) ParticipantHandler {
	return &participantHandlerImpl{participantService: participantService}
}

func (h *participantHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := participant.ParticipantFilter{
		Site:   queryPtr(r, "site"),
		Hostel: queryPtr(r, "hostel"),
		Search: queryPtr(r, "search"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	result, err := h.participantService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *participantHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.participantService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *participantHandlerImpl) StageEdit(w http.ResponseWriter, r *http.Request) {
	var req participant.UpdateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("StageEdit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	edit, err := h.participantService.StageEdit(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Edit staged; confirm the participant's site to apply it", edit)
}

func (h *participantHandlerImpl) ConfirmEdit(w http.ResponseWriter, r *http.Request) {
	var req participant.ConfirmEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ConfirmEdit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.participantService.ConfirmEdit(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Participant updated successfully", result)
}
