package http

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SubmissionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
}

type submissionHandlerImpl struct {
	submissionService submission.SubmissionService
}

func NewSubmissionHandler(submissionService submission.SubmissionService) SubmissionHandler {
	return &submissionHandlerImpl{submissionService: submissionService}
}

// Create handles POST /submissions. Accepts JSON, or multipart with a "data" JSON field and an optional "proof" file.
func (h *submissionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req submission.CreateSubmissionRequest
	var proof *submission.ProofFile

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return
		}

		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		file, fileHeader, err := r.FormFile("proof")
		if err != nil && err != http.ErrMissingFile {
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if file != nil {
			defer file.Close()
			proof = &submission.ProofFile{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
				Content:     file,
			}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create submission decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.submissionService.Create(r.Context(), actor, req, proof)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work submission created successfully", result)
}

// List handles GET /submissions
func (h *submissionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	filter := submission.SubmissionFilter{
		StaffID:         queryPtr(r, "staff_id"),
		SubDepartmentID: queryPtr(r, "sub_department_id"),
		AssignmentID:    queryPtr(r, "assignment_id"),
		Status:          queryPtr(r, "status"),
		StartDate:       queryPtr(r, "start_date"),
		EndDate:         queryPtr(r, "end_date"),
		Page:            queryInt(r, "page", 1),
		Limit:           queryInt(r, "limit", 20),
		SortBy:          r.URL.Query().Get("sort_by"),
		SortOrder:       r.URL.Query().Get("sort_order"),
	}

	result, err := h.submissionService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /submissions/{id}
func (h *submissionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.submissionService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Verify handles POST /submissions/{id}/verify
func (h *submissionHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req submission.VerifySubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Verify decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.submissionService.Verify(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Work submission rejected"
	if req.Approved != nil && *req.Approved {
		message = "Work submission verified"
	}
	response.SuccessWithMessage(w, message, result)
}
