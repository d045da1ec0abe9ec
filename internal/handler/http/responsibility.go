package http

import (
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/responsibility"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
)

type ResponsibilityHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type responsibilityHandlerImpl struct {
	responsibilityService responsibility.ResponsibilityService
}

func NewResponsibilityHandler(responsibilityService responsibility.ResponsibilityService) ResponsibilityHandler {
	return &responsibilityHandlerImpl{responsibilityService: responsibilityService}
}

// List handles GET /responsibilities
func (h *responsibilityHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	filter := responsibility.ResponsibilityFilter{
		Cycle:           queryPtr(r, "cycle"),
		SubDepartmentID: queryPtr(r, "sub_department_id"),
		GroupID:         queryPtr(r, "group_id"),
		StaffID:         queryPtr(r, "staff_id"),
	}

	result, err := h.responsibilityService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
