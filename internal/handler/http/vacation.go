package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/jwt"
)

type VacationHandler interface {
	GetDraft(w http.ResponseWriter, r *http.Request)
	AddItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	RemoveItem(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type vacationHandlerImpl struct {
	vacationService leave.VacationService
}

func NewVacationHandler(vacationService leave.VacationService) VacationHandler {
	return &vacationHandlerImpl{vacationService: vacationService}
}

// identityFrom returns the caller or writes the error response.
func identityFrom(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return user.Identity{}, false
	}
	return identity, true
}

func itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, "Item index must be a number", nil)
		return 0, false
	}
	return index, true
}

func (h *vacationHandlerImpl) GetDraft(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	draft, err := h.vacationService.GetDraft(r.Context(), identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, draft)
}

func (h *vacationHandlerImpl) AddItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	draft, err := h.vacationService.AddItem(r.Context(), identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, draft)
}

func (h *vacationHandlerImpl) UpdateItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}

	var req leave.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("UpdateItem decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	draft, err := h.vacationService.UpdateItem(r.Context(), identity, index, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, draft)
}

func (h *vacationHandlerImpl) RemoveItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}

	draft, err := h.vacationService.RemoveItem(r.Context(), identity, index)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, draft)
}

func (h *vacationHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	draft, err := h.vacationService.Submit(r.Context(), identity)
	if err != nil {
		response.HandleErrorWithDefault(w, err, leave.DefaultSubmitErrorMessage)
		return
	}

	response.SuccessWithMessage(w, "Vacation request submitted successfully", draft)
}

// Reset discards the draft when the user leaves the form.
func (h *vacationHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	if err := h.vacationService.Reset(r.Context(), identity); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Vacation draft discarded", nil)
}
