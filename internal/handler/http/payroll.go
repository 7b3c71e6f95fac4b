package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/employee-portal-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GetSession(w http.ResponseWriter, r *http.Request)
	BeginEdit(w http.ResponseWriter, r *http.Request)
	SetField(w http.ResponseWriter, r *http.Request)
	CancelEdit(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// periodFrom reads {year} and {month} from the route.
func periodFrom(w http.ResponseWriter, r *http.Request) (payroll.Period, bool) {
	year, errYear := strconv.Atoi(chi.URLParam(r, "year"))
	month, errMonth := strconv.Atoi(chi.URLParam(r, "month"))
	if errYear != nil || errMonth != nil {
		response.BadRequest(w, "Invalid payroll period", nil)
		return payroll.Period{}, false
	}

	period := payroll.Period{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		response.HandleError(w, err)
		return payroll.Period{}, false
	}
	return period, true
}

func (h *payrollHandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	period, ok := periodFrom(w, r)
	if !ok {
		return
	}

	session, err := h.payrollService.GetSession(r.Context(), identity, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, session)
}

func (h *payrollHandlerImpl) BeginEdit(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	period, ok := periodFrom(w, r)
	if !ok {
		return
	}

	session, err := h.payrollService.BeginEdit(r.Context(), identity, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, session)
}

func (h *payrollHandlerImpl) SetField(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	period, ok := periodFrom(w, r)
	if !ok {
		return
	}

	var req payroll.SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("SetField decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	session, err := h.payrollService.SetField(r.Context(), identity, period, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, session)
}

func (h *payrollHandlerImpl) CancelEdit(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	period, ok := periodFrom(w, r)
	if !ok {
		return
	}

	session, err := h.payrollService.CancelEdit(r.Context(), identity, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, session)
}

func (h *payrollHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	period, ok := periodFrom(w, r)
	if !ok {
		return
	}

	session, err := h.payrollService.Save(r.Context(), identity, period)
	if err != nil {
		response.HandleErrorWithDefault(w, err, payroll.DefaultSaveErrorMessage)
		return
	}

	response.SuccessWithMessage(w, "Salary saved successfully", session)
}
