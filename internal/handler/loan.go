package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

type LoanHandler struct {
	service   service.LoanServiceInterface
	sweep     service.SweepServiceInterface
	validator *validator.Validate
	paging    Paging
}

func NewLoanHandler(loans service.LoanServiceInterface, sweep service.SweepServiceInterface, paging Paging) *LoanHandler {
	return &LoanHandler{
		service:   loans,
		sweep:     sweep,
		validator: newValidator(),
		paging:    paging,
	}
}

// Create handles POST /api/prestamos
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.CreateLoanRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.Create(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, loan)
}

// List handles GET /api/prestamos?status=&lab_id=&user_id=&from=&to=&page=&size=
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	filter, err := h.loanFilter(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	page, size, offset := h.paging.page(r)
	filter.Limit, filter.Offset = size, offset

	loans, total, err := h.service.List(r.Context(), id, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.Page[*domain.Loan]{Items: loans, Total: total, Page: page, Size: size})
}

func (h *LoanHandler) loanFilter(r *http.Request) (domain.LoanFilter, error) {
	var filter domain.LoanFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.LoanStatus(raw)
		if !status.Valid() {
			return filter, customError.ValidationField("status", "must be one of: active returned overdue")
		}
		filter.Status = &status
	}

	var err error
	if filter.LabID, err = queryUUID(r, "lab_id"); err != nil {
		return filter, err
	}
	if filter.UserID, err = queryUUID(r, "user_id"); err != nil {
		return filter, err
	}
	if filter.From, err = queryTime(r, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(r, "to", true); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	loanID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.Get(r.Context(), id, loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loan)
}

// Return handles POST /api/prestamos/{id}/devolucion. An empty body returns
// every line in full.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	loanID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.ReturnLoanRequest
	if err := decodeOptional(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.Return(r.Context(), id, loanID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loan)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	loanID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, loanID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Préstamo eliminado")
}

// Report handles GET /api/prestamos/report?lab_id=&from=&to=
func (h *LoanHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var filter domain.ReportFilter
	if filter.LabID, err = queryUUID(r, "lab_id"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.From, err = queryTime(r, "from", false); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.To, err = queryTime(r, "to", true); err != nil {
		response.FromError(w, err)
		return
	}

	report, err := h.service.Report(r.Context(), id, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, report)
}

// Sweep handles POST /api/prestamos/sweep
func (h *LoanHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.sweep.Trigger(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}
