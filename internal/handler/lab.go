package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

type LabHandler struct {
	service   service.LabServiceInterface
	validator *validator.Validate
}

func NewLabHandler(service service.LabServiceInterface) *LabHandler {
	return &LabHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *LabHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	labs, err := h.service.List(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, labs)
}

func (h *LabHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	labID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	lab, err := h.service.Get(r.Context(), id, labID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, lab)
}

func (h *LabHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.CreateLabRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	lab, err := h.service.Create(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, lab)
}

func (h *LabHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	labID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.UpdateLabRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	lab, err := h.service.Update(r.Context(), id, labID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, lab)
}

func (h *LabHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	labID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, labID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Laboratorio eliminado")
}
