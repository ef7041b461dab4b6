package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

type EquipmentHandler struct {
	service   service.EquipmentServiceInterface
	validator *validator.Validate
	paging    Paging
}

func NewEquipmentHandler(service service.EquipmentServiceInterface, paging Paging) *EquipmentHandler {
	return &EquipmentHandler{
		service:   service,
		validator: newValidator(),
		paging:    paging,
	}
}

// List handles GET /api/equipos?lab_id=&category=&q=&available=&page=&size=
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	labID, err := queryUUID(r, "lab_id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, size, offset := h.paging.page(r)
	filter := domain.EquipmentFilter{
		LabID:         labID,
		Category:      r.URL.Query().Get("category"),
		Search:        r.URL.Query().Get("q"),
		OnlyAvailable: queryBool(r, "available"),
		Limit:         size,
		Offset:        offset,
	}

	items, total, err := h.service.List(r.Context(), id, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.Page[*domain.Equipment]{Items: items, Total: total, Page: page, Size: size})
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	equipmentID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	e, err := h.service.Get(r.Context(), id, equipmentID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, e)
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.CreateEquipmentRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	e, err := h.service.Create(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, e)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	equipmentID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.UpdateEquipmentRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	e, err := h.service.Update(r.Context(), id, equipmentID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, e)
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	equipmentID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, equipmentID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Equipo eliminado")
}
