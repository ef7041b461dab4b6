package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

type UserHandler struct {
	service   service.UserServiceInterface
	validator *validator.Validate
	paging    Paging
}

func NewUserHandler(service service.UserServiceInterface, paging Paging) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: newValidator(),
		paging:    paging,
	}
}

// List handles GET /api/usuarios?role=&lab_id=&q=&page=&size=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	filter := domain.UserFilter{Search: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("role"); raw != "" {
		filter.Role = domain.Role(raw)
		if !filter.Role.Valid() {
			response.FromError(w, customError.ValidationField("role", "must be one of: admin user"))
			return
		}
	}
	if filter.LabID, err = queryUUID(r, "lab_id"); err != nil {
		response.FromError(w, err)
		return
	}
	page, size, offset := h.paging.page(r)
	filter.Limit, filter.Offset = size, offset

	users, total, err := h.service.List(r.Context(), id, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.Page[*domain.User]{Items: users, Total: total, Page: page, Size: size})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	user, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.CreateUserRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}
	var req domain.UpdateUserRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	user, err := h.service.Update(r.Context(), id, userID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Usuario eliminado")
}
