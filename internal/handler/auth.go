package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

type AuthHandler struct {
	service   service.AuthServiceInterface
	validator *validator.Validate
}

func NewAuthHandler(service service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: newValidator(),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	res, err := h.service.Register(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, res)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(r, h.validator, &req); err != nil {
		response.FromError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, res)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	user, err := h.service.Me(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}
