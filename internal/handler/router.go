package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/lab-loan-engine/pkg/response"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Labs          *LabHandler
	Equipment     *EquipmentHandler
	Loans         *LoanHandler
	Users         *UserHandler
	Notifications *NotificationHandler
}

// NewRouter mounts the public auth routes and the bearer-protected API. CORS
// wraps the router so preflight requests never reach route matching.
func NewRouter(h Handlers, verifier TokenVerifier, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(RequireAuth(verifier))

	private.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	private.HandleFunc("/laboratorios", h.Labs.List).Methods(http.MethodGet)
	private.HandleFunc("/laboratorios", h.Labs.Create).Methods(http.MethodPost)
	private.HandleFunc("/laboratorios/{id}", h.Labs.Get).Methods(http.MethodGet)
	private.HandleFunc("/laboratorios/{id}", h.Labs.Update).Methods(http.MethodPut)
	private.HandleFunc("/laboratorios/{id}", h.Labs.Delete).Methods(http.MethodDelete)

	private.HandleFunc("/equipos", h.Equipment.List).Methods(http.MethodGet)
	private.HandleFunc("/equipos", h.Equipment.Create).Methods(http.MethodPost)
	private.HandleFunc("/equipos/{id}", h.Equipment.Get).Methods(http.MethodGet)
	private.HandleFunc("/equipos/{id}", h.Equipment.Update).Methods(http.MethodPut)
	private.HandleFunc("/equipos/{id}", h.Equipment.Delete).Methods(http.MethodDelete)

	// static segments go before {id}
	private.HandleFunc("/prestamos/sweep", h.Loans.Sweep).Methods(http.MethodPost)
	private.HandleFunc("/prestamos/report", h.Loans.Report).Methods(http.MethodGet)
	private.HandleFunc("/prestamos", h.Loans.List).Methods(http.MethodGet)
	private.HandleFunc("/prestamos", h.Loans.Create).Methods(http.MethodPost)
	private.HandleFunc("/prestamos/{id}", h.Loans.Get).Methods(http.MethodGet)
	private.HandleFunc("/prestamos/{id}", h.Loans.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/prestamos/{id}/devolucion", h.Loans.Return).Methods(http.MethodPost)

	private.HandleFunc("/usuarios", h.Users.List).Methods(http.MethodGet)
	private.HandleFunc("/usuarios", h.Users.Create).Methods(http.MethodPost)
	private.HandleFunc("/usuarios/{id}", h.Users.Get).Methods(http.MethodGet)
	private.HandleFunc("/usuarios/{id}", h.Users.Update).Methods(http.MethodPut)
	private.HandleFunc("/usuarios/{id}", h.Users.Delete).Methods(http.MethodDelete)

	private.HandleFunc("/notificaciones", h.Notifications.List).Methods(http.MethodGet)
	private.HandleFunc("/notificaciones/unread-count", h.Notifications.UnreadCount).Methods(http.MethodGet)
	private.HandleFunc("/notificaciones/read-all", h.Notifications.MarkAllRead).Methods(http.MethodPut)
	private.HandleFunc("/notificaciones/{id}/read", h.Notifications.MarkRead).Methods(http.MethodPut)
	private.HandleFunc("/notificaciones/{id}", h.Notifications.Delete).Methods(http.MethodDelete)

	return response.CORSMiddleware(router)
}
