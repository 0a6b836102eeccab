package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"parkspot/internal/auth"
	"parkspot/internal/db"
)

type RouterConfig struct {
	Tokens         *auth.Tokens
	AllowedOrigins []string
	RequestTimeout time.Duration
	AccessLog      io.Writer
}

type Handlers struct {
	Reservations *ReservationHandler
	Parking      *ParkingHandler
	Auth         *AuthHandler
	Traces       *TraceHandler
	Users        *UserHandler
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	authenticated := func(fn http.HandlerFunc) http.Handler {
		return auth.Authenticate(cfg.Tokens)(fn)
	}
	atLeast := func(role db.Role, fn http.HandlerFunc) http.Handler {
		return auth.Authenticate(cfg.Tokens)(auth.RequireRole(role)(fn))
	}

	r := mux.NewRouter()
	r.Use(requestTimeout(cfg.RequestTimeout))

	// Public endpoints
	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	// Reservations
	r.Handle("/reservations", authenticated(h.Reservations.CreateReservation)).Methods(http.MethodPost)
	r.Handle("/reservations/search", atLeast(db.RoleEmployee, h.Reservations.SearchReservations)).Methods(http.MethodGet)
	r.Handle("/reservations/{id}", atLeast(db.RoleEmployee, h.Reservations.GetReservation)).Methods(http.MethodGet)
	r.Handle("/reservations/{id}/status", atLeast(db.RoleAdmin, h.Reservations.UpdateStatus)).Methods(http.MethodPut)

	// Parking
	r.Handle("/parking/search", atLeast(db.RoleEmployee, h.Parking.SearchSpots)).Methods(http.MethodGet)
	r.Handle("/parking/availability", atLeast(db.RoleEmployee, h.Parking.Availability)).Methods(http.MethodGet)

	// Users
	r.Handle("/users", atLeast(db.RoleEmployee, h.Users.CreateUser)).Methods(http.MethodPost)
	r.Handle("/users/search", atLeast(db.RoleEmployee, h.Users.SearchUsers)).Methods(http.MethodGet)
	r.Handle("/users/{id}", atLeast(db.RoleEmployee, h.Users.GetUser)).Methods(http.MethodGet)
	r.Handle("/users/{id}", atLeast(db.RoleEmployee, h.Users.UpdateUser)).Methods(http.MethodPatch)
	r.Handle("/users/{id}", atLeast(db.RoleAdmin, h.Users.DeleteUser)).Methods(http.MethodDelete)

	// Audit
	r.Handle("/traces", atLeast(db.RoleAdmin, h.Traces.SearchTraces)).Methods(http.MethodGet)

	var handler http.Handler = handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(r)
	if cfg.AccessLog != nil {
		handler = handlers.CombinedLoggingHandler(cfg.AccessLog, handler)
	}
	return handler
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestTimeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
