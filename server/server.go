package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"task-service/auth"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Auth types understood by Register
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
)

const maintenanceMessage = "The site is under maintenance, please try again soon!"

// Server is the HTTP surface: a gorilla/mux router behind the maintenance
// switch, with bearer routes resolved through the auth gate before the
// handler runs.
type Server struct {
	router      *mux.Router
	gate        *auth.Gate
	maintenance bool
}

func New(gate *auth.Gate, maintenance bool) *Server {
	return &Server{
		router:      mux.NewRouter(),
		gate:        gate,
		maintenance: maintenance,
	}
}

// Register adds route to the router. The handler's context carries the
// httpserver route keys and, for AuthBearer routes, a RequestAuth whose
// Claims hold the caller's auth.Identity.
func (s *Server) Register(route httpserver.Route, handler httpserver.Handler) {
	s.router.HandleFunc(route.Path, s.wrapHandler(route, handler)).Methods(route.Method).Name(route.Name)
}

func (s *Server) wrapHandler(route httpserver.Route, handler httpserver.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, httpserver.RouteNameKey, route.Name)
		ctx = context.WithValue(ctx, httpserver.RouteMethodKey, route.Method)
		ctx = context.WithValue(ctx, httpserver.RoutePathKey, route.Path)
		ctx = context.WithValue(ctx, httpserver.AuthTypeKey, route.AuthType)

		if route.AuthType == AuthBearer {
			ident, err := s.gate.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				rejectAuth(ctx, w, err)
				return
			}
			ctx = context.WithValue(ctx, httpserver.RequestAuthKey, httpserver.RequestAuth{
				Type:   AuthBearer,
				Client: ident.User.ID,
				Claims: ident,
			})
		}

		handler.Handle(ctx, w, r.WithContext(ctx))
	}
}

// ServeHTTP answers 503 on every path while in maintenance
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.maintenance {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": maintenanceMessage})
		return
	}
	s.router.ServeHTTP(w, r)
}

func rejectAuth(ctx context.Context, w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if errors.Is(err, auth.ErrUnauthenticated) {
		logger.Debug("Unauthenticated request",
			zap.String("route", httpserver.GetRouteName(ctx)),
			zap.String("path", httpserver.GetRoutePath(ctx)))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewAuthenticationError(auth.ErrUnauthenticated.Error()))
		return
	}

	logger.Error("Session lookup failed", zap.String("route", httpserver.GetRouteName(ctx)), zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(errs.NewInternalServerError("Internal server error"))
}
