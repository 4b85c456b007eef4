package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"task-service/auth"
	"task-service/service"

	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs the request with the specified format
// (timestamp - route - method - path - client) followed by message
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	allFields := []zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}
	if requestAuth := httpserver.GetRequestAuth(ctx); requestAuth != nil {
		logMsg += " - client:" + requestAuth.Client
		allFields = append(allFields, zap.String("user_id", requestAuth.Client))
	}
	if message != "" {
		logMsg += " - " + message
	}
	allFields = append(allFields, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service and auth errors onto status codes.
// Anything unrecognised is a 500 whose body never carries the cause.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		logRequest(ctx, "info", "Validation failed", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError(service.ValidationMessage(err)))
	case errors.Is(err, service.ErrInvalidUpdates):
		logRequest(ctx, "info", "Rejected update fields")
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError(service.ErrInvalidUpdates.Error()))
	case errors.Is(err, service.ErrUnableToLogin):
		logRequest(ctx, "info", "Login failed")
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError(service.ErrUnableToLogin.Error()))
	case errors.Is(err, service.ErrUploadRejected):
		writeUploadError(ctx, w, err)
	case errors.Is(err, service.ErrNotFound):
		logRequest(ctx, "info", "Not found")
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Not found"))
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errs.NewAuthenticationError(auth.ErrUnauthenticated.Error()))
	default:
		logRequest(ctx, "error", "Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Internal server error"))
	}
}

// decodeJSON reads a JSON body into v, answering 400 itself on failure
func decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return false
	}
	return true
}

// decodeUpdate decodes a PATCH body into v after checking its keys against allowed
func decodeUpdate(ctx context.Context, w http.ResponseWriter, r *http.Request, allowed []string, v interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logRequest(ctx, "error", "Failed to read request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return false
	}

	fields := make([]string, 0, len(raw))
	for k := range raw {
		fields = append(fields, k)
	}
	if err := service.CheckAllowed(fields, allowed); err != nil {
		logRequest(ctx, "info", "Invalid update fields", zap.Strings("fields", fields))
		writeError(ctx, w, err)
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		logRequest(ctx, "error", "Invalid update body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return false
	}
	return true
}

// identityFromContext returns the caller the server stored in the request auth claims
func identityFromContext(ctx context.Context) (auth.Identity, bool) {
	requestAuth := httpserver.GetRequestAuth(ctx)
	if requestAuth == nil {
		return auth.Identity{}, false
	}
	ident, ok := requestAuth.Claims.(auth.Identity)
	if !ok || ident.User == nil {
		return auth.Identity{}, false
	}
	return ident, true
}

// identity returns the caller attached by the auth middleware.
// Reaching a protected handler without one is a wiring bug, reported as 401.
func identity(ctx context.Context, w http.ResponseWriter) (auth.Identity, bool) {
	ident, ok := identityFromContext(ctx)
	if !ok {
		writeError(ctx, w, auth.ErrUnauthenticated)
	}
	return ident, ok
}
