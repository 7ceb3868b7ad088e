package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"recipe-service/accounts"
	"recipe-service/database"
	"recipe-service/forms"
)

// logRequest logs message with the route and caller taken from the
// httpserver context. Callers add record ids as fields.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", httpserver.GetRouteMethod(ctx)),
		zap.String("path", httpserver.GetRoutePath(ctx)),
	}, fields...)
	if auth := httpserver.GetRequestAuth(ctx); auth != nil {
		actor := actorFromAuth(auth)
		allFields = append(allFields,
			zap.String("actor", actor.Name),
			zap.String("auth_type", auth.Type),
			zap.Bool("can_change", actor.CanChangeUsers()),
		)
	}

	logMsg := routeName + ": " + message
	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// validationResponse is the 400 body for field errors
type validationResponse struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps flow and store errors onto HTTP responses; what names the
// record in messages, e.g. "User"
func writeError(ctx context.Context, w http.ResponseWriter, err error, what string) {
	var fieldErrs forms.Errors
	switch {
	case errors.As(err, &fieldErrs):
		logRequest(ctx, "info", "Validation failed", zap.Any("fields", fieldErrs.Fields()))
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Validation failed", Fields: fieldErrs.Fields()})
	case errors.Is(err, database.ErrNotFound), errors.Is(err, accounts.ErrUserNotFound):
		logRequest(ctx, "info", what+" not found")
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError(what+" not found"))
	case errors.Is(err, accounts.ErrPermissionDenied):
		logRequest(ctx, "info", "Permission denied")
		writeJSON(w, http.StatusForbidden, errs.NewAuthorizationError("You do not have permission to perform this action"))
	case errors.Is(err, database.ErrInvalidReference):
		logRequest(ctx, "info", "Invalid reference", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Referenced record does not exist"))
	default:
		logRequest(ctx, "error", "Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Internal server error"))
	}
}

// parseID reads the {id} path variable
func parseID(ctx context.Context, w http.ResponseWriter, r *http.Request, what string) (int, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		logRequest(ctx, "error", "Invalid "+what+" ID", zap.String("id", idStr))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid "+what+" ID"))
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON body into v. An empty body leaves v at its zero
// value so the form reports the missing fields.
func decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return false
	}
	return true
}

// actorFromAuth rebuilds the caller from the claims set by the server's auth check
func actorFromAuth(auth *httpserver.RequestAuth) accounts.Actor {
	if auth == nil {
		return accounts.Actor{}
	}
	actor := accounts.Actor{Name: auth.Client}
	claims, _ := auth.Claims.(map[string]interface{})
	switch perms := claims["permissions"].(type) {
	case []string:
		actor.Permissions = perms
	case []interface{}:
		for _, p := range perms {
			if s, ok := p.(string); ok {
				actor.Permissions = append(actor.Permissions, s)
			}
		}
	}
	return actor
}

// requireChange answers 403 unless the caller may modify records
func requireChange(ctx context.Context, w http.ResponseWriter) bool {
	if actorFromAuth(httpserver.GetRequestAuth(ctx)).CanChangeUsers() {
		return true
	}
	writeError(ctx, w, accounts.ErrPermissionDenied, "")
	return false
}

// modeFor picks full or partial validation from the HTTP method
func modeFor(r *http.Request) forms.Mode {
	if r.Method == http.MethodPatch {
		return forms.ModePartial
	}
	return forms.ModeUpdate
}

// listQuery reads search, ordering and limit/offset query parameters
func listQuery(r *http.Request) (search, orderBy string, limit, offset int) {
	q := r.URL.Query()
	search = q.Get("search")
	orderBy = q.Get("ordering")
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return search, orderBy, limit, offset
}
