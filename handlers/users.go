package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"

	"recipe-service/accounts"
	cachekeys "recipe-service/cache"
	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
)

const usersKind = "users"

// UserHandler serves the REST user endpoints
type UserHandler struct {
	store    *database.Store
	accounts *accounts.Service
	cache    cache.Cache
}

// NewUserHandler creates a new user handler
func NewUserHandler(store *database.Store, svc *accounts.Service, cache cache.Cache) *UserHandler {
	return &UserHandler{
		store:    store,
		accounts: svc,
		cache:    cache,
	}
}

// GetUsers handles GET /users - list users, optionally filtered with
// search, is_active, ordering, limit and offset
func (h *UserHandler) GetUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing users")

	cacheKey := cachekeys.ListKey(usersKind)
	unfiltered := r.URL.RawQuery == ""
	if unfiltered {
		if cached, err := h.cache.Get(cacheKey); err == nil {
			if body, ok := cachekeys.Bytes(cached); ok {
				logRequest(ctx, "debug", "Serving from cache")
				w.Header().Set("Content-Type", "application/json")
				w.Write(body)
				return
			}
		}
	}

	search, orderBy, limit, offset := listQuery(r)
	query := models.UserQuery{Search: search, OrderBy: orderBy, Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errs.NewValidationError("is_active must be true or false"))
			return
		}
		query.IsActive = &active
	}

	users, total, err := h.store.ListUsers(ctx, query)
	if err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	response, _ := json.Marshal(users)
	if unfiltered {
		h.cache.Set(cacheKey, response, cachekeys.ListTTL)
	}

	logRequest(ctx, "info", "Users retrieved successfully", zap.Int("count", len(users)), zap.Int("total", total))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// GetUser handles GET /users/{id} - get user by ID
func (h *UserHandler) GetUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(ctx, w, r, "user")
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting user", zap.Int("user_id", id))

	cacheKey := cachekeys.RecordKey(usersKind, id)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cachekeys.Bytes(cached); ok {
			logRequest(ctx, "debug", "Serving user from cache", zap.Int("user_id", id))
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	user, err := h.store.GetUserByID(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	response, _ := json.Marshal(user)
	h.cache.Set(cacheKey, response, cachekeys.RecordTTL)

	logRequest(ctx, "info", "User retrieved successfully", zap.Int("user_id", id))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// CreateUser handles POST /users - create a user; password and confirmation are required
func (h *UserHandler) CreateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}

	var req models.UserRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Creating user")

	user, err := h.accounts.Save(ctx, 0, forms.UserPayload{UserRequest: req}, forms.ModeCreate)
	if err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	h.cache.Delete(cachekeys.ListKey(usersKind))

	logRequest(ctx, "info", "User created successfully", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT and PATCH /users/{id} - update a user. An empty
// password leaves the stored one unchanged.
func (h *UserHandler) UpdateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "user")
	if !ok {
		return
	}

	var req models.UserRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Updating user", zap.Int("user_id", id))

	user, err := h.accounts.Save(ctx, id, forms.UserPayload{UserRequest: req}, modeFor(r))
	if err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	h.invalidate(id)

	logRequest(ctx, "info", "User updated successfully", zap.Int("user_id", id))
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword handles POST /users/{id}/password - replace a user's
// password. Permission and existence are checked before the body is read.
func (h *UserHandler) ChangePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(ctx, w, r, "user")
	if !ok {
		return
	}

	logRequest(ctx, "info", "Changing password", zap.Int("user_id", id))

	actor := actorFromAuth(httpserver.GetRequestAuth(ctx))
	if !actor.CanChangeUsers() {
		writeError(ctx, w, accounts.ErrPermissionDenied, "User")
		return
	}
	if _, err := h.store.GetUserByID(ctx, id); err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	var req models.PasswordChangeRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	msg, err := h.accounts.ChangePassword(ctx, actor, id, forms.PasswordChange{
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	h.invalidate(id)

	logRequest(ctx, "info", "Password changed", zap.Int("user_id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// DeleteUser handles DELETE /users/{id} - delete a user and their recipes
func (h *UserHandler) DeleteUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "user")
	if !ok {
		return
	}

	logRequest(ctx, "info", "Deleting user", zap.Int("user_id", id))

	if err := h.store.DeleteUser(ctx, id); err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	h.invalidate(id)
	h.cache.Delete(cachekeys.ListKey(recipesKind))

	logRequest(ctx, "info", "User deleted successfully", zap.Int("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) invalidate(id int) {
	invalidateUser(h.cache, id)
}

// invalidateUser drops the cached user list and the cached record of id
func invalidateUser(c cache.Cache, id int) {
	c.Delete(cachekeys.ListKey(usersKind))
	c.Delete(cachekeys.RecordKey(usersKind, id))
}
