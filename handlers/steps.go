package handlers

import (
	"context"
	"net/http"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"

	cachekeys "recipe-service/cache"
	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
)

// StepHandler serves the REST step endpoints
type StepHandler struct {
	store *database.Store
	cache cache.Cache
}

// NewStepHandler creates a new step handler
func NewStepHandler(store *database.Store, cache cache.Cache) *StepHandler {
	return &StepHandler{
		store: store,
		cache: cache,
	}
}

// GetSteps handles GET /steps - list steps
func (h *StepHandler) GetSteps(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	search, orderBy, limit, offset := listQuery(r)
	steps, total, err := h.store.ListSteps(ctx, models.ListQuery{Search: search, OrderBy: orderBy, Limit: limit, Offset: offset})
	if err != nil {
		writeError(ctx, w, err, "Step")
		return
	}

	logRequest(ctx, "info", "Steps retrieved successfully", zap.Int("count", len(steps)), zap.Int("total", total))
	writeJSON(w, http.StatusOK, steps)
}

// GetStep handles GET /steps/{id} - get step by ID
func (h *StepHandler) GetStep(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(ctx, w, r, "step")
	if !ok {
		return
	}

	step, err := h.store.GetStep(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "Step")
		return
	}
	writeJSON(w, http.StatusOK, step)
}

// CreateStep handles POST /steps - create a step
func (h *StepHandler) CreateStep(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}

	var req models.StepRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	cleaned, errs := forms.StepPayload{StepRequest: req}.Clean(forms.ModeCreate)
	if err := errs.Err(); err != nil {
		writeError(ctx, w, err, "Step")
		return
	}

	step := &models.Step{StepText: *cleaned.StepText}
	if err := h.store.CreateStep(ctx, step); err != nil {
		writeError(ctx, w, err, "Step")
		return
	}

	logRequest(ctx, "info", "Step created successfully", zap.Int("step_id", step.ID))
	writeJSON(w, http.StatusCreated, step)
}

// UpdateStep handles PUT and PATCH /steps/{id} - update a step
func (h *StepHandler) UpdateStep(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "step")
	if !ok {
		return
	}

	var req models.StepRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	step, err := h.store.GetStep(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "Step")
		return
	}

	cleaned, errs := forms.StepPayload{StepRequest: req}.Clean(modeFor(r))
	if err := errs.Err(); err != nil {
		writeError(ctx, w, err, "Step")
		return
	}
	if cleaned.StepText != nil {
		step.StepText = *cleaned.StepText
	}

	if err := h.store.UpdateStep(ctx, step); err != nil {
		writeError(ctx, w, err, "Step")
		return
	}

	logRequest(ctx, "info", "Step updated successfully", zap.Int("step_id", id))
	writeJSON(w, http.StatusOK, step)
}

// DeleteStep handles DELETE /steps/{id} - delete a step and unlink it from recipes
func (h *StepHandler) DeleteStep(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "step")
	if !ok {
		return
	}

	if err := h.store.DeleteStep(ctx, id); err != nil {
		writeError(ctx, w, err, "Step")
		return
	}

	h.cache.Delete(cachekeys.ListKey(recipesKind))

	logRequest(ctx, "info", "Step deleted successfully", zap.Int("step_id", id))
	w.WriteHeader(http.StatusNoContent)
}
