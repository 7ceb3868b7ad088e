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

// IngredientHandler serves the REST ingredient endpoints
type IngredientHandler struct {
	store *database.Store
	cache cache.Cache
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(store *database.Store, cache cache.Cache) *IngredientHandler {
	return &IngredientHandler{
		store: store,
		cache: cache,
	}
}

// GetIngredients handles GET /ingredients - list ingredients
func (h *IngredientHandler) GetIngredients(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	search, orderBy, limit, offset := listQuery(r)
	ingredients, total, err := h.store.ListIngredients(ctx, models.ListQuery{Search: search, OrderBy: orderBy, Limit: limit, Offset: offset})
	if err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}

	logRequest(ctx, "info", "Ingredients retrieved successfully", zap.Int("count", len(ingredients)), zap.Int("total", total))
	writeJSON(w, http.StatusOK, ingredients)
}

// GetIngredient handles GET /ingredients/{id} - get ingredient by ID
func (h *IngredientHandler) GetIngredient(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(ctx, w, r, "ingredient")
	if !ok {
		return
	}

	ingredient, err := h.store.GetIngredient(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// CreateIngredient handles POST /ingredients - create an ingredient
func (h *IngredientHandler) CreateIngredient(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}

	var req models.IngredientRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	cleaned, errs := forms.IngredientPayload{IngredientRequest: req}.Clean(forms.ModeCreate)
	if err := errs.Err(); err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}

	ingredient := &models.Ingredient{Text: *cleaned.Text}
	if err := h.store.CreateIngredient(ctx, ingredient); err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}

	logRequest(ctx, "info", "Ingredient created successfully", zap.Int("ingredient_id", ingredient.ID))
	writeJSON(w, http.StatusCreated, ingredient)
}

// UpdateIngredient handles PUT and PATCH /ingredients/{id} - update an ingredient
func (h *IngredientHandler) UpdateIngredient(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "ingredient")
	if !ok {
		return
	}

	var req models.IngredientRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	ingredient, err := h.store.GetIngredient(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}

	cleaned, errs := forms.IngredientPayload{IngredientRequest: req}.Clean(modeFor(r))
	if err := errs.Err(); err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}
	if cleaned.Text != nil {
		ingredient.Text = *cleaned.Text
	}

	if err := h.store.UpdateIngredient(ctx, ingredient); err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}

	logRequest(ctx, "info", "Ingredient updated successfully", zap.Int("ingredient_id", id))
	writeJSON(w, http.StatusOK, ingredient)
}

// DeleteIngredient handles DELETE /ingredients/{id} - delete an ingredient and unlink it from recipes
func (h *IngredientHandler) DeleteIngredient(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "ingredient")
	if !ok {
		return
	}

	if err := h.store.DeleteIngredient(ctx, id); err != nil {
		writeError(ctx, w, err, "Ingredient")
		return
	}

	h.cache.Delete(cachekeys.ListKey(recipesKind))

	logRequest(ctx, "info", "Ingredient deleted successfully", zap.Int("ingredient_id", id))
	w.WriteHeader(http.StatusNoContent)
}
